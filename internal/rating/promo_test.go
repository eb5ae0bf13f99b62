package rating_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-telecom/backend-quote/internal/catalog"
	"github.com/meridian-telecom/backend-quote/internal/money"
	"github.com/meridian-telecom/backend-quote/internal/rating"
)

func promoSnapshot() *catalog.Snapshot {
	snap := testSnapshot()
	snap.Promotions = []catalog.Promotion{
		{
			ID:       "plan-10-off",
			Name:     "$10 Off Plan",
			Category: catalog.PromoPlan,
			Effects:  []catalog.Effect{{Kind: catalog.EffectFixedDiscount, Amount: 1000}},
			Conditions: []catalog.Condition{
				{Field: "lines", Operator: catalog.OpGreaterOrEqual, Value: 2},
			},
			IsActive: true,
		},
		{
			ID:       "plan-5-off",
			Name:     "$5 Off Plan",
			Category: catalog.PromoPlan,
			Effects:  []catalog.Effect{{Kind: catalog.EffectFixedDiscount, Amount: 500}},
			IsActive: true,
		},
		{
			ID:                 "a25-on-us",
			Name:               "Galaxy A25 On Us",
			Category:           catalog.PromoDevice,
			EligibleDeviceIDs:  []string{"galaxy-a25"},
			Effects:            []catalog.Effect{{Kind: catalog.EffectMonthlyCredit, Amount: 29900, Months: 24}},
			IsActive:           true,
		},
		{
			ID:                 "android-rebate",
			Name:               "Android Instant Rebate",
			Category:           catalog.PromoDevice,
			EligibleDeviceTags: []string{"android"},
			Effects:            []catalog.Effect{{Kind: catalog.EffectDeviceRebate, Amount: 5000}},
			IsActive:           true,
		},
		{
			ID:       "inactive-deal",
			Name:     "Expired Deal",
			Category: catalog.PromoPlan,
			Effects:  []catalog.Effect{{Kind: catalog.EffectFixedDiscount, Amount: 9900}},
			IsActive: false,
		},
	}
	return snap
}

func TestEligiblePromotionsFiltering(t *testing.T) {
	snap := promoSnapshot()
	cfg := &rating.QuoteConfig{PlanID: "essentials", Lines: 1, CustomerType: catalog.CustomerStandard}

	// One line: the conditioned plan promo drops out, the unconditioned one
	// stays, the inactive one never appears.
	eligible := rating.EligiblePromotions(snap, cfg, catalog.PromoPlan, nil)
	require.Len(t, eligible, 1)
	require.Equal(t, "plan-5-off", eligible[0].ID)

	cfg.Lines = 2
	eligible = rating.EligiblePromotions(snap, cfg, catalog.PromoPlan, nil)
	require.Len(t, eligible, 2)
}

func TestFirstEligibleReportsConflicts(t *testing.T) {
	snap := promoSnapshot()
	cfg := &rating.QuoteConfig{PlanID: "essentials", Lines: 2, CustomerType: catalog.CustomerStandard}

	winner, ok, conflicts := rating.FirstEligible(snap, cfg, catalog.PromoPlan, nil)
	require.True(t, ok)
	// Catalog order decides; the losers are reported, never summed.
	require.Equal(t, "plan-10-off", winner.ID)
	require.Equal(t, []string{"plan-5-off"}, conflicts)
}

func TestDeviceScopingByIDAndTag(t *testing.T) {
	snap := promoSnapshot()
	cfg := &rating.QuoteConfig{PlanID: "essentials", Lines: 1, CustomerType: catalog.CustomerStandard}

	a25 := snap.Devices["galaxy-a25"]
	watch := snap.Devices["pixel-watch"]

	eligible := rating.EligiblePromotions(snap, cfg, catalog.PromoDevice, &a25)
	require.Len(t, eligible, 2, "id match plus tag match")

	eligible = rating.EligiblePromotions(snap, cfg, catalog.PromoDevice, &watch)
	require.Empty(t, eligible, "wearable matches neither id nor tag scope")

	// A device-scoped promotion can never match without a device.
	eligible = rating.EligiblePromotions(snap, cfg, catalog.PromoDevice, nil)
	require.Empty(t, eligible)
}

func TestPromoTradeInMonthlyCredit(t *testing.T) {
	snap := promoSnapshot()
	cfg := &rating.QuoteConfig{
		CustomerType:           catalog.CustomerStandard,
		PlanID:                 "essentials",
		Lines:                  1,
		MaxEquipmentCredit:     1000,
		PerLineEquipmentCredit: 1000,
		InsuranceTier:          rating.InsuranceNone,
		Devices: []rating.Device{{
			ModelID:        "galaxy-a25",
			VariantSKU:     "a25-128",
			TradeInType:    rating.TradeInPromo,
			AppliedPromoID: "a25-on-us",
			TermMonths:     24,
		}},
	}

	totals, err := rating.CalculateTotals(cfg, snap)
	require.NoError(t, err)
	// round(29900/24) back each month: the device ends up free over the term.
	require.Equal(t, money.Cents(1246), totals.MonthlyPromoCreditCents)
	require.Equal(t, money.Cents(0), totals.MonthlyTradeInCreditCents)
}

func TestPromoTradeInInstantRebateReducesTaxBase(t *testing.T) {
	snap := promoSnapshot()
	cfg := &rating.QuoteConfig{
		CustomerType:           catalog.CustomerStandard,
		PlanID:                 "essentials",
		Lines:                  1,
		TaxRate:                10,
		MaxEquipmentCredit:     1000,
		PerLineEquipmentCredit: 1000,
		InsuranceTier:          rating.InsuranceNone,
		Devices: []rating.Device{{
			ModelID:        "galaxy-a25",
			VariantSKU:     "a25-128",
			TradeInType:    rating.TradeInPromo,
			AppliedPromoID: "android-rebate",
			TermMonths:     24,
		}},
	}

	totals, err := rating.CalculateTotals(cfg, snap)
	require.NoError(t, err)
	require.Equal(t, money.Cents(5000), totals.InstantRebateCents)
	// Tax on 29900 - 5000.
	require.Equal(t, money.Cents(2490), totals.DeviceTaxCents)
}

func TestAppliedPromoMismatchWarnsAndSkips(t *testing.T) {
	snap := promoSnapshot()
	cfg := &rating.QuoteConfig{
		CustomerType:           catalog.CustomerStandard,
		PlanID:                 "essentials",
		Lines:                  1,
		MaxEquipmentCredit:     1000,
		PerLineEquipmentCredit: 1000,
		InsuranceTier:          rating.InsuranceNone,
		Devices: []rating.Device{{
			ModelID:        "pixel-watch",
			VariantSKU:     "pw-41",
			TradeInType:    rating.TradeInPromo,
			AppliedPromoID: "a25-on-us",
			TermMonths:     24,
		}},
	}

	totals, err := rating.CalculateTotals(cfg, snap)
	require.NoError(t, err)
	require.Equal(t, money.Cents(0), totals.MonthlyPromoCreditCents)
	require.NotEmpty(t, totals.Warnings)
}
