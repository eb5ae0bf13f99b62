package rating

import (
	"fmt"

	"github.com/meridian-telecom/backend-quote/internal/catalog"
	"github.com/meridian-telecom/backend-quote/internal/money"
)

const (
	// tradeInScheduleMonths is the fixed amortization schedule for monthly
	// trade-in credits, independent of any device's own financing term.
	tradeInScheduleMonths = 24

	defaultDeviceTermMonths    = 24
	defaultAccessoryTermMonths = 12
)

// FinanceItem is one entry competing for the shared equipment credit pool.
// Price and down payment are per unit.
type FinanceItem struct {
	PriceCents       money.Cents
	DownPaymentCents money.Cents
	Quantity         int
	TermMonths       int
}

// FinanceAllocation is the outcome of pooling every financed item against the
// account's equipment credit limit.
type FinanceAllocation struct {
	TotalEquipmentCostCents  money.Cents
	OptionalDownPaymentCents money.Cents
	AmountToFinanceCents     money.Cents
	AvailableLimitCents      money.Cents
	RequiredDownPaymentCents money.Cents
	FinancedPrincipalCents   money.Cents

	// FinancedCents and MonthlyPaymentCents run parallel to the input items.
	FinancedCents       []money.Cents
	MonthlyPaymentCents []money.Cents
}

// AllocateFinancing pools every financed item, caps the pool at the shared
// equipment credit limit, pushes any overage into a required down payment,
// and prorates the financed principal back to each item proportionally to its
// principal. Proration is computed once across the combined set, so the
// result is independent of item order; a greedy per-item allocation would
// change totals for the same input.
func AllocateFinancing(items []FinanceItem, limit money.Cents) FinanceAllocation {
	alloc := FinanceAllocation{
		AvailableLimitCents: limit,
		FinancedCents:       make([]money.Cents, len(items)),
		MonthlyPaymentCents: make([]money.Cents, len(items)),
	}

	// First pass: pool totals.
	principals := make([]money.Cents, len(items))
	for i, item := range items {
		qty := item.Quantity
		if qty < 1 {
			qty = 1
		}
		alloc.TotalEquipmentCostCents += item.PriceCents * money.Cents(qty)
		alloc.OptionalDownPaymentCents += item.DownPaymentCents * money.Cents(qty)
		principals[i] = (item.PriceCents - item.DownPaymentCents) * money.Cents(qty)
	}

	alloc.AmountToFinanceCents = alloc.TotalEquipmentCostCents - alloc.OptionalDownPaymentCents
	if alloc.AmountToFinanceCents <= 0 {
		// Everything is paid up front: no monthly payments, no overage.
		alloc.AmountToFinanceCents = money.Clamp(alloc.AmountToFinanceCents)
		return alloc
	}

	if limit < 0 {
		limit = 0
		alloc.AvailableLimitCents = 0
	}
	alloc.RequiredDownPaymentCents = money.Clamp(alloc.AmountToFinanceCents - limit)
	alloc.FinancedPrincipalCents = alloc.AmountToFinanceCents - alloc.RequiredDownPaymentCents

	// Second pass: prorate the capped principal back to each item.
	for i, item := range items {
		if principals[i] <= 0 {
			continue
		}
		financed := money.Prorate(alloc.FinancedPrincipalCents, principals[i], alloc.AmountToFinanceCents)
		term := item.TermMonths
		if term <= 0 {
			term = defaultDeviceTermMonths
		}
		alloc.FinancedCents[i] = financed
		alloc.MonthlyPaymentCents[i] = money.RoundDiv(financed, money.Cents(term))
	}
	return alloc
}

// AvailableEquipmentCredit derives the shared financing ceiling from the
// account cap and the per-line cap. Zero means no financing at all.
func AvailableEquipmentCredit(maxEC, perLineEC float64, lines int) money.Cents {
	if lines < 0 {
		lines = 0
	}
	account := money.ToCents(maxEC)
	perLine := money.ToCents(perLineEC) * money.Cents(lines)
	if perLine < account {
		return money.Clamp(perLine)
	}
	return money.Clamp(account)
}

// tradeInCredits aggregates trade-in value across the configured devices.
// Promo-sourced credits are tracked apart from manual trade-in credits so the
// totals can report them as separate bill lines.
type tradeInCredits struct {
	lumpSumCents       money.Cents
	monthlyCreditCents money.Cents
	promoMonthlyCents  money.Cents
	instantRebateCents money.Cents
	warnings           []string
}

// resolveTradeIns computes due-today and recurring trade-in credits. Lump
// sums credit the due-today bill; monthly credits amortize over the fixed
// 24-month schedule regardless of financing term; promo trade-ins take their
// amount and schedule from the applied promotion's effects.
func resolveTradeIns(snap *catalog.Snapshot, cfg *QuoteConfig, devices []Device, models []*catalog.DeviceModel) tradeInCredits {
	var credits tradeInCredits
	for i, dev := range devices {
		switch dev.TradeInType {
		case TradeInLumpSum:
			credits.lumpSumCents += money.ToCents(dev.TradeIn)
		case TradeInMonthlyCredit:
			credits.monthlyCreditCents += money.RoundDiv(money.ToCents(dev.TradeIn), tradeInScheduleMonths)
		case TradeInPromo:
			promo, ok := FindPromotion(snap, dev.AppliedPromoID)
			if !ok {
				credits.warnings = append(credits.warnings, fmt.Sprintf("device %d references unknown promotion %q", i, dev.AppliedPromoID))
				continue
			}
			if !promoAppliesToDevice(snap, cfg, promo, models[i]) {
				credits.warnings = append(credits.warnings, fmt.Sprintf("device %d is not eligible for promotion %q", i, promo.ID))
				continue
			}
			for _, e := range promo.Effects {
				switch e.Kind {
				case catalog.EffectDeviceRebate:
					credits.instantRebateCents += e.Amount
				case catalog.EffectMonthlyCredit:
					credits.promoMonthlyCents += money.RoundDiv(e.Amount, money.Cents(effectMonths(e)))
				case catalog.EffectFixedDiscount, catalog.EffectPercentDiscount, catalog.EffectServicePlanDiscount:
					// Plan-shaped effects on a device promotion are catalog
					// authoring mistakes; skip them here.
				}
			}
		}
	}
	return credits
}

// promoAppliesToDevice re-checks a manually applied promotion against the
// catalog: it must be active, device-scoped, eligible for this model, and
// condition-satisfied.
func promoAppliesToDevice(snap *catalog.Snapshot, cfg *QuoteConfig, promo catalog.Promotion, model *catalog.DeviceModel) bool {
	if !promo.IsActive {
		return false
	}
	if promo.Category != catalog.PromoDevice && promo.Category != catalog.PromoConnected {
		return false
	}
	if !deviceEligible(promo, model) {
		return false
	}
	return EvaluateAll(cfg, promo.Conditions)
}
