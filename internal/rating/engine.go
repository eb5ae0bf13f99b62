package rating

import (
	"errors"
	"fmt"

	"github.com/meridian-telecom/backend-quote/internal/catalog"
	"github.com/meridian-telecom/backend-quote/internal/money"
)

// InsuranceNone is the insurance tier sentinel meaning no coverage selected.
const InsuranceNone = "none"

// CalculateTotals runs one full rating pass: plan pricing, discounts,
// promotions, equipment financing, trade-ins, taxes, and aggregation into a
// CalculatedTotals record. It is pure and side-effect free; the snapshot must
// not be mutated while a calculation is in flight, which the catalog service
// guarantees by handing out immutable snapshots.
//
// An unresolvable plan id is an incomplete configuration, not an error: the
// result is (nil, nil) and the caller renders a "select a plan" state.
func CalculateTotals(cfg *QuoteConfig, snap *catalog.Snapshot) (*CalculatedTotals, error) {
	if cfg == nil || snap == nil {
		return nil, errors.New("rating: config and snapshot are required")
	}
	plan, ok := snap.Plans[cfg.PlanID]
	if !ok {
		return nil, nil
	}

	var warnings []string
	if len(plan.AvailableFor) > 0 && cfg.CustomerType != "" {
		offered := false
		for _, ct := range plan.AvailableFor {
			if ct == cfg.CustomerType {
				offered = true
				break
			}
		}
		if !offered {
			warnings = append(warnings, fmt.Sprintf("plan %q is not offered to customer type %q", plan.ID, cfg.CustomerType))
		}
	}

	// Resolve each device's catalog model and retail price. Once the price is
	// in cents the calculator never consults the catalog linkage again.
	models := make([]*catalog.DeviceModel, len(cfg.Devices))
	devicePrices := make([]money.Cents, len(cfg.Devices))
	for i, dev := range cfg.Devices {
		price := money.ToCents(dev.Price)
		if dev.ModelID != "" {
			model, found := snap.Devices[dev.ModelID]
			if !found {
				warnings = append(warnings, fmt.Sprintf("device %d references unknown model %q", i, dev.ModelID))
			} else {
				m := model
				models[i] = &m
				if variant, vok := model.Variant(dev.VariantSKU); vok {
					price = variant.Price
				}
			}
		}
		devicePrices[i] = price
	}

	base := BasePlanPrice(plan, cfg.Lines)

	// Plan- and account-level promotions: first eligible per category wins,
	// further matches are configuration conflicts.
	var promoDiscount, promoMonthlyCredit money.Cents
	for _, category := range []catalog.PromoCategory{catalog.PromoPlan, catalog.PromoAccount} {
		promo, found, conflicts := FirstEligible(snap, cfg, category, nil)
		for _, id := range conflicts {
			warnings = append(warnings, fmt.Sprintf("promotion %q skipped: conflicts with %q for category %s", id, promo.ID, category))
		}
		if found {
			d, c := planPromoDiscount(base, promo.Effects)
			promoDiscount += d
			promoMonthlyCredit += c
		}
	}

	discounts := resolvePlanDiscounts(cfg, plan, snap.Discounts, base, promoDiscount)
	if discounts.clamped {
		warnings = append(warnings, "plan discounts exceed base price; final plan price clamped to zero")
	}

	var insuranceCost money.Cents
	if cfg.InsuranceTier != "" && cfg.InsuranceTier != InsuranceNone {
		if ins, found := snap.Insurance[cfg.InsuranceTier]; found {
			covered := cfg.InsuranceLines
			if covered < 0 {
				covered = 0
			}
			insuranceCost = ins.Price * money.Cents(covered)
		} else {
			warnings = append(warnings, fmt.Sprintf("unknown insurance tier %q", cfg.InsuranceTier))
		}
	}

	// Connected devices ride on service plans rather than the voice ladder.
	var servicePlanCost money.Cents
	for i := range cfg.Devices {
		model := models[i]
		if model == nil || model.Category != catalog.DeviceConnected || model.ServicePlanID == "" {
			continue
		}
		sp, found := snap.ServicePlans[model.ServicePlanID]
		if !found {
			warnings = append(warnings, fmt.Sprintf("device %d references unknown service plan %q", i, model.ServicePlanID))
			continue
		}
		cost := sp.Price
		promo, found, conflicts := FirstEligible(snap, cfg, catalog.PromoConnected, model)
		for _, id := range conflicts {
			warnings = append(warnings, fmt.Sprintf("promotion %q skipped: conflicts with %q for device %d", id, promo.ID, i))
		}
		if found {
			for _, e := range promo.Effects {
				if e.Kind == catalog.EffectServicePlanDiscount {
					cost -= e.Amount
				}
			}
			cost = money.Clamp(cost)
		}
		servicePlanCost += cost
	}

	// Every device is financed; accessories join the pool only when financed.
	items := make([]FinanceItem, 0, len(cfg.Devices)+len(cfg.Accessories))
	for i, dev := range cfg.Devices {
		term := dev.TermMonths
		if term <= 0 {
			term = defaultDeviceTermMonths
		}
		items = append(items, FinanceItem{
			PriceCents:       devicePrices[i],
			DownPaymentCents: money.ToCents(dev.DownPayment),
			Quantity:         1,
			TermMonths:       term,
		})
	}
	var financedIdx []int
	for j, acc := range cfg.Accessories {
		if acc.PaymentType != PaymentFinanced {
			continue
		}
		qty := acc.Quantity
		if qty < 1 {
			qty = 1
		}
		term := acc.TermMonths
		if term <= 0 {
			term = defaultAccessoryTermMonths
		}
		items = append(items, FinanceItem{
			PriceCents:       money.ToCents(acc.Price),
			DownPaymentCents: money.ToCents(acc.DownPayment),
			Quantity:         qty,
			TermMonths:       term,
		})
		financedIdx = append(financedIdx, j)
	}
	limit := AvailableEquipmentCredit(cfg.MaxEquipmentCredit, cfg.PerLineEquipmentCredit, cfg.Lines)
	alloc := AllocateFinancing(items, limit)

	var deviceMonthly, accessoryMonthly money.Cents
	for i := range cfg.Devices {
		deviceMonthly += alloc.MonthlyPaymentCents[i]
	}
	financedAccessories := make([]FinancedAccessoryTotal, 0, len(financedIdx))
	for k, j := range financedIdx {
		idx := len(cfg.Devices) + k
		acc := cfg.Accessories[j]
		qty := acc.Quantity
		if qty < 1 {
			qty = 1
		}
		accessoryMonthly += alloc.MonthlyPaymentCents[idx]
		financedAccessories = append(financedAccessories, FinancedAccessoryTotal{
			Name:                acc.Name,
			Quantity:            qty,
			PriceCents:          money.ToCents(acc.Price),
			DownPaymentCents:    money.ToCents(acc.DownPayment),
			TermMonths:          items[idx].TermMonths,
			FinancedCents:       alloc.FinancedCents[idx],
			MonthlyPaymentCents: alloc.MonthlyPaymentCents[idx],
		})
	}

	var paidInFullCost, financedAccessoryRetail money.Cents
	paidInFull := make([]PaidInFullAccessoryTotal, 0)
	for _, acc := range cfg.Accessories {
		qty := acc.Quantity
		if qty < 1 {
			qty = 1
		}
		retail := money.ToCents(acc.Price) * money.Cents(qty)
		if acc.PaymentType == PaymentFinanced {
			financedAccessoryRetail += retail
			continue
		}
		paidInFullCost += retail
		paidInFull = append(paidInFull, PaidInFullAccessoryTotal{
			Name:       acc.Name,
			Quantity:   qty,
			PriceCents: money.ToCents(acc.Price),
			TotalCents: retail,
		})
	}

	credits := resolveTradeIns(snap, cfg, cfg.Devices, models)
	warnings = append(warnings, credits.warnings...)

	var totalDeviceCost money.Cents
	for _, p := range devicePrices {
		totalDeviceCost += p
	}

	var oneTimeFees money.Cents
	if cfg.Fees.Activation {
		oneTimeFees += snap.Discounts.ActivationFee
	}
	if cfg.Fees.Upgrade {
		oneTimeFees += snap.Discounts.UpgradeFee
	}

	// Lump-sum trade-ins and instant rebates reduce the device tax base
	// before tax is applied; they do not reduce the financed principal.
	deviceTaxBase := money.Clamp(totalDeviceCost - credits.lumpSumCents - credits.instantRebateCents)
	taxes := resolveDueTodayTaxes(deviceTaxBase, oneTimeFees, paidInFullCost, financedAccessoryRetail, cfg.TaxRate)
	recurring := recurringTax(plan, base, insuranceCost, cfg.TaxRate)

	monthlyPromoCredit := promoMonthlyCredit + credits.promoMonthlyCents
	totalMonthly := discounts.final +
		insuranceCost +
		deviceMonthly +
		accessoryMonthly +
		servicePlanCost -
		credits.monthlyCreditCents -
		monthlyPromoCredit +
		recurring
	if totalMonthly < 0 {
		totalMonthly = 0
		warnings = append(warnings, "recurring credits exceed monthly charges; total clamped to zero")
	}

	dueToday := taxes.device +
		oneTimeFees + taxes.fee +
		paidInFullCost + taxes.paidInFull +
		taxes.financedAccessory +
		alloc.OptionalDownPaymentCents + alloc.RequiredDownPaymentCents
	if dueToday < 0 {
		dueToday = 0
		warnings = append(warnings, "due-today credits exceed charges; total clamped to zero")
	}

	return &CalculatedTotals{
		BasePlanPriceCents:         base,
		AutopayDiscountCents:       discounts.autopay,
		InsiderDiscountCents:       discounts.insider,
		ThirdLineFreeDiscountCents: discounts.thirdLineFree,
		PromoPlanDiscountCents:     discounts.promo,
		FinalPlanPriceCents:        discounts.final,

		InsuranceCostCents:              insuranceCost,
		MonthlyDevicePaymentCents:       deviceMonthly,
		FinancedAccessoriesMonthlyCents: accessoryMonthly,
		MonthlyServicePlanCostCents:     servicePlanCost,
		MonthlyTradeInCreditCents:       credits.monthlyCreditCents,
		MonthlyPromoCreditCents:         monthlyPromoCredit,
		RecurringTaxCents:               recurring,
		TotalMonthlyCents:               totalMonthly,

		TotalDeviceCostCents:        totalDeviceCost,
		DeviceTaxCents:              taxes.device,
		LumpSumTradeInCents:         credits.lumpSumCents,
		InstantRebateCents:          credits.instantRebateCents,
		OneTimeFeesCents:            oneTimeFees,
		FeeTaxCents:                 taxes.fee,
		PaidInFullAccessoriesCents:  paidInFullCost,
		PaidInFullAccessoryTaxCents: taxes.paidInFull,
		FinancedAccessoryTaxCents:   taxes.financedAccessory,
		OptionalDownPaymentCents:    alloc.OptionalDownPaymentCents,
		RequiredDownPaymentCents:    alloc.RequiredDownPaymentCents,
		DueTodayCents:               dueToday,

		FinancedAccessories:   financedAccessories,
		PaidInFullAccessories: paidInFull,
		Warnings:              warnings,
	}, nil
}
