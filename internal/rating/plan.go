package rating

import (
	"github.com/meridian-telecom/backend-quote/internal/catalog"
	"github.com/meridian-telecom/backend-quote/internal/money"
)

// autopayLineCap bounds how many lines earn the AutoPay discount.
const autopayLineCap = 8

// BasePlanPrice resolves the monthly pre-discount plan price in cents for a
// line count. Tiered plans index their price table clamped to its length;
// flat plans price the first line plus each additional line. Callers are
// responsible for keeping lines within the plan's MaxLines.
func BasePlanPrice(plan catalog.Plan, lines int) money.Cents {
	if lines < 1 {
		lines = 1
	}
	switch plan.PricingModel {
	case catalog.PricingTiered:
		if len(plan.TierPrices) == 0 {
			return 0
		}
		idx := lines - 1
		if idx >= len(plan.TierPrices) {
			idx = len(plan.TierPrices) - 1
		}
		return plan.TierPrices[idx]
	default:
		return plan.FirstLine + money.Cents(lines-1)*plan.AdditionalLine
	}
}

// planDiscounts itemizes the recurring discounts taken off the base price.
type planDiscounts struct {
	autopay       money.Cents
	insider       money.Cents
	thirdLineFree money.Cents
	promo         money.Cents
	final         money.Cents
	clamped       bool
}

// resolvePlanDiscounts applies AutoPay, Insider, Third-Line-Free, and
// promotion-sourced discounts, each gated by the plan's eligibility flags.
// Ineligible requests are silently skipped, never rejected. A negative final
// price only occurs on malformed catalog data; it is clamped to zero and
// flagged.
func resolvePlanDiscounts(cfg *QuoteConfig, plan catalog.Plan, settings catalog.DiscountSettings, base, promo money.Cents) planDiscounts {
	d := planDiscounts{promo: promo}

	if cfg.Discounts.Autopay && catalog.Allows(plan.Allowed.Autopay) {
		lines := cfg.Lines
		if lines > autopayLineCap {
			lines = autopayLineCap
		}
		if lines > 0 {
			d.autopay = money.Cents(lines) * settings.AutopayPerLine
		}
	}

	if cfg.Discounts.Insider && cfg.CustomerType == catalog.CustomerStandard && catalog.Allows(plan.Allowed.Insider) {
		d.insider = money.Percent(base, settings.InsiderPercent)
	}

	// Third-line-free is the marginal cost of the third line, so it is only
	// defined for tiered plans with at least three tiers.
	if cfg.Discounts.ThirdLineFree && catalog.Allows(plan.Allowed.ThirdLineFree) &&
		plan.PricingModel == catalog.PricingTiered && len(plan.TierPrices) >= 3 && cfg.Lines >= 3 {
		d.thirdLineFree = plan.TierPrices[2] - plan.TierPrices[1]
	}

	final := base - d.autopay - d.insider - d.thirdLineFree - d.promo
	if final < 0 {
		final = 0
		d.clamped = true
	}
	d.final = final
	return d
}

// planPromoDiscount folds the plan- and account-level promotion effects into
// a recurring plan discount and a recurring bill credit.
func planPromoDiscount(base money.Cents, effects []catalog.Effect) (discount, monthlyCredit money.Cents) {
	for _, e := range effects {
		switch e.Kind {
		case catalog.EffectFixedDiscount:
			discount += e.Amount
		case catalog.EffectPercentDiscount:
			discount += money.Percent(base, e.Percent)
		case catalog.EffectMonthlyCredit:
			monthlyCredit += money.RoundDiv(e.Amount, money.Cents(effectMonths(e)))
		case catalog.EffectDeviceRebate, catalog.EffectServicePlanDiscount:
			// Device- and service-plan-shaped effects have no meaning on a
			// plan or account promotion; ignore rather than misapply.
		}
	}
	return discount, monthlyCredit
}

// effectMonths returns the amortization schedule for a monthly-credit effect,
// defaulting to the standard 24-month schedule.
func effectMonths(e catalog.Effect) int {
	if e.Months > 0 {
		return e.Months
	}
	return tradeInScheduleMonths
}
