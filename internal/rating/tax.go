package rating

import (
	"github.com/meridian-telecom/backend-quote/internal/catalog"
	"github.com/meridian-telecom/backend-quote/internal/money"
)

// recurringTax computes the monthly tax line. Plans that bundle taxes into
// their price produce zero. The taxable base is the pre-discount plan price
// plus insurance; recurring discounts do not reduce the taxable base under
// this jurisdiction model.
func recurringTax(plan catalog.Plan, basePlanPrice, insuranceCost money.Cents, rate float64) money.Cents {
	if plan.TaxesIncluded {
		return 0
	}
	return money.Percent(basePlanPrice+insuranceCost, rate)
}

// dueTodayTaxes itemizes one-time tax charges. Each component applies the
// same caller-supplied rate and rounds independently.
type dueTodayTaxes struct {
	device            money.Cents
	fee               money.Cents
	paidInFull        money.Cents
	financedAccessory money.Cents
}

// resolveDueTodayTaxes taxes the device cost base, one-time fees, and both
// accessory classes. Financed accessories are taxed on their full retail
// price up front even though the payments themselves are spread over the
// term.
func resolveDueTodayTaxes(deviceTaxBase, oneTimeFees, paidInFullCost, financedAccessoryCost money.Cents, rate float64) dueTodayTaxes {
	return dueTodayTaxes{
		device:            money.Percent(deviceTaxBase, rate),
		fee:               money.Percent(oneTimeFees, rate),
		paidInFull:        money.Percent(paidInFullCost, rate),
		financedAccessory: money.Percent(financedAccessoryCost, rate),
	}
}

func (t dueTodayTaxes) total() money.Cents {
	return t.device + t.fee + t.paidInFull + t.financedAccessory
}
