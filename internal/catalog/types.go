package catalog

import "github.com/meridian-telecom/backend-quote/internal/money"

// Reference catalogs are read-only to the rating engine. All amounts are
// stored in integer minor units (cents).

// PricingModel selects how a plan's base price is derived from line count.
type PricingModel string

const (
	// PricingTiered indexes a per-line-count price table.
	PricingTiered PricingModel = "tiered"
	// PricingFlat prices the first line plus a per-additional-line amount.
	PricingFlat PricingModel = "flat"
)

// CustomerType segments plan availability and discount eligibility.
type CustomerType string

const (
	CustomerStandard               CustomerType = "standard"
	CustomerMilitaryFirstResponder CustomerType = "military_first_responder"
	CustomerPlus55                 CustomerType = "plus55"
)

// AllowedDiscounts carries per-plan discount eligibility flags. A nil pointer
// means the plan does not restrict that discount.
type AllowedDiscounts struct {
	Autopay       *bool `json:"autopay,omitempty"`
	Insider       *bool `json:"insider,omitempty"`
	ThirdLineFree *bool `json:"thirdLineFree,omitempty"`
}

// Allows reports whether a flag permits the discount. Unset flags permit.
func Allows(flag *bool) bool {
	return flag == nil || *flag
}

// Plan describes a rate plan from the plan catalog.
type Plan struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	PricingModel   PricingModel     `json:"pricingModel"`
	TierPrices     []money.Cents    `json:"tierPrices,omitempty"`
	FirstLine      money.Cents      `json:"firstLine,omitempty"`
	AdditionalLine money.Cents      `json:"additionalLine,omitempty"`
	MaxLines       int              `json:"maxLines"`
	TaxesIncluded  bool             `json:"taxesIncluded"`
	AvailableFor   []CustomerType   `json:"availableFor,omitempty"`
	Allowed        AllowedDiscounts `json:"allowedDiscounts"`
}

// InsurancePlan is one protection tier from the insurance catalog.
type InsurancePlan struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price money.Cents `json:"price"`
}

// ServicePlan prices connected (non-phone) devices added alongside voice lines.
type ServicePlan struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Price money.Cents `json:"price"`
}

// DeviceCategory distinguishes phones from connected devices.
type DeviceCategory string

const (
	DevicePhone     DeviceCategory = "phone"
	DeviceConnected DeviceCategory = "connected"
)

// DeviceVariant is a purchasable SKU under a device model.
type DeviceVariant struct {
	SKU   string      `json:"sku"`
	Name  string      `json:"name"`
	Price money.Cents `json:"price"`
}

// DeviceModel groups variants and carries promo-eligibility tags.
type DeviceModel struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Category      DeviceCategory  `json:"category"`
	ServicePlanID string          `json:"servicePlanId,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	Variants      []DeviceVariant `json:"variants"`
}

// Variant resolves a SKU under the model. The second result reports presence.
func (m DeviceModel) Variant(sku string) (DeviceVariant, bool) {
	for _, v := range m.Variants {
		if v.SKU == sku {
			return v, true
		}
	}
	return DeviceVariant{}, false
}

// ConditionOperator is a comparison usable in promotion conditions.
type ConditionOperator string

const (
	OpEquals         ConditionOperator = "equals"
	OpNotEquals      ConditionOperator = "not_equals"
	OpGreaterThan    ConditionOperator = "greater_than"
	OpLessThan       ConditionOperator = "less_than"
	OpGreaterOrEqual ConditionOperator = "greater_or_equal"
	OpLessOrEqual    ConditionOperator = "less_or_equal"
	OpIncludes       ConditionOperator = "includes"
)

// Condition is one data-driven predicate over a quote configuration.
// Field names a configuration path (lines, customerType, plan, insuranceTier,
// deviceCount, accessoryCount). Value is compared per the operator.
type Condition struct {
	Field    string            `json:"field"`
	Operator ConditionOperator `json:"operator"`
	Value    any               `json:"value"`
}

// PromoCategory scopes what a promotion can attach to.
type PromoCategory string

const (
	PromoDevice    PromoCategory = "device"
	PromoConnected PromoCategory = "connected"
	PromoPlan      PromoCategory = "plan"
	PromoAccount   PromoCategory = "account"
)

// EffectKind tags the promotion effect union.
type EffectKind string

const (
	// EffectFixedDiscount reduces the monthly plan price by a fixed amount.
	EffectFixedDiscount EffectKind = "fixed_discount"
	// EffectPercentDiscount reduces the monthly plan price by a percentage.
	EffectPercentDiscount EffectKind = "percent_discount"
	// EffectDeviceRebate is an instant due-today credit against device cost.
	EffectDeviceRebate EffectKind = "device_rebate"
	// EffectMonthlyCredit amortizes a credit over a fixed number of months.
	EffectMonthlyCredit EffectKind = "monthly_credit"
	// EffectServicePlanDiscount reduces a connected device's service plan price.
	EffectServicePlanDiscount EffectKind = "service_plan_discount"
)

// Effect is one case of the promotion effect union. Exactly the fields for
// its Kind are meaningful; resolvers switch exhaustively over Kind.
type Effect struct {
	Kind    EffectKind  `json:"kind"`
	Amount  money.Cents `json:"amount,omitempty"`
	Percent float64     `json:"percent,omitempty"`
	Months  int         `json:"months,omitempty"`
}

// Promotion is an authored offer gated by conditions and device eligibility.
type Promotion struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Category           PromoCategory `json:"category"`
	Conditions         []Condition   `json:"conditions,omitempty"`
	Effects            []Effect      `json:"effects"`
	EligibleDeviceIDs  []string      `json:"eligibleDeviceIds,omitempty"`
	EligibleDeviceTags []string      `json:"eligibleDeviceTags,omitempty"`
	IsActive           bool          `json:"isActive"`
}

// DiscountSettings holds account-wide discount and one-time fee parameters.
type DiscountSettings struct {
	AutopayPerLine money.Cents `json:"autopayPerLine"`
	InsiderPercent float64     `json:"insiderPercent"`
	ActivationFee  money.Cents `json:"activationFee"`
	UpgradeFee     money.Cents `json:"upgradeFee"`
}

// Snapshot is a consistent read of every reference catalog. The rating engine
// only ever sees a Snapshot, never live storage, so concurrent catalog
// refreshes cannot tear a calculation.
type Snapshot struct {
	Plans        map[string]Plan          `json:"plans"`
	Insurance    map[string]InsurancePlan `json:"insurance"`
	ServicePlans map[string]ServicePlan   `json:"servicePlans"`
	Devices      map[string]DeviceModel   `json:"devices"`
	// Promotions keeps catalog order; same-category conflicts resolve to the
	// first eligible entry.
	Promotions []Promotion      `json:"promotions"`
	Discounts  DiscountSettings `json:"discounts"`
}
