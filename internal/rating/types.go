package rating

import (
	"github.com/meridian-telecom/backend-quote/internal/catalog"
	"github.com/meridian-telecom/backend-quote/internal/money"
)

// TradeInType selects the credit schedule for a device trade-in.
type TradeInType string

const (
	// TradeInMonthlyCredit amortizes the value over a fixed 24-month schedule,
	// independent of the device's own financing term.
	TradeInMonthlyCredit TradeInType = "monthly_credit"
	// TradeInLumpSum credits the value against the due-today bill.
	TradeInLumpSum TradeInType = "lump_sum"
	// TradeInPromo defers the credit amount and schedule to the applied
	// promotion's effect.
	TradeInPromo TradeInType = "promo"
)

// PaymentType selects how an accessory is paid.
type PaymentType string

const (
	PaymentFull     PaymentType = "full"
	PaymentFinanced PaymentType = "financed"
)

// DiscountFlags are the account-level recurring discounts the customer opted
// into. Plan eligibility still gates each one.
type DiscountFlags struct {
	Autopay       bool `json:"autopay"`
	Insider       bool `json:"insider"`
	ThirdLineFree bool `json:"thirdLineFree"`
}

// FeeFlags are one-time fees. The UI treats them as mutually exclusive but the
// engine sums whatever is set.
type FeeFlags struct {
	Activation bool `json:"activation"`
	Upgrade    bool `json:"upgrade"`
}

// Device is one phone or connected device on the quote. Decimal-dollar fields
// are converted to cents exactly once, at the start of a calculation.
type Device struct {
	ModelID        string      `json:"modelId,omitempty"`
	VariantSKU     string      `json:"variantSku,omitempty"`
	Price          float64     `json:"price" validate:"gte=0"`
	TradeIn        float64     `json:"tradeIn" validate:"gte=0"`
	TradeInType    TradeInType `json:"tradeInType,omitempty" validate:"omitempty,oneof=monthly_credit lump_sum promo"`
	TermMonths     int         `json:"term,omitempty" validate:"gte=0,lte=48"`
	DownPayment    float64     `json:"downPayment" validate:"gte=0"`
	AppliedPromoID string      `json:"appliedPromoId,omitempty"`
}

// Accessory is an add-on purchase, paid in full or financed.
type Accessory struct {
	Name        string      `json:"name" validate:"required"`
	Price       float64     `json:"price" validate:"gte=0"`
	PaymentType PaymentType `json:"paymentType" validate:"omitempty,oneof=full financed"`
	Quantity    int         `json:"quantity" validate:"gte=0"`
	TermMonths  int         `json:"term,omitempty" validate:"gte=0,lte=48"`
	DownPayment float64     `json:"downPayment" validate:"gte=0"`
}

// QuoteConfig is the full input to a rating pass. It is treated as immutable
// for the duration of one calculation.
type QuoteConfig struct {
	CustomerType catalog.CustomerType `json:"customerType" validate:"omitempty,oneof=standard military_first_responder plus55"`
	PlanID       string               `json:"plan"`
	Lines        int                  `json:"lines" validate:"gte=0,lte=100"`
	Discounts    DiscountFlags        `json:"discounts"`
	Fees         FeeFlags             `json:"fees"`
	// TaxRate is a decimal percentage supplied by the caller's jurisdiction
	// lookup; the engine never computes rates itself.
	TaxRate float64 `json:"taxRate" validate:"gte=0,lte=100"`
	// MaxEquipmentCredit and PerLineEquipmentCredit bound the shared
	// equipment financing pool, in decimal dollars.
	MaxEquipmentCredit     float64     `json:"maxEC" validate:"gte=0"`
	PerLineEquipmentCredit float64     `json:"perLineEC" validate:"gte=0"`
	Devices                []Device    `json:"devices,omitempty" validate:"dive"`
	Accessories            []Accessory `json:"accessories,omitempty" validate:"dive"`
	// InsuranceTier is an insurance catalog id, with "none" as the sentinel
	// for no coverage.
	InsuranceTier  string `json:"insuranceTier"`
	InsuranceLines int    `json:"insuranceLines" validate:"gte=0"`
}

// FinancedAccessoryTotal is the computed payment schedule for one financed
// accessory line.
type FinancedAccessoryTotal struct {
	Name                string      `json:"name"`
	Quantity            int         `json:"quantity"`
	PriceCents          money.Cents `json:"priceInCents"`
	DownPaymentCents    money.Cents `json:"downPaymentInCents"`
	TermMonths          int         `json:"term"`
	FinancedCents       money.Cents `json:"financedInCents"`
	MonthlyPaymentCents money.Cents `json:"monthlyPaymentInCents"`
}

// PaidInFullAccessoryTotal is an accessory paid entirely up front.
type PaidInFullAccessoryTotal struct {
	Name       string      `json:"name"`
	Quantity   int         `json:"quantity"`
	PriceCents money.Cents `json:"priceInCents"`
	TotalCents money.Cents `json:"totalInCents"`
}

// CalculatedTotals is the itemized result of one rating pass. Every amount is
// an integer number of cents. Instances are never mutated after creation; a
// configuration change recomputes from scratch.
type CalculatedTotals struct {
	BasePlanPriceCents         money.Cents `json:"basePlanPriceInCents"`
	AutopayDiscountCents       money.Cents `json:"autopayDiscountInCents"`
	InsiderDiscountCents       money.Cents `json:"insiderDiscountInCents"`
	ThirdLineFreeDiscountCents money.Cents `json:"thirdLineFreeDiscountInCents"`
	PromoPlanDiscountCents     money.Cents `json:"promoPlanDiscountInCents"`
	FinalPlanPriceCents        money.Cents `json:"finalPlanPriceInCents"`

	InsuranceCostCents              money.Cents `json:"insuranceCostInCents"`
	MonthlyDevicePaymentCents       money.Cents `json:"monthlyDevicePaymentInCents"`
	FinancedAccessoriesMonthlyCents money.Cents `json:"financedAccessoriesMonthlyInCents"`
	MonthlyServicePlanCostCents     money.Cents `json:"monthlyServicePlanCostInCents"`
	MonthlyTradeInCreditCents       money.Cents `json:"monthlyTradeInCreditInCents"`
	MonthlyPromoCreditCents         money.Cents `json:"monthlyPromoCreditInCents"`
	RecurringTaxCents               money.Cents `json:"calculatedTaxesInCents"`
	TotalMonthlyCents               money.Cents `json:"totalMonthlyInCents"`

	TotalDeviceCostCents        money.Cents `json:"totalDeviceCostInCents"`
	DeviceTaxCents              money.Cents `json:"dueTodayDeviceTaxInCents"`
	LumpSumTradeInCents         money.Cents `json:"lumpSumTradeInInCents"`
	InstantRebateCents          money.Cents `json:"instantRebateInCents"`
	OneTimeFeesCents            money.Cents `json:"totalOneTimeFeesInCents"`
	FeeTaxCents                 money.Cents `json:"feeTaxInCents"`
	PaidInFullAccessoriesCents  money.Cents `json:"paidInFullAccessoriesInCents"`
	PaidInFullAccessoryTaxCents money.Cents `json:"paidInFullAccessoryTaxInCents"`
	FinancedAccessoryTaxCents   money.Cents `json:"financedAccessoryTaxInCents"`
	OptionalDownPaymentCents    money.Cents `json:"optionalDownPaymentInCents"`
	RequiredDownPaymentCents    money.Cents `json:"requiredDownPaymentInCents"`
	DueTodayCents               money.Cents `json:"dueTodayInCents"`

	FinancedAccessories   []FinancedAccessoryTotal   `json:"financedAccessories"`
	PaidInFullAccessories []PaidInFullAccessoryTotal `json:"paidInFullAccessories"`

	// Warnings surface recoverable data problems (clamped negative lines,
	// conflicting promotions, unknown applied promo ids) without failing the
	// calculation.
	Warnings []string `json:"warnings,omitempty"`
}
