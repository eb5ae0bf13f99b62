package rating_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-telecom/backend-quote/internal/money"
	"github.com/meridian-telecom/backend-quote/internal/rating"
)

func TestAllocateFinancingWithinLimit(t *testing.T) {
	items := []rating.FinanceItem{
		{PriceCents: 99900, DownPaymentCents: 10000, Quantity: 1, TermMonths: 24},
	}
	alloc := rating.AllocateFinancing(items, 150000)

	require.Equal(t, money.Cents(99900), alloc.TotalEquipmentCostCents)
	require.Equal(t, money.Cents(10000), alloc.OptionalDownPaymentCents)
	require.Equal(t, money.Cents(89900), alloc.AmountToFinanceCents)
	require.Equal(t, money.Cents(0), alloc.RequiredDownPaymentCents)
	require.Equal(t, money.Cents(89900), alloc.FinancedPrincipalCents)
	require.Equal(t, money.Cents(3746), alloc.MonthlyPaymentCents[0])
}

func TestAllocateFinancingOverLimitProratesProportionally(t *testing.T) {
	// Two devices competing for a 60000 pool against 90000 of principal:
	// each gets two-thirds of its own principal financed.
	items := []rating.FinanceItem{
		{PriceCents: 30000, Quantity: 1, TermMonths: 24},
		{PriceCents: 60000, Quantity: 1, TermMonths: 24},
	}
	alloc := rating.AllocateFinancing(items, 60000)

	require.Equal(t, money.Cents(90000), alloc.AmountToFinanceCents)
	require.Equal(t, money.Cents(30000), alloc.RequiredDownPaymentCents)
	require.Equal(t, money.Cents(60000), alloc.FinancedPrincipalCents)
	require.Equal(t, money.Cents(20000), alloc.FinancedCents[0])
	require.Equal(t, money.Cents(40000), alloc.FinancedCents[1])
	require.Equal(t, money.Cents(833), alloc.MonthlyPaymentCents[0])
	require.Equal(t, money.Cents(1667), alloc.MonthlyPaymentCents[1])
}

func TestAllocateFinancingOrderIndependent(t *testing.T) {
	a := []rating.FinanceItem{
		{PriceCents: 45000, Quantity: 1, TermMonths: 24},
		{PriceCents: 99900, DownPaymentCents: 5000, Quantity: 1, TermMonths: 24},
		{PriceCents: 12000, Quantity: 2, TermMonths: 12},
	}
	b := []rating.FinanceItem{a[2], a[0], a[1]}

	allocA := rating.AllocateFinancing(a, 100000)
	allocB := rating.AllocateFinancing(b, 100000)

	require.Equal(t, allocA.RequiredDownPaymentCents, allocB.RequiredDownPaymentCents)
	require.Equal(t, allocA.FinancedPrincipalCents, allocB.FinancedPrincipalCents)
	require.Equal(t, sum(allocA.MonthlyPaymentCents), sum(allocB.MonthlyPaymentCents))
}

func TestAllocateFinancingZeroLimit(t *testing.T) {
	// A zero credit limit means everything becomes a required down payment.
	items := []rating.FinanceItem{
		{PriceCents: 50000, Quantity: 1, TermMonths: 24},
	}
	alloc := rating.AllocateFinancing(items, 0)

	require.Equal(t, money.Cents(50000), alloc.RequiredDownPaymentCents)
	require.Equal(t, money.Cents(0), alloc.FinancedPrincipalCents)
	require.Equal(t, money.Cents(0), alloc.MonthlyPaymentCents[0])
}

func TestAllocateFinancingEverythingPaidUpFront(t *testing.T) {
	items := []rating.FinanceItem{
		{PriceCents: 30000, DownPaymentCents: 30000, Quantity: 1, TermMonths: 24},
	}
	alloc := rating.AllocateFinancing(items, 100000)

	require.Equal(t, money.Cents(0), alloc.AmountToFinanceCents)
	require.Equal(t, money.Cents(0), alloc.RequiredDownPaymentCents)
	require.Equal(t, money.Cents(0), alloc.MonthlyPaymentCents[0])
}

func TestAllocateFinancingAccessoryQuantityScales(t *testing.T) {
	items := []rating.FinanceItem{
		{PriceCents: 10000, DownPaymentCents: 1000, Quantity: 3, TermMonths: 12},
	}
	alloc := rating.AllocateFinancing(items, 1000000)

	require.Equal(t, money.Cents(30000), alloc.TotalEquipmentCostCents)
	require.Equal(t, money.Cents(3000), alloc.OptionalDownPaymentCents)
	require.Equal(t, money.Cents(27000), alloc.FinancedPrincipalCents)
	require.Equal(t, money.Cents(2250), alloc.MonthlyPaymentCents[0])
}

func TestAvailableEquipmentCredit(t *testing.T) {
	// Account cap binds.
	require.Equal(t, money.Cents(100000), rating.AvailableEquipmentCredit(1000, 600, 4))
	// Per-line cap binds.
	require.Equal(t, money.Cents(60000), rating.AvailableEquipmentCredit(1000, 600, 1))
	// Zero means no financing.
	require.Equal(t, money.Cents(0), rating.AvailableEquipmentCredit(0, 600, 3))
}

func sum(values []money.Cents) money.Cents {
	var total money.Cents
	for _, v := range values {
		total += v
	}
	return total
}
