package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-academy/internal/pricing"
)

func TestProductTotals(t *testing.T) {
	line := pricing.ProductLine{Count: 2, UnitPrice: 100, DiscountPct: 10}
	require.Equal(t, pricing.Money(200), pricing.ProductTotal(line))
	require.Equal(t, pricing.Money(180), pricing.ProductFinal(line))
}

func TestZeroDiscountKeepsTotal(t *testing.T) {
	line := pricing.ProductLine{Count: 3, UnitPrice: 250}
	require.Equal(t, pricing.ProductTotal(line), pricing.ProductFinal(line))
}

func TestCourseIgnoresCount(t *testing.T) {
	course := pricing.CourseLine{UnitPrice: 50}
	require.Equal(t, pricing.Money(50), pricing.CourseFinal(course))

	discounted := pricing.CourseLine{UnitPrice: 50, DiscountPct: 50}
	require.Equal(t, pricing.Money(25), pricing.CourseFinal(discounted))
}

func TestComputeSumsFinalPrices(t *testing.T) {
	summary := pricing.Compute(
		[]pricing.ProductLine{
			{Count: 2, UnitPrice: 100, DiscountPct: 10},
			{Count: 1, UnitPrice: 300},
		},
		[]pricing.CourseLine{
			{UnitPrice: 50},
			{UnitPrice: 80, DiscountPct: 25},
		},
	)
	require.Equal(t, pricing.Money(480), summary.ProductAmount)
	require.Equal(t, pricing.Money(110), summary.CourseAmount)
	require.Equal(t, summary.ProductAmount+summary.CourseAmount, summary.PaymentAmount)
}

func TestComputeEmptyBasket(t *testing.T) {
	summary := pricing.Compute(nil, nil)
	require.Equal(t, pricing.Money(0), summary.ProductAmount)
	require.Equal(t, pricing.Money(0), summary.CourseAmount)
	require.Equal(t, pricing.Money(0), summary.PaymentAmount)
}

func TestNegativeAndOversizedInputsClamped(t *testing.T) {
	require.Equal(t, pricing.Money(0), pricing.ProductTotal(pricing.ProductLine{Count: -1, UnitPrice: 100}))
	require.Equal(t, pricing.Money(0), pricing.ProductFinal(pricing.ProductLine{Count: 1, UnitPrice: 100, DiscountPct: 200}))
}
