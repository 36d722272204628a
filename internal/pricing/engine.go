package pricing

// Money represents a monetary value stored in minor units.
type Money = int64

// ProductLine describes a basket product line used for pricing calculation.
type ProductLine struct {
	Count       int
	UnitPrice   Money
	DiscountPct int
}

// CourseLine describes a basket course entry. Courses are priced once,
// quantity never applies.
type CourseLine struct {
	UnitPrice   Money
	DiscountPct int
}

// Summary aggregates computed basket components.
type Summary struct {
	ProductAmount Money
	CourseAmount  Money
	PaymentAmount Money
}

// ProductTotal returns the undiscounted line total, count * unit price.
func ProductTotal(l ProductLine) Money {
	if l.Count <= 0 {
		return 0
	}
	return Money(l.Count) * l.UnitPrice
}

// ProductFinal returns the line total after the percent discount is applied.
func ProductFinal(l ProductLine) Money {
	total := ProductTotal(l)
	return total - discountOf(total, l.DiscountPct)
}

// CourseFinal returns the course price after the percent discount is applied.
func CourseFinal(l CourseLine) Money {
	return l.UnitPrice - discountOf(l.UnitPrice, l.DiscountPct)
}

// Compute reduces product and course lines into payable amounts.
func Compute(products []ProductLine, courses []CourseLine) Summary {
	var s Summary
	for _, l := range products {
		s.ProductAmount += ProductFinal(l)
	}
	for _, l := range courses {
		s.CourseAmount += CourseFinal(l)
	}
	s.PaymentAmount = s.ProductAmount + s.CourseAmount
	return s
}

// discountOf applies an integer percent in the 0..100 range. Values outside
// the range are clamped rather than rejected so a bad catalog row cannot
// produce a negative payable amount.
func discountOf(amount Money, pct int) Money {
	if amount <= 0 || pct <= 0 {
		return 0
	}
	if pct > 100 {
		pct = 100
	}
	return amount * Money(pct) / 100
}
