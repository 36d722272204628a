package discount

import "errors"

var (
	// ErrUnknownCode is returned when no discount matches the given code.
	ErrUnknownCode = errors.New("discount code not found")
	// ErrUsageLimitReached indicates the code has exhausted its quota.
	ErrUsageLimitReached = errors.New("discount usage limit reached")
	// ErrInvalidRule is returned for rules with out-of-range values.
	ErrInvalidRule = errors.New("invalid discount rule")
)

// Rule captures the runtime constraints of a discount code.
type Rule struct {
	Code      string
	Percent   int32
	MaxUses   int32
	UsedCount int32
}

// Validate reports whether the rule can still be redeemed.
func (r Rule) Validate() error {
	if r.Percent < 0 || r.Percent > 100 {
		return ErrInvalidRule
	}
	if r.MaxUses > 0 && r.UsedCount >= r.MaxUses {
		return ErrUsageLimitReached
	}
	return nil
}

// Amount computes the discount value in minor units for the given price.
// Division truncates toward zero, matching the basket pricing rules.
func Amount(price int64, percent int32) int64 {
	if price <= 0 || percent <= 0 {
		return 0
	}
	if percent > 100 {
		percent = 100
	}
	return price * int64(percent) / 100
}
