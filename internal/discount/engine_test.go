package discount_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-academy/internal/discount"
)

func TestRuleValidate(t *testing.T) {
	require.NoError(t, discount.Rule{Code: "SAVE10", Percent: 10, MaxUses: 5, UsedCount: 4}.Validate())
	require.ErrorIs(t, discount.Rule{Percent: 10, MaxUses: 5, UsedCount: 5}.Validate(), discount.ErrUsageLimitReached)
	require.ErrorIs(t, discount.Rule{Percent: 101}.Validate(), discount.ErrInvalidRule)
	require.ErrorIs(t, discount.Rule{Percent: -1}.Validate(), discount.ErrInvalidRule)
}

func TestRuleValidateUnlimitedUses(t *testing.T) {
	require.NoError(t, discount.Rule{Percent: 20, MaxUses: 0, UsedCount: 1000}.Validate())
}

func TestAmountTruncates(t *testing.T) {
	require.EqualValues(t, 33, discount.Amount(333, 10))
	require.EqualValues(t, 0, discount.Amount(9, 10))
	require.EqualValues(t, 0, discount.Amount(0, 50))
	require.EqualValues(t, 100, discount.Amount(100, 200))
}
