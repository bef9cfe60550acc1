package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRewardTierFor verifies the threshold boundaries of the step function.
func TestRewardTierFor(t *testing.T) {
	cases := []struct {
		total    string
		expected int64
	}{
		{"0", 0},
		{"119", 0},
		{"119.99", 0},
		{"120", 10},
		{"299", 10},
		{"300", 20},
		{"499", 20},
		{"500", 30},
		{"1250.50", 30},
	}

	for _, tc := range cases {
		got := RewardTierFor(decimal.RequireFromString(tc.total))
		assert.True(t, got.Equal(decimal.NewFromInt(tc.expected)),
			"total %s: expected %d, got %s", tc.total, tc.expected, got)
	}
}

func TestGenerateCode(t *testing.T) {
	t.Run("Format", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			code, err := GenerateCode(DefaultCodeLength)
			require.NoError(t, err)
			assert.Len(t, code, 8)
			for _, ch := range code {
				assert.True(t, strings.ContainsRune(CodeAlphabet, ch),
					"unexpected character %q in code %s", ch, code)
			}
		}
	})

	t.Run("NonPositiveLengthUsesDefault", func(t *testing.T) {
		code, err := GenerateCode(0)
		require.NoError(t, err)
		assert.Len(t, code, DefaultCodeLength)
	})

	t.Run("CustomLength", func(t *testing.T) {
		code, err := GenerateCode(12)
		require.NoError(t, err)
		assert.Len(t, code, 12)
	})
}

func TestNewCoupon(t *testing.T) {
	amount := decimal.NewFromInt(20)
	c := NewCoupon("user-1", amount, "ABCD2345")

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "ABCD2345", c.Code)
	assert.Equal(t, "user-1", c.OwnerUserID)
	assert.True(t, c.Amount.Equal(amount))
	assert.True(t, c.RemainingAmount.Equal(amount))
	assert.False(t, c.IsUsed)
	assert.Equal(t, c.CreatedAt.AddDate(0, 0, ValidityDays), c.ExpiresAt)
}
