package payment

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMinRequiredDeposit(t *testing.T) {
	t.Run("Ten percent of top price", func(t *testing.T) {
		required := MinRequiredDeposit(decimal.NewFromInt(20000))
		assert.True(t, required.Equal(decimal.NewFromInt(2000)), "ожидали 2000, получили %s", required)
	})

	t.Run("Capped at 10000", func(t *testing.T) {
		required := MinRequiredDeposit(decimal.NewFromInt(500000))
		assert.True(t, required.Equal(decimal.NewFromInt(10000)))
	})

	t.Run("Zero top price", func(t *testing.T) {
		required := MinRequiredDeposit(decimal.Zero)
		assert.True(t, required.IsZero())
	})
}

func TestMeetsVerificationThreshold(t *testing.T) {
	topPrice := decimal.NewFromInt(20000) // порог 2000

	t.Run("Below threshold", func(t *testing.T) {
		assert.False(t, MeetsVerificationThreshold(decimal.NewFromInt(1000), topPrice))
	})

	t.Run("Exactly at threshold", func(t *testing.T) {
		assert.True(t, MeetsVerificationThreshold(decimal.NewFromInt(2000), topPrice))
	})

	t.Run("Above threshold", func(t *testing.T) {
		assert.True(t, MeetsVerificationThreshold(decimal.NewFromInt(2500), topPrice))
	})
}
