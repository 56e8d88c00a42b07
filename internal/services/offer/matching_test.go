package offer

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestComputeCashAdjustment(t *testing.T) {
	t.Run("Positive difference", func(t *testing.T) {
		myItems := []SelectedItem{
			{Price: decimal.NewFromInt(300), Quantity: 1},
			{Price: decimal.NewFromInt(200), Quantity: 1},
		}
		theirItems := []SelectedItem{
			{Price: decimal.NewFromInt(300), Quantity: 1},
		}

		adjustment := ComputeCashAdjustment(myItems, theirItems)
		assert.True(t, adjustment.Equal(decimal.NewFromInt(200)), "ожидали 200, получили %s", adjustment)
	})

	t.Run("Negative difference", func(t *testing.T) {
		myItems := []SelectedItem{
			{Price: decimal.NewFromInt(100), Quantity: 1},
		}
		theirItems := []SelectedItem{
			{Price: decimal.NewFromInt(250), Quantity: 1},
		}

		adjustment := ComputeCashAdjustment(myItems, theirItems)
		assert.True(t, adjustment.Equal(decimal.NewFromInt(-150)))
	})

	t.Run("Quantity multiplies value", func(t *testing.T) {
		myItems := []SelectedItem{
			{Price: decimal.NewFromInt(100), Quantity: 3},
		}
		theirItems := []SelectedItem{
			{Price: decimal.NewFromInt(50), Quantity: 2},
		}

		adjustment := ComputeCashAdjustment(myItems, theirItems)
		assert.True(t, adjustment.Equal(decimal.NewFromInt(200)))
	})

	t.Run("Zero quantity counts as one", func(t *testing.T) {
		myItems := []SelectedItem{
			{Price: decimal.NewFromInt(500), Quantity: 0},
		}

		adjustment := ComputeCashAdjustment(myItems, nil)
		assert.True(t, adjustment.Equal(decimal.NewFromInt(500)))
	})

	t.Run("Decimal prices", func(t *testing.T) {
		myItems := []SelectedItem{
			{Price: decimal.RequireFromString("99.99"), Quantity: 1},
		}
		theirItems := []SelectedItem{
			{Price: decimal.RequireFromString("49.99"), Quantity: 1},
		}

		adjustment := ComputeCashAdjustment(myItems, theirItems)
		assert.True(t, adjustment.Equal(decimal.RequireFromString("50.00")))
	})
}

func TestCombinedAllowedCategories(t *testing.T) {
	t.Run("Union without duplicates", func(t *testing.T) {
		items := []SelectedItem{
			{AllowedCategories: []string{"electronics", "books"}},
			{AllowedCategories: []string{"books", "toys"}},
		}

		combined := CombinedAllowedCategories(items)
		assert.ElementsMatch(t, []string{"electronics", "books", "toys"}, combined)
	})

	t.Run("Empty when no restrictions", func(t *testing.T) {
		items := []SelectedItem{
			{AllowedCategories: nil},
			{AllowedCategories: []string{}},
		}

		combined := CombinedAllowedCategories(items)
		assert.Empty(t, combined)
	})
}

func TestIsCompatible(t *testing.T) {
	t.Run("Matching category is selectable", func(t *testing.T) {
		combined := []string{"electronics", "books"}
		assert.True(t, IsCompatible([]string{"electronics"}, combined))
	})

	t.Run("Non-matching category is not selectable", func(t *testing.T) {
		combined := []string{"books"}
		assert.False(t, IsCompatible([]string{"electronics"}, combined))
	})

	t.Run("Empty union means no restriction", func(t *testing.T) {
		assert.True(t, IsCompatible([]string{"electronics"}, nil))
	})

	t.Run("Item without categories against restriction", func(t *testing.T) {
		combined := []string{"electronics"}
		assert.False(t, IsCompatible(nil, combined))
	})
}
