package offer

import (
	"github.com/shopspring/decimal"
)

// SelectedItem представляет товар, участвующий в расчете предложения
type SelectedItem struct {
	Price             decimal.Decimal
	Quantity          int
	AllowedCategories []string
}

// CombinedAllowedCategories возвращает объединение разрешенных категорий выбранных товаров
func CombinedAllowedCategories(items []SelectedItem) []string {
	seen := make(map[string]bool)
	var union []string

	for _, item := range items {
		for _, category := range item.AllowedCategories {
			if !seen[category] {
				seen[category] = true
				union = append(union, category)
			}
		}
	}

	return union
}

// IsCompatible проверяет, подходит ли товар под объединение разрешенных категорий.
// Пустое объединение означает отсутствие ограничений.
func IsCompatible(itemCategories []string, combined []string) bool {
	if len(combined) == 0 {
		return true
	}

	allowed := make(map[string]bool, len(combined))
	for _, category := range combined {
		allowed[category] = true
	}

	for _, category := range itemCategories {
		if allowed[category] {
			return true
		}
	}

	return false
}

// ComputeCashAdjustment вычисляет денежную доплату предложения:
// стоимость моих товаров минус стоимость товаров другой стороны
func ComputeCashAdjustment(myItems, theirItems []SelectedItem) decimal.Decimal {
	return totalValue(myItems).Sub(totalValue(theirItems))
}

// totalValue суммирует цену с учетом количества
func totalValue(items []SelectedItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		quantity := item.Quantity
		if quantity <= 0 {
			quantity = 1
		}
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(quantity))))
	}
	return total
}
