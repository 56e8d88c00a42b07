package payment

import (
	"github.com/shopspring/decimal"
)

// maxRequiredDeposit — верхняя граница порога верификации
var maxRequiredDeposit = decimal.NewFromInt(10000)

// MinRequiredDeposit вычисляет порог верификации:
// 10% от цены самого дорогого доступного товара, но не более 10000
func MinRequiredDeposit(topItemPrice decimal.Decimal) decimal.Decimal {
	required := topItemPrice.Mul(decimal.RequireFromString("0.1"))
	if required.GreaterThan(maxRequiredDeposit) {
		return maxRequiredDeposit
	}
	return required
}

// MeetsVerificationThreshold проверяет, достаточен ли баланс для верификации
func MeetsVerificationThreshold(balance, topItemPrice decimal.Decimal) bool {
	return balance.GreaterThanOrEqual(MinRequiredDeposit(topItemPrice))
}
