// Package bmi содержит чистую функцию расчёта индекса массы тела.
// Функция вызывается слоем хранилища в той же транзакции, что и запись
// измерения, чтобы читатель никогда не увидел вес и рост без их производного BMI.
package bmi

import "github.com/shopspring/decimal"

// Compute возвращает индекс массы тела: вес / рост², округлённый
// банковским округлением до 2 знаков. Возвращает nil, если вес или рост
// отсутствуют или неположительны — BMI в этом случае остаётся пустым.
func Compute(weight decimal.Decimal, height *decimal.Decimal) *decimal.Decimal {
	if height == nil {
		return nil
	}
	if !weight.IsPositive() || !height.IsPositive() {
		return nil
	}
	result := weight.Div(height.Mul(*height)).RoundBank(2)
	return &result
}
