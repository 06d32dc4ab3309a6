package imports

import (
	"github.com/shopspring/decimal"
)

// applyMarkup raises base by markup percent, rounded to cents.
func applyMarkup(base float64, markupPercent float64) float64 {
	multiplier := decimal.NewFromInt(1).
		Add(decimal.NewFromFloat(markupPercent).Div(decimal.NewFromInt(100)))
	return decimal.NewFromFloat(base).
		Mul(multiplier).
		Round(2).
		InexactFloat64()
}
