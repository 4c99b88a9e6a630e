package entity

import "github.com/shopspring/decimal"

// Escalas que persiste el almacenamiento: dinero con 2 decimales, porcentajes con 4.
const (
	MoneyScale      int32 = 2
	PercentageScale int32 = 4
)

// FitsScale indica si d no tiene más decimales significativos que scale (8.10 cabe en 1).
func FitsScale(d decimal.Decimal, scale int32) bool {
	return d.Equal(d.Truncate(scale))
}
