package dto

import "github.com/shopspring/decimal"

// Money redondea a 2 decimales solo al presentar; los cálculos nunca redondean.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}
