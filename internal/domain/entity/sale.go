package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale venta inmutable de un vendedor desde su propio stock.
// UnitPrice y PurchasePrice son snapshots tomados al momento de la venta.
type Sale struct {
	ID            string
	ProductID     string
	SellerID      string
	Quantity      int64
	UnitPrice     decimal.Decimal
	PurchasePrice decimal.Decimal
	Date          time.Time
	CreatedAt     time.Time
	CreatedBy     string
	Lines         []MovementLine
}

// Revenue devuelve UnitPrice * Quantity.
func (s *Sale) Revenue() decimal.Decimal {
	return s.UnitPrice.Mul(decimal.NewFromInt(s.Quantity))
}

// Profit devuelve (UnitPrice - PurchasePrice) * Quantity.
func (s *Sale) Profit() decimal.Decimal {
	return s.UnitPrice.Sub(s.PurchasePrice).Mul(decimal.NewFromInt(s.Quantity))
}
