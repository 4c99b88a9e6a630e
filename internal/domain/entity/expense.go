package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense gasto mensual recurrente de un vendedor. Único por (vendedor, nombre, mes, año).
type Expense struct {
	ID           string
	SellerID     string
	Name         string
	MonthlyValue decimal.Decimal
	Month        int // 1..12
	Year         int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CommissionRate porcentaje de comisión del vendedor sobre sus ventas.
type CommissionRate struct {
	SellerID   string
	Percentage decimal.Decimal
	UpdatedAt  time.Time
}
