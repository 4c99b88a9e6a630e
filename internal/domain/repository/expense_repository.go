package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// ExpensePatch campos opcionales para actualizar un gasto; nil = sin cambio.
type ExpensePatch struct {
	Name         *string
	MonthlyValue *decimal.Decimal
	Month        *int
	Year         *int
}

// IsEmpty indica si el patch no cambia nada.
func (p ExpensePatch) IsEmpty() bool {
	return p.Name == nil && p.MonthlyValue == nil && p.Month == nil && p.Year == nil
}

// ExpenseRepository CRUD de gastos mensuales. Create devuelve domain.ErrDuplicate si ya existe
// (vendedor, nombre, mes, año); Update y Delete devuelven domain.ErrExpenseNotFound si no existe.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *entity.Expense) error
	GetByID(ctx context.Context, id string) (*entity.Expense, error)
	Update(ctx context.Context, id string, patch ExpensePatch) error
	Delete(ctx context.Context, id string) error
	ListBySellerAndMonth(ctx context.Context, sellerID string, month, year int) ([]*entity.Expense, error)
}

// CommissionRepository porcentaje de comisión por vendedor. Get devuelve (nil, nil) si no está definido.
type CommissionRepository interface {
	Get(ctx context.Context, sellerID string) (*entity.CommissionRate, error)
	Set(ctx context.Context, rate *entity.CommissionRate) error
}
