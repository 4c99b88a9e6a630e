package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	"github.com/jhoicas/vendedores-api/internal/domain/repository"
)

var (
	_ repository.ExpenseRepository    = (*ExpenseRepo)(nil)
	_ repository.CommissionRepository = (*CommissionRepo)(nil)
)

// ExpenseRepo gastos mensuales por vendedor.
type ExpenseRepo struct {
	q Querier
}

func NewExpenseRepository(q Querier) *ExpenseRepo {
	return &ExpenseRepo{q: q}
}

var expenseColumns = []string{"id", "seller_id", "name", "monthly_value", "month", "year", "created_at", "updated_at"}

type expenseRow struct {
	ID           string          `db:"id"`
	SellerID     string          `db:"seller_id"`
	Name         string          `db:"name"`
	MonthlyValue decimal.Decimal `db:"monthly_value"`
	Month        int             `db:"month"`
	Year         int             `db:"year"`
	CreatedAt    time.Time       `db:"created_at"`
	UpdatedAt    time.Time       `db:"updated_at"`
}

func (row expenseRow) entity() *entity.Expense {
	return &entity.Expense{
		ID:           row.ID,
		SellerID:     row.SellerID,
		Name:         row.Name,
		MonthlyValue: row.MonthlyValue,
		Month:        row.Month,
		Year:         row.Year,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func (r *ExpenseRepo) Create(ctx context.Context, e *entity.Expense) error {
	query, args, err := psql.Insert("expenses").
		Columns(expenseColumns...).
		Values(e.ID, e.SellerID, e.Name, e.MonthlyValue, e.Month, e.Year, e.CreatedAt, e.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert expense: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrSellerNotFound
		}
		return fmt.Errorf("insert expense: %w", err)
	}
	return nil
}

func (r *ExpenseRepo) GetByID(ctx context.Context, id string) (*entity.Expense, error) {
	list, err := r.list(ctx, psql.Select(expenseColumns...).From("expenses").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// Update actualiza solo los campos presentes en patch.
func (r *ExpenseRepo) Update(ctx context.Context, id string, patch repository.ExpensePatch) error {
	query, args, err := buildPartialUpdate("expenses", expensePatchColumns(patch), sq.Eq{"id": id})
	if err != nil {
		return fmt.Errorf("build update expense: %w", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

func (r *ExpenseRepo) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("expenses").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete expense: %w", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// ListBySellerAndMonth gastos del mes en orden de creación (el prorrateo conserva ese orden).
func (r *ExpenseRepo) ListBySellerAndMonth(ctx context.Context, sellerID string, month, year int) ([]*entity.Expense, error) {
	return r.list(ctx, psql.Select(expenseColumns...).
		From("expenses").
		Where(sq.Eq{"seller_id": sellerID, "month": month, "year": year}).
		OrderBy("created_at", "name"))
}

func (r *ExpenseRepo) list(ctx context.Context, b sq.SelectBuilder) ([]*entity.Expense, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list expenses: %w", err)
	}
	var rows []expenseRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	out := make([]*entity.Expense, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.entity())
	}
	return out, nil
}

// CommissionRepo porcentaje de comisión por vendedor.
type CommissionRepo struct {
	q Querier
}

func NewCommissionRepository(q Querier) *CommissionRepo {
	return &CommissionRepo{q: q}
}

type commissionRow struct {
	SellerID   string          `db:"seller_id"`
	Percentage decimal.Decimal `db:"percentage"`
	UpdatedAt  time.Time       `db:"updated_at"`
}

func (r *CommissionRepo) Get(ctx context.Context, sellerID string) (*entity.CommissionRate, error) {
	query, args, err := psql.Select("seller_id", "percentage", "updated_at").
		From("commission_rates").
		Where(sq.Eq{"seller_id": sellerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get commission: %w", err)
	}
	var rows []commissionRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get commission: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &entity.CommissionRate{SellerID: rows[0].SellerID, Percentage: rows[0].Percentage, UpdatedAt: rows[0].UpdatedAt}, nil
}

// Set inserta o reemplaza el porcentaje del vendedor.
func (r *CommissionRepo) Set(ctx context.Context, rate *entity.CommissionRate) error {
	query, args, err := psql.Insert("commission_rates").
		Columns("seller_id", "percentage", "updated_at").
		Values(rate.SellerID, rate.Percentage, rate.UpdatedAt).
		Suffix("ON CONFLICT (seller_id) DO UPDATE SET percentage = EXCLUDED.percentage, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert commission: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrSellerNotFound
		}
		return fmt.Errorf("upsert commission: %w", err)
	}
	return nil
}
