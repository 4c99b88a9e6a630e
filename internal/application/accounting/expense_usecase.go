package accounting

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendedores-api/internal/application/ports"
	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	"github.com/jhoicas/vendedores-api/internal/domain/repository"
	"github.com/jhoicas/vendedores-api/pkg/logger"
)

// ExpenseUseCase mantenimiento de gastos mensuales y porcentaje de comisión.
type ExpenseUseCase struct {
	txRunner ports.TxRunner
	log      *logger.Logger
	now      func() time.Time
}

func NewExpenseUseCase(txRunner ports.TxRunner, log *logger.Logger) *ExpenseUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ExpenseUseCase{txRunner: txRunner, log: log.Component("expenses"), now: time.Now}
}

// ExpenseInput alta de gasto mensual.
type ExpenseInput struct {
	SellerID     string
	Name         string
	MonthlyValue decimal.Decimal
	Month        int
	Year         int
}

// AddExpense crea el gasto; domain.ErrDuplicate si ya existe uno con el mismo nombre en ese mes.
func (uc *ExpenseUseCase) AddExpense(ctx context.Context, in ExpenseInput) (*entity.Expense, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.SellerID == "" || in.Name == "" || !validMonth(in.Month, in.Year) || !validMoney(in.MonthlyValue) {
		return nil, domain.ErrInvalidInput
	}
	now := uc.now()
	e := &entity.Expense{
		ID:           uuid.New().String(),
		SellerID:     in.SellerID,
		Name:         in.Name,
		MonthlyValue: in.MonthlyValue,
		Month:        in.Month,
		Year:         in.Year,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repos) error {
		if err := ensureSeller(ctx, repos, in.SellerID); err != nil {
			return err
		}
		return repos.Expenses.Create(ctx, e)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("expense_id", e.ID).Str("seller_id", e.SellerID).Str("name", e.Name).Msg("gasto registrado")
	return e, nil
}

// UpdateExpense aplica solo los campos presentes en patch y devuelve el gasto resultante.
func (uc *ExpenseUseCase) UpdateExpense(ctx context.Context, id string, patch repository.ExpensePatch) (*entity.Expense, error) {
	if id == "" || patch.IsEmpty() {
		return nil, domain.ErrInvalidInput
	}
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, domain.ErrInvalidInput
		}
		patch.Name = &name
	}
	if patch.MonthlyValue != nil && !validMoney(*patch.MonthlyValue) {
		return nil, domain.ErrInvalidInput
	}
	if patch.Month != nil && (*patch.Month < 1 || *patch.Month > 12) {
		return nil, domain.ErrInvalidInput
	}
	if patch.Year != nil && *patch.Year < 1 {
		return nil, domain.ErrInvalidInput
	}

	var out *entity.Expense
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repos) error {
		if err := repos.Expenses.Update(ctx, id, patch); err != nil {
			return err
		}
		e, err := repos.Expenses.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if e == nil {
			return domain.ErrExpenseNotFound
		}
		out = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RemoveExpense borra el gasto.
func (uc *ExpenseUseCase) RemoveExpense(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repos) error {
		return repos.Expenses.Delete(ctx, id)
	})
}

// ListExpenses gastos del vendedor en un mes.
func (uc *ExpenseUseCase) ListExpenses(ctx context.Context, sellerID string, month, year int) ([]*entity.Expense, error) {
	if sellerID == "" || !validMonth(month, year) {
		return nil, domain.ErrInvalidInput
	}
	var out []*entity.Expense
	err := uc.txRunner.RunSnapshot(ctx, func(ctx context.Context, repos ports.Repos) error {
		if err := ensureSeller(ctx, repos, sellerID); err != nil {
			return err
		}
		var err error
		out, err = repos.Expenses.ListBySellerAndMonth(ctx, sellerID, month, year)
		return err
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []*entity.Expense{}
	}
	return out, nil
}

// SetCommissionRate fija el porcentaje (0..100) de comisión del vendedor.
func (uc *ExpenseUseCase) SetCommissionRate(ctx context.Context, sellerID string, percentage decimal.Decimal) (*entity.CommissionRate, error) {
	if sellerID == "" || percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) ||
		!entity.FitsScale(percentage, entity.PercentageScale) {
		return nil, domain.ErrInvalidInput
	}
	rate := &entity.CommissionRate{SellerID: sellerID, Percentage: percentage, UpdatedAt: uc.now()}
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos ports.Repos) error {
		if err := ensureSeller(ctx, repos, sellerID); err != nil {
			return err
		}
		return repos.Commissions.Set(ctx, rate)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("seller_id", sellerID).Str("percentage", percentage.String()).Msg("comisión actualizada")
	return rate, nil
}

// GetCommissionRate porcentaje vigente; 0 si el vendedor no tiene uno definido.
func (uc *ExpenseUseCase) GetCommissionRate(ctx context.Context, sellerID string) (*entity.CommissionRate, error) {
	if sellerID == "" {
		return nil, domain.ErrInvalidInput
	}
	var out *entity.CommissionRate
	err := uc.txRunner.RunSnapshot(ctx, func(ctx context.Context, repos ports.Repos) error {
		if err := ensureSeller(ctx, repos, sellerID); err != nil {
			return err
		}
		rate, err := repos.Commissions.Get(ctx, sellerID)
		if err != nil {
			return err
		}
		if rate == nil {
			rate = &entity.CommissionRate{SellerID: sellerID, Percentage: decimal.Zero}
		}
		out = rate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func validMonth(month, year int) bool {
	return month >= 1 && month <= 12 && year >= 1
}

// validMoney no negativo y con a lo sumo dos decimales.
func validMoney(d decimal.Decimal) bool {
	return !d.IsNegative() && entity.FitsScale(d, entity.MoneyScale)
}

func ensureSeller(ctx context.Context, repos ports.Repos, sellerID string) error {
	seller, err := repos.Sellers.GetByID(ctx, sellerID)
	if err != nil {
		return err
	}
	if seller == nil {
		return domain.ErrSellerNotFound
	}
	return nil
}
