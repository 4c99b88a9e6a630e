package accounting

import (
	"context"
	"time"

	"github.com/jhoicas/vendedores-api/internal/application/ports"
	"github.com/jhoicas/vendedores-api/internal/domain"
	acc "github.com/jhoicas/vendedores-api/internal/domain/accounting"
)

// ProrationUseCase desglose de gastos prorrateados de un vendedor.
type ProrationUseCase struct {
	txRunner ports.TxRunner
}

func NewProrationUseCase(txRunner ports.TxRunner) *ProrationUseCase {
	return &ProrationUseCase{txRunner: txRunner}
}

// Prorate gastos del vendedor en [start, end] prorrateados por días, un renglón por nombre.
func (uc *ProrationUseCase) Prorate(ctx context.Context, sellerID string, start, end time.Time) ([]acc.ProratedExpense, error) {
	r, err := acc.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if sellerID == "" {
		return nil, domain.ErrInvalidInput
	}
	var rows []acc.ProratedExpense
	err = uc.txRunner.RunSnapshot(ctx, func(ctx context.Context, repos ports.Repos) error {
		if err := ensureSeller(ctx, repos, sellerID); err != nil {
			return err
		}
		var err error
		rows, err = prorate(ctx, repos, sellerID, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}
