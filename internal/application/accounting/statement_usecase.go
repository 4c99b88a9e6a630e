package accounting

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/vendedores-api/internal/application/ports"
	"github.com/jhoicas/vendedores-api/internal/domain"
	acc "github.com/jhoicas/vendedores-api/internal/domain/accounting"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	"github.com/jhoicas/vendedores-api/pkg/logger"
)

// DefaultConcurrency vendedores calculados en paralelo en el consolidado.
const DefaultConcurrency = 4

// StatementUseCase calcula estados de resultado por vendedor y consolidados.
type StatementUseCase struct {
	txRunner    ports.TxRunner
	loc         *time.Location
	concurrency int
	log         *logger.Logger
}

// NewStatementUseCase loc define el día contable del filtro de ventas (UTC si es nil).
func NewStatementUseCase(txRunner ports.TxRunner, loc *time.Location, concurrency int, log *logger.Logger) *StatementUseCase {
	if loc == nil {
		loc = time.UTC
	}
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = logger.Nop()
	}
	return &StatementUseCase{txRunner: txRunner, loc: loc, concurrency: concurrency, log: log.Component("accounting")}
}

// ComputeStatement estado de un vendedor en [start, end] (fechas civiles, ambos inclusive).
// Todas las lecturas se hacen en una misma vista consistente.
func (uc *StatementUseCase) ComputeStatement(ctx context.Context, sellerID string, start, end time.Time) (*acc.Statement, error) {
	r, err := acc.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}
	if sellerID == "" {
		return nil, domain.ErrInvalidInput
	}
	var st acc.Statement
	err = uc.txRunner.RunSnapshot(ctx, func(ctx context.Context, repos ports.Repos) error {
		if err := ensureSeller(ctx, repos, sellerID); err != nil {
			return err
		}
		var err error
		st, err = uc.statement(ctx, repos, sellerID, r)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (uc *StatementUseCase) statement(ctx context.Context, repos ports.Repos, sellerID string, r acc.DateRange) (acc.Statement, error) {
	from, to := r.Bounds(uc.loc)
	sales, err := repos.Sales.ListBySeller(ctx, sellerID, from, to)
	if err != nil {
		return acc.Statement{}, fmt.Errorf("ventas: %w", err)
	}
	expenses, err := prorate(ctx, repos, sellerID, r)
	if err != nil {
		return acc.Statement{}, fmt.Errorf("gastos: %w", err)
	}
	rate, err := commissionRate(ctx, repos, sellerID)
	if err != nil {
		return acc.Statement{}, fmt.Errorf("comisión: %w", err)
	}
	return acc.BuildStatement(sellerID, r, sales, expenses, rate), nil
}

// ComputeAllSellers estado de cada vendedor activo, y de los inactivos con ventas o gastos en el
// rango, más los totales y las mermas. Un vendedor que falla aparece en cero con su error y no
// detiene al resto.
func (uc *StatementUseCase) ComputeAllSellers(ctx context.Context, start, end time.Time) (*acc.AllSellersStatement, error) {
	r, err := acc.NewDateRange(start, end)
	if err != nil {
		return nil, err
	}

	var sellers []*entity.Seller
	if err := uc.txRunner.RunSnapshot(ctx, func(ctx context.Context, repos ports.Repos) error {
		sellers, err = repos.Sellers.ListAll(ctx)
		return err
	}); err != nil {
		return nil, fmt.Errorf("listar vendedores: %w", err)
	}

	statements := make([]acc.Statement, len(sellers))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uc.concurrency)
	for i, s := range sellers {
		g.Go(func() error {
			st, err := uc.sellerSnapshot(gctx, s.ID, r)
			if err != nil {
				uc.log.Error().Err(err).Str("seller_id", s.ID).Msg("estado de vendedor falló")
				st = acc.FailedStatement(s.ID, r, err)
			}
			statements[i] = st
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	kept := statements[:0]
	for i, st := range statements {
		if sellers[i].Active || st.HasActivity() {
			kept = append(kept, st)
		}
	}
	statements = kept
	sort.SliceStable(statements, func(i, j int) bool { return statements[i].SellerID < statements[j].SellerID })

	totals := acc.NewRollup()
	for _, st := range statements {
		totals = totals.Add(st)
	}

	out := &acc.AllSellersStatement{Range: r, Sellers: statements, Totals: totals, TotalShrinkage: decimal.Zero}
	shrinkage, err := uc.shrinkage(ctx, r)
	if err != nil {
		uc.log.Error().Err(err).Msg("cálculo de mermas falló")
		out.ShrinkageError = err.Error()
	} else {
		out.TotalShrinkage = shrinkage
	}
	return out, nil
}

func (uc *StatementUseCase) sellerSnapshot(ctx context.Context, sellerID string, r acc.DateRange) (acc.Statement, error) {
	var st acc.Statement
	err := uc.txRunner.RunSnapshot(ctx, func(ctx context.Context, repos ports.Repos) error {
		var err error
		st, err = uc.statement(ctx, repos, sellerID, r)
		return err
	})
	return st, err
}

func (uc *StatementUseCase) shrinkage(ctx context.Context, r acc.DateRange) (decimal.Decimal, error) {
	from, to := r.Bounds(uc.loc)
	var values []entity.WriteOffValue
	err := uc.txRunner.RunSnapshot(ctx, func(ctx context.Context, repos ports.Repos) error {
		var err error
		values, err = repos.Movements.ListWriteOffValues(ctx, from, to)
		return err
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("mermas: %w", err)
	}
	return acc.Shrinkage(values), nil
}

// commissionRate porcentaje vigente; sin registro es 0.
func commissionRate(ctx context.Context, repos ports.Repos, sellerID string) (decimal.Decimal, error) {
	rate, err := repos.Commissions.Get(ctx, sellerID)
	if err != nil {
		return decimal.Zero, err
	}
	if rate == nil {
		return decimal.Zero, nil
	}
	return rate.Percentage, nil
}

func prorate(ctx context.Context, repos ports.Repos, sellerID string, r acc.DateRange) ([]acc.ProratedExpense, error) {
	return acc.Prorate(r, func(ym acc.YearMonth) ([]*entity.Expense, error) {
		return repos.Expenses.ListBySellerAndMonth(ctx, sellerID, int(ym.Month), ym.Year)
	})
}
