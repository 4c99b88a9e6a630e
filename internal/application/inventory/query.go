package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/vendedores-api/internal/application/ports"
	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// QueryUseCase consultas de stock e historial de movimientos (solo lectura).
type QueryUseCase struct {
	txRunner ports.TxRunner
}

// NewQueryUseCase construye el caso de uso.
func NewQueryUseCase(txRunner ports.TxRunner) *QueryUseCase {
	return &QueryUseCase{txRunner: txRunner}
}

// StockByHolder agrupa el stock del tenedor por producto; el total de productos con variantes
// se recalcula como suma de variantes.
func (uc *QueryUseCase) StockByHolder(ctx context.Context, holder string) ([]entity.HolderStock, error) {
	if holder == "" {
		return nil, domain.ErrInvalidInput
	}
	var out []entity.HolderStock
	err := uc.txRunner.RunSnapshot(ctx, func(ctx context.Context, repos ports.Repos) error {
		out = nil
		if err := ensureHolders(ctx, repos, holder); err != nil {
			return err
		}
		entries, err := repos.Stock.ListByHolder(ctx, holder)
		if err != nil {
			return err
		}
		byProduct := map[string]*entity.HolderStock{}
		var order []string
		for _, e := range entries {
			hs, ok := byProduct[e.ProductID]
			if !ok {
				hs = &entity.HolderStock{Holder: holder, ProductID: e.ProductID}
				product, err := repos.Products.GetByID(ctx, e.ProductID)
				if err != nil {
					return err
				}
				if product != nil {
					hs.ProductName = product.Name
					hs.HasVariants = product.HasVariants
				}
				byProduct[e.ProductID] = hs
				order = append(order, e.ProductID)
			}
			hs.Total += e.Quantity
			if e.VariantID != "" {
				hs.HasVariants = true
				hs.Variants = append(hs.Variants, *e)
			}
		}
		sort.Strings(order)
		for _, id := range order {
			out = append(out, *byProduct[id])
		}
		return nil
	})
	return out, err
}

// MovementFilter filtros del historial.
type MovementFilter struct {
	Holder string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// ListMovements historial de movimientos de un tenedor.
func (uc *QueryUseCase) ListMovements(ctx context.Context, f MovementFilter) ([]*entity.Movement, error) {
	if f.Holder == "" {
		return nil, domain.ErrInvalidInput
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, domain.ErrDateRangeInvalid
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	var out []*entity.Movement
	err := uc.txRunner.RunSnapshot(ctx, func(ctx context.Context, repos ports.Repos) error {
		var err error
		out, err = repos.Movements.ListByHolder(ctx, f.Holder, f.From, f.To, f.Limit, f.Offset)
		return err
	})
	return out, err
}
