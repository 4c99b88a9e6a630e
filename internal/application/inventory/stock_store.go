package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	"github.com/jhoicas/vendedores-api/internal/domain/repository"
)

// StockAdjustment delta a aplicar sobre una entrada de stock.
type StockAdjustment struct {
	Key         entity.StockKey
	VariantName string
	Delta       int64
}

// StockStore aplica ajustes sobre el stock dentro de la transacción del caller.
// No guarda estado: cada ajuste relee (y bloquea) la fila inmediatamente antes de escribir.
type StockStore struct{}

// Adjust bloquea la entrada (creándola si no existe), rechaza si current+delta < 0 y
// escribe la nueva cantidad.
func (StockStore) Adjust(ctx context.Context, stock repository.StockRepository, adj StockAdjustment, now time.Time) (*entity.StockEntry, error) {
	entry, err := stock.GetOrCreateForUpdate(ctx, adj.Key)
	if err != nil {
		return nil, err
	}
	if entry.Quantity+adj.Delta < 0 {
		return nil, &domain.StockError{
			Holder:    adj.Key.Holder,
			ProductID: adj.Key.ProductID,
			Variant:   adj.VariantName,
			Available: entry.Quantity,
			Requested: -adj.Delta,
		}
	}
	entry.Quantity += adj.Delta
	entry.UpdatedAt = now
	if err := stock.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ApplyAll aplica los ajustes en orden de clave para que transacciones concurrentes
// bloqueen filas siempre en el mismo orden. Si uno falla, el caller debe hacer Rollback.
func (s StockStore) ApplyAll(ctx context.Context, stock repository.StockRepository, adjs []StockAdjustment, now time.Time) error {
	sorted := make([]StockAdjustment, len(adjs))
	copy(sorted, adjs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Key.Less(sorted[j].Key) })
	for _, adj := range sorted {
		if _, err := s.Adjust(ctx, stock, adj, now); err != nil {
			return err
		}
	}
	return nil
}

// Total stock de un producto en un tenedor; con variantes es la suma de sus variantes.
func (StockStore) Total(entries []*entity.StockEntry) int64 {
	var total int64
	for _, e := range entries {
		total += e.Quantity
	}
	return total
}
