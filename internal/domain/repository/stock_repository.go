package repository

import (
	"context"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// StockRepository define el puerto para leer y ajustar stock por (tenedor, producto[, variante]).
// Los métodos ForUpdate bloquean las filas y solo tienen sentido dentro de una transacción.
type StockRepository interface {
	// GetOrCreateForUpdate bloquea la entrada y la crea con cantidad 0 si no existía.
	// Para la bodega la entrada es el propio producto/variante y nunca se crea.
	GetOrCreateForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockEntry, error)
	// ListForUpdate bloquea y devuelve todas las entradas existentes de un producto en un tenedor.
	ListForUpdate(ctx context.Context, holder, productID string) ([]*entity.StockEntry, error)
	Update(ctx context.Context, entry *entity.StockEntry) error
	ListByHolder(ctx context.Context, holder string) ([]*entity.StockEntry, error)
}
