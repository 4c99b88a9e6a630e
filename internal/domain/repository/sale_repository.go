package repository

import (
	"context"
	"time"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// SaleRepository persistencia de ventas (inmutables).
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	// ListBySeller ventas del vendedor con fecha en [from, to).
	ListBySeller(ctx context.Context, sellerID string, from, to time.Time) ([]*entity.Sale, error)
}
