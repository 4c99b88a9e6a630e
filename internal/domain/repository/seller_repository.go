package repository

import (
	"context"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// SellerRepository lectura de vendedores. GetByID devuelve (nil, nil) si no existe.
type SellerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Seller, error)
	ListActive(ctx context.Context) ([]*entity.Seller, error)
	// ListAll incluye los inactivos, ordenados por id.
	ListAll(ctx context.Context) ([]*entity.Seller, error)
}
