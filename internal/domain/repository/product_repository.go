package repository

import (
	"context"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// ProductRepository lectura de datos maestros de productos y variantes.
// GetByID devuelve (nil, nil) si el producto no existe.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
}
