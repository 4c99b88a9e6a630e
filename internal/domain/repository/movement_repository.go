package repository

import (
	"context"
	"time"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// MovementRepository persistencia append-only del libro de movimientos.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// ListByHolder movimientos donde el tenedor es origen o destino con fecha en [from, to)
	// (nil deja el extremo abierto), más recientes primero.
	ListByHolder(ctx context.Context, holder string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error)
	// ListWriteOffValues bajas (sin contar traslados) con fecha en [from, to) y el precio actual del producto.
	ListWriteOffValues(ctx context.Context, from, to time.Time) ([]entity.WriteOffValue, error)
}
