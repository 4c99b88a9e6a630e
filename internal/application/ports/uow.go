package ports

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/repository"
	"github.com/jhoicas/vendedores-api/pkg/logger"
)

// Repos repositorios atados a una misma unidad de trabajo (transacción o snapshot).
type Repos struct {
	Products    repository.ProductRepository
	Stock       repository.StockRepository
	Movements   repository.MovementRepository
	Sales       repository.SaleRepository
	Expenses    repository.ExpenseRepository
	Commissions repository.CommissionRepository
	Sellers     repository.SellerRepository
}

// TxFunc trabajo a ejecutar con repos atados a la transacción.
type TxFunc func(ctx context.Context, repos Repos) error

// TxRunner ejecuta funciones dentro de una transacción de BD.
//   - Run: lectura/escritura; Commit solo si fn no devuelve error, Rollback en cualquier otro caso.
//     Los conflictos de serialización o deadlocks se devuelven como domain.ErrConcurrentModification.
//   - RunSnapshot: solo lectura con una vista consistente (REPEATABLE READ) para reportes.
type TxRunner interface {
	Run(ctx context.Context, fn TxFunc) error
	RunSnapshot(ctx context.Context, fn TxFunc) error
}

// DefaultMaxRetries reintentos ante domain.ErrConcurrentModification.
const DefaultMaxRetries = 3

const retryBackoff = 15 * time.Millisecond

// RunWithRetry ejecuta runner.Run y reintenta hasta maxRetries veces si la transacción
// falló por modificación concurrente. Cada intento es una transacción nueva que relee el estado.
// log puede ser nil.
func RunWithRetry(ctx context.Context, runner TxRunner, maxRetries int, log *logger.Logger, fn TxFunc) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	for attempt := 0; ; attempt++ {
		err := runner.Run(ctx, fn)
		if err == nil || !errors.Is(err, domain.ErrConcurrentModification) || attempt >= maxRetries {
			return err
		}
		if log != nil {
			log.Warn().Err(err).Int("attempt", attempt+1).Int("max_retries", maxRetries).Msg("conflicto de concurrencia, reintentando")
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(attempt+1) * retryBackoff):
		}
	}
}
