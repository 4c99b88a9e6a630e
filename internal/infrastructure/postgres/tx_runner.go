package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jhoicas/vendedores-api/internal/application/ports"
	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/pkg/logger"
)

var tracer = otel.Tracer("vendedores-api/postgres")

var _ ports.TxRunner = (*TxRunner)(nil)

// TxOptions aislamiento y modo de acceso de una transacción.
type TxOptions struct {
	IsolationLevel   pgx.TxIsoLevel
	AccessMode       pgx.TxAccessMode
	StatementTimeout time.Duration
}

// writeTxOptions READ COMMITTED basta: las escrituras de stock bloquean sus filas con FOR UPDATE.
func writeTxOptions() TxOptions {
	return TxOptions{IsolationLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite, StatementTimeout: 30 * time.Second}
}

// snapshotTxOptions vista consistente para reportes.
func snapshotTxOptions() TxOptions {
	return TxOptions{IsolationLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly, StatementTimeout: 60 * time.Second}
}

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool, log *logger.Logger) *TxRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &TxRunner{pool: pool, log: log.Component("postgres")}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn ports.TxFunc) error {
	return r.run(ctx, writeTxOptions(), fn)
}

// RunSnapshot transacción REPEATABLE READ de solo lectura.
func (r *TxRunner) RunSnapshot(ctx context.Context, fn ports.TxFunc) error {
	return r.run(ctx, snapshotTxOptions(), fn)
}

func (r *TxRunner) run(ctx context.Context, opts TxOptions, fn ports.TxFunc) (err error) {
	ctx, span := tracer.Start(ctx, "transaction", trace.WithAttributes(
		attribute.String("tx.isolation", string(opts.IsolationLevel)),
		attribute.String("tx.access_mode", string(opts.AccessMode)),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: opts.IsolationLevel, AccessMode: opts.AccessMode})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		// Rollback con contexto propio para que se complete aunque ctx se haya cancelado.
		if rbErr := tx.Rollback(context.Background()); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			r.log.Error().Err(rbErr).Msg("rollback falló")
		}
	}()

	if opts.StatementTimeout > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf("SET LOCAL statement_timeout = '%dms'", opts.StatementTimeout.Milliseconds())); err != nil {
			return fmt.Errorf("set statement_timeout: %w", err)
		}
	}

	if err := fn(ctx, reposFor(tx)); err != nil {
		return mapTxError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return mapTxError(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// mapTxError traduce conflictos de serialización y deadlocks a ErrConcurrentModification.
func mapTxError(err error) error {
	if isRetryable(err) {
		return fmt.Errorf("%w: %v", domain.ErrConcurrentModification, err)
	}
	return err
}

func reposFor(q Querier) ports.Repos {
	return ports.Repos{
		Products:    NewProductRepository(q),
		Stock:       NewStockRepository(q),
		Movements:   NewMovementRepository(q),
		Sales:       NewSaleRepository(q),
		Expenses:    NewExpenseRepository(q),
		Commissions: NewCommissionRepository(q),
		Sellers:     NewSellerRepository(q),
	}
}
