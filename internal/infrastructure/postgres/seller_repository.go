package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	"github.com/jhoicas/vendedores-api/internal/domain/repository"
)

var _ repository.SellerRepository = (*SellerRepo)(nil)

// SellerRepo lectura de vendedores.
type SellerRepo struct {
	q Querier
}

func NewSellerRepository(q Querier) *SellerRepo {
	return &SellerRepo{q: q}
}

type sellerRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
}

func (r *SellerRepo) GetByID(ctx context.Context, id string) (*entity.Seller, error) {
	list, err := r.list(ctx, psql.Select("id", "name", "active", "created_at").From("sellers").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *SellerRepo) ListActive(ctx context.Context) ([]*entity.Seller, error) {
	return r.list(ctx, psql.Select("id", "name", "active", "created_at").
		From("sellers").
		Where(sq.Eq{"active": true}).
		OrderBy("id"))
}

func (r *SellerRepo) ListAll(ctx context.Context) ([]*entity.Seller, error) {
	return r.list(ctx, psql.Select("id", "name", "active", "created_at").From("sellers").OrderBy("id"))
}

func (r *SellerRepo) list(ctx context.Context, b sq.SelectBuilder) ([]*entity.Seller, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sellers: %w", err)
	}
	var rows []sellerRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sellers: %w", err)
	}
	out := make([]*entity.Seller, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Seller{ID: row.ID, Name: row.Name, Active: row.Active, CreatedAt: row.CreatedAt})
	}
	return out, nil
}
