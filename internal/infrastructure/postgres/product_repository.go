package postgres

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	"github.com/jhoicas/vendedores-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo lectura de productos y variantes sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

type productRow struct {
	ID          string          `db:"id"`
	Name        string          `db:"name"`
	Price       decimal.Decimal `db:"price"`
	Cost        decimal.Decimal `db:"cost"`
	HasVariants bool            `db:"has_variants"`
	Quantity    int64           `db:"quantity"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`
}

type variantRow struct {
	ID        string `db:"id"`
	ProductID string `db:"product_id"`
	Name      string `db:"name"`
	Quantity  int64  `db:"quantity"`
}

// GetByID obtiene el producto con sus variantes ordenadas por nombre.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query, args, err := psql.
		Select("id", "name", "price", "cost", "has_variants", "quantity", "created_at", "updated_at").
		From("products").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get product: %w", err)
	}
	var rows []productRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	row := rows[0]
	p := &entity.Product{
		ID:          row.ID,
		Name:        row.Name,
		Price:       row.Price,
		Cost:        row.Cost,
		HasVariants: row.HasVariants,
		Quantity:    row.Quantity,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
	if !p.HasVariants {
		return p, nil
	}

	query, args, err = psql.
		Select("id", "product_id", "name", "quantity").
		From("product_variants").
		Where(sq.Eq{"product_id": id}).
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list variants: %w", err)
	}
	var variants []variantRow
	if err := pgxscan.Select(ctx, r.q, &variants, query, args...); err != nil {
		return nil, fmt.Errorf("list variants: %w", err)
	}
	p.Variants = make([]entity.Variant, 0, len(variants))
	for _, v := range variants {
		p.Variants = append(p.Variants, entity.Variant{ID: v.ID, ProductID: v.ProductID, Name: v.Name, Quantity: v.Quantity})
	}
	return p, nil
}
