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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

type saleRow struct {
	ID            string          `db:"id"`
	ProductID     string          `db:"product_id"`
	SellerID      string          `db:"seller_id"`
	Quantity      int64           `db:"quantity"`
	UnitPrice     decimal.Decimal `db:"unit_price"`
	PurchasePrice decimal.Decimal `db:"purchase_price"`
	Date          time.Time       `db:"date"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}

func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	query, args, err := psql.Insert("sales").
		Columns("id", "product_id", "seller_id", "quantity", "unit_price", "purchase_price", "date", "created_at", "created_by").
		Values(s.ID, s.ProductID, s.SellerID, s.Quantity, s.UnitPrice, s.PurchasePrice, s.Date, s.CreatedAt, s.CreatedBy).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert sale: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	return insertLines(ctx, r.q, "sale_lines", "sale_id", s.ID, s.Lines)
}

// salesBySellerQuery ventas con fecha en [from, to).
func salesBySellerQuery(sellerID string, from, to time.Time) sq.SelectBuilder {
	return psql.Select("id", "product_id", "seller_id", "quantity", "unit_price", "purchase_price", "date", "created_at", "created_by").
		From("sales").
		Where(sq.Eq{"seller_id": sellerID}).
		Where(sq.GtOrEq{"date": from}).
		Where(sq.Lt{"date": to}).
		OrderBy("date", "id")
}

func (r *SaleRepo) ListBySeller(ctx context.Context, sellerID string, from, to time.Time) ([]*entity.Sale, error) {
	query, args, err := salesBySellerQuery(sellerID, from, to).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sales: %w", err)
	}
	var rows []saleRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	lines, err := loadLines(ctx, r.q, "sale_lines", "sale_id", ids)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Sale, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Sale{
			ID:            row.ID,
			ProductID:     row.ProductID,
			SellerID:      row.SellerID,
			Quantity:      row.Quantity,
			UnitPrice:     row.UnitPrice,
			PurchasePrice: row.PurchasePrice,
			Date:          row.Date,
			CreatedAt:     row.CreatedAt,
			CreatedBy:     row.CreatedBy,
			Lines:         lines[row.ID],
		})
	}
	return out, nil
}
