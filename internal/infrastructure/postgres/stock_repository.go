package postgres

import (
	"context"
	"fmt"
	"sort"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	"github.com/jhoicas/vendedores-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo stock por tenedor. La bodega usa products.quantity y product_variants.quantity;
// los vendedores usan seller_stock y seller_stock_variants.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

type stockRow struct {
	ProductID   string    `db:"product_id"`
	VariantID   *string   `db:"variant_id"`
	VariantName *string   `db:"variant_name"`
	Quantity    int64     `db:"quantity"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (row stockRow) entry(holder string) *entity.StockEntry {
	return &entity.StockEntry{
		StockKey:    entity.StockKey{Holder: holder, ProductID: row.ProductID, VariantID: derefString(row.VariantID)},
		VariantName: derefString(row.VariantName),
		Quantity:    row.Quantity,
		UpdatedAt:   row.UpdatedAt,
	}
}

func (r *StockRepo) selectRows(ctx context.Context, b sq.SelectBuilder, op string) ([]stockRow, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", op, err)
	}
	var rows []stockRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rows, nil
}

func warehouseProducts() sq.SelectBuilder {
	return psql.Select("id AS product_id", "NULL::text AS variant_id", "NULL::text AS variant_name", "quantity", "updated_at").
		From("products")
}

func warehouseVariants() sq.SelectBuilder {
	return psql.Select("v.product_id", "v.id AS variant_id", "v.name AS variant_name", "v.quantity", "p.updated_at").
		From("product_variants v").
		Join("products p ON p.id = v.product_id")
}

func sellerProducts() sq.SelectBuilder {
	return psql.Select("product_id", "NULL::text AS variant_id", "NULL::text AS variant_name", "quantity", "updated_at").
		From("seller_stock")
}

func sellerVariants() sq.SelectBuilder {
	return psql.Select("s.product_id", "s.variant_id", "v.name AS variant_name", "s.quantity", "s.updated_at").
		From("seller_stock_variants s").
		Join("product_variants v ON v.id = s.variant_id")
}

// GetOrCreateForUpdate bloquea la fila de stock; para vendedores la crea en 0 si no existía.
func (r *StockRepo) GetOrCreateForUpdate(ctx context.Context, key entity.StockKey) (*entity.StockEntry, error) {
	var b sq.SelectBuilder
	notFound := domain.ErrProductNotFound
	switch {
	case entity.IsWarehouse(key.Holder) && key.VariantID == "":
		b = warehouseProducts().Where(sq.Eq{"id": key.ProductID}).Suffix("FOR UPDATE")
	case entity.IsWarehouse(key.Holder):
		notFound = domain.ErrVariantNotFound
		b = warehouseVariants().
			Where(sq.Eq{"v.id": key.VariantID, "v.product_id": key.ProductID}).
			Suffix("FOR UPDATE OF v")
	case key.VariantID == "":
		if err := r.ensureSellerRow(ctx, key); err != nil {
			return nil, err
		}
		b = sellerProducts().
			Where(sq.Eq{"seller_id": key.Holder, "product_id": key.ProductID}).
			Suffix("FOR UPDATE")
	default:
		if err := r.ensureSellerRow(ctx, key); err != nil {
			return nil, err
		}
		notFound = domain.ErrVariantNotFound
		b = sellerVariants().
			Where(sq.Eq{"s.seller_id": key.Holder, "s.product_id": key.ProductID, "s.variant_id": key.VariantID}).
			Suffix("FOR UPDATE OF s")
	}
	rows, err := r.selectRows(ctx, b, "lock stock")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, notFound
	}
	return rows[0].entry(key.Holder), nil
}

// ensureSellerRow inserta la fila del vendedor en 0; si ya existe no hace nada.
func (r *StockRepo) ensureSellerRow(ctx context.Context, key entity.StockKey) error {
	var b sq.InsertBuilder
	if key.VariantID == "" {
		b = psql.Insert("seller_stock").
			Columns("seller_id", "product_id", "quantity").
			Values(key.Holder, key.ProductID, 0)
	} else {
		b = psql.Insert("seller_stock_variants").
			Columns("seller_id", "product_id", "variant_id", "quantity").
			Values(key.Holder, key.ProductID, key.VariantID, 0)
	}
	query, args, err := b.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("build ensure stock: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		if isForeignKeyViolation(err) {
			if key.VariantID != "" {
				return domain.ErrVariantNotFound
			}
			return domain.ErrProductNotFound
		}
		return fmt.Errorf("ensure stock: %w", err)
	}
	return nil
}

// ListForUpdate bloquea todas las filas del producto en el tenedor.
func (r *StockRepo) ListForUpdate(ctx context.Context, holder, productID string) ([]*entity.StockEntry, error) {
	var builders []sq.SelectBuilder
	if entity.IsWarehouse(holder) {
		builders = []sq.SelectBuilder{
			warehouseProducts().Where(sq.Eq{"id": productID, "has_variants": false}).Suffix("FOR UPDATE"),
			warehouseVariants().Where(sq.Eq{"v.product_id": productID}).OrderBy("v.id").Suffix("FOR UPDATE OF v"),
		}
	} else {
		builders = []sq.SelectBuilder{
			sellerProducts().Where(sq.Eq{"seller_id": holder, "product_id": productID}).Suffix("FOR UPDATE"),
			sellerVariants().Where(sq.Eq{"s.seller_id": holder, "s.product_id": productID}).OrderBy("s.variant_id").Suffix("FOR UPDATE OF s"),
		}
	}
	var out []*entity.StockEntry
	for _, b := range builders {
		rows, err := r.selectRows(ctx, b, "lock stock list")
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			out = append(out, row.entry(holder))
		}
	}
	return out, nil
}

// Update escribe la cantidad de una fila previamente bloqueada.
func (r *StockRepo) Update(ctx context.Context, entry *entity.StockEntry) error {
	set := map[string]any{"quantity": entry.Quantity}
	var (
		table string
		where sq.Eq
	)
	switch {
	case entity.IsWarehouse(entry.Holder) && entry.VariantID == "":
		table, where = "products", sq.Eq{"id": entry.ProductID}
		set["updated_at"] = entry.UpdatedAt
	case entity.IsWarehouse(entry.Holder):
		table, where = "product_variants", sq.Eq{"id": entry.VariantID, "product_id": entry.ProductID}
	case entry.VariantID == "":
		table, where = "seller_stock", sq.Eq{"seller_id": entry.Holder, "product_id": entry.ProductID}
		set["updated_at"] = entry.UpdatedAt
	default:
		table, where = "seller_stock_variants", sq.Eq{"seller_id": entry.Holder, "product_id": entry.ProductID, "variant_id": entry.VariantID}
		set["updated_at"] = entry.UpdatedAt
	}
	query, args, err := buildPartialUpdate(table, set, where)
	if err != nil {
		return fmt.Errorf("build update stock: %w", err)
	}
	tag, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if pgCode(err) == codeCheckViolation {
			return &domain.StockError{Holder: entry.Holder, ProductID: entry.ProductID, Variant: entry.VariantName, Requested: -entry.Quantity}
		}
		return fmt.Errorf("update stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock %s/%s: %w", entry.Holder, entry.ProductID, domain.ErrNotFound)
	}
	return nil
}

// ListByHolder stock del tenedor (sin bloquear), ordenado por producto y variante.
func (r *StockRepo) ListByHolder(ctx context.Context, holder string) ([]*entity.StockEntry, error) {
	var builders []sq.SelectBuilder
	if entity.IsWarehouse(holder) {
		builders = []sq.SelectBuilder{
			warehouseProducts().Where(sq.Eq{"has_variants": false}),
			warehouseVariants(),
		}
	} else {
		builders = []sq.SelectBuilder{
			sellerProducts().Where(sq.Eq{"seller_id": holder}),
			sellerVariants().Where(sq.Eq{"s.seller_id": holder}),
		}
	}
	var out []*entity.StockEntry
	for _, b := range builders {
		rows, err := r.selectRows(ctx, b, "list stock")
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			out = append(out, row.entry(holder))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockKey.Less(out[j].StockKey) })
	return out, nil
}
