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

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos sobre PostgreSQL. Solo inserta y lee.
type MovementRepo struct {
	q Querier
}

func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

var movementColumns = []string{
	"id", "transfer_id", "product_id", "type", "from_holder", "to_holder", "quantity",
	"unit_price", "unit_cost", "reason", "date", "created_at", "created_by",
}

type movementRow struct {
	ID         string          `db:"id"`
	TransferID *string         `db:"transfer_id"`
	ProductID  string          `db:"product_id"`
	Type       string          `db:"type"`
	FromHolder string          `db:"from_holder"`
	ToHolder   string          `db:"to_holder"`
	Quantity   int64           `db:"quantity"`
	UnitPrice  decimal.Decimal `db:"unit_price"`
	UnitCost   decimal.Decimal `db:"unit_cost"`
	Reason     string          `db:"reason"`
	Date       time.Time       `db:"date"`
	CreatedAt  time.Time       `db:"created_at"`
	CreatedBy  string          `db:"created_by"`
}

type lineRow struct {
	OwnerID     string `db:"owner_id"`
	VariantID   string `db:"variant_id"`
	VariantName string `db:"variant_name"`
	Quantity    int64  `db:"quantity"`
}

// Create inserta el movimiento y sus líneas por variante.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query, args, err := psql.Insert("movements").
		Columns(movementColumns...).
		Values(m.ID, nullIfEmpty(m.TransferID), m.ProductID, m.Type, m.FromHolder, m.ToHolder, m.Quantity,
			m.UnitPrice, m.UnitCost, m.Reason, m.Date, m.CreatedAt, m.CreatedBy).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert movement: %w", err)
	}
	if _, err := r.q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	return insertLines(ctx, r.q, "movement_lines", "movement_id", m.ID, m.Lines)
}

// insertLines inserta todas las líneas en un solo INSERT.
func insertLines(ctx context.Context, q Querier, table, ownerColumn, ownerID string, lines []entity.MovementLine) error {
	if len(lines) == 0 {
		return nil
	}
	b := psql.Insert(table).Columns(ownerColumn, "variant_id", "variant_name", "quantity")
	for _, l := range lines {
		b = b.Values(ownerID, l.VariantID, l.VariantName, l.Quantity)
	}
	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build insert %s: %w", table, err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", table, err)
	}
	return nil
}

// loadLines devuelve las líneas agrupadas por dueño (movimiento o venta).
func loadLines(ctx context.Context, q Querier, table, ownerColumn string, ownerIDs []string) (map[string][]entity.MovementLine, error) {
	out := map[string][]entity.MovementLine{}
	if len(ownerIDs) == 0 {
		return out, nil
	}
	query, args, err := psql.
		Select(ownerColumn+" AS owner_id", "variant_id", "variant_name", "quantity").
		From(table).
		Where(sq.Eq{ownerColumn: ownerIDs}).
		OrderBy(ownerColumn, "variant_name").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list %s: %w", table, err)
	}
	var rows []lineRow
	if err := pgxscan.Select(ctx, q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	for _, row := range rows {
		out[row.OwnerID] = append(out[row.OwnerID], entity.MovementLine{
			VariantID: row.VariantID, VariantName: row.VariantName, Quantity: row.Quantity,
		})
	}
	return out, nil
}

func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	list, err := r.list(ctx, psql.Select(movementColumns...).From("movements").Where(sq.Eq{"id": id}))
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// ListByHolder movimientos del tenedor, más recientes primero.
func (r *MovementRepo) ListByHolder(ctx context.Context, holder string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	b := psql.Select(movementColumns...).
		From("movements").
		Where(sq.Or{sq.Eq{"from_holder": holder}, sq.Eq{"to_holder": holder}})
	if from != nil {
		b = b.Where(sq.GtOrEq{"date": *from})
	}
	if to != nil {
		b = b.Where(sq.Lt{"date": *to})
	}
	b = b.OrderBy("date DESC", "created_at DESC", "id")
	if limit > 0 {
		b = b.Limit(uint64(limit))
	}
	if offset > 0 {
		b = b.Offset(uint64(offset))
	}
	return r.list(ctx, b)
}

func (r *MovementRepo) list(ctx context.Context, b sq.SelectBuilder) ([]*entity.Movement, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list movements: %w", err)
	}
	var rows []movementRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	lines, err := loadLines(ctx, r.q, "movement_lines", "movement_id", ids)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Movement, 0, len(rows))
	for _, row := range rows {
		out = append(out, &entity.Movement{
			ID:         row.ID,
			TransferID: derefString(row.TransferID),
			ProductID:  row.ProductID,
			Type:       row.Type,
			FromHolder: row.FromHolder,
			ToHolder:   row.ToHolder,
			Quantity:   row.Quantity,
			UnitPrice:  row.UnitPrice,
			UnitCost:   row.UnitCost,
			Reason:     row.Reason,
			Date:       row.Date,
			CreatedAt:  row.CreatedAt,
			CreatedBy:  row.CreatedBy,
			Lines:      lines[row.ID],
		})
	}
	return out, nil
}

type writeOffRow struct {
	MovementID   string          `db:"movement_id"`
	ProductID    string          `db:"product_id"`
	Quantity     int64           `db:"quantity"`
	CurrentPrice decimal.Decimal `db:"current_price"`
	Date         time.Time       `db:"date"`
}

// writeOffValuesQuery bajas que no son parte de un traslado, con el precio actual del producto.
func writeOffValuesQuery(from, to time.Time) sq.SelectBuilder {
	return psql.Select("m.id AS movement_id", "m.product_id", "m.quantity", "p.price AS current_price", "m.date").
		From("movements m").
		Join("products p ON p.id = m.product_id").
		Where(sq.Eq{"m.type": entity.MovementTypeWriteOff, "m.transfer_id": nil}).
		Where(sq.GtOrEq{"m.date": from}).
		Where(sq.Lt{"m.date": to}).
		OrderBy("m.date")
}

func (r *MovementRepo) ListWriteOffValues(ctx context.Context, from, to time.Time) ([]entity.WriteOffValue, error) {
	query, args, err := writeOffValuesQuery(from, to).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build write-off values: %w", err)
	}
	var rows []writeOffRow
	if err := pgxscan.Select(ctx, r.q, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("write-off values: %w", err)
	}
	out := make([]entity.WriteOffValue, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.WriteOffValue{
			MovementID:   row.MovementID,
			ProductID:    row.ProductID,
			Quantity:     row.Quantity,
			CurrentPrice: row.CurrentPrice,
			Date:         row.Date,
		})
	}
	return out, nil
}
