package postgres

import (
	"errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/jhoicas/vendedores-api/internal/domain/repository"
)

// psql builder con placeholders $n de PostgreSQL.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var errEmptyUpdate = errors.New("postgres: update sin columnas")

// buildPartialUpdate arma un UPDATE solo con las columnas presentes en set.
// Las columnas salen ordenadas, así que el SQL es estable para el mismo conjunto de campos.
func buildPartialUpdate(table string, set map[string]any, where sq.Sqlizer) (string, []any, error) {
	if len(set) == 0 {
		return "", nil, errEmptyUpdate
	}
	return psql.Update(table).SetMap(set).Where(where).ToSql()
}

// expensePatchColumns columnas a actualizar para un patch de gasto.
func expensePatchColumns(p repository.ExpensePatch) map[string]any {
	set := map[string]any{}
	if p.Name != nil {
		set["name"] = *p.Name
	}
	if p.MonthlyValue != nil {
		set["monthly_value"] = *p.MonthlyValue
	}
	if p.Month != nil {
		set["month"] = *p.Month
	}
	if p.Year != nil {
		set["year"] = *p.Year
	}
	if len(set) > 0 {
		set["updated_at"] = sq.Expr("now()")
	}
	return set
}
