package postgres

import (
	"errors"
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/repository"
)

func TestBuildPartialUpdate_SoloCamposPresentes(t *testing.T) {
	name := "Arriendo"
	value := decimal.NewFromInt(300)
	set := expensePatchColumns(repository.ExpensePatch{Name: &name, MonthlyValue: &value})

	query, args, err := buildPartialUpdate("expenses", set, sq.Eq{"id": "e1"})
	require.NoError(t, err)

	assert.Equal(t, "UPDATE expenses SET monthly_value = $1, name = $2, updated_at = now() WHERE id = $3", query)
	require.Len(t, args, 3)
	assert.True(t, value.Equal(args[0].(decimal.Decimal)))
	assert.Equal(t, "Arriendo", args[1])
	assert.Equal(t, "e1", args[2])
}

func TestBuildPartialUpdate_PatchVacio_Error(t *testing.T) {
	_, _, err := buildPartialUpdate("expenses", expensePatchColumns(repository.ExpensePatch{}), sq.Eq{"id": "e1"})
	assert.ErrorIs(t, err, errEmptyUpdate)
}

func TestBuildPartialUpdate_MesYAnio(t *testing.T) {
	month, year := 2, 2025
	query, args, err := buildPartialUpdate("expenses",
		expensePatchColumns(repository.ExpensePatch{Month: &month, Year: &year}), sq.Eq{"id": "e1"})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE expenses SET month = $1, updated_at = now(), year = $2 WHERE id = $3", query)
	assert.Equal(t, []any{2, 2025, "e1"}, args)
}

func TestWriteOffValuesQuery_ExcluyeTraslados(t *testing.T) {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	query, args, err := writeOffValuesQuery(from, to).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "JOIN products p ON p.id = m.product_id")
	assert.Contains(t, query, "m.transfer_id IS NULL")
	assert.Contains(t, query, "m.type = $1")
	assert.Contains(t, query, "m.date >= $2")
	assert.Contains(t, query, "m.date < $3")
	assert.Equal(t, []any{"WRITE_OFF", from, to}, args)
}

func TestSalesBySellerQuery_RangoSemiAbierto(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	query, args, err := salesBySellerQuery("s1", from, to).ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "WHERE seller_id = $1 AND date >= $2 AND date < $3")
	assert.Contains(t, query, "ORDER BY date, id")
	assert.Equal(t, []any{"s1", from, to}, args)
}

func TestMapTxError_ConflictosSonReintentables(t *testing.T) {
	for _, code := range []string{codeSerializationFailure, codeDeadlockDetected} {
		err := mapTxError(&pgconn.PgError{Code: code})
		assert.ErrorIs(t, err, domain.ErrConcurrentModification, "código %s", code)
	}

	other := errors.New("boom")
	assert.Same(t, other, mapTxError(other))
	assert.NotErrorIs(t, mapTxError(&pgconn.PgError{Code: codeUniqueViolation}), domain.ErrConcurrentModification)
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}
