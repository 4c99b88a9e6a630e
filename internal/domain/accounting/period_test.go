package accounting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendedores-api/internal/domain"
)

func mustRange(t *testing.T, start, end string) DateRange {
	t.Helper()
	r, err := ParseDateRange(start, end)
	require.NoError(t, err)
	return r
}

func TestParseDateRange_Invalido(t *testing.T) {
	_, err := ParseDateRange("2024-02-10", "2024-02-01")
	assert.ErrorIs(t, err, domain.ErrDateRangeInvalid)

	_, err = ParseDateRange("10/02/2024", "2024-02-11")
	assert.ErrorIs(t, err, domain.ErrDateRangeInvalid)
}

func TestDateRange_UnSoloDia(t *testing.T) {
	r := mustRange(t, "2024-03-15", "2024-03-15")
	assert.Equal(t, 1, r.Days())
	assert.Equal(t, []YearMonth{{Year: 2024, Month: time.March}}, r.Months())
	assert.Equal(t, 1, r.DaysSelected(YearMonth{Year: 2024, Month: time.March}))
}

func TestDateRange_CambioDeAnio(t *testing.T) {
	r := mustRange(t, "2023-12-30", "2024-01-02")
	assert.Equal(t, 4, r.Days())
	assert.Equal(t, []YearMonth{
		{Year: 2023, Month: time.December},
		{Year: 2024, Month: time.January},
	}, r.Months())
	assert.Equal(t, 2, r.DaysSelected(YearMonth{Year: 2023, Month: time.December}))
	assert.Equal(t, 2, r.DaysSelected(YearMonth{Year: 2024, Month: time.January}))
	assert.Equal(t, 0, r.DaysSelected(YearMonth{Year: 2024, Month: time.February}))
}

func TestYearMonth_DiasDelMes(t *testing.T) {
	assert.Equal(t, 29, YearMonth{Year: 2024, Month: time.February}.DaysInMonth())
	assert.Equal(t, 28, YearMonth{Year: 2023, Month: time.February}.DaysInMonth())
	assert.Equal(t, 31, YearMonth{Year: 2024, Month: time.January}.DaysInMonth())
}

func TestDateRange_BoundsEnZonaHoraria(t *testing.T) {
	bogota, err := time.LoadLocation("America/Bogota")
	require.NoError(t, err)

	r := mustRange(t, "2024-05-01", "2024-05-31")
	from, to := r.Bounds(bogota)
	assert.Equal(t, time.Date(2024, 5, 1, 5, 0, 0, 0, time.UTC), from.UTC())
	assert.Equal(t, time.Date(2024, 6, 1, 5, 0, 0, 0, time.UTC), to.UTC())

	// una venta a las 23:59 del último día queda dentro del rango
	late := time.Date(2024, 5, 31, 23, 59, 0, 0, bogota)
	assert.True(t, !late.Before(from) && late.Before(to))
}

func TestNewDateRange_IgnoraHora(t *testing.T) {
	r, err := NewDateRange(
		time.Date(2024, 1, 5, 18, 30, 0, 0, time.UTC),
		time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Equal(t, 1, r.Days())
	assert.Equal(t, "2024-01-05..2024-01-05", r.String())
}
