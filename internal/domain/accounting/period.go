// Package accounting contiene el cálculo puro de prorrateo de gastos y estados de resultado
// por vendedor, sin acceso a persistencia.
package accounting

import (
	"time"

	"github.com/jhoicas/vendedores-api/internal/domain"
)

const dayLayout = "2006-01-02"

// DateRange rango de días calendario inclusivo en ambos extremos.
// Start y End se guardan como medianoche UTC de la fecha civil; la zona horaria
// solo se aplica al traducir el rango a instantes (Bounds).
type DateRange struct {
	Start time.Time
	End   time.Time
}

// YearMonth mes calendario.
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewDateRange trunca start y end a su fecha civil y valida que start <= end.
func NewDateRange(start, end time.Time) (DateRange, error) {
	r := DateRange{Start: civil(start), End: civil(end)}
	if r.Start.After(r.End) {
		return DateRange{}, domain.ErrDateRangeInvalid
	}
	return r, nil
}

// ParseDateRange interpreta fechas YYYY-MM-DD.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(dayLayout, start)
	if err != nil {
		return DateRange{}, domain.ErrDateRangeInvalid
	}
	e, err := time.Parse(dayLayout, end)
	if err != nil {
		return DateRange{}, domain.ErrDateRangeInvalid
	}
	return NewDateRange(s, e)
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Bounds devuelve [desde, hasta) en la zona indicada: desde el inicio del primer día
// hasta el inicio del día siguiente al último, para ignorar la hora del día.
func (r DateRange) Bounds(loc *time.Location) (from, to time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	from = time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, loc)
	to = time.Date(r.End.Year(), r.End.Month(), r.End.Day()+1, 0, 0, 0, 0, loc)
	return from, to
}

// Days cantidad de días del rango.
func (r DateRange) Days() int {
	return daysBetween(r.Start, r.End) + 1
}

// Months meses calendario que intersectan el rango, en orden.
func (r DateRange) Months() []YearMonth {
	var out []YearMonth
	ym := YearMonth{Year: r.Start.Year(), Month: r.Start.Month()}
	last := YearMonth{Year: r.End.Year(), Month: r.End.Month()}
	for {
		out = append(out, ym)
		if ym == last {
			return out
		}
		ym = ym.Next()
	}
}

// DaysSelected días del mes que caen dentro del rango (0 si no intersecta).
func (r DateRange) DaysSelected(ym YearMonth) int {
	first := ym.FirstDay()
	last := ym.LastDay()
	start, end := r.Start, r.End
	if first.After(start) {
		start = first
	}
	if last.Before(end) {
		end = last
	}
	if start.After(end) {
		return 0
	}
	return daysBetween(start, end) + 1
}

// String formato YYYY-MM-DD..YYYY-MM-DD.
func (r DateRange) String() string {
	return r.Start.Format(dayLayout) + ".." + r.End.Format(dayLayout)
}

// Next mes siguiente (diciembre pasa a enero del año siguiente).
func (ym YearMonth) Next() YearMonth {
	if ym.Month == time.December {
		return YearMonth{Year: ym.Year + 1, Month: time.January}
	}
	return YearMonth{Year: ym.Year, Month: ym.Month + 1}
}

// FirstDay primer día del mes (UTC).
func (ym YearMonth) FirstDay() time.Time {
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, time.UTC)
}

// LastDay último día del mes (UTC).
func (ym YearMonth) LastDay() time.Time {
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC)
}

// DaysInMonth 28 a 31 según calendario.
func (ym YearMonth) DaysInMonth() int {
	return ym.LastDay().Day()
}

// daysBetween asume medianoches UTC, donde no hay cambios de horario.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
