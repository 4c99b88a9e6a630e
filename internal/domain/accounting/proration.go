package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// ProratedExpense gasto prorrateado al rango. MonthlyValue es el valor mensual del último mes
// del rango en que aparece el gasto; DaysSelected y ProratedValue se acumulan entre meses.
type ProratedExpense struct {
	Name          string
	MonthlyValue  decimal.Decimal
	DaysSelected  int
	ProratedValue decimal.Decimal
}

// ExpenseSource devuelve los gastos del vendedor para un mes.
type ExpenseSource func(ym YearMonth) ([]*entity.Expense, error)

// prorationAccumulator agrupa por nombre conservando el orden de primera aparición.
type prorationAccumulator struct {
	order []string
	rows  map[string]ProratedExpense
}

func newProrationAccumulator() prorationAccumulator {
	return prorationAccumulator{rows: map[string]ProratedExpense{}}
}

func (a prorationAccumulator) add(e *entity.Expense, daysInMonth, days int) prorationAccumulator {
	value := e.MonthlyValue.Mul(decimal.NewFromInt(int64(days))).Div(decimal.NewFromInt(int64(daysInMonth)))
	row, ok := a.rows[e.Name]
	if !ok {
		a.order = append(a.order, e.Name)
		row = ProratedExpense{Name: e.Name, ProratedValue: decimal.Zero}
	}
	row.MonthlyValue = e.MonthlyValue
	row.DaysSelected += days
	row.ProratedValue = row.ProratedValue.Add(value)
	a.rows[e.Name] = row
	return a
}

func (a prorationAccumulator) result() []ProratedExpense {
	out := make([]ProratedExpense, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, a.rows[name])
	}
	return out
}

// Prorate distribuye los gastos mensuales del rango por días:
// valor_mensual / días_del_mes * días_seleccionados, sumando por nombre entre meses.
// No redondea; el redondeo es responsabilidad de la presentación.
func Prorate(r DateRange, source ExpenseSource) ([]ProratedExpense, error) {
	acc := newProrationAccumulator()
	for _, ym := range r.Months() {
		days := r.DaysSelected(ym)
		if days == 0 {
			continue
		}
		expenses, err := source(ym)
		if err != nil {
			return nil, err
		}
		dim := ym.DaysInMonth()
		for _, e := range expenses {
			acc = acc.add(e, dim, days)
		}
	}
	return acc.result(), nil
}

// TotalProrated suma ProratedValue.
func TotalProrated(rows []ProratedExpense) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.ProratedValue)
	}
	return total
}
