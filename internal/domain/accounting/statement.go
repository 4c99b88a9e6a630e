package accounting

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Statement estado de resultado de un vendedor en un rango (derivado, no se persiste).
//
//	GrossSales       = Σ precio * cantidad
//	GrossProfit      = Σ (precio - costo) * cantidad
//	ProratedExpenses = Σ gastos prorrateados
//	SalaryCost       = GrossSales * CommissionRate / 100
//	NetResult        = GrossProfit - ProratedExpenses - SalaryCost
type Statement struct {
	SellerID         string
	Range            DateRange
	SalesCount       int
	UnitsSold        int64
	GrossSales       decimal.Decimal
	GrossProfit      decimal.Decimal
	ProratedExpenses decimal.Decimal
	CommissionRate   decimal.Decimal
	SalaryCost       decimal.Decimal
	NetResult        decimal.Decimal
	Expenses         []ProratedExpense
	Error            string // no vacío si el cálculo falló y el estado va en cero
}

// BuildStatement arma el estado a partir de ventas, gastos prorrateados y comisión.
func BuildStatement(sellerID string, r DateRange, sales []*entity.Sale, expenses []ProratedExpense, rate decimal.Decimal) Statement {
	s := ZeroStatement(sellerID, r)
	for _, sale := range sales {
		s.SalesCount++
		s.UnitsSold += sale.Quantity
		s.GrossSales = s.GrossSales.Add(sale.Revenue())
		s.GrossProfit = s.GrossProfit.Add(sale.Profit())
	}
	s.Expenses = expenses
	s.ProratedExpenses = TotalProrated(expenses)
	s.CommissionRate = rate
	s.SalaryCost = s.GrossSales.Mul(rate).Div(hundred)
	s.NetResult = s.GrossProfit.Sub(s.ProratedExpenses).Sub(s.SalaryCost)
	return s
}

// HasActivity indica si el estado tiene ventas, gastos o un error de cálculo.
func (s Statement) HasActivity() bool {
	return s.SalesCount > 0 || len(s.Expenses) > 0 || s.Error != ""
}

// ZeroStatement estado en cero.
func ZeroStatement(sellerID string, r DateRange) Statement {
	return Statement{
		SellerID:         sellerID,
		Range:            r,
		GrossSales:       decimal.Zero,
		GrossProfit:      decimal.Zero,
		ProratedExpenses: decimal.Zero,
		CommissionRate:   decimal.Zero,
		SalaryCost:       decimal.Zero,
		NetResult:        decimal.Zero,
		Expenses:         []ProratedExpense{},
	}
}

// FailedStatement estado en cero marcado con el error que impidió calcularlo.
func FailedStatement(sellerID string, r DateRange, err error) Statement {
	s := ZeroStatement(sellerID, r)
	s.Error = err.Error()
	return s
}

// Rollup totales de todos los vendedores.
type Rollup struct {
	Sellers          int
	Failed           int
	GrossSales       decimal.Decimal
	GrossProfit      decimal.Decimal
	ProratedExpenses decimal.Decimal
	SalaryCost       decimal.Decimal
	NetResult        decimal.Decimal
}

// NewRollup totales en cero.
func NewRollup() Rollup {
	return Rollup{
		GrossSales:       decimal.Zero,
		GrossProfit:      decimal.Zero,
		ProratedExpenses: decimal.Zero,
		SalaryCost:       decimal.Zero,
		NetResult:        decimal.Zero,
	}
}

// Add devuelve un nuevo Rollup que incluye s.
func (r Rollup) Add(s Statement) Rollup {
	r.Sellers++
	if s.Error != "" {
		r.Failed++
	}
	r.GrossSales = r.GrossSales.Add(s.GrossSales)
	r.GrossProfit = r.GrossProfit.Add(s.GrossProfit)
	r.ProratedExpenses = r.ProratedExpenses.Add(s.ProratedExpenses)
	r.SalaryCost = r.SalaryCost.Add(s.SalaryCost)
	r.NetResult = r.NetResult.Add(s.NetResult)
	return r
}

// AllSellersStatement consolidado de todos los vendedores. TotalShrinkage (mermas) se informa
// aparte y no se descuenta de ningún vendedor.
type AllSellersStatement struct {
	Range          DateRange
	Sellers        []Statement
	Totals         Rollup
	TotalShrinkage decimal.Decimal
	ShrinkageError string
}

// Shrinkage Σ cantidad dada de baja * precio actual del producto.
func Shrinkage(values []entity.WriteOffValue) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v.CurrentPrice.Mul(decimal.NewFromInt(v.Quantity)))
	}
	return total
}
