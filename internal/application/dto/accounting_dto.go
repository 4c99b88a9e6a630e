package dto

import (
	"time"

	"github.com/shopspring/decimal"

	acc "github.com/jhoicas/vendedores-api/internal/domain/accounting"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// ExpenseRequest alta de gasto mensual.
type ExpenseRequest struct {
	SellerID     string           `json:"seller_id" validate:"required"`
	Name         string           `json:"name" validate:"required,max=120"`
	MonthlyValue *decimal.Decimal `json:"monthly_value" validate:"required"`
	Month        int              `json:"month" validate:"min=1,max=12"`
	Year         int              `json:"year" validate:"min=2000,max=2100"`
}

// ExpensePatchRequest actualización parcial; los campos ausentes no cambian.
type ExpensePatchRequest struct {
	Name         *string          `json:"name" validate:"omitempty,min=1,max=120"`
	MonthlyValue *decimal.Decimal `json:"monthly_value"`
	Month        *int             `json:"month" validate:"omitempty,min=1,max=12"`
	Year         *int             `json:"year" validate:"omitempty,min=2000,max=2100"`
}

// CommissionRequest porcentaje de comisión.
type CommissionRequest struct {
	Percentage *decimal.Decimal `json:"percentage" validate:"required"`
}

// ExpenseDTO gasto mensual.
type ExpenseDTO struct {
	ID           string `json:"id"`
	SellerID     string `json:"seller_id"`
	Name         string `json:"name"`
	MonthlyValue string `json:"monthly_value"`
	Month        int    `json:"month"`
	Year         int    `json:"year"`
}

// CommissionDTO porcentaje vigente.
type CommissionDTO struct {
	SellerID   string `json:"seller_id"`
	Percentage string `json:"percentage"`
}

// ProratedExpenseDTO renglón del prorrateo.
type ProratedExpenseDTO struct {
	Name          string `json:"name"`
	MonthlyValue  string `json:"monthly_value"`
	DaysSelected  int    `json:"days_selected"`
	ProratedValue string `json:"prorated_value"`
}

// ProratedResponse desglose de gastos prorrateados.
type ProratedResponse struct {
	SellerID  string               `json:"seller_id"`
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Total     string               `json:"total"`
	Expenses  []ProratedExpenseDTO `json:"expenses"`
}

// StatementDTO estado de resultado: ventas, utilidad, gastos, salario y resultado.
type StatementDTO struct {
	SellerID       string               `json:"seller_id"`
	StartDate      string               `json:"start_date"`
	EndDate        string               `json:"end_date"`
	SalesCount     int                  `json:"sales_count"`
	UnitsSold      int64                `json:"units_sold"`
	GrossSales     string               `json:"gross_sales"`
	GrossProfit    string               `json:"gross_profit"`
	Expenses       string               `json:"expenses"`
	CommissionRate string               `json:"commission_rate"`
	Salary         string               `json:"salary"`
	NetResult      string               `json:"net_result"`
	ExpenseDetail  []ProratedExpenseDTO `json:"expense_detail"`
	Error          string               `json:"error,omitempty"`
}

// TotalsDTO totales del consolidado.
type TotalsDTO struct {
	Sellers     int    `json:"sellers"`
	Errors      int    `json:"errors"`
	GrossSales  string `json:"gross_sales"`
	GrossProfit string `json:"gross_profit"`
	Expenses    string `json:"expenses"`
	Salary      string `json:"salary"`
	NetResult   string `json:"net_result"`
}

// AllSellersStatementDTO consolidado; total_shrinkage se informa aparte.
type AllSellersStatementDTO struct {
	StartDate      string         `json:"start_date"`
	EndDate        string         `json:"end_date"`
	Sellers        []StatementDTO `json:"sellers"`
	Totals         TotalsDTO      `json:"totals"`
	TotalShrinkage string         `json:"total_shrinkage"`
	ShrinkageError string         `json:"shrinkage_error,omitempty"`
}

func day(t time.Time) string { return t.Format(dateLayout) }

// ExpenseFromEntity mapea un gasto.
func ExpenseFromEntity(e *entity.Expense) ExpenseDTO {
	return ExpenseDTO{ID: e.ID, SellerID: e.SellerID, Name: e.Name, MonthlyValue: Money(e.MonthlyValue), Month: e.Month, Year: e.Year}
}

// CommissionFromEntity mapea una comisión.
func CommissionFromEntity(c *entity.CommissionRate) CommissionDTO {
	return CommissionDTO{SellerID: c.SellerID, Percentage: Money(c.Percentage)}
}

// ProratedFromDomain mapea renglones prorrateados.
func ProratedFromDomain(rows []acc.ProratedExpense) []ProratedExpenseDTO {
	out := make([]ProratedExpenseDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ProratedExpenseDTO{
			Name:          r.Name,
			MonthlyValue:  Money(r.MonthlyValue),
			DaysSelected:  r.DaysSelected,
			ProratedValue: Money(r.ProratedValue),
		})
	}
	return out
}

// ProratedResponseFrom arma la respuesta del prorrateo.
func ProratedResponseFrom(sellerID string, r acc.DateRange, rows []acc.ProratedExpense) ProratedResponse {
	return ProratedResponse{
		SellerID:  sellerID,
		StartDate: day(r.Start),
		EndDate:   day(r.End),
		Total:     Money(acc.TotalProrated(rows)),
		Expenses:  ProratedFromDomain(rows),
	}
}

// StatementFromDomain mapea un estado de resultado.
func StatementFromDomain(s acc.Statement) StatementDTO {
	return StatementDTO{
		SellerID:       s.SellerID,
		StartDate:      day(s.Range.Start),
		EndDate:        day(s.Range.End),
		SalesCount:     s.SalesCount,
		UnitsSold:      s.UnitsSold,
		GrossSales:     Money(s.GrossSales),
		GrossProfit:    Money(s.GrossProfit),
		Expenses:       Money(s.ProratedExpenses),
		CommissionRate: Money(s.CommissionRate),
		Salary:         Money(s.SalaryCost),
		NetResult:      Money(s.NetResult),
		ExpenseDetail:  ProratedFromDomain(s.Expenses),
		Error:          s.Error,
	}
}

// AllSellersFromDomain mapea el consolidado.
func AllSellersFromDomain(a *acc.AllSellersStatement) AllSellersStatementDTO {
	out := AllSellersStatementDTO{
		StartDate: day(a.Range.Start),
		EndDate:   day(a.Range.End),
		Sellers:   make([]StatementDTO, 0, len(a.Sellers)),
		Totals: TotalsDTO{
			Sellers:     a.Totals.Sellers,
			Errors:      a.Totals.Failed,
			GrossSales:  Money(a.Totals.GrossSales),
			GrossProfit: Money(a.Totals.GrossProfit),
			Expenses:    Money(a.Totals.ProratedExpenses),
			Salary:      Money(a.Totals.SalaryCost),
			NetResult:   Money(a.Totals.NetResult),
		},
		TotalShrinkage: Money(a.TotalShrinkage),
		ShrinkageError: a.ShrinkageError,
	}
	for _, s := range a.Sellers {
		out.Sellers = append(out.Sellers, StatementFromDomain(s))
	}
	return out
}
