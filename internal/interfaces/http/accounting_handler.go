package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendedores-api/internal/application/accounting"
	"github.com/jhoicas/vendedores-api/internal/application/dto"
	"github.com/jhoicas/vendedores-api/internal/domain"
	acc "github.com/jhoicas/vendedores-api/internal/domain/accounting"
	"github.com/jhoicas/vendedores-api/internal/domain/repository"
)

// AccountingHandler estados de resultado, prorrateo, gastos y comisiones (protegido).
type AccountingHandler struct {
	statements *accounting.StatementUseCase
	proration  *accounting.ProrationUseCase
	expenses   *accounting.ExpenseUseCase
}

// NewAccountingHandler construye el handler.
func NewAccountingHandler(statements *accounting.StatementUseCase, proration *accounting.ProrationUseCase, expenses *accounting.ExpenseUseCase) *AccountingHandler {
	return &AccountingHandler{statements: statements, proration: proration, expenses: expenses}
}

// dateRange lee start_date y end_date (YYYY-MM-DD, ambos obligatorios).
func dateRange(c *fiber.Ctx) (acc.DateRange, error) {
	start, end := c.Query("start_date"), c.Query("end_date")
	if start == "" || end == "" {
		return acc.DateRange{}, domain.ErrDateRangeInvalid
	}
	return acc.ParseDateRange(start, end)
}

// SellerStatement GET /api/accounting/sellers/:id/statement
func (h *AccountingHandler) SellerStatement(c *fiber.Ctx) error {
	sellerID := c.Params("id")
	if !canActAs(c, sellerID) {
		return forbidden(c)
	}
	r, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	st, err := h.statements.ComputeStatement(c.UserContext(), sellerID, r.Start, r.End)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StatementFromDomain(*st))
}

// AllSellersStatement GET /api/accounting/statement
func (h *AccountingHandler) AllSellersStatement(c *fiber.Ctx) error {
	r, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	all, err := h.statements.ComputeAllSellers(c.UserContext(), r.Start, r.End)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AllSellersFromDomain(all))
}

// ProratedExpenses GET /api/accounting/sellers/:id/expenses/prorated
func (h *AccountingHandler) ProratedExpenses(c *fiber.Ctx) error {
	sellerID := c.Params("id")
	if !canActAs(c, sellerID) {
		return forbidden(c)
	}
	r, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.proration.Prorate(c.UserContext(), sellerID, r.Start, r.End)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ProratedResponseFrom(sellerID, r, rows))
}

// AddExpense POST /api/accounting/expenses
func (h *AccountingHandler) AddExpense(c *fiber.Ctx) error {
	var in dto.ExpenseRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	e, err := h.expenses.AddExpense(c.UserContext(), accounting.ExpenseInput{
		SellerID:     in.SellerID,
		Name:         in.Name,
		MonthlyValue: *in.MonthlyValue,
		Month:        in.Month,
		Year:         in.Year,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ExpenseFromEntity(e))
}

// UpdateExpense PATCH /api/accounting/expenses/:id
func (h *AccountingHandler) UpdateExpense(c *fiber.Ctx) error {
	var in dto.ExpensePatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	e, err := h.expenses.UpdateExpense(c.UserContext(), c.Params("id"), repository.ExpensePatch{
		Name:         in.Name,
		MonthlyValue: in.MonthlyValue,
		Month:        in.Month,
		Year:         in.Year,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ExpenseFromEntity(e))
}

// RemoveExpense DELETE /api/accounting/expenses/:id
func (h *AccountingHandler) RemoveExpense(c *fiber.Ctx) error {
	if err := h.expenses.RemoveExpense(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListExpenses GET /api/accounting/sellers/:id/expenses?month=&year=
func (h *AccountingHandler) ListExpenses(c *fiber.Ctx) error {
	sellerID := c.Params("id")
	if !canActAs(c, sellerID) {
		return forbidden(c)
	}
	month, errM := strconv.Atoi(c.Query("month"))
	year, errY := strconv.Atoi(c.Query("year"))
	if errM != nil || errY != nil {
		return writeError(c, domain.ErrInvalidInput)
	}
	list, err := h.expenses.ListExpenses(c.UserContext(), sellerID, month, year)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ExpenseDTO, 0, len(list))
	for _, e := range list {
		out = append(out, dto.ExpenseFromEntity(e))
	}
	return c.JSON(fiber.Map{"total": len(out), "expenses": out})
}

// SetCommission PUT /api/accounting/sellers/:id/commission
func (h *AccountingHandler) SetCommission(c *fiber.Ctx) error {
	var in dto.CommissionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	rate, err := h.expenses.SetCommissionRate(c.UserContext(), c.Params("id"), *in.Percentage)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CommissionFromEntity(rate))
}

// GetCommission GET /api/accounting/sellers/:id/commission
func (h *AccountingHandler) GetCommission(c *fiber.Ctx) error {
	sellerID := c.Params("id")
	if !canActAs(c, sellerID) {
		return forbidden(c)
	}
	rate, err := h.expenses.GetCommissionRate(c.UserContext(), sellerID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.CommissionFromEntity(rate))
}
