package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendedores-api/internal/application/dto"
	"github.com/jhoicas/vendedores-api/internal/application/sales"
)

// SalesHandler registro de ventas (protegido).
type SalesHandler struct {
	uc  *sales.RecordSaleUseCase
	loc *time.Location
}

// NewSalesHandler construye el handler. loc interpreta las fechas sin zona.
func NewSalesHandler(uc *sales.RecordSaleUseCase, loc *time.Location) *SalesHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &SalesHandler{uc: uc, loc: loc}
}

// Sell POST /api/sales
func (h *SalesHandler) Sell(c *fiber.Ctx) error {
	var in dto.SaleRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	if in.SellerID == "" {
		in.SellerID = GetSellerID(c)
	}
	if !canActAs(c, in.SellerID) {
		return forbidden(c)
	}
	date, err := in.Date.In(h.loc)
	if err != nil {
		return writeError(c, err)
	}
	sale, err := h.uc.RecordSale(c.UserContext(), sales.SaleInput{
		ProductID:     in.ProductID,
		SellerID:      in.SellerID,
		Quantity:      in.Quantity,
		UnitPrice:     *in.UnitPrice,
		PurchasePrice: in.PurchasePrice,
		Date:          date,
		Lines:         linesIn(in.Lines),
		ActorID:       GetUserID(c),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.SaleFromEntity(sale))
}
