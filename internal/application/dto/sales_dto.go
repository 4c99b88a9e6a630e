package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// SaleRequest venta desde el stock del vendedor. seller_id vacío toma el del token.
// purchase_price vacío usa el costo actual del producto.
type SaleRequest struct {
	ProductID     string           `json:"product_id" validate:"required"`
	SellerID      string           `json:"seller_id"`
	Quantity      int64            `json:"quantity" validate:"gt=0"`
	UnitPrice     *decimal.Decimal `json:"unit_price" validate:"required"`
	PurchasePrice *decimal.Decimal `json:"purchase_price"`
	Date          Timestamp        `json:"date"`
	Lines         []LineRequest    `json:"lines" validate:"omitempty,dive"`
}

// SaleDTO venta registrada.
type SaleDTO struct {
	ID            string            `json:"id"`
	ProductID     string            `json:"product_id"`
	SellerID      string            `json:"seller_id"`
	Quantity      int64             `json:"quantity"`
	UnitPrice     string            `json:"unit_price"`
	PurchasePrice string            `json:"purchase_price"`
	Revenue       string            `json:"revenue"`
	Profit        string            `json:"profit"`
	Date          time.Time         `json:"date"`
	Lines         []MovementLineDTO `json:"lines"`
}

// SaleFromEntity mapea una venta a su DTO.
func SaleFromEntity(s *entity.Sale) SaleDTO {
	return SaleDTO{
		ID:            s.ID,
		ProductID:     s.ProductID,
		SellerID:      s.SellerID,
		Quantity:      s.Quantity,
		UnitPrice:     Money(s.UnitPrice),
		PurchasePrice: Money(s.PurchasePrice),
		Revenue:       Money(s.Revenue()),
		Profit:        Money(s.Profit()),
		Date:          s.Date,
		Lines:         linesOut(s.Lines),
	}
}
