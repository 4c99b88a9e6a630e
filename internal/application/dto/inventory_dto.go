package dto

import (
	"time"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// LineRequest cantidad por variante (nombre) dentro de un movimiento o venta.
type LineRequest struct {
	Variant  string `json:"variant" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
}

// DeliveryRequest entrega; from_holder vacío sale de la bodega.
type DeliveryRequest struct {
	ProductID  string        `json:"product_id" validate:"required"`
	FromHolder string        `json:"from_holder"`
	ToHolder   string        `json:"to_holder" validate:"required"`
	Quantity   int64         `json:"quantity" validate:"gt=0"`
	Lines      []LineRequest `json:"lines" validate:"omitempty,dive"`
	Date       Timestamp     `json:"date"`
}

// DeliveryBatchRequest entregas a varios vendedores; cada ítem se aplica por separado.
type DeliveryBatchRequest struct {
	Items []DeliveryRequest `json:"items" validate:"required,min=1,max=200,dive"`
}

// WriteOffRequest baja de stock.
type WriteOffRequest struct {
	ProductID string        `json:"product_id" validate:"required"`
	Holder    string        `json:"holder" validate:"required"`
	Quantity  int64         `json:"quantity" validate:"gt=0"`
	Lines     []LineRequest `json:"lines" validate:"omitempty,dive"`
	Reason    string        `json:"reason" validate:"max=120"`
	Date      Timestamp     `json:"date"`
}

// TransferRequest traslado entre vendedores.
type TransferRequest struct {
	ProductID  string    `json:"product_id" validate:"required"`
	FromSeller string    `json:"from_seller" validate:"required"`
	ToSeller   string    `json:"to_seller" validate:"required,nefield=FromSeller"`
	Quantity   int64     `json:"quantity" validate:"gt=0"`
	Date       Timestamp `json:"date"`
}

// MovementLineDTO línea por variante.
type MovementLineDTO struct {
	VariantID   string `json:"variant_id"`
	VariantName string `json:"variant_name"`
	Quantity    int64  `json:"quantity"`
}

// MovementDTO movimiento del libro.
type MovementDTO struct {
	ID         string            `json:"id"`
	TransferID string            `json:"transfer_id,omitempty"`
	ProductID  string            `json:"product_id"`
	Type       string            `json:"type"`
	FromHolder string            `json:"from_holder"`
	ToHolder   string            `json:"to_holder"`
	Quantity   int64             `json:"quantity"`
	UnitPrice  string            `json:"unit_price"`
	UnitCost   string            `json:"unit_cost"`
	Reason     string            `json:"reason,omitempty"`
	Date       time.Time         `json:"date"`
	CreatedBy  string            `json:"created_by,omitempty"`
	Lines      []MovementLineDTO `json:"lines"`
}

// TransferResponse par Baja/Entrega de un traslado.
type TransferResponse struct {
	TransferID string      `json:"transfer_id"`
	Out        MovementDTO `json:"out"`
	In         MovementDTO `json:"in"`
}

// BatchItemResponse resultado de un ítem del lote; Error presente si no se aplicó.
type BatchItemResponse struct {
	Index    int            `json:"index"`
	Movement *MovementDTO   `json:"movement,omitempty"`
	Error    *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse resultados del lote en el orden recibido.
type BatchResponse struct {
	Applied int                 `json:"applied"`
	Failed  int                 `json:"failed"`
	Items   []BatchItemResponse `json:"items"`
}

// StockVariantDTO stock de una variante.
type StockVariantDTO struct {
	VariantID   string `json:"variant_id"`
	VariantName string `json:"variant_name"`
	Quantity    int64  `json:"quantity"`
}

// HolderStockDTO stock de un producto en un tenedor.
type HolderStockDTO struct {
	ProductID   string            `json:"product_id"`
	ProductName string            `json:"product_name"`
	HasVariants bool              `json:"has_variants"`
	Total       int64             `json:"total"`
	Variants    []StockVariantDTO `json:"variants,omitempty"`
}

// StockResponse stock completo de un tenedor.
type StockResponse struct {
	Holder   string           `json:"holder"`
	Products []HolderStockDTO `json:"products"`
}

// MovementListResponse página del historial.
type MovementListResponse struct {
	Page      PageResponse  `json:"page"`
	Movements []MovementDTO `json:"movements"`
}

// linesOut líneas de movimiento o venta para respuestas.
func linesOut(lines []entity.MovementLine) []MovementLineDTO {
	out := make([]MovementLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, MovementLineDTO{VariantID: l.VariantID, VariantName: l.VariantName, Quantity: l.Quantity})
	}
	return out
}

// MovementFromEntity mapea un movimiento a su DTO.
func MovementFromEntity(m *entity.Movement) MovementDTO {
	return MovementDTO{
		ID:         m.ID,
		TransferID: m.TransferID,
		ProductID:  m.ProductID,
		Type:       m.Type,
		FromHolder: m.FromHolder,
		ToHolder:   m.ToHolder,
		Quantity:   m.Quantity,
		UnitPrice:  Money(m.UnitPrice),
		UnitCost:   Money(m.UnitCost),
		Reason:     m.Reason,
		Date:       m.Date,
		CreatedBy:  m.CreatedBy,
		Lines:      linesOut(m.Lines),
	}
}

// StockFromEntities mapea el stock agrupado de un tenedor.
func StockFromEntities(holder string, list []entity.HolderStock) StockResponse {
	out := StockResponse{Holder: holder, Products: make([]HolderStockDTO, 0, len(list))}
	for _, hs := range list {
		item := HolderStockDTO{ProductID: hs.ProductID, ProductName: hs.ProductName, HasVariants: hs.HasVariants, Total: hs.Total}
		for _, v := range hs.Variants {
			item.Variants = append(item.Variants, StockVariantDTO{VariantID: v.VariantID, VariantName: v.VariantName, Quantity: v.Quantity})
		}
		out.Products = append(out.Products, item)
	}
	return out
}
