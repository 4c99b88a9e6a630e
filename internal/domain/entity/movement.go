package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeDelivery = "DELIVERY"  // entrega
	MovementTypeWriteOff = "WRITE_OFF" // baja
)

// Motivos usados en los movimientos generados por un traslado entre vendedores.
const (
	ReasonTransferOut = "BAJA"
	ReasonTransferIn  = "ENTREGA"
)

// Movement es un registro inmutable del libro: nunca se edita ni se borra para revertir stock;
// las reversiones se expresan como movimientos nuevos.
type Movement struct {
	ID         string
	TransferID string // común a la Baja y la Entrega de un traslado; vacío en otro caso
	ProductID  string
	Type       string
	FromHolder string
	ToHolder   string
	Quantity   int64
	UnitPrice  decimal.Decimal // snapshot del precio de venta
	UnitCost   decimal.Decimal // snapshot del precio de compra
	Reason     string
	Date       time.Time
	CreatedAt  time.Time
	CreatedBy  string
	Lines      []MovementLine // sub-libro por variante; suma = Quantity
}

// MovementLine cantidad de una variante dentro de un movimiento.
type MovementLine struct {
	VariantID   string
	VariantName string
	Quantity    int64
}

// IsTransferLeg indica si el movimiento es parte de un traslado.
func (m *Movement) IsTransferLeg() bool { return m.TransferID != "" }

// WriteOffValue fila usada para valorizar mermas: cantidad dada de baja y precio actual del producto.
type WriteOffValue struct {
	MovementID   string
	ProductID    string
	Quantity     int64
	CurrentPrice decimal.Decimal
	Date         time.Time
}
