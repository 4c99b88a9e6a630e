package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto del catálogo (datos maestros administrados por bodega).
// Quantity es el stock base de la bodega y solo es válido cuando HasVariants es false;
// con variantes el total siempre se recalcula como la suma de Variants.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // precio de compra
	HasVariants bool
	Quantity    int64
	Variants    []Variant
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variant (parámetro) subdivide el stock de un producto (talla, color...). Name es único por producto.
type Variant struct {
	ID        string
	ProductID string
	Name      string
	Quantity  int64 // stock de la bodega para esta variante
}

// VariantByName busca una variante por nombre.
func (p *Product) VariantByName(name string) (*Variant, bool) {
	for i := range p.Variants {
		if p.Variants[i].Name == name {
			return &p.Variants[i], true
		}
	}
	return nil, false
}

// TotalQuantity devuelve el stock de bodega del producto (suma de variantes si aplica).
func (p *Product) TotalQuantity() int64 {
	if !p.HasVariants {
		return p.Quantity
	}
	var total int64
	for _, v := range p.Variants {
		total += v.Quantity
	}
	return total
}
