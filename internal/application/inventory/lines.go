package inventory

import (
	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// LineInput cantidad solicitada de una variante, por nombre.
type LineInput struct {
	Variant  string
	Quantity int64
}

// ResolveLines valida las líneas contra el producto y las traduce a variantes.
// Con variantes las líneas son obligatorias y deben sumar quantity; sin variantes no se aceptan.
func ResolveLines(product *entity.Product, quantity int64, lines []LineInput) ([]entity.MovementLine, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !product.HasVariants {
		if len(lines) > 0 {
			return nil, domain.ErrVariantNotAllowed
		}
		return nil, nil
	}
	if len(lines) == 0 {
		return nil, domain.ErrVariantRequired
	}
	seen := make(map[string]bool, len(lines))
	out := make([]entity.MovementLine, 0, len(lines))
	var sum int64
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}
		if seen[l.Variant] {
			return nil, domain.ErrInvalidInput
		}
		seen[l.Variant] = true
		v, ok := product.VariantByName(l.Variant)
		if !ok {
			return nil, domain.ErrVariantNotFound
		}
		out = append(out, entity.MovementLine{VariantID: v.ID, VariantName: v.Name, Quantity: l.Quantity})
		sum += l.Quantity
	}
	if sum != quantity {
		return nil, domain.ErrInvalidInput
	}
	return out, nil
}

// AdjustmentsFor traduce un movimiento de quantity (o sus líneas) en ajustes sobre holder.
func AdjustmentsFor(holder, productID string, quantity int64, lines []entity.MovementLine, sign int64) []StockAdjustment {
	if len(lines) == 0 {
		return []StockAdjustment{{
			Key:   entity.StockKey{Holder: holder, ProductID: productID},
			Delta: sign * quantity,
		}}
	}
	out := make([]StockAdjustment, 0, len(lines))
	for _, l := range lines {
		out = append(out, StockAdjustment{
			Key:         entity.StockKey{Holder: holder, ProductID: productID, VariantID: l.VariantID},
			VariantName: l.VariantName,
			Delta:       sign * l.Quantity,
		})
	}
	return out
}
