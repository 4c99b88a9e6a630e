package inventory

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendedores-api/internal/domain"
)

// VariantQty cantidad de una variante.
type VariantQty struct {
	VariantID string
	Name      string
	Quantity  int64
}

// ProportionalSplit reparte quantity entre las variantes en proporción a lo disponible:
// disponible_i / total * quantity. La parte entera se asigna directo y las unidades sobrantes
// van a los mayores residuos (empate: más disponible, luego nombre), así la suma es exacta
// y ninguna variante entrega más de lo que tiene. Omite variantes con asignación 0.
// El producto disponible_i * quantity se calcula sin desbordar int64.
func ProportionalSplit(available []VariantQty, quantity int64) ([]VariantQty, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	var total int64
	for _, v := range available {
		if v.Quantity < 0 || v.Quantity > math.MaxInt64-total {
			return nil, domain.ErrInvalidQuantity
		}
		total += v.Quantity
	}
	if total == 0 {
		return nil, domain.ErrSellerHasNoStock
	}
	if quantity > total {
		return nil, domain.ErrInsufficientStock
	}

	type share struct {
		VariantQty
		remainder int64
		avail     int64
	}
	shares := make([]share, len(available))
	totalDec := decimal.NewFromInt(total)
	qtyDec := decimal.NewFromInt(quantity)
	var assigned int64
	for i, v := range available {
		// cociente <= quantity y residuo < total: ambos caben en int64
		quo, rem := decimal.NewFromInt(v.Quantity).Mul(qtyDec).QuoRem(totalDec, 0)
		shares[i] = share{
			VariantQty: VariantQty{VariantID: v.VariantID, Name: v.Name, Quantity: quo.IntPart()},
			remainder:  rem.IntPart(),
			avail:      v.Quantity,
		}
		assigned += quo.IntPart()
	}

	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := shares[order[a]], shares[order[b]]
		if sa.remainder != sb.remainder {
			return sa.remainder > sb.remainder
		}
		if sa.avail != sb.avail {
			return sa.avail > sb.avail
		}
		return sa.Name < sb.Name
	})
	for i := 0; assigned < quantity; i++ {
		shares[order[i]].Quantity++
		assigned++
	}

	out := make([]VariantQty, 0, len(shares))
	for _, s := range shares {
		if s.Quantity > 0 {
			out = append(out, s.VariantQty)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out, nil
}
