package inventory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendedores-api/internal/domain"
)

func sum(vs []VariantQty) int64 {
	var t int64
	for _, v := range vs {
		t += v.Quantity
	}
	return t
}

func TestProportionalSplit_Exacto(t *testing.T) {
	out, err := ProportionalSplit([]VariantQty{
		{VariantID: "s", Name: "S", Quantity: 2},
		{VariantID: "m", Name: "M", Quantity: 4},
		{VariantID: "l", Name: "L", Quantity: 6},
	}, 6)
	require.NoError(t, err)
	assert.Equal(t, []VariantQty{
		{VariantID: "l", Name: "L", Quantity: 3},
		{VariantID: "m", Name: "M", Quantity: 2},
		{VariantID: "s", Name: "S", Quantity: 1},
	}, out)
}

func TestProportionalSplit_ResiduosSumanExacto(t *testing.T) {
	avail := []VariantQty{
		{VariantID: "a", Name: "A", Quantity: 1},
		{VariantID: "b", Name: "B", Quantity: 1},
		{VariantID: "c", Name: "C", Quantity: 1},
	}
	out, err := ProportionalSplit(avail, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), sum(out))
	// empate total: desempata por nombre
	assert.Equal(t, "A", out[0].Name)
	assert.Equal(t, "B", out[1].Name)
}

func TestProportionalSplit_NuncaSuperaDisponible(t *testing.T) {
	avail := []VariantQty{
		{VariantID: "a", Name: "A", Quantity: 7},
		{VariantID: "b", Name: "B", Quantity: 3},
		{VariantID: "c", Name: "C", Quantity: 1},
	}
	byID := map[string]int64{"a": 7, "b": 3, "c": 1}
	for q := int64(1); q <= 11; q++ {
		out, err := ProportionalSplit(avail, q)
		require.NoError(t, err)
		assert.Equal(t, q, sum(out), "cantidad %d", q)
		for _, v := range out {
			assert.LessOrEqual(t, v.Quantity, byID[v.VariantID])
			assert.Positive(t, v.Quantity)
		}
	}
}

func TestProportionalSplit_Errores(t *testing.T) {
	_, err := ProportionalSplit([]VariantQty{{VariantID: "a", Quantity: 2}}, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = ProportionalSplit([]VariantQty{{VariantID: "a", Quantity: 0}}, 1)
	assert.ErrorIs(t, err, domain.ErrSellerHasNoStock)

	_, err = ProportionalSplit([]VariantQty{{VariantID: "a", Quantity: 2}}, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestProportionalSplit_CantidadesGrandesNoDesbordan(t *testing.T) {
	out, err := ProportionalSplit([]VariantQty{
		{VariantID: "a", Name: "A", Quantity: 5_000_000_000},
		{VariantID: "b", Name: "B", Quantity: 1},
	}, 4_000_000_000)
	require.NoError(t, err)
	assert.Equal(t, []VariantQty{
		{VariantID: "a", Name: "A", Quantity: 3_999_999_999},
		{VariantID: "b", Name: "B", Quantity: 1},
	}, out)
	assert.Equal(t, int64(4_000_000_000), sum(out))
}

func TestProportionalSplit_TotalFueraDeRango(t *testing.T) {
	_, err := ProportionalSplit([]VariantQty{
		{VariantID: "a", Name: "A", Quantity: math.MaxInt64},
		{VariantID: "b", Name: "B", Quantity: 1},
	}, 1)
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}
