package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendedores-api/internal/application/inventory"
	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	"github.com/jhoicas/vendedores-api/internal/infrastructure/memory"
	"github.com/jhoicas/vendedores-api/pkg/logger"
)

const (
	gorra  = "p-gorra"
	camisa = "p-camisa"
	ana    = "sel-ana"
	luis   = "sel-luis"
)

type fixture struct {
	store  *memory.Store
	ledger *inventory.LedgerUseCase
	query  *inventory.QueryUseCase
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.New()
	store.SeedProduct(entity.Product{
		ID: gorra, Name: "Gorra", Quantity: 10,
		Price: decimal.NewFromInt(25000), Cost: decimal.NewFromInt(12000),
	})
	store.SeedProduct(entity.Product{
		ID: camisa, Name: "Camisa", HasVariants: true,
		Price: decimal.NewFromInt(40000), Cost: decimal.NewFromInt(20000),
		Variants: []entity.Variant{
			{ID: "v-s", Name: "S", Quantity: 3},
			{ID: "v-m", Name: "M", Quantity: 5},
		},
	})
	store.SeedSeller(entity.Seller{ID: ana, Name: "Ana", Active: true})
	store.SeedSeller(entity.Seller{ID: luis, Name: "Luis", Active: true})
	return fixture{
		store:  store,
		ledger: inventory.NewLedgerUseCase(store, 3, logger.Nop()),
		query:  inventory.NewQueryUseCase(store),
	}
}

// stockOf devuelve total y desglose por variante del producto en el tenedor.
func (f fixture) stockOf(t *testing.T, holder, productID string) (int64, map[string]int64) {
	t.Helper()
	list, err := f.query.StockByHolder(context.Background(), holder)
	require.NoError(t, err)
	byVariant := map[string]int64{}
	for _, hs := range list {
		if hs.ProductID != productID {
			continue
		}
		for _, v := range hs.Variants {
			byVariant[v.VariantName] = v.Quantity
		}
		return hs.Total, byVariant
	}
	return 0, byVariant
}

func (f fixture) movements(t *testing.T, holder string) []*entity.Movement {
	t.Helper()
	list, err := f.query.ListMovements(context.Background(), inventory.MovementFilter{Holder: holder, Limit: 100})
	require.NoError(t, err)
	return list
}

func TestRecordDelivery_DesdeBodega(t *testing.T) {
	f := newFixture(t)
	mov, err := f.ledger.RecordDelivery(context.Background(), inventory.DeliveryInput{
		ProductID: gorra, ToHolder: ana, Quantity: 3, ActorID: "u-1",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.MovementTypeDelivery, mov.Type)
	assert.Equal(t, entity.WarehouseHolder, mov.FromHolder)
	assert.True(t, mov.UnitPrice.Equal(decimal.NewFromInt(25000)))
	assert.True(t, mov.UnitCost.Equal(decimal.NewFromInt(12000)))

	wh, _ := f.stockOf(t, entity.WarehouseHolder, gorra)
	seller, _ := f.stockOf(t, ana, gorra)
	assert.Equal(t, int64(7), wh)
	assert.Equal(t, int64(3), seller)
}

func TestRecordDelivery_StockInsuficienteNoCambiaNada(t *testing.T) {
	f := newFixture(t)
	_, err := f.ledger.RecordDelivery(context.Background(), inventory.DeliveryInput{
		ProductID: gorra, ToHolder: ana, Quantity: 11,
	})
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(10), stockErr.Available)
	assert.Equal(t, int64(11), stockErr.Requested)

	wh, _ := f.stockOf(t, entity.WarehouseHolder, gorra)
	assert.Equal(t, int64(10), wh)
	assert.Empty(t, f.movements(t, entity.WarehouseHolder))
}

func TestRecordDelivery_VariantesAtomico(t *testing.T) {
	f := newFixture(t)
	// S alcanza, M no: no debe descontarse nada
	_, err := f.ledger.RecordDelivery(context.Background(), inventory.DeliveryInput{
		ProductID: camisa, ToHolder: ana, Quantity: 8,
		Lines: []inventory.LineInput{{Variant: "S", Quantity: 2}, {Variant: "M", Quantity: 6}},
	})
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "M", stockErr.Variant)

	total, byVariant := f.stockOf(t, entity.WarehouseHolder, camisa)
	assert.Equal(t, int64(8), total)
	assert.Equal(t, int64(3), byVariant["S"])
	assert.Equal(t, int64(5), byVariant["M"])
	seller, _ := f.stockOf(t, ana, camisa)
	assert.Zero(t, seller)
}

func TestRecordDelivery_VariantesTotalEsSuma(t *testing.T) {
	f := newFixture(t)
	mov, err := f.ledger.RecordDelivery(context.Background(), inventory.DeliveryInput{
		ProductID: camisa, ToHolder: ana, Quantity: 3,
		Lines: []inventory.LineInput{{Variant: "S", Quantity: 2}, {Variant: "M", Quantity: 1}},
	})
	require.NoError(t, err)
	require.Len(t, mov.Lines, 2)

	total, byVariant := f.stockOf(t, ana, camisa)
	assert.Equal(t, int64(3), total)
	assert.Equal(t, byVariant["S"]+byVariant["M"], total)

	whTotal, wh := f.stockOf(t, entity.WarehouseHolder, camisa)
	assert.Equal(t, int64(5), whTotal)
	assert.Equal(t, int64(1), wh["S"])
	assert.Equal(t, int64(4), wh["M"])
}

func TestRecordDelivery_ValidacionDeLineas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{ProductID: camisa, ToHolder: ana, Quantity: 2})
	assert.ErrorIs(t, err, domain.ErrVariantRequired)

	_, err = f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{
		ProductID: camisa, ToHolder: ana, Quantity: 2,
		Lines: []inventory.LineInput{{Variant: "S", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "las líneas deben sumar la cantidad")

	_, err = f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{
		ProductID: camisa, ToHolder: ana, Quantity: 1,
		Lines: []inventory.LineInput{{Variant: "XL", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrVariantNotFound)

	_, err = f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{
		ProductID: gorra, ToHolder: ana, Quantity: 1,
		Lines: []inventory.LineInput{{Variant: "S", Quantity: 1}},
	})
	assert.ErrorIs(t, err, domain.ErrVariantNotAllowed)
}

func TestRecordDelivery_EntradasInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{ProductID: gorra, ToHolder: ana, Quantity: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{ProductID: gorra, ToHolder: entity.WarehouseHolder, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{ProductID: gorra, ToHolder: "sel-fantasma", Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrSellerNotFound)

	_, err = f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{ProductID: "p-x", ToHolder: ana, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestRecordDelivery_DevolucionAVendedorABodega(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{ProductID: gorra, ToHolder: ana, Quantity: 4})
	require.NoError(t, err)
	_, err = f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{ProductID: gorra, FromHolder: ana, ToHolder: entity.WarehouseHolder, Quantity: 1})
	require.NoError(t, err)

	wh, _ := f.stockOf(t, entity.WarehouseHolder, gorra)
	seller, _ := f.stockOf(t, ana, gorra)
	assert.Equal(t, int64(7), wh)
	assert.Equal(t, int64(3), seller)
}

func TestRecordWriteOff_MotivoPorDefecto(t *testing.T) {
	f := newFixture(t)
	mov, err := f.ledger.RecordWriteOff(context.Background(), inventory.WriteOffInput{
		ProductID: gorra, Holder: entity.WarehouseHolder, Quantity: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeWriteOff, mov.Type)
	assert.Equal(t, inventory.ReasonWriteOff, mov.Reason)
	assert.Empty(t, mov.TransferID)

	wh, _ := f.stockOf(t, entity.WarehouseHolder, gorra)
	assert.Equal(t, int64(8), wh)

	_, err = f.ledger.RecordWriteOff(context.Background(), inventory.WriteOffInput{
		ProductID: gorra, Holder: ana, Quantity: 1,
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestRecordTransfer_RepartoProporcional(t *testing.T) {
	f := newFixture(t)
	f.store.SeedSellerStock(entity.StockKey{Holder: ana, ProductID: camisa, VariantID: "v-s"}, "S", 2)
	f.store.SeedSellerStock(entity.StockKey{Holder: ana, ProductID: camisa, VariantID: "v-m"}, "M", 4)

	res, err := f.ledger.RecordTransfer(context.Background(), inventory.TransferInput{
		ProductID: camisa, FromSeller: ana, ToSeller: luis, Quantity: 3,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, res.TransferID)
	assert.Equal(t, res.TransferID, res.Out.TransferID)
	assert.Equal(t, res.TransferID, res.In.TransferID)
	assert.Equal(t, entity.MovementTypeWriteOff, res.Out.Type)
	assert.Equal(t, entity.MovementTypeDelivery, res.In.Type)
	assert.True(t, res.Out.UnitPrice.Equal(res.In.UnitPrice))

	fromTotal, from := f.stockOf(t, ana, camisa)
	toTotal, to := f.stockOf(t, luis, camisa)
	assert.Equal(t, int64(3), fromTotal)
	assert.Equal(t, int64(3), toTotal)
	assert.Equal(t, int64(1), from["S"])
	assert.Equal(t, int64(2), from["M"])
	assert.Equal(t, int64(1), to["S"])
	assert.Equal(t, int64(2), to["M"])
}

func TestRecordTransfer_Errores(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ledger.RecordTransfer(ctx, inventory.TransferInput{ProductID: gorra, FromSeller: ana, ToSeller: luis, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrSellerHasNoStock)

	f.store.SeedSellerStock(entity.StockKey{Holder: ana, ProductID: gorra}, "", 2)
	_, err = f.ledger.RecordTransfer(ctx, inventory.TransferInput{ProductID: gorra, FromSeller: ana, ToSeller: luis, Quantity: 5})
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(2), stockErr.Available)

	_, err = f.ledger.RecordTransfer(ctx, inventory.TransferInput{ProductID: gorra, FromSeller: ana, ToSeller: ana, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.ledger.RecordTransfer(ctx, inventory.TransferInput{ProductID: gorra, FromSeller: ana, ToSeller: entity.WarehouseHolder, Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLedger_ConservacionDeUnidades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{ProductID: gorra, ToHolder: ana, Quantity: 6})
	require.NoError(t, err)
	_, err = f.ledger.RecordTransfer(ctx, inventory.TransferInput{ProductID: gorra, FromSeller: ana, ToSeller: luis, Quantity: 4})
	require.NoError(t, err)
	_, err = f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{ProductID: gorra, FromHolder: luis, ToHolder: entity.WarehouseHolder, Quantity: 1})
	require.NoError(t, err)

	wh, _ := f.stockOf(t, entity.WarehouseHolder, gorra)
	a, _ := f.stockOf(t, ana, gorra)
	l, _ := f.stockOf(t, luis, gorra)
	assert.Equal(t, int64(10), wh+a+l)
	assert.Equal(t, int64(5), wh)
	assert.Equal(t, int64(2), a)
	assert.Equal(t, int64(3), l)
}

func TestRecordDelivery_ConcurrenteNuncaNegativo(t *testing.T) {
	f := newFixture(t)
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.RecordDelivery(context.Background(), inventory.DeliveryInput{ProductID: gorra, ToHolder: ana, Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 15, fail)
	wh, _ := f.stockOf(t, entity.WarehouseHolder, gorra)
	seller, _ := f.stockOf(t, ana, gorra)
	assert.Zero(t, wh)
	assert.Equal(t, int64(10), seller)
}

func TestDeliverBatch_FalloParcial(t *testing.T) {
	f := newFixture(t)
	results := f.ledger.DeliverBatch(context.Background(), []inventory.DeliveryInput{
		{ProductID: gorra, ToHolder: ana, Quantity: 2},
		{ProductID: gorra, ToHolder: "sel-fantasma", Quantity: 2},
		{ProductID: gorra, ToHolder: luis, Quantity: 3},
	})
	require.Len(t, results, 3)
	assert.NoError(t, results[0].Err)
	assert.ErrorIs(t, results[1].Err, domain.ErrSellerNotFound)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, 2, results[2].Index)

	wh, _ := f.stockOf(t, entity.WarehouseHolder, gorra)
	assert.Equal(t, int64(5), wh)
}

func TestDeliverBatch_ContextoCancelado(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results := f.ledger.DeliverBatch(ctx, []inventory.DeliveryInput{{ProductID: gorra, ToHolder: ana, Quantity: 1}})
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}

func TestListMovements_OrdenYRango(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		_, err := f.ledger.RecordDelivery(ctx, inventory.DeliveryInput{
			ProductID: gorra, ToHolder: ana, Quantity: 1, Date: base.AddDate(0, 0, i),
		})
		require.NoError(t, err)
	}

	all := f.movements(t, ana)
	require.Len(t, all, 3)
	assert.True(t, all[0].Date.After(all[1].Date), "más reciente primero")

	from := base.AddDate(0, 0, 1)
	to := base.AddDate(0, 0, 2)
	list, err := f.query.ListMovements(ctx, inventory.MovementFilter{Holder: ana, From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, list, 1, "el extremo superior es exclusivo")
	assert.True(t, list[0].Date.Equal(from))

	page, err := f.query.ListMovements(ctx, inventory.MovementFilter{Holder: ana, Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)

	_, err = f.query.ListMovements(ctx, inventory.MovementFilter{Holder: ana, From: &to, To: &from})
	assert.ErrorIs(t, err, domain.ErrDateRangeInvalid)
}

func TestStockByHolder_VendedorInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.query.StockByHolder(context.Background(), "sel-fantasma")
	assert.ErrorIs(t, err, domain.ErrSellerNotFound)
}
