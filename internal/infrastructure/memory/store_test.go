package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/vendedores-api/internal/application/ports"
	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	"github.com/jhoicas/vendedores-api/internal/domain/repository"
)

func seeded() *Store {
	s := New()
	s.SeedProduct(entity.Product{ID: "p-gorra", Name: "Gorra", Quantity: 10})
	s.SeedProduct(entity.Product{ID: "p-camisa", Name: "Camisa", HasVariants: true, Variants: []entity.Variant{
		{ID: "v-m", Name: "M", Quantity: 5},
		{ID: "v-s", Name: "S", Quantity: 3},
	}})
	s.SeedSeller(entity.Seller{ID: "sel-1", Name: "Ana", Active: true})
	s.SeedSeller(entity.Seller{ID: "sel-2", Name: "Luis", Active: false})
	return s
}

func TestRun_ErrorDescartaCambios(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	boom := errors.New("falla a mitad de camino")

	err := s.Run(ctx, func(ctx context.Context, repos ports.Repos) error {
		e, err := repos.Stock.GetOrCreateForUpdate(ctx, entity.StockKey{Holder: entity.WarehouseHolder, ProductID: "p-gorra"})
		require.NoError(t, err)
		e.Quantity = 1
		require.NoError(t, repos.Stock.Update(ctx, e))
		require.NoError(t, repos.Movements.Create(ctx, &entity.Movement{ID: "m-1", FromHolder: "x", ToHolder: "y"}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	_ = s.RunSnapshot(ctx, func(ctx context.Context, repos ports.Repos) error {
		p, err := repos.Products.GetByID(ctx, "p-gorra")
		require.NoError(t, err)
		assert.Equal(t, int64(10), p.Quantity)
		m, err := repos.Movements.GetByID(ctx, "m-1")
		require.NoError(t, err)
		assert.Nil(t, m)
		return nil
	})
}

func TestRun_ConfirmaCambios(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	key := entity.StockKey{Holder: "sel-1", ProductID: "p-camisa", VariantID: "v-s"}

	require.NoError(t, s.Run(ctx, func(ctx context.Context, repos ports.Repos) error {
		e, err := repos.Stock.GetOrCreateForUpdate(ctx, key)
		if err != nil {
			return err
		}
		assert.Equal(t, "S", e.VariantName)
		e.Quantity = 2
		return repos.Stock.Update(ctx, e)
	}))

	_ = s.RunSnapshot(ctx, func(ctx context.Context, repos ports.Repos) error {
		list, err := repos.Stock.ListByHolder(ctx, "sel-1")
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, int64(2), list[0].Quantity)
		return nil
	})
}

func TestRunSnapshot_SoloLectura(t *testing.T) {
	s := seeded()
	err := s.RunSnapshot(context.Background(), func(ctx context.Context, repos ports.Repos) error {
		return repos.Sales.Create(ctx, &entity.Sale{ID: "s-1"})
	})
	assert.ErrorIs(t, err, errReadOnly)
}

func TestRun_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false
	err := seeded().Run(ctx, func(context.Context, ports.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStock_BodegaDerivadaDeProductos(t *testing.T) {
	s := seeded()
	_ = s.RunSnapshot(context.Background(), func(ctx context.Context, repos ports.Repos) error {
		list, err := repos.Stock.ListByHolder(ctx, entity.WarehouseHolder)
		require.NoError(t, err)
		require.Len(t, list, 3)
		// orden por clave: p-camisa/v-m, p-camisa/v-s, p-gorra
		assert.Equal(t, "v-m", list[0].VariantID)
		assert.Equal(t, "v-s", list[1].VariantID)
		assert.Equal(t, "p-gorra", list[2].ProductID)
		return nil
	})
}

func TestStock_UpdateNegativoRechazado(t *testing.T) {
	s := seeded()
	err := s.Run(context.Background(), func(ctx context.Context, repos ports.Repos) error {
		e, err := repos.Stock.GetOrCreateForUpdate(ctx, entity.StockKey{Holder: entity.WarehouseHolder, ProductID: "p-gorra"})
		if err != nil {
			return err
		}
		e.Quantity = -1
		return repos.Stock.Update(ctx, e)
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestStock_BodegaSinVarianteEnProductoConVariantes(t *testing.T) {
	s := seeded()
	err := s.Run(context.Background(), func(ctx context.Context, repos ports.Repos) error {
		_, err := repos.Stock.GetOrCreateForUpdate(ctx, entity.StockKey{Holder: entity.WarehouseHolder, ProductID: "p-camisa"})
		return err
	})
	assert.ErrorIs(t, err, domain.ErrVariantRequired)
}

func TestSellers_ListActive(t *testing.T) {
	s := seeded()
	_ = s.RunSnapshot(context.Background(), func(ctx context.Context, repos ports.Repos) error {
		list, err := repos.Sellers.ListActive(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "sel-1", list[0].ID)

		all, err := repos.Sellers.ListAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "sel-2", all[1].ID)
		assert.False(t, all[1].Active)
		return nil
	})
}

func TestExpenses_DuplicadoYPatch(t *testing.T) {
	s := seeded()
	ctx := context.Background()
	require.NoError(t, s.Run(ctx, func(ctx context.Context, repos ports.Repos) error {
		if err := repos.Expenses.Create(ctx, &entity.Expense{ID: "e-1", SellerID: "sel-1", Name: "Arriendo", Month: 1, Year: 2024}); err != nil {
			return err
		}
		return repos.Expenses.Create(ctx, &entity.Expense{ID: "e-2", SellerID: "sel-1", Name: "Luz", Month: 1, Year: 2024})
	}))

	err := s.Run(ctx, func(ctx context.Context, repos ports.Repos) error {
		return repos.Expenses.Create(ctx, &entity.Expense{ID: "e-3", SellerID: "sel-1", Name: "Arriendo", Month: 1, Year: 2024})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	name := "Arriendo"
	err = s.Run(ctx, func(ctx context.Context, repos ports.Repos) error {
		return repos.Expenses.Update(ctx, "e-2", repository.ExpensePatch{Name: &name})
	})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = s.Run(ctx, func(ctx context.Context, repos ports.Repos) error {
		return repos.Expenses.Delete(ctx, "no-existe")
	})
	assert.ErrorIs(t, err, domain.ErrExpenseNotFound)
}
