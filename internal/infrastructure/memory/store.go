// Package memory implementa los repositorios y el TxRunner sobre un estado en memoria.
// Cada Run trabaja sobre una copia del estado y la publica solo si fn no falla, así que
// tiene la misma semántica todo-o-nada que una transacción de PostgreSQL. Las escrituras se
// serializan con un mutex; los snapshots leen una copia consistente sin bloquear escritores.
package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/jhoicas/vendedores-api/internal/application/ports"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

var errReadOnly = errors.New("memory: escritura en transacción de solo lectura")

type state struct {
	products    map[string]*entity.Product
	sellers     map[string]*entity.Seller
	stock       map[entity.StockKey]*entity.StockEntry
	movements   []*entity.Movement
	sales       []*entity.Sale
	expenses    map[string]*entity.Expense
	commissions map[string]*entity.CommissionRate
}

func newState() *state {
	return &state{
		products:    map[string]*entity.Product{},
		sellers:     map[string]*entity.Seller{},
		stock:       map[entity.StockKey]*entity.StockEntry{},
		expenses:    map[string]*entity.Expense{},
		commissions: map[string]*entity.CommissionRate{},
	}
}

// clone copia lo mutable; movimientos y ventas son inmutables y se comparten.
func (s *state) clone() *state {
	c := newState()
	for id, p := range s.products {
		c.products[id] = cloneProduct(p)
	}
	for id, sl := range s.sellers {
		cp := *sl
		c.sellers[id] = &cp
	}
	for k, e := range s.stock {
		cp := *e
		c.stock[k] = &cp
	}
	c.movements = append([]*entity.Movement(nil), s.movements...)
	c.sales = append([]*entity.Sale(nil), s.sales...)
	for id, e := range s.expenses {
		cp := *e
		c.expenses[id] = &cp
	}
	for id, r := range s.commissions {
		cp := *r
		c.commissions[id] = &cp
	}
	return c
}

func cloneProduct(p *entity.Product) *entity.Product {
	cp := *p
	cp.Variants = append([]entity.Variant(nil), p.Variants...)
	return &cp
}

// Store almacenamiento en memoria; implementa ports.TxRunner.
type Store struct {
	mu sync.RWMutex
	st *state
}

var _ ports.TxRunner = (*Store)(nil)

func New() *Store {
	return &Store{st: newState()}
}

// Run ejecuta fn sobre una copia del estado y la confirma solo si fn no devuelve error.
func (s *Store) Run(ctx context.Context, fn ports.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	work := s.st.clone()
	if err := fn(ctx, work.repos(false)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.st = work
	return nil
}

// RunSnapshot ejecuta fn sobre una copia de solo lectura del estado confirmado.
func (s *Store) RunSnapshot(ctx context.Context, fn ports.TxFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	snap := s.st.clone()
	s.mu.RUnlock()
	return fn(ctx, snap.repos(true))
}

func (s *state) repos(readOnly bool) ports.Repos {
	return ports.Repos{
		Products:    &productRepo{st: s},
		Stock:       &stockRepo{st: s, readOnly: readOnly},
		Movements:   &movementRepo{st: s, readOnly: readOnly},
		Sales:       &saleRepo{st: s, readOnly: readOnly},
		Expenses:    &expenseRepo{st: s, readOnly: readOnly},
		Commissions: &commissionRepo{st: s, readOnly: readOnly},
		Sellers:     &sellerRepo{st: s},
	}
}

// SeedProduct registra un producto (datos maestros externos al núcleo).
func (s *Store) SeedProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range p.Variants {
		p.Variants[i].ProductID = p.ID
	}
	s.st.products[p.ID] = cloneProduct(&p)
}

// SeedSeller registra un vendedor.
func (s *Store) SeedSeller(sl entity.Seller) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.sellers[sl.ID] = &sl
}

// SeedSellerStock fija el stock de un vendedor sin generar movimientos.
func (s *Store) SeedSellerStock(key entity.StockKey, variantName string, quantity int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.stock[key] = &entity.StockEntry{StockKey: key, VariantName: variantName, Quantity: quantity}
}
