package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	"github.com/jhoicas/vendedores-api/internal/domain/repository"
)

var (
	_ repository.ProductRepository    = (*productRepo)(nil)
	_ repository.SellerRepository     = (*sellerRepo)(nil)
	_ repository.StockRepository      = (*stockRepo)(nil)
	_ repository.MovementRepository   = (*movementRepo)(nil)
	_ repository.SaleRepository       = (*saleRepo)(nil)
	_ repository.ExpenseRepository    = (*expenseRepo)(nil)
	_ repository.CommissionRepository = (*commissionRepo)(nil)
)

type productRepo struct{ st *state }

func (r *productRepo) GetByID(_ context.Context, id string) (*entity.Product, error) {
	p, ok := r.st.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

type sellerRepo struct{ st *state }

func (r *sellerRepo) GetByID(_ context.Context, id string) (*entity.Seller, error) {
	s, ok := r.st.sellers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *sellerRepo) ListActive(_ context.Context) ([]*entity.Seller, error) {
	out := make([]*entity.Seller, 0, len(r.st.sellers))
	for _, s := range r.st.sellers {
		if s.Active {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *sellerRepo) ListAll(_ context.Context) ([]*entity.Seller, error) {
	out := make([]*entity.Seller, 0, len(r.st.sellers))
	for _, s := range r.st.sellers {
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// stockRepo la bodega vive en los productos/variantes; los vendedores en el mapa stock.
type stockRepo struct {
	st       *state
	readOnly bool
}

func (r *stockRepo) warehouseEntry(key entity.StockKey) (*entity.StockEntry, error) {
	p, ok := r.st.products[key.ProductID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	if key.VariantID == "" {
		if p.HasVariants {
			return nil, domain.ErrVariantRequired
		}
		return &entity.StockEntry{StockKey: key, Quantity: p.Quantity, UpdatedAt: p.UpdatedAt}, nil
	}
	for _, v := range p.Variants {
		if v.ID == key.VariantID {
			return &entity.StockEntry{StockKey: key, VariantName: v.Name, Quantity: v.Quantity, UpdatedAt: p.UpdatedAt}, nil
		}
	}
	return nil, domain.ErrVariantNotFound
}

func (r *stockRepo) warehouseEntries(p *entity.Product) []*entity.StockEntry {
	if !p.HasVariants {
		return []*entity.StockEntry{{
			StockKey: entity.StockKey{Holder: entity.WarehouseHolder, ProductID: p.ID},
			Quantity: p.Quantity, UpdatedAt: p.UpdatedAt,
		}}
	}
	out := make([]*entity.StockEntry, 0, len(p.Variants))
	for _, v := range p.Variants {
		out = append(out, &entity.StockEntry{
			StockKey:    entity.StockKey{Holder: entity.WarehouseHolder, ProductID: p.ID, VariantID: v.ID},
			VariantName: v.Name, Quantity: v.Quantity, UpdatedAt: p.UpdatedAt,
		})
	}
	sortEntries(out)
	return out
}

func (r *stockRepo) GetOrCreateForUpdate(_ context.Context, key entity.StockKey) (*entity.StockEntry, error) {
	if r.readOnly {
		return nil, errReadOnly
	}
	if entity.IsWarehouse(key.Holder) {
		return r.warehouseEntry(key)
	}
	if e, ok := r.st.stock[key]; ok {
		cp := *e
		return &cp, nil
	}
	p, ok := r.st.products[key.ProductID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	e := &entity.StockEntry{StockKey: key}
	if key.VariantID != "" {
		found := false
		for _, v := range p.Variants {
			if v.ID == key.VariantID {
				e.VariantName = v.Name
				found = true
			}
		}
		if !found {
			return nil, domain.ErrVariantNotFound
		}
	}
	r.st.stock[key] = e
	cp := *e
	return &cp, nil
}

func (r *stockRepo) ListForUpdate(_ context.Context, holder, productID string) ([]*entity.StockEntry, error) {
	if r.readOnly {
		return nil, errReadOnly
	}
	if entity.IsWarehouse(holder) {
		p, ok := r.st.products[productID]
		if !ok {
			return nil, domain.ErrProductNotFound
		}
		return r.warehouseEntries(p), nil
	}
	var out []*entity.StockEntry
	for k, e := range r.st.stock {
		if k.Holder == holder && k.ProductID == productID {
			cp := *e
			out = append(out, &cp)
		}
	}
	sortEntries(out)
	return out, nil
}

func (r *stockRepo) Update(_ context.Context, entry *entity.StockEntry) error {
	if r.readOnly {
		return errReadOnly
	}
	if entry.Quantity < 0 {
		return domain.ErrInsufficientStock
	}
	if !entity.IsWarehouse(entry.Holder) {
		if _, ok := r.st.stock[entry.StockKey]; !ok {
			return domain.ErrNotFound
		}
		cp := *entry
		r.st.stock[entry.StockKey] = &cp
		return nil
	}
	p, ok := r.st.products[entry.ProductID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.UpdatedAt = entry.UpdatedAt
	if entry.VariantID == "" {
		p.Quantity = entry.Quantity
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].ID == entry.VariantID {
			p.Variants[i].Quantity = entry.Quantity
			return nil
		}
	}
	return domain.ErrVariantNotFound
}

func (r *stockRepo) ListByHolder(_ context.Context, holder string) ([]*entity.StockEntry, error) {
	var out []*entity.StockEntry
	if entity.IsWarehouse(holder) {
		for _, p := range r.st.products {
			out = append(out, r.warehouseEntries(p)...)
		}
	} else {
		for k, e := range r.st.stock {
			if k.Holder == holder {
				cp := *e
				out = append(out, &cp)
			}
		}
	}
	sortEntries(out)
	return out, nil
}

func sortEntries(entries []*entity.StockEntry) {
	sort.Slice(entries, func(i, j int) bool { return entries[i].StockKey.Less(entries[j].StockKey) })
}

type movementRepo struct {
	st       *state
	readOnly bool
}

func (r *movementRepo) Create(_ context.Context, m *entity.Movement) error {
	if r.readOnly {
		return errReadOnly
	}
	cp := *m
	cp.Lines = append([]entity.MovementLine(nil), m.Lines...)
	r.st.movements = append(r.st.movements, &cp)
	return nil
}

func (r *movementRepo) GetByID(_ context.Context, id string) (*entity.Movement, error) {
	for _, m := range r.st.movements {
		if m.ID == id {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *movementRepo) ListByHolder(_ context.Context, holder string, from, to *time.Time, limit, offset int) ([]*entity.Movement, error) {
	var out []*entity.Movement
	for _, m := range r.st.movements {
		if m.FromHolder != holder && m.ToHolder != holder {
			continue
		}
		if from != nil && m.Date.Before(*from) {
			continue
		}
		if to != nil && !m.Date.Before(*to) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.After(out[j].Date)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return []*entity.Movement{}, nil
	}
	out = out[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *movementRepo) ListWriteOffValues(_ context.Context, from, to time.Time) ([]entity.WriteOffValue, error) {
	var out []entity.WriteOffValue
	for _, m := range r.st.movements {
		if m.Type != entity.MovementTypeWriteOff || m.IsTransferLeg() {
			continue
		}
		if m.Date.Before(from) || !m.Date.Before(to) {
			continue
		}
		p, ok := r.st.products[m.ProductID]
		if !ok {
			return nil, domain.ErrProductNotFound
		}
		out = append(out, entity.WriteOffValue{
			MovementID:   m.ID,
			ProductID:    m.ProductID,
			Quantity:     m.Quantity,
			CurrentPrice: p.Price,
			Date:         m.Date,
		})
	}
	return out, nil
}

type saleRepo struct {
	st       *state
	readOnly bool
}

func (r *saleRepo) Create(_ context.Context, s *entity.Sale) error {
	if r.readOnly {
		return errReadOnly
	}
	cp := *s
	cp.Lines = append([]entity.MovementLine(nil), s.Lines...)
	r.st.sales = append(r.st.sales, &cp)
	return nil
}

func (r *saleRepo) ListBySeller(_ context.Context, sellerID string, from, to time.Time) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, s := range r.st.sales {
		if s.SellerID != sellerID || s.Date.Before(from) || !s.Date.Before(to) {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

type expenseRepo struct {
	st       *state
	readOnly bool
}

func (r *expenseRepo) duplicated(e *entity.Expense) bool {
	for _, o := range r.st.expenses {
		if o.ID != e.ID && o.SellerID == e.SellerID && o.Name == e.Name && o.Month == e.Month && o.Year == e.Year {
			return true
		}
	}
	return false
}

func (r *expenseRepo) Create(_ context.Context, e *entity.Expense) error {
	if r.readOnly {
		return errReadOnly
	}
	if r.duplicated(e) {
		return domain.ErrDuplicate
	}
	cp := *e
	r.st.expenses[e.ID] = &cp
	return nil
}

func (r *expenseRepo) GetByID(_ context.Context, id string) (*entity.Expense, error) {
	e, ok := r.st.expenses[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	return &cp, nil
}

func (r *expenseRepo) Update(_ context.Context, id string, patch repository.ExpensePatch) error {
	if r.readOnly {
		return errReadOnly
	}
	e, ok := r.st.expenses[id]
	if !ok {
		return domain.ErrExpenseNotFound
	}
	next := *e
	if patch.Name != nil {
		next.Name = *patch.Name
	}
	if patch.MonthlyValue != nil {
		next.MonthlyValue = *patch.MonthlyValue
	}
	if patch.Month != nil {
		next.Month = *patch.Month
	}
	if patch.Year != nil {
		next.Year = *patch.Year
	}
	if r.duplicated(&next) {
		return domain.ErrDuplicate
	}
	next.UpdatedAt = time.Now()
	r.st.expenses[id] = &next
	return nil
}

func (r *expenseRepo) Delete(_ context.Context, id string) error {
	if r.readOnly {
		return errReadOnly
	}
	if _, ok := r.st.expenses[id]; !ok {
		return domain.ErrExpenseNotFound
	}
	delete(r.st.expenses, id)
	return nil
}

func (r *expenseRepo) ListBySellerAndMonth(_ context.Context, sellerID string, month, year int) ([]*entity.Expense, error) {
	var out []*entity.Expense
	for _, e := range r.st.expenses {
		if e.SellerID == sellerID && e.Month == month && e.Year == year {
			cp := *e
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

type commissionRepo struct {
	st       *state
	readOnly bool
}

func (r *commissionRepo) Get(_ context.Context, sellerID string) (*entity.CommissionRate, error) {
	c, ok := r.st.commissions[sellerID]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *commissionRepo) Set(_ context.Context, rate *entity.CommissionRate) error {
	if r.readOnly {
		return errReadOnly
	}
	cp := *rate
	r.st.commissions[rate.SellerID] = &cp
	return nil
}
