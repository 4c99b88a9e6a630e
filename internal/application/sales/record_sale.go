package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/vendedores-api/internal/application/inventory"
	"github.com/jhoicas/vendedores-api/internal/application/ports"
	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	"github.com/jhoicas/vendedores-api/pkg/logger"
)

// RecordSaleUseCase registra ventas de un vendedor desde su propio stock.
type RecordSaleUseCase struct {
	txRunner   ports.TxRunner
	stock      inventory.StockStore
	maxRetries int
	log        *logger.Logger
	now        func() time.Time
}

// NewRecordSaleUseCase construye el caso de uso.
func NewRecordSaleUseCase(txRunner ports.TxRunner, maxRetries int, log *logger.Logger) *RecordSaleUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordSaleUseCase{
		txRunner:   txRunner,
		maxRetries: maxRetries,
		log:        log.Component("sales"),
		now:        time.Now,
	}
}

// SaleInput datos de la venta. PurchasePrice nil toma el costo actual del producto;
// Date cero toma la hora actual.
type SaleInput struct {
	ProductID     string
	SellerID      string
	Quantity      int64
	UnitPrice     decimal.Decimal
	PurchasePrice *decimal.Decimal
	Date          time.Time
	Lines         []inventory.LineInput
	ActorID       string
}

// RecordSale valida y descuenta el stock del vendedor (por variante si aplica) e inserta la venta
// con snapshot de precio de venta y de compra, todo en una transacción.
func (uc *RecordSaleUseCase) RecordSale(ctx context.Context, in SaleInput) (*entity.Sale, error) {
	if in.ProductID == "" || in.SellerID == "" || entity.IsWarehouse(in.SellerID) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if !validPrice(in.UnitPrice) || (in.PurchasePrice != nil && !validPrice(*in.PurchasePrice)) {
		return nil, domain.ErrInvalidInput
	}

	var sale *entity.Sale
	err := ports.RunWithRetry(ctx, uc.txRunner, uc.maxRetries, uc.log, func(ctx context.Context, repos ports.Repos) error {
		sale = nil
		seller, err := repos.Sellers.GetByID(ctx, in.SellerID)
		if err != nil {
			return err
		}
		if seller == nil {
			return domain.ErrSellerNotFound
		}
		product, err := repos.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		lines, err := inventory.ResolveLines(product, in.Quantity, in.Lines)
		if err != nil {
			return err
		}

		now := uc.now()
		if err := uc.stock.ApplyAll(ctx, repos.Stock, inventory.AdjustmentsFor(in.SellerID, product.ID, in.Quantity, lines, -1), now); err != nil {
			return err
		}

		purchase := product.Cost
		if in.PurchasePrice != nil {
			purchase = *in.PurchasePrice
		}
		date := in.Date
		if date.IsZero() {
			date = now
		}
		s := &entity.Sale{
			ID:            uuid.New().String(),
			ProductID:     product.ID,
			SellerID:      in.SellerID,
			Quantity:      in.Quantity,
			UnitPrice:     in.UnitPrice,
			PurchasePrice: purchase,
			Date:          date,
			CreatedAt:     now,
			CreatedBy:     in.ActorID,
			Lines:         lines,
		}
		if err := repos.Sales.Create(ctx, s); err != nil {
			return err
		}
		sale = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("seller_id", sale.SellerID).
		Str("product_id", sale.ProductID).
		Int64("quantity", sale.Quantity).
		Str("unit_price", sale.UnitPrice.String()).
		Msg("venta registrada")
	return sale, nil
}

func validPrice(d decimal.Decimal) bool {
	return !d.IsNegative() && entity.FitsScale(d, entity.MoneyScale)
}
