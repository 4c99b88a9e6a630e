package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/vendedores-api/internal/application/ports"
	"github.com/jhoicas/vendedores-api/internal/domain"
	"github.com/jhoicas/vendedores-api/internal/domain/entity"
	invdomain "github.com/jhoicas/vendedores-api/internal/domain/inventory"
	"github.com/jhoicas/vendedores-api/pkg/logger"
)

// ReasonWriteOff motivo por defecto de una baja manual.
const ReasonWriteOff = "MERMA"

// LedgerUseCase registra entregas, bajas y traslados. Cada operación es una única transacción:
// ajustes de stock e inserción de movimientos se confirman juntos o no se confirma nada.
type LedgerUseCase struct {
	txRunner   ports.TxRunner
	stock      StockStore
	maxRetries int
	log        *logger.Logger
	now        func() time.Time
}

// NewLedgerUseCase construye el caso de uso. maxRetries acota los reintentos por conflicto.
func NewLedgerUseCase(txRunner ports.TxRunner, maxRetries int, log *logger.Logger) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{
		txRunner:   txRunner,
		maxRetries: maxRetries,
		log:        log.Component("ledger"),
		now:        time.Now,
	}
}

// DeliveryInput entrega de FromHolder (bodega por defecto) a ToHolder.
type DeliveryInput struct {
	ProductID  string
	FromHolder string
	ToHolder   string
	Quantity   int64
	Lines      []LineInput
	ActorID    string
	Date       time.Time
}

// WriteOffInput baja de stock de un tenedor (pérdida, devolución, retiro manual).
type WriteOffInput struct {
	ProductID string
	Holder    string
	Quantity  int64
	Lines     []LineInput
	Reason    string
	ActorID   string
	Date      time.Time
}

// TransferInput traslado entre vendedores; el reparto por variante se calcula proporcionalmente.
type TransferInput struct {
	ProductID  string
	FromSeller string
	ToSeller   string
	Quantity   int64
	ActorID    string
	Date       time.Time
}

// TransferResult par de movimientos (Baja en origen, Entrega en destino).
type TransferResult struct {
	TransferID string
	Out        *entity.Movement
	In         *entity.Movement
}

// RecordDelivery descuenta stock del origen (por variante si aplica), lo suma al destino
// y agrega un movimiento DELIVERY.
func (uc *LedgerUseCase) RecordDelivery(ctx context.Context, in DeliveryInput) (*entity.Movement, error) {
	if in.FromHolder == "" {
		in.FromHolder = entity.WarehouseHolder
	}
	if in.ProductID == "" || in.ToHolder == "" || in.FromHolder == in.ToHolder {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var mov *entity.Movement
	err := ports.RunWithRetry(ctx, uc.txRunner, uc.maxRetries, uc.log, func(ctx context.Context, repos ports.Repos) error {
		mov = nil
		if err := ensureHolders(ctx, repos, in.FromHolder, in.ToHolder); err != nil {
			return err
		}
		product, err := getProduct(ctx, repos, in.ProductID)
		if err != nil {
			return err
		}
		lines, err := ResolveLines(product, in.Quantity, in.Lines)
		if err != nil {
			return err
		}
		now := uc.now()
		adjs := append(
			AdjustmentsFor(in.FromHolder, product.ID, in.Quantity, lines, -1),
			AdjustmentsFor(in.ToHolder, product.ID, in.Quantity, lines, 1)...,
		)
		if err := uc.stock.ApplyAll(ctx, repos.Stock, adjs, now); err != nil {
			return err
		}
		m := newMovement(product, entity.MovementTypeDelivery, in.FromHolder, in.ToHolder, in.Quantity, lines, in.ActorID, dateOr(in.Date, now), now)
		if err := repos.Movements.Create(ctx, m); err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("from", mov.FromHolder).
		Str("to", mov.ToHolder).
		Int64("quantity", mov.Quantity).
		Msg("entrega registrada")
	return mov, nil
}

// RecordWriteOff descuenta stock del tenedor y agrega un movimiento WRITE_OFF.
func (uc *LedgerUseCase) RecordWriteOff(ctx context.Context, in WriteOffInput) (*entity.Movement, error) {
	if in.ProductID == "" || in.Holder == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}
	if in.Reason == "" {
		in.Reason = ReasonWriteOff
	}

	var mov *entity.Movement
	err := ports.RunWithRetry(ctx, uc.txRunner, uc.maxRetries, uc.log, func(ctx context.Context, repos ports.Repos) error {
		mov = nil
		if err := ensureHolders(ctx, repos, in.Holder); err != nil {
			return err
		}
		product, err := getProduct(ctx, repos, in.ProductID)
		if err != nil {
			return err
		}
		lines, err := ResolveLines(product, in.Quantity, in.Lines)
		if err != nil {
			return err
		}
		now := uc.now()
		if err := uc.stock.ApplyAll(ctx, repos.Stock, AdjustmentsFor(in.Holder, product.ID, in.Quantity, lines, -1), now); err != nil {
			return err
		}
		m := newMovement(product, entity.MovementTypeWriteOff, in.Holder, in.Holder, in.Quantity, lines, in.ActorID, dateOr(in.Date, now), now)
		m.Reason = in.Reason
		if err := repos.Movements.Create(ctx, m); err != nil {
			return err
		}
		mov = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("movement_id", mov.ID).
		Str("product_id", mov.ProductID).
		Str("holder", mov.FromHolder).
		Int64("quantity", mov.Quantity).
		Str("reason", mov.Reason).
		Msg("baja registrada")
	return mov, nil
}

// RecordTransfer mueve quantity de un vendedor a otro preservando la distribución por variante
// del origen. Genera una Baja en origen y una Entrega en destino con el mismo snapshot de precio.
func (uc *LedgerUseCase) RecordTransfer(ctx context.Context, in TransferInput) (*TransferResult, error) {
	if in.ProductID == "" || in.FromSeller == "" || in.ToSeller == "" || in.FromSeller == in.ToSeller {
		return nil, domain.ErrInvalidInput
	}
	if entity.IsWarehouse(in.FromSeller) || entity.IsWarehouse(in.ToSeller) {
		return nil, domain.ErrInvalidInput
	}
	if in.Quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	var res *TransferResult
	err := ports.RunWithRetry(ctx, uc.txRunner, uc.maxRetries, uc.log, func(ctx context.Context, repos ports.Repos) error {
		res = nil
		if err := ensureHolders(ctx, repos, in.FromSeller, in.ToSeller); err != nil {
			return err
		}
		product, err := getProduct(ctx, repos, in.ProductID)
		if err != nil {
			return err
		}

		// Bloquear primero las filas del tenedor menor para evitar deadlocks entre traslados cruzados.
		first, second := in.FromSeller, in.ToSeller
		if second < first {
			first, second = second, first
		}
		locked := map[string][]*entity.StockEntry{}
		for _, h := range []string{first, second} {
			entries, err := repos.Stock.ListForUpdate(ctx, h, product.ID)
			if err != nil {
				return err
			}
			locked[h] = entries
		}

		source := locked[in.FromSeller]
		available := uc.stock.Total(source)
		if available == 0 {
			return domain.ErrSellerHasNoStock
		}
		if available < in.Quantity {
			return &domain.StockError{Holder: in.FromSeller, ProductID: product.ID, Available: available, Requested: in.Quantity}
		}

		lines, err := transferLines(product, source, in.Quantity)
		if err != nil {
			return err
		}
		now := uc.now()
		adjs := append(
			AdjustmentsFor(in.FromSeller, product.ID, in.Quantity, lines, -1),
			AdjustmentsFor(in.ToSeller, product.ID, in.Quantity, lines, 1)...,
		)
		if err := uc.stock.ApplyAll(ctx, repos.Stock, adjs, now); err != nil {
			return err
		}

		date := dateOr(in.Date, now)
		transferID := uuid.New().String()
		out := newMovement(product, entity.MovementTypeWriteOff, in.FromSeller, in.FromSeller, in.Quantity, lines, in.ActorID, date, now)
		out.TransferID = transferID
		out.Reason = entity.ReasonTransferOut
		inMov := newMovement(product, entity.MovementTypeDelivery, in.ToSeller, in.ToSeller, in.Quantity, lines, in.ActorID, date, now)
		inMov.TransferID = transferID
		inMov.Reason = entity.ReasonTransferIn
		if err := repos.Movements.Create(ctx, out); err != nil {
			return err
		}
		if err := repos.Movements.Create(ctx, inMov); err != nil {
			return err
		}
		res = &TransferResult{TransferID: transferID, Out: out, In: inMov}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("transfer_id", res.TransferID).
		Str("product_id", in.ProductID).
		Str("from", in.FromSeller).
		Str("to", in.ToSeller).
		Int64("quantity", in.Quantity).
		Msg("traslado registrado")
	return res, nil
}

// transferLines calcula el reparto por variante del origen; sin variantes no hay líneas.
func transferLines(product *entity.Product, source []*entity.StockEntry, quantity int64) ([]entity.MovementLine, error) {
	if !product.HasVariants {
		return nil, nil
	}
	available := make([]invdomain.VariantQty, 0, len(source))
	for _, e := range source {
		if e.VariantID == "" {
			continue
		}
		name := e.VariantName
		if v, ok := variantByID(product, e.VariantID); ok {
			name = v.Name
		}
		available = append(available, invdomain.VariantQty{VariantID: e.VariantID, Name: name, Quantity: e.Quantity})
	}
	split, err := invdomain.ProportionalSplit(available, quantity)
	if err != nil {
		return nil, err
	}
	lines := make([]entity.MovementLine, 0, len(split))
	for _, s := range split {
		lines = append(lines, entity.MovementLine{VariantID: s.VariantID, VariantName: s.Name, Quantity: s.Quantity})
	}
	return lines, nil
}

func variantByID(product *entity.Product, id string) (*entity.Variant, bool) {
	for i := range product.Variants {
		if product.Variants[i].ID == id {
			return &product.Variants[i], true
		}
	}
	return nil, false
}

func getProduct(ctx context.Context, repos ports.Repos, id string) (*entity.Product, error) {
	product, err := repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return product, nil
}

// ensureHolders valida que cada tenedor sea la bodega o un vendedor existente.
func ensureHolders(ctx context.Context, repos ports.Repos, holders ...string) error {
	for _, h := range holders {
		if entity.IsWarehouse(h) {
			continue
		}
		seller, err := repos.Sellers.GetByID(ctx, h)
		if err != nil {
			return err
		}
		if seller == nil {
			return domain.ErrSellerNotFound
		}
	}
	return nil
}

func newMovement(product *entity.Product, typ, from, to string, quantity int64, lines []entity.MovementLine, actor string, date, now time.Time) *entity.Movement {
	return &entity.Movement{
		ID:         uuid.New().String(),
		ProductID:  product.ID,
		Type:       typ,
		FromHolder: from,
		ToHolder:   to,
		Quantity:   quantity,
		UnitPrice:  product.Price,
		UnitCost:   product.Cost,
		Date:       date,
		CreatedAt:  now,
		CreatedBy:  actor,
		Lines:      lines,
	}
}

func dateOr(d, now time.Time) time.Time {
	if d.IsZero() {
		return now
	}
	return d
}
