package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendedores-api/internal/application/dto"
	"github.com/jhoicas/vendedores-api/internal/application/inventory"
	"github.com/jhoicas/vendedores-api/internal/domain"
	acc "github.com/jhoicas/vendedores-api/internal/domain/accounting"
)

// InventoryHandler entregas, bajas, traslados y consultas de stock (protegido).
type InventoryHandler struct {
	ledger *inventory.LedgerUseCase
	query  *inventory.QueryUseCase
	loc    *time.Location
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, query *inventory.QueryUseCase, loc *time.Location) *InventoryHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &InventoryHandler{ledger: ledger, query: query, loc: loc}
}

func linesIn(lines []dto.LineRequest) []inventory.LineInput {
	if len(lines) == 0 {
		return nil
	}
	out := make([]inventory.LineInput, 0, len(lines))
	for _, l := range lines {
		out = append(out, inventory.LineInput{Variant: l.Variant, Quantity: l.Quantity})
	}
	return out
}

func deliveryInput(in dto.DeliveryRequest, actor string, loc *time.Location) (inventory.DeliveryInput, error) {
	date, err := in.Date.In(loc)
	if err != nil {
		return inventory.DeliveryInput{}, err
	}
	return inventory.DeliveryInput{
		ProductID:  in.ProductID,
		FromHolder: in.FromHolder,
		ToHolder:   in.ToHolder,
		Quantity:   in.Quantity,
		Lines:      linesIn(in.Lines),
		ActorID:    actor,
		Date:       date,
	}, nil
}

// Deliver POST /api/inventory/deliveries
func (h *InventoryHandler) Deliver(c *fiber.Ctx) error {
	var in dto.DeliveryRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	input, err := deliveryInput(in, GetUserID(c), h.loc)
	if err != nil {
		return writeError(c, err)
	}
	mov, err := h.ledger.RecordDelivery(c.UserContext(), input)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// DeliverBatch POST /api/inventory/deliveries/batch. Responde 200 con el resultado de cada ítem.
func (h *InventoryHandler) DeliverBatch(c *fiber.Ctx) error {
	var in dto.DeliveryBatchRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	actor := GetUserID(c)
	items := make([]inventory.DeliveryInput, 0, len(in.Items))
	for _, it := range in.Items {
		input, err := deliveryInput(it, actor, h.loc)
		if err != nil {
			return writeError(c, err)
		}
		items = append(items, input)
	}
	results := h.ledger.DeliverBatch(c.UserContext(), items)

	resp := dto.BatchResponse{Items: make([]dto.BatchItemResponse, 0, len(results))}
	for _, r := range results {
		item := dto.BatchItemResponse{Index: r.Index}
		if r.Err != nil {
			_, body := errorResponse(r.Err)
			item.Error = &body
			resp.Failed++
		} else {
			m := dto.MovementFromEntity(r.Movement)
			item.Movement = &m
			resp.Applied++
		}
		resp.Items = append(resp.Items, item)
	}
	return c.JSON(resp)
}

// WriteOff POST /api/inventory/write-offs
func (h *InventoryHandler) WriteOff(c *fiber.Ctx) error {
	var in dto.WriteOffRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	date, err := in.Date.In(h.loc)
	if err != nil {
		return writeError(c, err)
	}
	mov, err := h.ledger.RecordWriteOff(c.UserContext(), inventory.WriteOffInput{
		ProductID: in.ProductID,
		Holder:    in.Holder,
		Quantity:  in.Quantity,
		Lines:     linesIn(in.Lines),
		Reason:    in.Reason,
		ActorID:   GetUserID(c),
		Date:      date,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementFromEntity(mov))
}

// Transfer POST /api/inventory/transfers
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	var in dto.TransferRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	date, err := in.Date.In(h.loc)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.ledger.RecordTransfer(c.UserContext(), inventory.TransferInput{
		ProductID:  in.ProductID,
		FromSeller: in.FromSeller,
		ToSeller:   in.ToSeller,
		Quantity:   in.Quantity,
		ActorID:    GetUserID(c),
		Date:       date,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.TransferResponse{
		TransferID: res.TransferID,
		Out:        dto.MovementFromEntity(res.Out),
		In:         dto.MovementFromEntity(res.In),
	})
}

// Stock GET /api/inventory/stock/:holder
func (h *InventoryHandler) Stock(c *fiber.Ctx) error {
	holder := c.Params("holder")
	if !canActAs(c, holder) {
		return forbidden(c)
	}
	list, err := h.query.StockByHolder(c.UserContext(), holder)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockFromEntities(holder, list))
}

// Movements GET /api/inventory/movements?holder=&from=&to=&limit=&offset=
// from y to son fechas YYYY-MM-DD inclusivas en la zona configurada.
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	holder := c.Query("holder")
	if holder == "" {
		return writeError(c, domain.ErrInvalidInput)
	}
	if !canActAs(c, holder) {
		return forbidden(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	if err := validate.Struct(page); err != nil {
		return writeError(c, err)
	}

	filter := inventory.MovementFilter{Holder: holder, Limit: page.Limit, Offset: page.Offset}
	if s := c.Query("from"); s != "" {
		r, err := acc.ParseDateRange(s, s)
		if err != nil {
			return writeError(c, err)
		}
		from, _ := r.Bounds(h.loc)
		filter.From = &from
	}
	if s := c.Query("to"); s != "" {
		r, err := acc.ParseDateRange(s, s)
		if err != nil {
			return writeError(c, err)
		}
		_, to := r.Bounds(h.loc)
		filter.To = &to
	}

	list, err := h.query.ListMovements(c.UserContext(), filter)
	if err != nil {
		return writeError(c, err)
	}
	resp := dto.MovementListResponse{
		Page:      dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
		Movements: make([]dto.MovementDTO, 0, len(list)),
	}
	for _, m := range list {
		resp.Movements = append(resp.Movements, dto.MovementFromEntity(m))
	}
	return c.JSON(resp)
}
