package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/vendedores-api/internal/domain/entity"
)

// BatchItemResult resultado de un ítem de una entrega masiva.
type BatchItemResult struct {
	Index    int
	Movement *entity.Movement
	Err      error
}

// DeliverBatch registra entregas a varios vendedores una por una. Cada ítem es su propia
// transacción: un fallo no revierte los ítems ya confirmados. Si el contexto termina,
// los ítems restantes no se inician y se informan con el error del contexto.
func (uc *LedgerUseCase) DeliverBatch(ctx context.Context, items []DeliveryInput) []BatchItemResult {
	results := make([]BatchItemResult, 0, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			results = append(results, BatchItemResult{Index: i, Err: fmt.Errorf("no aplicado: %w", err)})
			continue
		}
		mov, err := uc.RecordDelivery(ctx, item)
		if err != nil {
			uc.log.Warn().Err(err).Int("index", i).Str("to", item.ToHolder).Msg("entrega masiva: ítem rechazado")
		}
		results = append(results, BatchItemResult{Index: i, Movement: mov, Err: err})
	}
	return results
}
