package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound               = errors.New("recurso no encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("no autorizado")
	ErrInsufficientStock      = errors.New("stock insuficiente")
	ErrInvalidQuantity        = errors.New("cantidad inválida")
	ErrDateRangeInvalid       = errors.New("rango de fechas inválido")
	ErrConcurrentModification = errors.New("modificación concurrente, reintentar")
)

// Errores específicos; envuelven a los genéricos para que errors.Is funcione con ambos.
var (
	ErrProductNotFound   = fmt.Errorf("producto no encontrado: %w", ErrNotFound)
	ErrVariantNotFound   = fmt.Errorf("variante no encontrada: %w", ErrNotFound)
	ErrSellerNotFound    = fmt.Errorf("vendedor no encontrado: %w", ErrNotFound)
	ErrExpenseNotFound   = fmt.Errorf("gasto no encontrado: %w", ErrNotFound)
	ErrSellerHasNoStock  = fmt.Errorf("el vendedor no tiene stock del producto: %w", ErrInsufficientStock)
	ErrVariantRequired   = fmt.Errorf("el producto maneja variantes: %w", ErrInvalidInput)
	ErrVariantNotAllowed = fmt.Errorf("el producto no maneja variantes: %w", ErrInvalidInput)
)

// StockError detalla un rechazo por stock insuficiente (a nivel producto o variante).
type StockError struct {
	Holder    string
	ProductID string
	Variant   string
	Available int64
	Requested int64
}

func (e *StockError) Error() string {
	if e.Variant != "" {
		return fmt.Sprintf("stock insuficiente de %s/%s en %s: disponible %d, solicitado %d",
			e.ProductID, e.Variant, e.Holder, e.Available, e.Requested)
	}
	return fmt.Sprintf("stock insuficiente de %s en %s: disponible %d, solicitado %d",
		e.ProductID, e.Holder, e.Available, e.Requested)
}

func (e *StockError) Unwrap() error { return ErrInsufficientStock }
