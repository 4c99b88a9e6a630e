package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendedores-api/internal/application/dto"
	"github.com/jhoicas/vendedores-api/internal/domain"
)

// errorResponse código HTTP y cuerpo para un error de dominio.
func errorResponse(err error) (int, dto.ErrorResponse) {
	var stockErr *domain.StockError
	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(validationErrs)}
	case errors.As(err, &stockErr):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: stockErr.Error()}
	case errors.Is(err, domain.ErrInsufficientStock):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()}
	case errors.Is(err, domain.ErrConcurrentModification):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONCURRENT_MODIFICATION", Message: "conflicto de concurrencia, reintente"}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()}
	case errors.Is(err, domain.ErrDateRangeInvalid):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "DATE_RANGE_INVALID", Message: err.Error()}
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrInvalidQuantity):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()}
	default:
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
	}
}

func writeError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	if status == fiber.StatusInternalServerError {
		// El detalle va al log del request, no al cliente.
		c.Locals(localError, err)
	}
	return c.Status(status).JSON(body)
}

func validationMessage(errs validator.ValidationErrors) string {
	parts := make([]string, 0, len(errs))
	for _, fe := range errs {
		parts = append(parts, fe.Namespace()+": "+fe.Tag())
	}
	return "datos inválidos: " + strings.Join(parts, ", ")
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
