package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseBody decodifica el JSON y valida los tags `validate`. Si falla ya respondió al cliente
// y devuelve ok=false.
func parseBody(c *fiber.Ctx, out any) (ok bool, err error) {
	if err := c.BodyParser(out); err != nil {
		return false, badBody(c)
	}
	if err := validate.Struct(out); err != nil {
		return false, writeError(c, err)
	}
	return true, nil
}
