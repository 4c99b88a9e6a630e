package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendedores-api/pkg/logger"
)

const localError = "request_error"

// RequestLogger registra cada request con método, ruta, status, latencia y request id.
// Debe ir después del middleware requestid.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Component("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		if cause, ok := c.Locals(localError).(error); ok {
			ev = ev.Err(cause)
		} else if err != nil {
			ev = ev.Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}
