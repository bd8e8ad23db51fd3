package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/pkg/logger"
)

// RequestLogger registra cada petición con método, ruta, estado, latencia y usuario.
// Los errores 5xx incluyen el error interno que handleError dejó en c.Locals.
func RequestLogger(log *logger.Logger) fiber.Handler {
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
			if internal, ok := c.Locals(LocalError).(error); ok {
				ev = ev.Err(internal)
			} else if err != nil {
				ev = ev.Err(err)
			}
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}
