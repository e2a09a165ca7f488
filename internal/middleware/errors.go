package middleware

import (
	"errors"

	"github.com/bilgisen/croft/internal/logger"
	"github.com/bilgisen/croft/internal/page"
	"github.com/gofiber/fiber/v2"
)

// ErrorHandler renders the index page for every error, signalling failure
// only through the status code. *fiber.Error keeps its code, anything else
// (including recovered panics) becomes 500.
func ErrorHandler(pg *page.Page) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var e *fiber.Error
		if errors.As(err, &e) {
			code = e.Code
		}

		event := logger.Get().Error()
		if code < fiber.StatusInternalServerError {
			event = logger.Get().Debug()
		}
		event.
			Err(err).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", code).
			Msg("HTTP error")

		c.Status(code)
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(pg.Body())
	}
}
