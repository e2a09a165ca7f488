package middleware

import (
	"time"

	"github.com/bilgisen/croft/internal/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// LoggerConfig defines the config for the logger middleware
type LoggerConfig struct {
	// Skip defines a function to skip middleware.
	// Optional. Default: nil
	Next func(c *fiber.Ctx) bool

	// Logger is the zerolog logger instance to use.
	// If not provided, the default logger will be used.
	Logger *zerolog.Logger

	// Fields to include in the logs
	Fields []string
}

// DefaultLoggerConfig is the default config
var DefaultLoggerConfig = LoggerConfig{
	Next:   nil,
	Fields: []string{"latency", "status", "method", "path", "ip", "user_agent"},
}

// NewLogger creates a new middleware handler. Errors from the chain are
// passed to the app error handler first so the logged status is the one
// sent to the client.
func NewLogger(config ...LoggerConfig) fiber.Handler {
	cfg := DefaultLoggerConfig

	if len(config) > 0 {
		cfg = config[0]

		if len(cfg.Fields) == 0 {
			cfg.Fields = DefaultLoggerConfig.Fields
		}
	}

	fields := make(map[string]bool)
	for _, f := range cfg.Fields {
		fields[f] = true
	}

	return func(c *fiber.Ctx) error {
		if cfg.Next != nil && cfg.Next(c) {
			return c.Next()
		}

		start := time.Now()

		chainErr := c.Next()
		if chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		latency := time.Since(start)

		log := cfg.Logger
		if log == nil {
			log = logger.Get()
		}
		event := log.Info()

		if fields["method"] {
			event = event.Str("method", c.Method())
		}
		if fields["path"] {
			event = event.Str("path", c.Path())
		}
		if fields["status"] {
			event = event.Int("status", c.Response().StatusCode())
		}
		if fields["ip"] {
			event = event.Str("ip", c.IP())
		}
		if fields["user_agent"] {
			event = event.Str("user_agent", c.Get(fiber.HeaderUserAgent))
		}
		if fields["latency"] {
			event = event.Dur("latency", latency)
		}
		if chainErr != nil {
			event = event.Err(chainErr)
		}

		event.Msg("request")

		return nil
	}
}

// RequestLogger is a simpler version of the logger middleware. Requests for
// any of the skip paths, such as health checks, are not logged.
func RequestLogger(skip ...string) fiber.Handler {
	return NewLogger(LoggerConfig{
		Next:   SkipPaths(skip...),
		Fields: []string{"latency", "status", "method", "path", "ip"},
	})
}

// SkipPaths returns a Next func matching the exact request paths given
func SkipPaths(paths ...string) func(c *fiber.Ctx) bool {
	if len(paths) == 0 {
		return nil
	}
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(c *fiber.Ctx) bool {
		_, ok := set[c.Path()]
		return ok
	}
}
