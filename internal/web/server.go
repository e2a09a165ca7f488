// Package web is the Fiber based web responder: the index page, static
// assets and an index-page fallback for everything else.
package web

import (
	"context"
	"time"

	"github.com/bilgisen/croft/internal/assets"
	"github.com/bilgisen/croft/internal/config"
	"github.com/bilgisen/croft/internal/middleware"
	"github.com/bilgisen/croft/internal/page"
	"github.com/bilgisen/croft/internal/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/encryptcookie"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

type Server struct {
	cfg    *config.Config
	page   *page.Page
	assets assets.Store
	app    *fiber.App
}

// NewServer builds the Fiber app. extra routes are registered after the
// built-in ones and before the not-found fallback.
func NewServer(cfg *config.Config, pg *page.Page, store assets.Store, extra ...Route) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		page:   pg,
		assets: store,
	}

	app := fiber.New(fiber.Config{
		AppName:               "croft",
		ReadTimeout:           cfg.HTTPTimeout,
		WriteTimeout:          cfg.HTTPTimeout,
		IdleTimeout:           120 * time.Second,
		ErrorHandler:          middleware.ErrorHandler(pg),
		DisableStartupMessage: true,
	})

	// Logger sits outside recover so panics are logged with their 500
	app.Use(middleware.RequestLogger(healthPath))
	app.Use(recover.New())
	app.Use(encryptcookie.New(encryptcookie.Config{
		Key: utils.DeriveKey(cfg.SessionSecret),
	}))
	app.Use(etag.New())

	if err := Register(app, append(s.routes(), extra...)); err != nil {
		return nil, err
	}
	app.Use(s.NotFound)

	s.app = app
	return s, nil
}

const healthPath = "/healthz"

func (s *Server) routes() []Route {
	return []Route{
		{Method: fiber.MethodGet, Path: "/", Name: "index", Handler: s.Index},
		{Method: fiber.MethodGet, Path: "/static/*", Name: "static", Handler: s.Static},
		{Method: fiber.MethodGet, Path: healthPath, Name: "health", Handler: s.HealthCheck},
	}
}

// App exposes the underlying Fiber app
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen blocks serving on addr
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
