package web

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Route binds one method and path pattern to a handler
type Route struct {
	Method  string       `validate:"required,oneof=GET POST PUT PATCH DELETE OPTIONS"`
	Path    string       `validate:"required,startswith=/"`
	Name    string       `validate:"required"`
	Handler fiber.Handler `validate:"required"`
}

// Register adds routes to router in order. It fails before registering
// anything if a route is malformed or two routes share a method and path.
// GET routes also answer HEAD.
func Register(router fiber.Router, routes []Route) error {
	validate := validator.New()
	seen := make(map[string]string, len(routes))

	for _, r := range routes {
		if err := validate.Struct(r); err != nil {
			return fmt.Errorf("invalid route %q: %w", r.Name, err)
		}
		key := r.Method + " " + routeKey(r.Path)
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("route %q conflicts with %q on %s", r.Name, prev, key)
		}
		seen[key] = r.Name
	}

	for _, r := range routes {
		if r.Method == fiber.MethodGet {
			router.Get(r.Path, r.Handler)
			continue
		}
		router.Add(r.Method, r.Path, r.Handler)
	}
	return nil
}

// routeKey normalises a path the way the router matches it:
// case-insensitive, trailing slash ignored.
func routeKey(path string) string {
	key := strings.ToLower(strings.TrimRight(path, "/"))
	if key == "" {
		return "/"
	}
	return key
}
