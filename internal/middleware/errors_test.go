package middleware

import (
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/bilgisen/croft/internal/page"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func testPage(t *testing.T) *page.Page {
	t.Helper()
	path := filepath.Join(t.TempDir(), "index.html")
	if err := os.WriteFile(path, []byte("<h1>farm</h1>"), 0644); err != nil {
		t.Fatal(err)
	}
	pg, err := page.Load(path, page.Data{})
	if err != nil {
		t.Fatal(err)
	}
	return pg
}

func TestErrorHandlerStatuses(t *testing.T) {
	pg := testPage(t)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(pg)})
	app.Use(RequestLogger())
	app.Use(recover.New())
	app.Get("/missing", func(c *fiber.Ctx) error { return fiber.ErrNotFound })
	app.Get("/teapot", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/fail", func(c *fiber.Ctx) error { return errors.New("disk on fire") })
	app.Get("/panic", func(c *fiber.Ctx) error { panic("boom") })

	tests := []struct {
		path string
		want int
	}{
		{"/missing", fiber.StatusNotFound},
		{"/teapot", fiber.StatusTeapot},
		{"/fail", fiber.StatusInternalServerError},
		{"/panic", fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", tt.path, nil))
		if err != nil {
			t.Fatalf("%s: %v", tt.path, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != tt.want {
			t.Errorf("%s: status = %d, want %d", tt.path, resp.StatusCode, tt.want)
		}
		if string(body) != "<h1>farm</h1>" {
			t.Errorf("%s: body = %q, want index page", tt.path, body)
		}
		if ct := resp.Header.Get(fiber.HeaderContentType); ct != fiber.MIMETextHTMLCharsetUTF8 {
			t.Errorf("%s: content type = %q", tt.path, ct)
		}
	}
}
