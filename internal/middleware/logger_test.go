package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

func TestNewLoggerRecordsFinalStatus(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	pg := testPage(t)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(pg)})
	app.Use(NewLogger(LoggerConfig{
		Next:   SkipPaths("/healthz"),
		Logger: &log,
		Fields: []string{"status", "path"},
	}))
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("index") })

	for _, path := range []string{"/healthz", "/", "/nowhere"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		resp.Body.Close()
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("logged %d lines, want 2:\n%s", len(lines), buf.String())
	}

	want := map[string]int{"/": fiber.StatusOK, "/nowhere": fiber.StatusNotFound}
	for _, line := range lines {
		var entry struct {
			Path   string `json:"path"`
			Status int    `json:"status"`
			Method string `json:"method"`
		}
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("invalid log line %q: %v", line, err)
		}
		if entry.Path == "/healthz" {
			t.Error("skipped path was logged")
		}
		if code, ok := want[entry.Path]; !ok || entry.Status != code {
			t.Errorf("%s: logged status %d, want %d", entry.Path, entry.Status, code)
		}
		if entry.Method != "" {
			t.Errorf("%s: method logged although not in Fields", entry.Path)
		}
	}
}

func TestSkipPaths(t *testing.T) {
	if SkipPaths() != nil {
		t.Error("SkipPaths() with no paths should be nil")
	}

	next := SkipPaths("/healthz")
	app := fiber.New()
	app.Get("/*", func(c *fiber.Ctx) error {
		if next(c) {
			return c.SendString("skip")
		}
		return c.SendString("log")
	})

	for path, want := range map[string]string{"/healthz": "skip", "/healthz/x": "log", "/": "log"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatal(err)
		}
		var body bytes.Buffer
		body.ReadFrom(resp.Body)
		resp.Body.Close()
		if body.String() != want {
			t.Errorf("%s: got %q, want %q", path, body.String(), want)
		}
	}
}
