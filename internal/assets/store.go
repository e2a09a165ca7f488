// Package assets loads static files for the web responder from local disk or
// an R2 bucket, optionally through a shared cache.
package assets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/bilgisen/croft/internal/config"
	"github.com/bilgisen/croft/internal/models"
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

var (
	// ErrNotFound is returned when no file exists under the requested name
	ErrNotFound = errors.New("asset not found")
	// ErrInvalidPath is returned for names that could escape the asset root
	ErrInvalidPath = errors.New("invalid asset path")
)

// Store opens static assets by slash separated name relative to the asset root
type Store interface {
	Open(ctx context.Context, name string) (*models.Asset, error)
}

// New returns the store selected by cfg.AssetBackend
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.AssetBackend {
	case config.BackendDisk:
		return NewDiskStore(cfg.StaticDir)
	case config.BackendR2:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown asset backend %q", cfg.AssetBackend)
	}
}

// CleanName validates a request name and returns its canonical form.
// Empty names, absolute names, NUL bytes, backslashes and ".." segments are
// rejected with ErrInvalidPath.
func CleanName(name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || strings.ContainsAny(name, "\x00\\") {
		return "", ErrInvalidPath
	}
	for _, seg := range strings.Split(name, "/") {
		if seg == ".." {
			return "", ErrInvalidPath
		}
	}
	cleaned := path.Clean(name)
	if cleaned == "." {
		return "", ErrInvalidPath
	}
	return cleaned, nil
}

// contentType infers the MIME type from the extension and sniffs the body
// when the extension is unknown.
func contentType(name string, body []byte) string {
	ct := fiberutils.GetMIME(path.Ext(name))
	if ct == "" || ct == fiber.MIMEOctetStream {
		return http.DetectContentType(body)
	}
	return ct
}
