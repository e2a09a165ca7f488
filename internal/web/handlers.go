package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/bilgisen/croft/internal/assets"
	"github.com/gofiber/fiber/v2"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

// Index handles GET /
func (s *Server) Index(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusOK).Send(s.page.Body())
}

// Static handles GET /static/*
func (s *Server) Static(c *fiber.Ctx) error {
	name, err := url.PathUnescape(fiberutils.CopyString(c.Params("*")))
	if err != nil {
		return fiber.ErrNotFound
	}

	asset, err := s.assets.Open(c.UserContext(), name)
	switch {
	case errors.Is(err, assets.ErrNotFound), errors.Is(err, assets.ErrInvalidPath):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case err != nil:
		return err
	}

	c.Set(fiber.HeaderContentType, asset.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age="+strconv.Itoa(int(s.cfg.StaticMaxAge.Seconds())))
	if !asset.ModTime.IsZero() {
		c.Set(fiber.HeaderLastModified, asset.ModTime.UTC().Format(http.TimeFormat))
	}
	// the etag middleware leaves responses that already carry an ETag alone
	if asset.ETag != "" {
		c.Set(fiber.HeaderETag, asset.ETag)
		if c.Fresh() {
			return c.SendStatus(fiber.StatusNotModified)
		}
	}
	return c.Send(asset.Body)
}

// HealthCheck handles GET /healthz
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// NotFound terminates every request no route claimed
func (s *Server) NotFound(c *fiber.Ctx) error {
	return fiber.ErrNotFound
}
