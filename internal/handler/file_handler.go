package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/restshop/internal/domain"
	"github.com/mansoorceksport/restshop/internal/upload"
)

// FileHandler serves stored product images from the configured FileStore
type FileHandler struct {
	store      domain.FileStore
	uploadRoot string
}

// NewFileHandler creates a handler serving paths under uploadRoot
func NewFileHandler(store domain.FileStore, uploadRoot string) *FileHandler {
	return &FileHandler{
		store:      store,
		uploadRoot: upload.CleanRoot(uploadRoot),
	}
}

// ServeFile handles GET /uploads/*
func (h *FileHandler) ServeFile(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("*"))
	if err != nil {
		return fiber.ErrNotFound
	}
	key := h.uploadRoot + "/" + name
	if !upload.WithinRoot(h.uploadRoot, key) {
		return fiber.ErrNotFound
	}

	rc, info, err := h.store.Open(c.UserContext(), key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fiber.ErrNotFound
		}
		return err
	}

	if info.ContentType != "" {
		c.Set(fiber.HeaderContentType, info.ContentType)
	}
	if !info.ModTime.IsZero() {
		c.Set(fiber.HeaderLastModified, info.ModTime.UTC().Format(http.TimeFormat))
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")

	// fasthttp closes rc once the body has been written
	return c.SendStream(rc, int(info.Size))
}
