package controllers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// mimeTypes is the explicit extension table; anything else is served as a
// generic binary.
var mimeTypes = map[string]string{
	".html":  "text/html",
	".css":   "text/css",
	".js":    "application/javascript",
	".png":   "image/png",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".gif":   "image/gif",
	".svg":   "image/svg+xml",
	".ico":   "image/x-icon",
	".json":  "application/json",
	".woff2": "font/woff2",
	".webp":  "image/webp",
}

const fallbackMIME = "application/octet-stream"

// StaticController serves the pre-rendered site out of a fixed document
// root, with single-page-app fallback to the index document.
type StaticController struct {
	root string
	log  *zap.Logger
}

// NewStaticController resolves root to an absolute path once so the
// traversal check below is a plain prefix comparison.
func NewStaticController(root string, log *zap.Logger) (*StaticController, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	return &StaticController{root: abs, log: log}, nil
}

// resolve maps a request path to an absolute file path, defaulting the
// index document and appending .html to extensionless paths. ok is false
// when the resolved path escapes the document root.
func (sc *StaticController) resolve(p string) (string, bool) {
	if p == "" || p == "/" {
		p = "/index.html"
	}
	if filepath.Ext(p) == "" {
		p += ".html"
	}
	full, err := filepath.Abs(filepath.Join(sc.root, filepath.FromSlash(p)))
	if err != nil {
		return "", false
	}
	if full != sc.root && !strings.HasPrefix(full, sc.root+string(os.PathSeparator)) {
		return "", false
	}
	return full, true
}

// Serve handles every path the wizard routes did not claim.
func (sc *StaticController) Serve(c *fiber.Ctx) error {
	full, ok := sc.resolve(c.Path())
	if !ok {
		return c.Status(fiber.StatusForbidden).SendString("Forbidden")
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return sc.fallback(c)
	}

	ext := strings.ToLower(filepath.Ext(full))
	mime, ok := mimeTypes[ext]
	if !ok {
		mime = fallbackMIME
	}
	c.Set(fiber.HeaderContentType, mime)
	if ext == ".html" {
		c.Set(fiber.HeaderCacheControl, "no-cache")
	} else {
		c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	}
	return c.Send(data)
}

// fallback serves the index document for unknown paths (deep links into
// the client-side site), or 404 when even that is missing.
func (sc *StaticController) fallback(c *fiber.Ctx) error {
	data, err := os.ReadFile(filepath.Join(sc.root, "index.html"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).SendString("Not Found")
	}
	sc.log.Debug("serving index fallback", zap.String("path", c.Path()))
	c.Set(fiber.HeaderContentType, "text/html")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Send(data)
}
