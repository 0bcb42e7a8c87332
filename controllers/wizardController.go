package controllers

import (
	"strconv"
	"sync"
	"time"

	"orderof86-server/render"
	"orderof86-server/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// WizardController serves the profile pages and Open Graph cards. The card
// cache is keyed by wizard id and never evicted; the record set is small
// and fixed, so memory stays bounded. It is constructed per process (and
// per test) rather than living in package globals.
type WizardController struct {
	store    *store.Store
	baseURL  string
	assetDir string
	log      *zap.Logger

	// seed feeds the card renderer's speckling; swappable for tests.
	seed func(id int) int64

	mu    sync.RWMutex
	cards map[int][]byte
}

func NewWizardController(st *store.Store, baseURL, assetDir string, log *zap.Logger) *WizardController {
	return &WizardController{
		store:    st,
		baseURL:  baseURL,
		assetDir: assetDir,
		log:      log,
		seed:     func(id int) int64 { return time.Now().UnixNano() + int64(id) },
		cards:    make(map[int][]byte),
	}
}

// wizardID parses the :id segment; only plain digit ids are wizard routes.
func wizardID(c *fiber.Ctx) (int, bool) {
	raw := c.Params("id")
	if raw == "" {
		return 0, false
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return 0, false
		}
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// Page handles GET /wizard/:id.
func (wc *WizardController) Page(c *fiber.Ctx) error {
	id, ok := wizardID(c)
	if !ok {
		// Not a wizard path after all; fall through to static serving.
		return c.Next()
	}
	w, ok := wc.store.Lookup(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).SendString("Wizard not found")
	}

	html, err := render.RenderPage(w, wc.baseURL)
	if err != nil {
		return err // 500 via the app error handler
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=3600")
	c.Type("html", "utf-8")
	return c.SendString(html)
}

// OGCard handles GET /wizard/:id/og.png. The first render for an id is
// frozen in the cache, so repeated requests return byte-identical PNGs.
func (wc *WizardController) OGCard(c *fiber.Ctx) error {
	id, ok := wizardID(c)
	if !ok {
		return c.Next()
	}
	w, ok := wc.store.Lookup(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).SendString("Wizard not found")
	}

	wc.mu.RLock()
	buf, hit := wc.cards[id]
	wc.mu.RUnlock()

	if !hit {
		var err error
		buf, err = render.RenderCard(w, render.CardOptions{
			Seed:     wc.seed(id),
			AssetDir: wc.assetDir,
		})
		if err != nil {
			wc.log.Error("og card render failed", zap.Int("id", id), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Card generation failed")
		}

		wc.mu.Lock()
		if prev, ok := wc.cards[id]; ok {
			buf = prev // another request rendered first; keep its bytes
		} else {
			wc.cards[id] = buf
		}
		wc.mu.Unlock()
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	c.Set(fiber.HeaderContentLength, strconv.Itoa(len(buf)))
	return c.Send(buf)
}
