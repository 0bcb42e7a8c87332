package controllers

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"orderof86-server/store"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testData = `[
	{"id":7,"rank":3,"order":"Flame","suggestedName":"Ashbound","suggestedStory":"*Keeper of the Crucible*\n\nWhelped in the cooling slag of a dead volcano.","fur":"Copper","pattern":"Striped","eyes":"Amber","clothes":"Cloak","realm":"Crucible","image":"wizards/7.png"},
	{"id":14,"rank":1204,"order":"Deep","fur":"Slate","pattern":"Mottled","eyes":"Pearl","realm":"The Drowned Library","image":"wizards/14.png"}
]`

// newTestApp wires a fresh app over a temp document root and data source,
// the way main does, minus the rate limiter.
func newTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"),
		[]byte("<!DOCTYPE html><title>Order of 86</title>index sentinel"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "style.css"),
		[]byte("body{background:#0a0a0c}"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "wizards"), 0o755))

	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = 0xff
	}
	img.Set(3, 3, color.NRGBA{R: 0xff, G: 0x45, B: 0x00, A: 0xff})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(root, "wizards", "7.png"), buf.Bytes(), 0o644))

	dataPath := filepath.Join(root, "wizards.json")
	require.NoError(t, os.WriteFile(dataPath, []byte(testData), 0o644))

	log := zap.NewNop()
	st := store.Load(dataPath, log)
	require.Equal(t, 2, st.Len())

	wizards := NewWizardController(st, "https://theorderof86.com", root, log)
	wizards.seed = func(id int) int64 { return int64(id) }
	static, err := NewStaticController(root, log)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/wizard/:id/og.png", wizards.OGCard)
	app.Get("/wizard/:id", wizards.Page)
	app.Get("/*", static.Serve)
	return app, root
}

func TestWizardPageRoute(t *testing.T) {
	app, _ := newTestApp(t)

	t.Run("known id returns the profile", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/wizard/7", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), "text/html")
		assert.Equal(t, "public, max-age=3600", resp.Header.Get(fiber.HeaderCacheControl))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "Ashbound")
		assert.Contains(t, string(body), "Flame Order")
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/wizard/9999", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("non-digit id falls through to the static site", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/wizard/abc", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "index sentinel")
	})
}

func TestOGCardRoute(t *testing.T) {
	app, _ := newTestApp(t)

	t.Run("known id returns a PNG", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/wizard/7/og.png", nil), -1)
		require.NoError(t, err)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		assert.Equal(t, "image/png", resp.Header.Get(fiber.HeaderContentType))
		assert.Equal(t, "public, max-age=86400", resp.Header.Get(fiber.HeaderCacheControl))

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NotEmpty(t, body)

		img, err := png.Decode(bytes.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, 1200, img.Bounds().Dx())
		assert.Equal(t, 630, img.Bounds().Dy())
	})

	t.Run("repeat requests hit the cache byte-for-byte", func(t *testing.T) {
		first, err := app.Test(httptest.NewRequest("GET", "/wizard/14/og.png", nil), -1)
		require.NoError(t, err)
		a, err := io.ReadAll(first.Body)
		require.NoError(t, err)

		second, err := app.Test(httptest.NewRequest("GET", "/wizard/14/og.png", nil), -1)
		require.NoError(t, err)
		b, err := io.ReadAll(second.Body)
		require.NoError(t, err)

		assert.True(t, bytes.Equal(a, b), "cached card must be byte-identical")
	})

	t.Run("unknown id is 404", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/wizard/9999/og.png", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}
