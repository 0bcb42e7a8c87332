package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderPage(t *testing.T) {
	t.Run("contains name, badge and meta tags", func(t *testing.T) {
		html, err := RenderPage(testWizard(), "https://theorderof86.com")
		require.NoError(t, err)

		assert.Contains(t, html, "Ashbound")
		assert.Contains(t, html, "Flame Order")
		assert.Contains(t, html, `<link rel="canonical" href="https://theorderof86.com/wizard/7">`)
		assert.Contains(t, html, `content="https://theorderof86.com/wizard/7/og.png"`)
		assert.Contains(t, html, `property="og:image:width" content="1200"`)
		assert.Contains(t, html, `name="twitter:card" content="summary_large_image"`)
	})

	t.Run("lore markup becomes italics with breaks", func(t *testing.T) {
		html, err := RenderPage(testWizard(), "https://theorderof86.com")
		require.NoError(t, err)

		assert.Contains(t, html, "<em>Keeper of the Crucible</em>")
		assert.Contains(t, html, "<br>")
	})

	t.Run("meta description strips markup and truncates", func(t *testing.T) {
		w := testWizard()
		long := "*Title*\n\n" + strings.Repeat("ember ", 60)
		w.SuggestedStory = &long
		html, err := RenderPage(w, "https://theorderof86.com")
		require.NoError(t, err)

		assert.NotContains(t, html, "*Title*")
		assert.Contains(t, html, "…")
	})

	t.Run("generated description when lore is absent", func(t *testing.T) {
		w := testWizard()
		w.SuggestedStory = nil
		html, err := RenderPage(w, "https://theorderof86.com")
		require.NoError(t, err)

		assert.Contains(t, html, "Ashbound — a Copper Striped of the Flame Order from Crucible.")
		assert.NotContains(t, html, "📜 Lore")
	})

	t.Run("record content cannot inject markup", func(t *testing.T) {
		w := testWizard()
		evil := `<script>alert(1)</script>`
		w.SuggestedName = &evil
		story := `*x*<img src=x onerror=alert(1)>`
		w.SuggestedStory = &story

		html, err := RenderPage(w, "https://theorderof86.com")
		require.NoError(t, err)

		assert.NotContains(t, html, "<script>alert(1)")
		assert.NotContains(t, html, "<img src=x")
		assert.Contains(t, html, "&lt;img")
	})

	t.Run("optional links render only when set", func(t *testing.T) {
		w := testWizard()
		html, err := RenderPage(w, "https://theorderof86.com")
		require.NoError(t, err)
		assert.NotContains(t, html, "View on Marketplace")

		mp := "https://opensea.io/assets/orderof86/7"
		tw := "@ashbound"
		w.Marketplace = &mp
		w.Twitter = &tw
		html, err = RenderPage(w, "https://theorderof86.com")
		require.NoError(t, err)
		assert.Contains(t, html, "View on Marketplace")
		assert.Contains(t, html, `https://x.com/ashbound`)
	})

	t.Run("structured data block is valid-looking JSON-LD", func(t *testing.T) {
		html, err := RenderPage(testWizard(), "https://theorderof86.com")
		require.NoError(t, err)

		assert.Contains(t, html, `"@type": "CreativeWork"`)
		assert.Contains(t, html, `"name": "Ashbound"`)
		assert.Contains(t, html, `"@type": "CreativeWorkSeries"`)
	})

	t.Run("share link carries the canonical url", func(t *testing.T) {
		html, err := RenderPage(testWizard(), "https://theorderof86.com")
		require.NoError(t, err)
		assert.Contains(t, html, "twitter.com/intent/tweet")
	})
}
