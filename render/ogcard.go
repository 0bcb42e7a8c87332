// Package render produces the per-wizard presentation surfaces: the
// 1200×630 Open Graph card PNG and the profile page HTML.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"orderof86-server/models"
	"orderof86-server/utils"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"

	_ "image/gif"
	_ "image/jpeg"
)

// Card dimensions per the Open Graph recommendation.
const (
	CardWidth  = 1200
	CardHeight = 630
)

// CardOptions carries everything RenderCard needs besides the record.
// Seed drives the starfield speckling; rendering is deterministic for a
// fixed seed, and the serving layer caches the first render per id.
type CardOptions struct {
	Seed     int64
	AssetDir string // root the record's image path is resolved against
	SiteName string
	SiteHost string
}

var (
	fontOnce              sync.Once
	fontErr               error
	fontRegular, fontBold *truetype.Font
	fontItalic            *truetype.Font
)

func loadFonts() error {
	fontOnce.Do(func() {
		parse := func(ttf []byte) *truetype.Font {
			if fontErr != nil {
				return nil
			}
			f, err := truetype.Parse(ttf)
			if err != nil {
				fontErr = err
			}
			return f
		}
		fontRegular = parse(goregular.TTF)
		fontBold = parse(gobold.TTF)
		fontItalic = parse(goitalic.TTF)
	})
	return fontErr
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// RenderCard composes the Open Graph card for one wizard. A missing or
// unreadable portrait is skipped; any other failure is returned to the
// caller, which maps it to a 500.
func RenderCard(w models.Wizard, opts CardOptions) ([]byte, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	if opts.SiteName == "" {
		opts.SiteName = "The Order of 86"
	}
	if opts.SiteHost == "" {
		opts.SiteHost = "theorderof86.com"
	}

	dc := gg.NewContext(CardWidth, CardHeight)
	col := w.OrderColor()

	drawBackground(dc, opts.Seed)
	drawAccent(dc, col)
	drawPortrait(dc, w, opts.AssetDir, col)
	drawText(dc, w, col, opts)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode card: %w", err)
	}
	return buf.Bytes(), nil
}

func drawBackground(dc *gg.Context, seed int64) {
	dc.SetHexColor("#0a0a0c")
	dc.Clear()

	// Near-black vertical gradient keeps the top a touch lighter.
	grad := gg.NewLinearGradient(0, 0, 0, CardHeight)
	grad.AddColorStop(0, color.NRGBA{R: 0x14, G: 0x12, B: 0x1a, A: 0xff})
	grad.AddColorStop(1, color.NRGBA{R: 0x0a, G: 0x0a, B: 0x0c, A: 0xff})
	dc.SetFillStyle(grad)
	dc.DrawRectangle(0, 0, CardWidth, CardHeight)
	dc.Fill()

	// Sparse low-alpha speckling for the starfield.
	rng := rand.New(rand.NewSource(seed))
	for i := 0; i < 160; i++ {
		x := rng.Float64() * CardWidth
		y := rng.Float64() * CardHeight * 0.88
		r := 0.7 + rng.Float64()*1.5
		a := 0.04 + rng.Float64()*0.12
		dc.SetRGBA(1, 1, 1, a)
		dc.DrawCircle(x, y, r)
		dc.Fill()
	}

	// Faint gold wash fading downwards.
	wash := gg.NewLinearGradient(0, 0, 0, CardHeight)
	wash.AddColorStop(0, color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 8})
	wash.AddColorStop(1, color.NRGBA{A: 0})
	dc.SetFillStyle(wash)
	dc.DrawRectangle(0, 0, CardWidth, CardHeight)
	dc.Fill()
}

func drawAccent(dc *gg.Context, hexColor string) {
	dc.SetHexColor(hexColor)
	dc.DrawRectangle(0, 0, CardWidth, 6)
	dc.Fill()

	// Soft glow under the bar: the same color fading out over a few bands.
	r, g, b := hexRGB(hexColor)
	for i := 0; i < 4; i++ {
		dc.SetRGBA255(r, g, b, 28-i*7)
		dc.DrawRectangle(0, 6+float64(i)*5, CardWidth, 5)
		dc.Fill()
	}
}

func drawPortrait(dc *gg.Context, w models.Wizard, assetDir, hexColor string) {
	if w.Image == "" {
		return
	}
	f, err := os.Open(filepath.Join(assetDir, filepath.FromSlash(w.Image)))
	if err != nil {
		return // card renders without a portrait
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return
	}

	const size = 400.0
	const radius = 28.0
	x := 60.0
	y := (CardHeight - size) / 2

	// Drop shadow, then panel, then the clipped portrait, then the border.
	dc.SetRGBA(0, 0, 0, 0.55)
	dc.DrawRoundedRectangle(x+10, y+14, size, size, radius)
	dc.Fill()

	dc.SetHexColor("#1c1c1e")
	dc.DrawRoundedRectangle(x-8, y-8, size+16, size+16, radius+6)
	dc.Fill()

	dc.Push()
	dc.DrawRoundedRectangle(x, y, size, size, radius)
	dc.Clip()
	b := img.Bounds()
	dc.Translate(x, y)
	dc.Scale(size/float64(b.Dx()), size/float64(b.Dy()))
	dc.DrawImage(img, 0, 0)
	dc.Pop()
	dc.ResetClip()

	dc.SetHexColor(hexColor)
	dc.SetLineWidth(3)
	dc.DrawRoundedRectangle(x-8, y-8, size+16, size+16, radius+6)
	dc.Stroke()
}

func drawText(dc *gg.Context, w models.Wizard, col string, opts CardOptions) {
	const (
		textX    = 520.0
		rightPad = 60.0
		maxWidth = CardWidth - textX - rightPad
	)

	// Name, shrinking until it fits the column.
	name := w.DisplayName()
	for size := 44.0; size > 22; size -= 2 {
		dc.SetFontFace(newFace(fontBold, size))
		if tw, _ := dc.MeasureString(name); tw <= maxWidth {
			break
		}
	}
	dc.SetHexColor("#f5f5f7")
	dc.DrawString(name, textX, 118)

	// Id and rank.
	dc.SetFontFace(newFace(fontRegular, 24))
	dc.SetHexColor("#8e8e93")
	dc.DrawString(fmt.Sprintf("#%d · Rank %s", w.Id, utils.FormatThousands(w.Rank)), textX, 158)

	// Order badge pill, with the external-handle pill alongside when set.
	badgeEnd := drawPill(dc, textX, 182, w.Order+" Order", col, "#ffffff", true)
	if w.Twitter != nil && *w.Twitter != "" {
		handle := "@" + strings.TrimPrefix(*w.Twitter, "@")
		drawPill(dc, badgeEnd+14, 182, handle, "#1c1c1e", "#1da1f2", false)
	}

	// Trait pills, two columns.
	traits := traitPairs(w)
	const (
		pillW = (maxWidth - 20) / 2
		pillH = 58.0
		gapX  = 20.0
		gapY  = 14.0
	)
	top := 248.0
	for i, t := range traits {
		px := textX + float64(i%2)*(pillW+gapX)
		py := top + float64(i/2)*(pillH+gapY)
		drawTraitPill(dc, px, py, pillW, pillH, t[0], t[1])
	}
	rows := (len(traits) + 1) / 2
	loreTop := top + float64(rows)*(pillH+gapY) + 28

	drawLore(dc, w, textX, loreTop, maxWidth)
	drawFooter(dc, w, opts)
}

func drawPill(dc *gg.Context, x, y float64, label, bg, fg string, bold bool) float64 {
	f := fontRegular
	if bold {
		f = fontBold
	}
	dc.SetFontFace(newFace(f, 22))
	tw, th := dc.MeasureString(label)
	w, h := tw+36, th+20

	dc.SetHexColor(bg)
	dc.DrawRoundedRectangle(x, y, w, h, h/2)
	dc.Fill()
	dc.SetHexColor(fg)
	dc.DrawStringAnchored(label, x+w/2, y+h/2, 0.5, 0.35)
	return x + w
}

func drawTraitPill(dc *gg.Context, x, y, w, h float64, label, value string) {
	dc.SetHexColor("#1c1c1e")
	dc.DrawRoundedRectangle(x, y, w, h, 12)
	dc.Fill()

	dc.SetFontFace(newFace(fontRegular, 13))
	dc.SetHexColor("#8e8e93")
	dc.DrawString(strings.ToUpper(label), x+16, y+22)

	dc.SetFontFace(newFace(fontBold, 19))
	dc.SetHexColor("#f5f5f7")
	// Clip long values to the pill.
	for tw, _ := dc.MeasureString(value); tw > w-32 && len(value) > 4; tw, _ = dc.MeasureString(value) {
		value = value[:len(value)-4] + "…"
	}
	dc.DrawString(value, x+16, y+46)
}

func traitPairs(w models.Wizard) [][2]string {
	pairs := [][2]string{
		{"Fur", w.Fur},
		{"Pattern", w.Pattern},
		{"Eyes", w.Eyes},
	}
	if w.Clothes != nil && *w.Clothes != "" {
		pairs = append(pairs, [2]string{"Clothes", *w.Clothes})
	}
	if w.Mouth != nil && *w.Mouth != "" {
		pairs = append(pairs, [2]string{"Mouth", *w.Mouth})
	}
	pairs = append(pairs, [2]string{"Realm", w.Realm})
	return pairs
}

func drawLore(dc *gg.Context, w models.Wizard, x, top, maxWidth float64) {
	story := w.Story()
	if story == "" {
		return
	}
	excerpt := utils.Truncate(utils.StripEmphasis(story), 200)

	dc.SetFontFace(newFace(fontItalic, 19))
	dc.SetHexColor("#6e6e73")

	const lineHeight = 26.0
	bottom := CardHeight - 70.0
	y := top
	for _, line := range dc.WordWrap(excerpt, maxWidth) {
		if y > bottom {
			break // clipped at the card's vertical bound
		}
		dc.DrawString(line, x, y)
		y += lineHeight
	}
}

func drawFooter(dc *gg.Context, w models.Wizard, opts CardOptions) {
	const h = 50.0
	dc.SetHexColor("#151517")
	dc.DrawRectangle(0, CardHeight-h, CardWidth, h)
	dc.Fill()

	dc.SetFontFace(newFace(fontBold, 20))
	dc.SetHexColor("#ffd700")
	dc.DrawString(opts.SiteName, 60, CardHeight-18)

	if w.Marketplace != nil && *w.Marketplace != "" {
		dc.SetFontFace(newFace(fontRegular, 17))
		dc.SetHexColor("#6e6e73")
		dc.DrawStringAnchored("Available on the marketplace", CardWidth/2, CardHeight-h/2, 0.5, 0.35)
	}

	dc.SetFontFace(newFace(fontRegular, 18))
	dc.SetHexColor("#8e8e93")
	tw, _ := dc.MeasureString(opts.SiteHost)
	dc.DrawString(opts.SiteHost, CardWidth-60-tw, CardHeight-18)
}

// RenderSiteCard draws the site-wide Open Graph card: black field, gold
// rounded border, centered title and tagline.
func RenderSiteCard(title, tagline string) ([]byte, error) {
	if err := loadFonts(); err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}
	dc := gg.NewContext(CardWidth, CardHeight)
	dc.SetHexColor("#000000")
	dc.Clear()

	dc.SetRGBA255(255, 215, 0, 51)
	dc.SetLineWidth(2)
	dc.DrawRoundedRectangle(16, 16, CardWidth-32, CardHeight-32, 12)
	dc.Stroke()

	dc.SetFontFace(newFace(fontBold, 80))
	dc.SetHexColor("#ffd700")
	dc.DrawStringAnchored(title, CardWidth/2, CardHeight/2-20, 0.5, 0.5)

	dc.SetFontFace(newFace(fontRegular, 28))
	dc.SetHexColor("#98989d")
	dc.DrawStringAnchored(tagline, CardWidth/2, CardHeight/2+40, 0.5, 0.5)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dc.Image()); err != nil {
		return nil, fmt.Errorf("encode site card: %w", err)
	}
	return buf.Bytes(), nil
}

func hexRGB(s string) (int, int, int) {
	var r, g, b int
	fmt.Sscanf(strings.TrimPrefix(s, "#"), "%02x%02x%02x", &r, &g, &b)
	return r, g, b
}
