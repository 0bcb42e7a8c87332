package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"orderof86-server/models"
	"orderof86-server/utils"
)

const siteName = "The Order of 86"

type pageTrait struct {
	Label string
	Value string
}

// pageView is the fully resolved data the template interpolates. Everything
// user-controlled goes through html/template's context-aware escaping; the
// lore fragment and the JSON-LD block are pre-built by code that guarantees
// their own escaping (utils.EmphasisHTML, encoding/json).
type pageView struct {
	SiteName     string
	Name         string
	Title        string
	Description  string
	CanonicalURL string
	BaseURL      string
	OGImage      string
	ImageURL     string
	Id           int
	RankDisplay  string
	Order        string
	OrderColor   template.CSS
	Traits       []pageTrait
	Marketplace  string
	TwitterURL   string
	TwitterLabel string
	StoryHTML    template.HTML
	ShareURL     string
	JSONLD       template.JS
}

// RenderPage produces the self-contained profile document for one wizard.
// baseUrl is the absolute origin used for canonical and OG URLs.
func RenderPage(w models.Wizard, baseURL string) (string, error) {
	baseURL = strings.TrimSuffix(baseURL, "/")
	name := w.DisplayName()
	canonical := fmt.Sprintf("%s/wizard/%d", baseURL, w.Id)

	v := pageView{
		SiteName:     siteName,
		Name:         name,
		Title:        name + " — " + siteName,
		Description:  metaDescription(w, name),
		CanonicalURL: canonical,
		BaseURL:      baseURL,
		OGImage:      canonical + "/og.png",
		ImageURL:     "/" + strings.TrimPrefix(w.Image, "/"),
		Id:           w.Id,
		RankDisplay:  utils.FormatThousands(w.Rank),
		Order:        w.Order,
		OrderColor:   template.CSS(w.OrderColor()),
		Traits:       pageTraits(w),
	}

	if w.Marketplace != nil && *w.Marketplace != "" {
		v.Marketplace = *w.Marketplace
	}
	if w.Twitter != nil && *w.Twitter != "" {
		handle := strings.TrimPrefix(*w.Twitter, "@")
		v.TwitterURL = "https://x.com/" + handle
		v.TwitterLabel = "@" + handle
	}
	if story := w.Story(); story != "" {
		v.StoryHTML = template.HTML(utils.EmphasisHTML(story))
	}

	share := url.Values{}
	share.Set("text", fmt.Sprintf("Meet %s — %s Order wizard from %s 🧙\n\n", name, w.Order, w.Realm))
	share.Set("url", canonical)
	v.ShareURL = "https://twitter.com/intent/tweet?" + share.Encode()

	ld, err := jsonLD(v)
	if err != nil {
		return "", fmt.Errorf("structured data: %w", err)
	}
	v.JSONLD = template.JS(ld)

	var buf bytes.Buffer
	if err := pageTmpl.Execute(&buf, v); err != nil {
		return "", fmt.Errorf("render page: %w", err)
	}
	return buf.String(), nil
}

// metaDescription derives the meta-tag text: stripped lore truncated to
// ~200 chars, or a generated sentence when no lore exists.
func metaDescription(w models.Wizard, name string) string {
	if story := utils.StripEmphasis(w.Story()); story != "" {
		return utils.Truncate(story, 200)
	}
	return fmt.Sprintf("%s — a %s %s of the %s Order from %s.", name, w.Fur, w.Pattern, w.Order, w.Realm)
}

func pageTraits(w models.Wizard) []pageTrait {
	traits := []pageTrait{
		{"Fur", w.Fur},
		{"Pattern", w.Pattern},
		{"Eyes", w.Eyes},
	}
	if w.Clothes != nil && *w.Clothes != "" {
		traits = append(traits, pageTrait{"Clothes", *w.Clothes})
	}
	if w.Mouth != nil && *w.Mouth != "" {
		traits = append(traits, pageTrait{"Mouth", *w.Mouth})
	}
	return append(traits, pageTrait{"Realm", w.Realm})
}

// jsonLD marshals the schema.org CreativeWork block; encoding/json owns the
// string escaping so record content cannot break out of the script tag.
func jsonLD(v pageView) (string, error) {
	doc := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "CreativeWork",
		"name":        v.Name,
		"description": v.Description,
		"image":       v.OGImage,
		"url":         v.CanonicalURL,
		"isPartOf": map[string]any{
			"@type": "CreativeWorkSeries",
			"name":  v.SiteName,
			"url":   v.BaseURL,
		},
	}
	b, err := json.MarshalIndent(doc, "    ", "    ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

var pageTmpl = template.Must(template.New("wizard").Parse(pageHTML))

const pageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width,initial-scale=1">
    <title>{{.Title}}</title>
    <meta name="description" content="{{.Description}}">
    <link rel="canonical" href="{{.CanonicalURL}}">

    <!-- Open Graph -->
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:description" content="{{.Description}}">
    <meta property="og:image" content="{{.OGImage}}">
    <meta property="og:image:width" content="1200">
    <meta property="og:image:height" content="630">
    <meta property="og:url" content="{{.CanonicalURL}}">
    <meta property="og:type" content="profile">
    <meta property="og:site_name" content="{{.SiteName}}">

    <!-- Twitter Card -->
    <meta name="twitter:card" content="summary_large_image">
    <meta name="twitter:title" content="{{.Title}}">
    <meta name="twitter:description" content="{{.Description}}">
    <meta name="twitter:image" content="{{.OGImage}}">
    <meta name="twitter:site" content="@hBUDS_">

    <style>
        *{margin:0;padding:0;box-sizing:border-box}
        body{background:#0a0a0c;color:#F5F5F7;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;min-height:100vh}
        .back{display:inline-flex;align-items:center;gap:6px;color:#ffd700;text-decoration:none;padding:20px 24px;font-size:0.95rem;transition:opacity 0.2s}
        .back:hover{opacity:0.7}
        .container{max-width:900px;margin:0 auto;padding:0 24px 60px}
        .hero-card{display:flex;gap:32px;align-items:flex-start;margin-bottom:40px;flex-wrap:wrap}
        .wizard-img{width:280px;height:280px;border-radius:20px;border:3px solid {{.OrderColor}};object-fit:cover;background:#1c1c1e;image-rendering:pixelated}
        .info{flex:1;min-width:260px}
        .name{font-size:clamp(1.6rem,4vw,2.4rem);font-weight:800;margin-bottom:4px}
        .id-rank{color:#8e8e93;font-size:1rem;margin-bottom:12px}
        .order-badge{display:inline-block;padding:6px 16px;border-radius:20px;font-weight:700;font-size:0.9rem;color:#fff;background:{{.OrderColor}};margin-bottom:20px}
        .traits{display:grid;grid-template-columns:repeat(auto-fill,minmax(160px,1fr));gap:10px;margin-bottom:24px}
        .trait{background:#1c1c1e;border-radius:12px;padding:12px 16px}
        .trait-label{color:#8e8e93;font-size:0.75rem;text-transform:uppercase;letter-spacing:0.05em;margin-bottom:2px}
        .trait-value{font-weight:600;font-size:0.95rem}
        .links{display:flex;flex-wrap:wrap;gap:10px;margin-bottom:32px}
        .pill{display:inline-flex;align-items:center;gap:6px;padding:10px 18px;border-radius:10px;text-decoration:none;font-size:0.9rem;font-weight:600;transition:border-color 0.2s;border:1px solid #333;background:#1c1c1e}
        .pill-gold{color:#ffd700}.pill-gold:hover{border-color:#ffd700}
        .pill-blue{color:#1DA1F2}.pill-blue:hover{border-color:#1DA1F2}
        .story-section{margin-top:20px}
        .story-title{font-size:1.2rem;font-weight:700;color:#ffd700;margin-bottom:16px}
        .story{color:#c7c7cc;line-height:1.8;font-size:1rem}
        .share-section{margin-top:40px;padding-top:24px;border-top:1px solid #2c2c2e}
        .share-title{font-size:0.9rem;color:#8e8e93;margin-bottom:12px}
        .share-btns{display:flex;gap:10px;flex-wrap:wrap}
        .share-btn{padding:10px 20px;border-radius:10px;border:1px solid #333;background:#1c1c1e;color:#F5F5F7;font-size:0.85rem;cursor:pointer;text-decoration:none;display:inline-flex;align-items:center;gap:6px;transition:border-color 0.2s}
        .share-btn:hover{border-color:#ffd700}
        @media(max-width:600px){
            .hero-card{flex-direction:column;align-items:center;text-align:center}
            .wizard-img{width:200px;height:200px}
            .traits{grid-template-columns:repeat(2,1fr)}
            .links,.share-btns{justify-content:center}
        }
    </style>
</head>
<body>
    <a href="/" class="back">← Back to all wizards</a>
    <div class="container">
        <div class="hero-card">
            <img src="{{.ImageURL}}" alt="{{.Name}}" class="wizard-img">
            <div class="info">
                <div class="name">{{.Name}}</div>
                <div class="id-rank">#{{.Id}} · Rank {{.RankDisplay}}</div>
                <div class="order-badge">{{.Order}} Order</div>
                <div class="traits">
{{- range .Traits}}
                    <div class="trait"><div class="trait-label">{{.Label}}</div><div class="trait-value">{{.Value}}</div></div>
{{- end}}
                </div>
{{- if or .Marketplace .TwitterURL}}
                <div class="links">
{{- if .Marketplace}}
                    <a href="{{.Marketplace}}" target="_blank" rel="noopener" class="pill pill-gold">🐕 View on Marketplace</a>
{{- end}}
{{- if .TwitterURL}}
                    <a href="{{.TwitterURL}}" target="_blank" rel="noopener" class="pill pill-blue">𝕏 {{.TwitterLabel}}</a>
{{- end}}
                </div>
{{- end}}
            </div>
        </div>
{{- if .StoryHTML}}

        <div class="story-section">
            <div class="story-title">📜 Lore</div>
            <div class="story">{{.StoryHTML}}</div>
        </div>
{{- end}}

        <div class="share-section">
            <div class="share-title">Share this wizard</div>
            <div class="share-btns">
                <a class="share-btn" href="{{.ShareURL}}" target="_blank" rel="noopener">𝕏 Share on X</a>
                <button class="share-btn" onclick="navigator.clipboard.writeText('{{.CanonicalURL}}');this.textContent='✓ Copied!'">📋 Copy Link</button>
            </div>
        </div>
    </div>

    <script type="application/ld+json">
    {{.JSONLD}}
    </script>
</body>
</html>
`
