package render

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/commerce"
	"github.com/jmylchreest/blockfront/internal/seo"
	"github.com/jmylchreest/blockfront/internal/theme"
)

func TestDocumentAssemblesHeadAndBody(t *testing.T) {
	r := newTestRenderer(t, nil)
	s := testSite(t)

	out, err := r.Bytes(context.Background(), Page{
		Kind:   KindPage,
		Site:   s,
		Locale: "de",
		Path:   "/about",
		Meta: seo.Meta{
			Title:     "About",
			SiteName:  s.Name,
			Canonical: s.URL("de", "/about"),
		},
		Schemas: []seo.Schema{seo.WebSiteSchema(s.Name, s.BaseURL, "de")},
		Content: &cms.Content{Data: cms.Data{Blocks: []cms.Block{
			block("m", "MetaTags", map[string]any{"title": "Über uns", "noIndex": true}),
			block("f", "FAQSchema", map[string]any{"questions": []any{
				map[string]any{"question": "Wie?", "answer": "So."},
			}}),
			block("h", "Heading", map[string]any{"text": "Hallo"}),
		}}},
		Navigation: []cms.Link{{Text: "Kurse", URL: "/courses"}},
	})
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, "<!DOCTYPE html>")
	assert.Contains(t, doc, `<html lang="de" data-theme="dark">`)
	assert.Contains(t, doc, "<title>Über uns | Still</title>")
	assert.Contains(t, doc, `<meta name="robots" content="noindex, nofollow"/>`)
	assert.Contains(t, doc, `<link rel="stylesheet" href="/themes.css"/>`)
	assert.Contains(t, doc, `<script type="application/ld+json">`)
	assert.Contains(t, doc, `"WebSite"`)
	assert.Contains(t, doc, `"FAQPage"`)
	assert.Contains(t, doc, `<a class="bf-logo" href="/de">Still</a>`)
	assert.Contains(t, doc, `<a href="/de/courses">Kurse</a>`)
	assert.Contains(t, doc, `<main id="main"><h2 class="bf-heading bf-align-left">Hallo</h2></main>`)
	assert.Contains(t, doc, `<p class="bf-copyright">© Still</p>`)
}

func TestDocumentPageTheme(t *testing.T) {
	r := newTestRenderer(t, nil)
	s := testSite(t)

	out, err := r.Bytes(context.Background(), Page{Site: s, Locale: "en", Path: "/", Theme: theme.Accent})
	require.NoError(t, err)
	assert.Contains(t, string(out), `<html lang="en" data-theme="accent">`)

	out, err = r.Bytes(context.Background(), Page{Site: s, Locale: "en", Path: "/", Theme: "neon"})
	require.NoError(t, err)
	assert.Contains(t, string(out), `<html lang="en" data-theme="dark">`)
}

func TestDocumentProductAndNotFound(t *testing.T) {
	r := newTestRenderer(t, nil)
	s := testSite(t)

	product := &commerce.Product{
		Handle:           "mat",
		Title:            "Cork mat",
		Vendor:           "Still",
		AvailableForSale: false,
		DescriptionHTML:  `<p>Grippy.</p><script>steal()</script>`,
		Images:           []commerce.Image{{URL: "https://cdn.example/a.jpg"}},
		PriceRange: commerce.PriceRange{
			MinVariantPrice: commerce.Money{Amount: "45", CurrencyCode: "EUR"},
			MaxVariantPrice: commerce.Money{Amount: "45", CurrencyCode: "EUR"},
		},
	}
	out, err := r.Bytes(context.Background(), Page{Kind: KindProduct, Site: s, Locale: "en", Path: "/products/mat", Product: product})
	require.NoError(t, err)
	doc := string(out)
	assert.Contains(t, doc, "<h1>Cork mat</h1>")
	assert.Contains(t, doc, `<p class="bf-price">45.00 EUR</p>`)
	assert.Contains(t, doc, "Sold out")
	assert.Contains(t, doc, "<p>Grippy.</p>")
	assert.NotContains(t, doc, "steal()")

	out, err = r.Bytes(context.Background(), Page{Kind: KindProduct, Site: s, Locale: "en", Path: "/products/gone"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Page not found")
}

func TestDocumentArticle(t *testing.T) {
	r := newTestRenderer(t, nil)
	s := testSite(t)

	out, err := r.Bytes(context.Background(), Page{
		Kind:   KindArticle,
		Site:   s,
		Locale: "en",
		Path:   "/articles/breathing",
		Content: &cms.Content{Data: cms.Data{
			Title:  "Breathing",
			Author: "Sam",
			Date:   "2026-03-01",
		}},
	})
	require.NoError(t, err)
	doc := string(out)
	assert.Contains(t, doc, `<h1 class="bf-article-title">Breathing</h1>`)
	assert.Contains(t, doc, `<time datetime="2026-03-01">2026-03-01</time>`)
}

func TestDocumentDropsHostileStyleKeys(t *testing.T) {
	r := newTestRenderer(t, nil)
	s := testSite(t)

	out, err := r.Bytes(context.Background(), Page{
		Site:   s,
		Locale: "en",
		Path:   "/",
		Content: &cms.Content{Data: cms.Data{Blocks: []cms.Block{{
			ID:      "x1",
			TagName: "div",
			ResponsiveStyles: map[string]map[string]string{
				"medium": {
					"color}</style><script>alert(1)</script><style>x": "red",
					"marginTop": "2px",
				},
				"large": {`width" onmouseover="x`: "1px"},
			},
		}}}},
	})
	require.NoError(t, err)
	doc := string(out)

	assert.NotContains(t, doc, "alert(1)")
	assert.NotContains(t, doc, "onmouseover")
	assert.Contains(t, doc, "{ .b-x1 { margin-top:2px } }")
}

func TestDocumentProductMetadata(t *testing.T) {
	r := newTestRenderer(t, nil)
	s := testSite(t)

	product := &commerce.Product{
		Handle:           "morning",
		Title:            "Morning course",
		AvailableForSale: true,
		Metadata: commerce.Metadata{
			"course": {
				"level": {Type: "metaobject_reference", V: commerce.Metaobject{
					Handle: "beginner",
					Fields: commerce.Group{"name": {Type: "single_line_text_field", V: "Beginner"}},
				}},
				"sessions":   {Type: "number_integer", V: int64(8)},
				"start_date": {Type: "date", V: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
				"notes":      {Type: "rich_text_field", V: `<p>Bring a mat.</p><script>x()</script>`},
				"config":     {Type: "json", V: map[string]any{"a": 1.0}},
			},
			"retreat": {},
		},
	}
	out, err := r.Bytes(context.Background(), Page{Kind: KindProduct, Site: s, Locale: "en", Path: "/products/morning", Product: product})
	require.NoError(t, err)
	doc := string(out)

	assert.Contains(t, doc, `<dl class="bf-metadata" data-namespace="course">`+
		`<dt>Level</dt><dd>Beginner</dd>`+
		`<dt>Notes</dt><dd><p>Bring a mat.</p></dd>`+
		`<dt>Sessions</dt><dd>8</dd>`+
		`<dt>Start date</dt><dd>2026-09-01</dd>`+
		`</dl>`)
	assert.NotContains(t, doc, `data-namespace="retreat"`)
	assert.NotContains(t, doc, "x()")
	assert.NotContains(t, doc, "<dt>Config</dt>")
}
