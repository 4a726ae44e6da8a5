package handlers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/observability"
	"github.com/jmylchreest/blockfront/internal/render"
	"github.com/jmylchreest/blockfront/internal/site"
)

func testDirectory(t *testing.T) *site.Directory {
	t.Helper()
	dir, err := site.NewDirectory([]config.SiteConfig{
		{
			ID:            "still",
			Name:          "Still Studio",
			Domains:       []string{"still.example"},
			BaseURL:       "https://still.example",
			Locales:       []string{"en", "de"},
			DefaultLocale: "en",
			BaseTheme:     "dark",
			Shopify:       config.ShopifySiteConfig{Store: "still.myshopify.com", StorefrontToken: "tok"},
		},
		{
			ID:            "move",
			Name:          "Move",
			Domains:       []string{"move.example"},
			BaseURL:       "https://move.example",
			Locales:       []string{"de"},
			DefaultLocale: "de",
		},
	})
	require.NoError(t, err)
	return dir
}

// siteContext returns a context as the site and locale middleware leave it.
func siteContext(st *site.Site, locale string) context.Context {
	ctx := site.WithSite(context.Background(), st)
	return observability.ContextWithLocale(ctx, locale)
}

// withSite attaches the site and locale to a request.
func withSite(r *http.Request, st *site.Site, locale string) *http.Request {
	ctx := site.WithSite(r.Context(), st)
	return r.WithContext(observability.ContextWithLocale(ctx, locale))
}

// statusOf extracts the HTTP status of a huma error.
func statusOf(t *testing.T, err error) int {
	t.Helper()
	var se huma.StatusError
	require.True(t, errors.As(err, &se), "expected a huma status error, got %v", err)
	return se.GetStatus()
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

type fakeInvalidator struct {
	calls []string
	n     int64
	err   error
}

func (f *fakeInvalidator) Invalidate(_ context.Context, siteID, model, key string) (int64, error) {
	f.calls = append(f.calls, siteID+"/"+model+"/"+key)
	return f.n, f.err
}

type fakeCommerceInvalidator struct {
	calls []string
	n     int
}

func (f *fakeCommerceInvalidator) Invalidate(siteID, handle string) int {
	f.calls = append(f.calls, siteID+"/"+handle)
	return f.n
}

// fakePages answers every route from a map keyed by kind and key.
type fakePages struct {
	pages map[string]render.Page
	err   error
	last  string
}

func (f *fakePages) lookup(kind string, st *site.Site, locale, key string) (render.Page, bool, error) {
	f.last = kind + ":" + locale + ":" + key
	if f.err != nil {
		return render.Page{}, false, f.err
	}
	if p, ok := f.pages[kind+":"+key]; ok {
		p.Site, p.Locale = st, locale
		return p, true, nil
	}
	return render.Page{Kind: render.KindNotFound, Site: st, Locale: locale, Path: key}, false, nil
}

func (f *fakePages) Page(_ context.Context, st *site.Site, locale, path string) (render.Page, bool, error) {
	return f.lookup("page", st, locale, path)
}

func (f *fakePages) Article(_ context.Context, st *site.Site, locale, slug string) (render.Page, bool, error) {
	return f.lookup("article", st, locale, slug)
}

func (f *fakePages) Product(_ context.Context, st *site.Site, locale, handle string) (render.Page, bool, error) {
	return f.lookup("product", st, locale, handle)
}

func (f *fakePages) Collection(_ context.Context, st *site.Site, locale, handle string) (render.Page, bool, error) {
	return f.lookup("collection", st, locale, handle)
}
