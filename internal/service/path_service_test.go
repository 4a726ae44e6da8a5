package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/commerce"
)

type pathFixture struct {
	paths   *PathService
	pages   *PageService
	content *fakeContent
	store   *fakeCommerce
}

func setupPathService(t *testing.T) pathFixture {
	t.Helper()
	content := newFakeContent()
	store := newFakeCommerce()
	contentSvc := NewContentService(setupContentRepo(t), map[string]ContentSource{"still": content}, testCache)
	commerceSvc := NewCommerceService(map[string]CommerceSource{"still": store}, testCache)

	content.lists["page"] = []cms.Content{
		{Data: cms.Data{URL: "/"}},
		{Data: cms.Data{URL: "/about"}},
		{Data: cms.Data{URL: "/draft", NoIndex: true}},
		{Data: cms.Data{Title: "no url"}},
	}
	content.lists["article"] = []cms.Content{{Data: cms.Data{Slug: "breathing"}}}
	store.handles = []commerce.HandleEntry{{Handle: "mat", UpdatedAt: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC)}}
	store.products["mat"] = &commerce.Product{Handle: "mat", Title: "Cork mat"}
	store.collections["props"] = &commerce.Collection{Handle: "props", Title: "Props"}

	return pathFixture{
		paths:   NewPathService(contentSvc, commerceSvc, testModels, testCache.PathConcurrency),
		pages:   NewPageService(contentSvc, commerceSvc, testModels, nil),
		content: content,
		store:   store,
	}
}

func urlsOf(entries []PathEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.URL)
	}
	return out
}

func TestPathService_StaticPaths(t *testing.T) {
	f := setupPathService(t)

	entries, err := f.paths.StaticPaths(context.Background(), testSite(t, true))
	require.NoError(t, err)

	// Entries sort by path, then locale.
	want := []string{
		"https://still.example/de",
		"https://still.example/",
		"https://still.example/de/about",
		"https://still.example/about",
		"https://still.example/de/articles/breathing",
		"https://still.example/articles/breathing",
		"https://still.example/de/collections/props",
		"https://still.example/collections/props",
		"https://still.example/de/draft",
		"https://still.example/draft",
		"https://still.example/de/products/mat",
		"https://still.example/products/mat",
	}
	if diff := cmp.Diff(want, urlsOf(entries)); diff != "" {
		t.Errorf("StaticPaths() mismatch (-want +got):\n%s", diff)
	}

	for _, e := range entries {
		switch e.Path {
		case "/draft":
			assert.True(t, e.NoIndex)
		case "/products/mat":
			assert.Equal(t, PathProduct, e.Kind)
			assert.Equal(t, "mat", e.Key)
			assert.False(t, e.LastModified.IsZero())
		case "/articles/breathing":
			assert.Equal(t, PathArticle, e.Kind)
			assert.Equal(t, "breathing", e.Key)
		}
	}
}

func TestPathService_StorefrontFailureIsSkipped(t *testing.T) {
	f := setupPathService(t)
	f.store.handleErr = errors.New("storefront down")

	entries, err := f.paths.StaticPaths(context.Background(), testSite(t, true))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, PathProduct, e.Kind)
		assert.NotEqual(t, PathCollection, e.Kind)
	}
	assert.Len(t, entries, 8)
}

func TestPathService_BuilderFailureFails(t *testing.T) {
	f := setupPathService(t)
	f.content.failWith(errors.New("builder down"))

	_, err := f.paths.StaticPaths(context.Background(), testSite(t, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "builder down")
}

func TestPathService_SiteWithoutStore(t *testing.T) {
	f := setupPathService(t)

	entries, err := f.paths.StaticPaths(context.Background(), testSite(t, false))
	require.NoError(t, err)
	assert.Len(t, entries, 8)
}

func TestPathService_Sitemap(t *testing.T) {
	f := setupPathService(t)

	set, err := f.paths.Sitemap(context.Background(), testSite(t, true))
	require.NoError(t, err)
	assert.Len(t, set.URLs, 10, "noIndex pages are left out")
	for _, u := range set.URLs {
		assert.NotContains(t, u.Loc, "/draft")
		assert.Len(t, u.Alternates, 3)
	}
}

func TestPathService_Warm(t *testing.T) {
	f := setupPathService(t)
	f.content.set("page", "/about", cms.Content{Data: cms.Data{Title: "About"}})
	st := testSite(t, true)

	n, err := f.paths.Warm(context.Background(), st, f.pages)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	calls := f.content.callCount()
	_, found, err := f.pages.Page(context.Background(), st, "en", "/about")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, calls, f.content.callCount(), "warmed pages are served from the cache")

	before := f.store.callCount()
	_, found, err = f.pages.Product(context.Background(), st, "de", "mat")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, before, f.store.callCount())
}
