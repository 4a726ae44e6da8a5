package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blockfront/internal/cms"
)

func setupContentService(t *testing.T) (*ContentService, *fakeContent, *clock) {
	t.Helper()
	src := newFakeContent()
	clk := newClock()
	svc := NewContentService(setupContentRepo(t), map[string]ContentSource{"still": src}, testCache)
	svc.now = clk.Now
	return svc, src, clk
}

func aboutPage(title string) cms.Content {
	return cms.Content{
		ID:   "p1",
		Name: "About",
		Data: cms.Data{
			Title: title,
			URL:   "/about",
			Blocks: []cms.Block{{
				ID:        "h",
				Component: &cms.BlockComponent{Name: "Heading", Options: map[string]any{"text": title}},
			}},
		},
	}
}

func TestContentService_ServesFreshEntriesFromCache(t *testing.T) {
	svc, src, clk := setupContentService(t)
	st := testSite(t, false)
	ctx := context.Background()
	src.set("page", "/about", aboutPage("About us"))

	page, err := svc.Page(ctx, st, "page", "/about", "en")
	require.NoError(t, err)
	require.NotNil(t, page)
	assert.Equal(t, "About us", page.Data.Title)
	require.Len(t, page.Data.Blocks, 1)
	assert.Equal(t, "Heading", page.Data.Blocks[0].Name())
	assert.Equal(t, 1, src.callCount())

	src.set("page", "/about", aboutPage("Changed"))
	clk.Advance(30 * time.Second)
	page, err = svc.Page(ctx, st, "page", "/about", "en")
	require.NoError(t, err)
	assert.Equal(t, "About us", page.Data.Title, "fresh entries are not refetched")
	assert.Equal(t, 1, src.callCount())

	clk.Advance(time.Minute)
	page, err = svc.Page(ctx, st, "page", "/about", "en")
	require.NoError(t, err)
	assert.Equal(t, "Changed", page.Data.Title)
	assert.Equal(t, 2, src.callCount())

	n, err := svc.Count(ctx, "still")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestContentService_LocalesAreCachedSeparately(t *testing.T) {
	svc, src, _ := setupContentService(t)
	st := testSite(t, false)
	ctx := context.Background()
	src.set("page", "/about", aboutPage("About"))

	_, err := svc.Page(ctx, st, "page", "/about", "en")
	require.NoError(t, err)
	_, err = svc.Page(ctx, st, "page", "/about", "de")
	require.NoError(t, err)
	assert.Equal(t, 2, src.callCount())
}

func TestContentService_StaleFallback(t *testing.T) {
	svc, src, clk := setupContentService(t)
	st := testSite(t, false)
	ctx := context.Background()
	src.set("page", "/about", aboutPage("About us"))

	_, err := svc.Page(ctx, st, "page", "/about", "en")
	require.NoError(t, err)

	src.failWith(errors.New("upstream down"))
	clk.Advance(10 * time.Minute)
	page, err := svc.Page(ctx, st, "page", "/about", "en")
	require.NoError(t, err)
	require.NotNil(t, page, "stale copy served while the upstream fails")
	assert.Equal(t, "About us", page.Data.Title)

	clk.Advance(2 * time.Hour)
	page, err = svc.Page(ctx, st, "page", "/about", "en")
	require.NoError(t, err)
	assert.Nil(t, page, "copies older than the stale TTL are not served")
}

func TestContentService_FailureWithoutCacheIsNil(t *testing.T) {
	svc, src, _ := setupContentService(t)
	src.failWith(errors.New("upstream down"))

	page, err := svc.Page(context.Background(), testSite(t, false), "page", "/about", "en")
	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestContentService_CachesNotFound(t *testing.T) {
	svc, src, _ := setupContentService(t)
	st := testSite(t, false)
	ctx := context.Background()

	page, err := svc.Page(ctx, st, "page", "/missing", "en")
	require.NoError(t, err)
	assert.Nil(t, page)

	page, err = svc.Page(ctx, st, "page", "/missing", "en")
	require.NoError(t, err)
	assert.Nil(t, page)
	assert.Equal(t, 1, src.callCount())
}

func TestContentService_Invalidate(t *testing.T) {
	svc, src, _ := setupContentService(t)
	st := testSite(t, false)
	ctx := context.Background()
	src.set("page", "/about", aboutPage("About us"))

	_, err := svc.Page(ctx, st, "page", "/about", "en")
	require.NoError(t, err)

	n, err := svc.Invalidate(ctx, "still", "page", "/about")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	src.set("page", "/about", aboutPage("Updated"))
	page, err := svc.Page(ctx, st, "page", "/about", "en")
	require.NoError(t, err)
	assert.Equal(t, "Updated", page.Data.Title)
	assert.Equal(t, 2, src.callCount())
}

func TestContentService_Purge(t *testing.T) {
	svc, src, clk := setupContentService(t)
	st := testSite(t, false)
	ctx := context.Background()
	src.set("page", "/about", aboutPage("About us"))

	_, err := svc.Page(ctx, st, "page", "/about", "en")
	require.NoError(t, err)

	n, err := svc.Purge(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	clk.Advance(2 * time.Hour)
	n, err = svc.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestContentService_NoSource(t *testing.T) {
	svc := NewContentService(setupContentRepo(t), nil, testCache)

	_, err := svc.Page(context.Background(), testSite(t, false), "page", "/", "en")
	assert.ErrorIs(t, err, ErrNoContentSource)

	_, err = svc.List(context.Background(), testSite(t, false), "page", cms.Query{})
	assert.ErrorIs(t, err, ErrNoContentSource)
}

func TestContentService_CancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	svc, src, _ := setupContentService(t)
	st := testSite(t, false)
	src.set("page", "/about", aboutPage("About us"))
	held := newGate()
	src.gate = held

	firstCtx, cancel := context.WithCancel(context.Background())
	first := make(chan *cms.Content, 1)
	go func() {
		page, _ := svc.Page(firstCtx, st, "page", "/about", "en")
		first <- page
	}()
	<-held.entered

	type result struct {
		page *cms.Content
		err  error
	}
	second := make(chan result, 1)
	go func() {
		page, err := svc.Page(context.Background(), st, "page", "/about", "en")
		second <- result{page, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	select {
	case page := <-first:
		assert.Nil(t, page, "the cancelled caller stops waiting")
	case <-time.After(2 * time.Second):
		t.Fatal("cancelled caller did not return")
	}

	close(held.open)
	select {
	case res := <-second:
		require.NoError(t, res.err)
		require.NotNil(t, res.page)
		assert.Equal(t, "About us", res.page.Data.Title)
	case <-time.After(2 * time.Second):
		t.Fatal("second caller did not return")
	}
	assert.Equal(t, 1, src.callCount())
}
