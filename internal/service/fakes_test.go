package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/commerce"
	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/database"
	"github.com/jmylchreest/blockfront/internal/repository"
	"github.com/jmylchreest/blockfront/internal/site"
)

var testModels = config.BuilderConfig{
	PageModel:    "page",
	ArticleModel: "article",
	HeaderModel:  "header",
	FooterModel:  "footer",
}

var testCache = config.CacheConfig{
	Revalidate:      time.Minute,
	StaleTTL:        time.Hour,
	PathConcurrency: 2,
}

func setupContentRepo(t *testing.T) repository.ContentRepository {
	t.Helper()
	db, err := database.New(config.DatabaseConfig{
		Driver:   "sqlite",
		DSN:      ":memory:",
		LogLevel: "silent",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate(context.Background()))
	return repository.NewContentRepository(db.DB)
}

func testSite(t *testing.T, withStore bool) *site.Site {
	t.Helper()
	cfg := config.SiteConfig{
		ID:            "still",
		Name:          "Still",
		BaseURL:       "https://still.example",
		Locales:       []string{"en", "de"},
		DefaultLocale: "en",
		BaseTheme:     "dark",
		BuilderAPIKey: "key",
	}
	if withStore {
		cfg.Shopify = config.ShopifySiteConfig{Store: "still.myshopify.com", StorefrontToken: "t"}
	}
	s, err := site.New(cfg)
	require.NoError(t, err)
	return s
}

// fakeContent answers Fetch from entries keyed by model and URL path, or by
// model and the data.slug field.
type fakeContent struct {
	mu      sync.Mutex
	entries map[string][]cms.Content
	lists   map[string][]cms.Content
	err     error
	calls   int
	gate    *gate
}

// gate holds fetches until it is opened. A held fetch returns early with the
// error of its context.
type gate struct {
	entered chan struct{}
	open    chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}, 16), open: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context) error {
	if g == nil {
		return nil
	}
	g.entered <- struct{}{}
	select {
	case <-g.open:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func newFakeContent() *fakeContent {
	return &fakeContent{
		entries: make(map[string][]cms.Content),
		lists:   make(map[string][]cms.Content),
	}
}

func (f *fakeContent) set(model, key string, content ...cms.Content) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[model+"|"+key] = content
}

func (f *fakeContent) failWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeContent) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeContent) Fetch(ctx context.Context, model string, q cms.Query) ([]cms.Content, error) {
	f.mu.Lock()
	g := f.gate
	f.mu.Unlock()
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	key := q.URLPath
	if slug, ok := q.Fields["data.slug"]; ok {
		key = slug
	}
	return f.entries[model+"|"+key], nil
}

func (f *fakeContent) List(_ context.Context, model string, _ cms.Query) ([]cms.Content, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.lists[model], nil
}

type fakeCommerce struct {
	mu          sync.Mutex
	products    map[string]*commerce.Product
	collections map[string]*commerce.Collection
	handles     []commerce.HandleEntry
	err         error
	handleErr   error
	calls       int
	gate        *gate
}

func newFakeCommerce() *fakeCommerce {
	return &fakeCommerce{
		products:    make(map[string]*commerce.Product),
		collections: make(map[string]*commerce.Collection),
	}
}

func (f *fakeCommerce) failWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeCommerce) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func (f *fakeCommerce) Product(ctx context.Context, handle, _ string) (*commerce.Product, error) {
	f.mu.Lock()
	g := f.gate
	f.mu.Unlock()
	if err := g.wait(ctx); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.products[handle]; ok {
		return p, nil
	}
	return nil, commerce.ErrNotFound
}

func (f *fakeCommerce) Collection(_ context.Context, handle string, _ int, _ string) (*commerce.Collection, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if c, ok := f.collections[handle]; ok {
		return c, nil
	}
	return nil, commerce.ErrNotFound
}

func (f *fakeCommerce) ProductHandles(context.Context) ([]commerce.HandleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handleErr != nil {
		return nil, f.handleErr
	}
	return f.handles, nil
}

func (f *fakeCommerce) CollectionHandles(context.Context) ([]commerce.HandleEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.handleErr != nil {
		return nil, f.handleErr
	}
	out := make([]commerce.HandleEntry, 0, len(f.collections))
	for h := range f.collections {
		out = append(out, commerce.HandleEntry{Handle: h})
	}
	return out, nil
}

// clock is a settable time source.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
