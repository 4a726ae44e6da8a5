package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blockfront/pkg/httpclient"
)

type capturedRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func testClient(t *testing.T, h func(req capturedRequest) string) *Client {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "shpat-token", r.Header.Get("X-Shopify-Storefront-Access-Token"))
		var req capturedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		_, _ = w.Write([]byte(h(req)))
	}))
	t.Cleanup(server.Close)

	cfg := httpclient.DefaultConfig()
	cfg.RetryAttempts = 0
	c := NewClient("shop.myshopify.com", "shpat-token", "2025-01",
		[]Identifier{{Namespace: "course", Key: "level"}, {Namespace: "course", Key: "sessions"}, {Namespace: "seo", Key: "hidden"}},
		httpclient.New(cfg, nil), nil)
	return c.WithEndpoint(server.URL)
}

func TestNewClient_Endpoint(t *testing.T) {
	c := NewClient("https://shop.myshopify.com/", "t", "2025-01", nil, nil, nil)
	assert.Equal(t, "https://shop.myshopify.com/api/2025-01/graphql.json", c.endpoint)
}

func TestClient_Product(t *testing.T) {
	c := testClient(t, func(req capturedRequest) string {
		assert.Contains(t, req.Query, "product(handle: $handle)")
		assert.Equal(t, "intro-course", req.Variables["handle"])
		assert.Equal(t, "DE", req.Variables["language"])
		assert.Len(t, req.Variables["identifiers"], 3)
		return `{"data":{"product":{
			"id":"gid://shopify/Product/1","handle":"intro-course","title":"Intro","updatedAt":"2026-01-02T03:04:05Z",
			"images":{"nodes":[{"url":"https://cdn/a.jpg","width":10,"height":20}]},
			"variants":{"nodes":[{"id":"v1","title":"Default","availableForSale":true,"price":{"amount":"99.0","currencyCode":"EUR"}}]},
			"priceRange":{"minVariantPrice":{"amount":"99.0","currencyCode":"EUR"},"maxVariantPrice":{"amount":"99.0","currencyCode":"EUR"}},
			"metafields":[
				{"namespace":"course","key":"level","type":"single_line_text_field","value":"beginner"},
				{"namespace":"course","key":"sessions","type":"number_integer","value":"6"},
				null
			]
		}}}`
	})

	p, err := c.Product(context.Background(), "intro-course", "de-DE")
	require.NoError(t, err)
	assert.Equal(t, "Intro", p.Title)
	require.Len(t, p.Images, 1)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "99.0", p.Variants[0].Price.Amount)
	assert.Equal(t, "beginner", p.Metadata["course"].String("level"))
	assert.Equal(t, int64(6), p.Metadata["course"]["sessions"].V)
	assert.NotNil(t, p.Metadata["seo"])
}

func TestClient_ProductNotFound(t *testing.T) {
	c := testClient(t, func(capturedRequest) string { return `{"data":{"product":null}}` })

	_, err := c.Product(context.Background(), "missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_GraphQLError(t *testing.T) {
	c := testClient(t, func(capturedRequest) string {
		return `{"errors":[{"message":"Field 'x' doesn't exist"},{"message":"throttled"}]}`
	})

	_, err := c.Product(context.Background(), "a", "")
	var gqlErr *GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Len(t, gqlErr.Errors, 2)
	assert.Equal(t, "graphql: Field 'x' doesn't exist; throttled", err.Error())
}

func TestClient_Collection(t *testing.T) {
	c := testClient(t, func(req capturedRequest) string {
		assert.Equal(t, float64(12), req.Variables["first"])
		return `{"data":{"collection":{"id":"c1","handle":"retreats","title":"Retreats",
			"metafields":[{"namespace":"course","key":"level","type":"single_line_text_field","value":"all"}],
			"products":{"nodes":[{"id":"p1","handle":"lake","title":"Lake retreat","images":{"nodes":[]},"variants":{"nodes":[]}}]}}}}`
	})

	col, err := c.Collection(context.Background(), "retreats", 12, "")
	require.NoError(t, err)
	assert.Equal(t, "Retreats", col.Title)
	assert.Equal(t, "all", col.Metadata["course"].String("level"))
	require.Len(t, col.Products, 1)
	assert.Equal(t, "lake", col.Products[0].Handle)
}

func TestClient_ProductHandlesPaginates(t *testing.T) {
	calls := 0
	c := testClient(t, func(req capturedRequest) string {
		calls++
		if req.Variables["after"] == nil {
			return `{"data":{"products":{"pageInfo":{"hasNextPage":true,"endCursor":"c1"},
				"nodes":[{"handle":"a","updatedAt":"2026-01-01T00:00:00Z"},{"handle":"b","updatedAt":"2026-01-01T00:00:00Z"}]}}}`
		}
		assert.Equal(t, "c1", req.Variables["after"])
		return `{"data":{"products":{"pageInfo":{"hasNextPage":false,"endCursor":"c2"},
			"nodes":[{"handle":"c","updatedAt":"2026-01-01T00:00:00Z"}]}}}`
	})

	handles, err := c.ProductHandles(context.Background())
	require.NoError(t, err)
	var got []string
	for _, h := range handles {
		got = append(got, h.Handle)
	}
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 2, calls)
}

func TestClient_CollectionHandles(t *testing.T) {
	c := testClient(t, func(req capturedRequest) string {
		assert.Contains(t, req.Query, "collections(first: 250")
		return fmt.Sprintf(`{"data":{"collections":{"pageInfo":{"hasNextPage":false},"nodes":[{"handle":%q}]}}}`, "all")
	})

	handles, err := c.CollectionHandles(context.Background())
	require.NoError(t, err)
	require.Len(t, handles, 1)
	assert.Equal(t, "all", handles[0].Handle)
}

func TestLanguageCode(t *testing.T) {
	assert.Nil(t, languageCode(""))
	assert.Nil(t, languageCode("!!"))
	assert.Equal(t, "EN", languageCode("en-GB"))
	assert.Equal(t, "FR", languageCode("fr"))
}
