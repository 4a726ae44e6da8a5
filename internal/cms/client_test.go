package cms

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/blockfront/pkg/httpclient"
)

func testClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	cfg := httpclient.DefaultConfig()
	cfg.RetryAttempts = 0
	return NewClient(server.URL+"/", "pub-key", httpclient.New(cfg, nil), nil)
}

const pageJSON = `{"results":[{
	"id":"abc","name":"About","published":"published","lastUpdated":1767225600000,
	"data":{"title":"About us","url":"/about","customField":{"a":1},
		"blocks":[{"id":"b1","component":{"name":"Section","options":{"theme":"dark"}},
			"children":[{"id":"b2","component":{"name":"Text","options":{"text":"<p>hi</p>"}}}]}]}
}]}`

func TestClient_GetPage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v3/content/page", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "pub-key", q.Get("apiKey"))
		assert.Equal(t, "/about", q.Get("userAttributes.urlPath"))
		assert.Equal(t, "de", q.Get("locale"))
		assert.Equal(t, "1", q.Get("limit"))
		_, _ = w.Write([]byte(pageJSON))
	})

	page, err := c.GetPage(context.Background(), "page", "/about", "de")
	require.NoError(t, err)
	assert.Equal(t, "abc", page.ID)
	assert.Equal(t, "About us", page.Data.Title)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), page.Updated())
	assert.JSONEq(t, `{"a":1}`, string(page.Data.Extra["customField"]))

	require.Len(t, page.Data.Blocks, 1)
	assert.Equal(t, "Section", page.Data.Blocks[0].Name())
	assert.Equal(t, "dark", page.Data.Blocks[0].Options()["theme"])

	var names []string
	Walk(page.Data.Blocks, func(b *Block) { names = append(names, b.Name()) })
	assert.Equal(t, []string{"Section", "Text"}, names)
}

func TestClient_GetPageNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":[]}`))
	})

	_, err := c.GetPage(context.Background(), "page", "/missing", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestClient_FetchServerError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.Fetch(context.Background(), "page", Query{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status 500")
}

func TestClient_ListPages(t *testing.T) {
	total := PageSize + 30
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "data.blocks", q.Get("omit"))
		assert.Equal(t, "course", q.Get("query.data.category"))
		offset, _ := strconv.Atoi(q.Get("offset"))
		limit, _ := strconv.Atoi(q.Get("limit"))
		var resp contentResponse
		for i := offset; i < min(offset+limit, total); i++ {
			resp.Results = append(resp.Results, Content{ID: fmt.Sprint(i), Data: Data{URL: fmt.Sprintf("/p/%d", i)}})
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	all, err := c.List(context.Background(), "article", Query{
		OmitBlocks: true,
		Fields:     map[string]string{"data.category": "course"},
	})
	require.NoError(t, err)
	require.Len(t, all, total)
	assert.Equal(t, "/p/129", all[total-1].Data.URL)
}

func TestQuery_Key(t *testing.T) {
	assert.Equal(t, "/about", Query{URLPath: "/about", Locale: "en"}.Key())

	a := Query{Fields: map[string]string{"b": "2", "a": "1"}}.Key()
	b := Query{Fields: map[string]string{"a": "1", "b": "2"}}.Key()
	assert.Equal(t, a, b)
	assert.Equal(t, "|a=1|b=2", a)
	assert.NotEqual(t, a, Query{Fields: map[string]string{"a": "1", "b": "2"}, OmitBlocks: true}.Key())
}

func TestData_MarshalKeepsExtra(t *testing.T) {
	var d Data
	require.NoError(t, json.Unmarshal([]byte(`{"title":"T","seoTitle":"S"}`), &d))

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"T","seoTitle":"S"}`, string(out))
}
