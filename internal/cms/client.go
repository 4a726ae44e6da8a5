package cms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/jmylchreest/blockfront/pkg/httpclient"
)

// ErrNotFound is returned when no content matches a lookup.
var ErrNotFound = errors.New("content not found")

// PageSize is the number of entries requested per page when listing.
const PageSize = 100

// maxPages stops a List walk that never terminates.
const maxPages = 200

// Query narrows a content lookup.
type Query struct {
	URLPath string
	Locale  string
	// Fields become query.<key>=<value> parameters, e.g. "data.slug".
	Fields map[string]string
	Limit  int
	Offset int
	// OmitBlocks drops data.blocks from the response.
	OmitBlocks bool
}

func (q Query) values(apiKey string) url.Values {
	v := url.Values{}
	v.Set("apiKey", apiKey)
	v.Set("noTraverse", "false")
	v.Set("includeRefs", "true")
	if q.URLPath != "" {
		v.Set("userAttributes.urlPath", q.URLPath)
	}
	if q.Locale != "" {
		v.Set("locale", q.Locale)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		v.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.OmitBlocks {
		v.Set("omit", "data.blocks")
	}
	for k, val := range q.Fields {
		v.Set("query."+k, val)
	}
	return v
}

// Key returns a stable cache key for the query.
func (q Query) Key() string {
	if len(q.Fields) == 0 && q.Limit == 0 && q.Offset == 0 && !q.OmitBlocks {
		return q.URLPath
	}
	var b strings.Builder
	b.WriteString(q.URLPath)
	keys := make([]string, 0, len(q.Fields))
	for k := range q.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "|%s=%s", k, q.Fields[k])
	}
	if q.Limit > 0 || q.Offset > 0 {
		fmt.Fprintf(&b, "|l=%d,o=%d", q.Limit, q.Offset)
	}
	if q.OmitBlocks {
		b.WriteString("|omit")
	}
	return b.String()
}

// Client reads one Builder space.
type Client struct {
	http    *httpclient.Client
	baseURL string
	apiKey  string
	logger  *slog.Logger
}

// NewClient creates a client for apiURL (for example https://cdn.builder.io).
func NewClient(apiURL, apiKey string, hc *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		http:    hc,
		baseURL: strings.TrimRight(apiURL, "/"),
		apiKey:  apiKey,
		logger:  logger,
	}
}

type contentResponse struct {
	Results []Content `json:"results"`
}

// GetPage returns the first entry of model targeted at urlPath.
func (c *Client) GetPage(ctx context.Context, model, urlPath, locale string) (*Content, error) {
	results, err := c.Fetch(ctx, model, Query{URLPath: urlPath, Locale: locale, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return &results[0], nil
}

// GetOne returns the first entry matching q, or ErrNotFound.
func (c *Client) GetOne(ctx context.Context, model string, q Query) (*Content, error) {
	q.Limit = 1
	results, err := c.Fetch(ctx, model, q)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNotFound
	}
	return &results[0], nil
}

// List returns every entry of model matching q, paging through the API.
func (c *Client) List(ctx context.Context, model string, q Query) ([]Content, error) {
	q.Limit = PageSize
	var all []Content
	for page := range maxPages {
		q.Offset = page * PageSize
		results, err := c.Fetch(ctx, model, q)
		if err != nil {
			return nil, err
		}
		all = append(all, results...)
		if len(results) < PageSize {
			return all, nil
		}
	}
	c.logger.WarnContext(ctx, "content listing truncated",
		slog.String("model", model),
		slog.Int("entries", len(all)),
	)
	return all, nil
}

// Fetch performs a single content API request.
func (c *Client) Fetch(ctx context.Context, model string, q Query) ([]Content, error) {
	endpoint := fmt.Sprintf("%s/api/v3/content/%s?%s", c.baseURL, url.PathEscape(model), q.values(c.apiKey).Encode())

	resp, err := c.http.Get(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetching %s content: %w", model, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode != http.StatusOK:
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetching %s content: unexpected status %d: %s", model, resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var body contentResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decoding %s content: %w", model, err)
	}
	return body.Results, nil
}
