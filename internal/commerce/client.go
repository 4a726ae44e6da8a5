// Package commerce reads products and collections from the Shopify
// Storefront GraphQL API and parses their metafields into typed values.
package commerce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/jmylchreest/blockfront/pkg/httpclient"
)

// ErrNotFound is returned when a handle does not resolve.
var ErrNotFound = errors.New("commerce resource not found")

// maxHandlePages stops a runaway cursor walk.
const maxHandlePages = 100

// GraphQLErrorItem is one entry of a GraphQL errors array.
type GraphQLErrorItem struct {
	Message    string         `json:"message"`
	Path       []any          `json:"path,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
}

// GraphQLError is returned when the response carries errors.
type GraphQLError struct {
	Errors []GraphQLErrorItem
}

func (e *GraphQLError) Error() string {
	msgs := make([]string, len(e.Errors))
	for i, item := range e.Errors {
		msgs[i] = item.Message
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

// Client queries one storefront.
type Client struct {
	http        *httpclient.Client
	endpoint    string
	token       string
	identifiers []Identifier
	namespaces  []string
	logger      *slog.Logger
}

// NewClient creates a client for store (for example shop.myshopify.com).
// identifiers are requested on every product and collection; their
// namespaces become the metadata groups.
func NewClient(store, token, apiVersion string, identifiers []Identifier, hc *httpclient.Client, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	store = strings.TrimSuffix(strings.TrimPrefix(store, "https://"), "/")
	seen := map[string]bool{}
	var namespaces []string
	for _, id := range identifiers {
		if !seen[id.Namespace] {
			seen[id.Namespace] = true
			namespaces = append(namespaces, id.Namespace)
		}
	}
	return &Client{
		http:        hc,
		endpoint:    fmt.Sprintf("https://%s/api/%s/graphql.json", store, apiVersion),
		token:       token,
		identifiers: identifiers,
		namespaces:  namespaces,
		logger:      logger,
	}
}

// WithEndpoint overrides the GraphQL endpoint URL.
func (c *Client) WithEndpoint(endpoint string) *Client {
	c.endpoint = endpoint
	return c
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLResponse struct {
	Data   json.RawMessage    `json:"data"`
	Errors []GraphQLErrorItem `json:"errors"`
}

// Query runs a GraphQL query and decodes data into out.
func (c *Client) Query(ctx context.Context, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphQLRequest{Query: query, Variables: vars})
	if err != nil {
		return fmt.Errorf("encoding query: %w", err)
	}

	resp, err := c.http.PostJSON(ctx, c.endpoint, body, http.Header{
		"X-Shopify-Storefront-Access-Token": {c.token},
	})
	if err != nil {
		return fmt.Errorf("querying storefront: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("querying storefront: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var gr graphQLResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return fmt.Errorf("decoding storefront response: %w", err)
	}
	if len(gr.Errors) > 0 {
		return &GraphQLError{Errors: gr.Errors}
	}
	if out == nil || len(gr.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(gr.Data, out); err != nil {
		return fmt.Errorf("decoding storefront data: %w", err)
	}
	return nil
}

// languageCode converts a BCP 47 locale to the storefront LanguageCode enum.
// It returns nil when the locale is empty or unparseable so the shop default applies.
func languageCode(locale string) any {
	if locale == "" {
		return nil
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil
	}
	base, _ := tag.Base()
	return strings.ToUpper(base.String())
}

func (c *Client) identifierVars() []Identifier {
	if c.identifiers == nil {
		return []Identifier{}
	}
	return c.identifiers
}

// wire types mirror the connection shapes of the API.
type (
	imageConn   struct{ Nodes []Image }
	variantConn struct{ Nodes []Variant }
	productNode struct {
		Product
		Images     imageConn    `json:"images"`
		Variants   variantConn  `json:"variants"`
		Metafields []*Metafield `json:"metafields"`
	}
	productConn    struct{ Nodes []productNode }
	collectionNode struct {
		Collection
		Products   productConn  `json:"products"`
		Metafields []*Metafield `json:"metafields"`
	}
)

func (c *Client) product(n productNode) Product {
	p := n.Product
	p.Images = n.Images.Nodes
	p.Variants = n.Variants.Nodes
	p.Metafields = n.Metafields
	p.Metadata = ParseMetadata(c.namespaces, n.Metafields, c.logger.With(slog.String("product", p.Handle)))
	return p
}

// Product returns the product with handle in locale.
func (c *Client) Product(ctx context.Context, handle, locale string) (*Product, error) {
	var data struct {
		Product *productNode `json:"product"`
	}
	err := c.Query(ctx, productQuery, map[string]any{
		"handle":      handle,
		"identifiers": c.identifierVars(),
		"language":    languageCode(locale),
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, ErrNotFound
	}
	p := c.product(*data.Product)
	return &p, nil
}

// Collection returns the collection with handle and its first products.
func (c *Client) Collection(ctx context.Context, handle string, first int, locale string) (*Collection, error) {
	if first <= 0 {
		first = 50
	}
	var data struct {
		Collection *collectionNode `json:"collection"`
	}
	err := c.Query(ctx, collectionQuery, map[string]any{
		"handle":      handle,
		"first":       first,
		"identifiers": c.identifierVars(),
		"language":    languageCode(locale),
	}, &data)
	if err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, ErrNotFound
	}
	col := data.Collection.Collection
	col.Metafields = data.Collection.Metafields
	col.Metadata = ParseMetadata(c.namespaces, col.Metafields, c.logger.With(slog.String("collection", col.Handle)))
	col.Products = make([]Product, 0, len(data.Collection.Products.Nodes))
	for _, n := range data.Collection.Products.Nodes {
		col.Products = append(col.Products, c.product(n))
	}
	return &col, nil
}

type handlePage struct {
	PageInfo struct {
		HasNextPage bool   `json:"hasNextPage"`
		EndCursor   string `json:"endCursor"`
	} `json:"pageInfo"`
	Nodes []HandleEntry `json:"nodes"`
}

func (c *Client) walkHandles(ctx context.Context, query, field string) ([]HandleEntry, error) {
	var all []HandleEntry
	var after any
	for range maxHandlePages {
		var data map[string]handlePage
		if err := c.Query(ctx, query, map[string]any{"after": after}, &data); err != nil {
			return nil, err
		}
		page := data[field]
		all = append(all, page.Nodes...)
		if !page.PageInfo.HasNextPage || page.PageInfo.EndCursor == "" {
			return all, nil
		}
		after = page.PageInfo.EndCursor
	}
	c.logger.WarnContext(ctx, "handle listing truncated", slog.String("field", field), slog.Int("handles", len(all)))
	return all, nil
}

// ProductHandles returns every product handle in the store.
func (c *Client) ProductHandles(ctx context.Context) ([]HandleEntry, error) {
	return c.walkHandles(ctx, productHandlesQuery, "products")
}

// CollectionHandles returns every collection handle in the store.
func (c *Client) CollectionHandles(ctx context.Context) ([]HandleEntry, error) {
	return c.walkHandles(ctx, collectionHandlesQuery, "collections")
}
