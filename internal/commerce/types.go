package commerce

import "time"

// Money is an amount in a currency. Amount keeps the decimal string the API returns.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// Image is a storefront image.
type Image struct {
	URL     string `json:"url"`
	AltText string `json:"altText,omitempty"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
}

// SEO holds the search overrides set in the admin.
type SEO struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// Variant is a purchasable option of a product.
type Variant struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	SKU              string `json:"sku,omitempty"`
	AvailableForSale bool   `json:"availableForSale"`
	Price            Money  `json:"price"`
	CompareAtPrice   *Money `json:"compareAtPrice,omitempty"`
	Image            *Image `json:"image,omitempty"`
}

// PriceRange is the span of variant prices.
type PriceRange struct {
	MinVariantPrice Money `json:"minVariantPrice"`
	MaxVariantPrice Money `json:"maxVariantPrice"`
}

// Product is a storefront product with its parsed metadata.
type Product struct {
	ID               string       `json:"id"`
	Handle           string       `json:"handle"`
	Title            string       `json:"title"`
	Description      string       `json:"description"`
	DescriptionHTML  string       `json:"descriptionHtml"`
	Vendor           string       `json:"vendor,omitempty"`
	ProductType      string       `json:"productType,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	AvailableForSale bool         `json:"availableForSale"`
	UpdatedAt        time.Time    `json:"updatedAt"`
	SEO              SEO          `json:"seo"`
	FeaturedImage    *Image       `json:"featuredImage,omitempty"`
	Images           []Image      `json:"images"`
	Variants         []Variant    `json:"variants"`
	PriceRange       PriceRange   `json:"priceRange"`
	Metafields       []*Metafield `json:"-"`

	// Metadata holds metafields parsed per configured namespace.
	Metadata Metadata `json:"metadata,omitempty"`
}

// Collection is a storefront collection with its first page of products.
type Collection struct {
	ID          string       `json:"id"`
	Handle      string       `json:"handle"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	SEO         SEO          `json:"seo"`
	Image       *Image       `json:"image,omitempty"`
	Products    []Product    `json:"products"`
	Metafields  []*Metafield `json:"-"`
	Metadata    Metadata     `json:"metadata,omitempty"`
}

// HandleEntry is a handle with its last modification time, used for path
// enumeration and sitemaps.
type HandleEntry struct {
	Handle    string    `json:"handle"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Identifier names one metafield to request.
type Identifier struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
}
