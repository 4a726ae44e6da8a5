package service

import "errors"

var (
	// ErrNoContentSource is returned for a site without a page builder space.
	ErrNoContentSource = errors.New("no content source configured")
	// ErrNoStore is returned for a site without a storefront.
	ErrNoStore = errors.New("no storefront configured")
	// ErrNoSite is returned when a request context carries no site.
	ErrNoSite = errors.New("no site in context")
)
