package service

import (
	"log/slog"

	"github.com/jmylchreest/blockfront/internal/cms"
	"github.com/jmylchreest/blockfront/internal/commerce"
	"github.com/jmylchreest/blockfront/internal/config"
	"github.com/jmylchreest/blockfront/internal/site"
	"github.com/jmylchreest/blockfront/internal/version"
	"github.com/jmylchreest/blockfront/pkg/httpclient"
)

// NewHTTPManager builds the outbound client manager from configuration.
func NewHTTPManager(cfg config.HTTPClientConfig, logger *slog.Logger) *httpclient.Manager {
	hc := httpclient.DefaultConfig()
	if cfg.Timeout > 0 {
		hc.Timeout = cfg.Timeout
	}
	if cfg.RetryAttempts >= 0 {
		hc.RetryAttempts = cfg.RetryAttempts
	}
	if cfg.RetryDelay > 0 {
		hc.RetryDelay = cfg.RetryDelay
	}
	hc.MaxResponseSize = cfg.MaxResponseSize
	hc.UserAgent = "blockfront/" + version.Version
	hc.Logger = logger

	global := httpclient.Profile{
		FailureThreshold: cfg.CircuitThreshold,
		ResetTimeout:     cfg.CircuitTimeout,
	}
	return httpclient.NewManager(hc, global, nil)
}

// Backends holds the per-site upstream clients.
type Backends struct {
	Content  map[string]ContentSource
	Commerce map[string]CommerceSource
}

// NewBackends creates a page builder client for every site and a storefront
// client for every site connected to a store.
func NewBackends(cfg *config.Config, sites *site.Directory, mgr *httpclient.Manager, logger *slog.Logger) Backends {
	b := Backends{
		Content:  make(map[string]ContentSource),
		Commerce: make(map[string]CommerceSource),
	}

	identifiers := make([]commerce.Identifier, 0, len(cfg.Shopify.Metafields))
	for _, m := range cfg.Shopify.Metafields {
		identifiers = append(identifiers, commerce.Identifier{Namespace: m.Namespace, Key: m.Key})
	}

	for _, st := range sites.All() {
		log := logger.With(slog.String("site", st.ID))
		if st.BuilderAPIKey != "" {
			b.Content[st.ID] = cms.NewClient(cfg.Builder.APIURL, st.BuilderAPIKey,
				mgr.Client(httpclient.ServiceBuilder), log.With(slog.String("component", "cms")))
		} else {
			log.Warn("site has no builder api key, pages will not resolve")
		}
		if st.HasStore() {
			b.Commerce[st.ID] = commerce.NewClient(st.Shopify.Store, st.Shopify.StorefrontToken,
				cfg.Shopify.APIVersion, identifiers, mgr.Client(httpclient.ServiceShopify),
				log.With(slog.String("component", "commerce")))
		}
	}
	return b
}
