// Package config provides configuration management for blockfront using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultServerPort        = 8080
	defaultServerTimeout     = 30 * time.Second
	defaultShutdownTimeout   = 10 * time.Second
	defaultMaxOpenConns      = 25
	defaultMaxIdleConns      = 10
	defaultConnMaxIdleTime   = 30 * time.Minute
	defaultRevalidate        = 60 * time.Second
	defaultStaleTTL          = 7 * 24 * time.Hour
	defaultWarmSchedule      = "0 */15 * * * *"
	defaultHTTPTimeout       = 15 * time.Second
	defaultRetryAttempts     = 2
	defaultRetryDelay        = 500 * time.Millisecond
	defaultCircuitThreshold  = 5
	defaultCircuitTimeout    = 30 * time.Second
	defaultMaxResponseSize   = 16 * 1024 * 1024
	defaultPathConcurrency   = 4
	defaultBuilderAPIURL     = "https://cdn.builder.io"
	defaultShopifyAPIVersion = "2025-01"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client" yaml:"http_client"`
	Builder    BuilderConfig    `mapstructure:"builder" yaml:"builder"`
	Shopify    ShopifyConfig    `mapstructure:"shopify" yaml:"shopify"`
	Design     DesignConfig     `mapstructure:"design" yaml:"design"`
	SEO        SEOConfig        `mapstructure:"seo" yaml:"seo"`
	Revalidate RevalidateConfig `mapstructure:"revalidate" yaml:"revalidate"`
	Sites      []SiteConfig     `mapstructure:"sites" yaml:"sites"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `mapstructure:"host" yaml:"host"`
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	CORSOrigins     []string      `mapstructure:"cors_origins" yaml:"cors_origins"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver" yaml:"driver"` // sqlite, postgres, mysql
	DSN             string        `mapstructure:"dsn" yaml:"dsn" masq:"secret"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time" yaml:"conn_max_idle_time"`
	LogLevel        string        `mapstructure:"log_level" yaml:"log_level"` // silent, error, warn, info
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format     string `mapstructure:"format" yaml:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source" yaml:"add_source"`
	TimeFormat string `mapstructure:"time_format" yaml:"time_format"`
}

// CacheConfig controls the content cache and its warmer.
type CacheConfig struct {
	// Revalidate is how long a cached entry is served before it is refetched.
	Revalidate time.Duration `mapstructure:"revalidate" yaml:"revalidate"`
	// StaleTTL is how long a stale entry may still be served when the
	// upstream fetch fails. Older entries are purged by the warmer.
	StaleTTL        time.Duration `mapstructure:"stale_ttl" yaml:"stale_ttl"`
	WarmEnabled     bool          `mapstructure:"warm_enabled" yaml:"warm_enabled"`
	WarmSchedule    string        `mapstructure:"warm_schedule" yaml:"warm_schedule"` // 6-field cron expression
	PathConcurrency int           `mapstructure:"path_concurrency" yaml:"path_concurrency"`
}

// HTTPClientConfig configures the outbound client used for CMS and commerce.
type HTTPClientConfig struct {
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	RetryAttempts    int           `mapstructure:"retry_attempts" yaml:"retry_attempts"`
	RetryDelay       time.Duration `mapstructure:"retry_delay" yaml:"retry_delay"`
	CircuitThreshold int           `mapstructure:"circuit_threshold" yaml:"circuit_threshold"`
	CircuitTimeout   time.Duration `mapstructure:"circuit_timeout" yaml:"circuit_timeout"`
	MaxResponseSize  int64         `mapstructure:"max_response_size" yaml:"max_response_size"`
}

// BuilderConfig holds page builder content API settings shared by all sites.
type BuilderConfig struct {
	APIURL       string `mapstructure:"api_url" yaml:"api_url"`
	PageModel    string `mapstructure:"page_model" yaml:"page_model"`
	ArticleModel string `mapstructure:"article_model" yaml:"article_model"`
	HeaderModel  string `mapstructure:"header_model" yaml:"header_model"`
	FooterModel  string `mapstructure:"footer_model" yaml:"footer_model"`
}

// ShopifyConfig holds Storefront API settings shared by all sites.
type ShopifyConfig struct {
	APIVersion string `mapstructure:"api_version" yaml:"api_version"`
	// Metafields lists the product metafields fetched with every product,
	// grouped by namespace when parsed.
	Metafields []MetafieldIdentifier `mapstructure:"metafields" yaml:"metafields"`
}

// MetafieldIdentifier names one product metafield.
type MetafieldIdentifier struct {
	Namespace string `mapstructure:"namespace" yaml:"namespace" validate:"required"`
	Key       string `mapstructure:"key" yaml:"key" validate:"required"`
}

// DesignConfig holds editor design token settings.
type DesignConfig struct {
	// TokensFile is an optional YAML file merged over the built-in tokens.
	TokensFile     string `mapstructure:"tokens_file" yaml:"tokens_file"`
	TokensOptional bool   `mapstructure:"tokens_optional" yaml:"tokens_optional"`
}

// SEOConfig holds SEO rendering options.
type SEOConfig struct {
	// ProbeImages fetches Open Graph images to emit their dimensions.
	ProbeImages bool `mapstructure:"probe_images" yaml:"probe_images"`
}

// RevalidateConfig protects the revalidation webhook.
type RevalidateConfig struct {
	Secret string `mapstructure:"secret" yaml:"secret" masq:"secret"`
}

// SiteConfig describes one storefront served by this process.
type SiteConfig struct {
	ID            string             `mapstructure:"id" yaml:"id" validate:"required,site_id"`
	Name          string             `mapstructure:"name" yaml:"name" validate:"required"`
	Domains       []string           `mapstructure:"domains" yaml:"domains" validate:"dive,hostname_rfc1123|hostname_port"`
	BaseURL       string             `mapstructure:"base_url" yaml:"base_url" validate:"required,url"`
	Locales       []string           `mapstructure:"locales" yaml:"locales" validate:"required,min=1,unique,dive,bcp47_language_tag"`
	DefaultLocale string             `mapstructure:"default_locale" yaml:"default_locale" validate:"required,bcp47_language_tag"`
	BaseTheme     string             `mapstructure:"base_theme" yaml:"base_theme" validate:"omitempty,oneof=light dark accent gradient transparent-light transparent-dark"`
	BuilderAPIKey string             `mapstructure:"builder_api_key" yaml:"builder_api_key" masq:"secret"`
	Shopify       ShopifySiteConfig  `mapstructure:"shopify" yaml:"shopify"`
	Organization  OrganizationConfig `mapstructure:"organization" yaml:"organization"`
}

// ShopifySiteConfig holds a site's store credentials.
type ShopifySiteConfig struct {
	Store           string `mapstructure:"store" yaml:"store" validate:"omitempty,hostname"`
	StorefrontToken string `mapstructure:"storefront_token" yaml:"storefront_token" masq:"secret"`
}

// OrganizationConfig feeds the Organization structured data of a site.
type OrganizationConfig struct {
	Name   string   `mapstructure:"name" yaml:"name"`
	Logo   string   `mapstructure:"logo" yaml:"logo" validate:"omitempty,url"`
	SameAs []string `mapstructure:"same_as" yaml:"same_as" validate:"dive,url"`
}

// Load reads configuration from file and environment variables.
// Environment variables take precedence over file configuration.
// Environment variables are prefixed with BLOCKFRONT_ and use underscores for nesting.
// Example: BLOCKFRONT_SERVER_PORT=8080.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	SetDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/blockfront")
		v.AddConfigPath("$HOME/.blockfront")
	}

	v.SetEnvPrefix("BLOCKFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Config file not found is fine; defaults and env vars apply.
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", defaultServerPort)
	v.SetDefault("server.read_timeout", defaultServerTimeout)
	v.SetDefault("server.write_timeout", defaultServerTimeout)
	v.SetDefault("server.shutdown_timeout", defaultShutdownTimeout)
	v.SetDefault("server.cors_origins", []string{"*"})

	// Database defaults
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "blockfront.db")
	v.SetDefault("database.max_open_conns", defaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", defaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", defaultConnMaxIdleTime)
	v.SetDefault("database.log_level", "warn")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.add_source", false)
	v.SetDefault("logging.time_format", time.RFC3339)

	// Cache defaults
	v.SetDefault("cache.revalidate", defaultRevalidate)
	v.SetDefault("cache.stale_ttl", defaultStaleTTL)
	v.SetDefault("cache.warm_enabled", true)
	v.SetDefault("cache.warm_schedule", defaultWarmSchedule)
	v.SetDefault("cache.path_concurrency", defaultPathConcurrency)

	// Outbound HTTP defaults
	v.SetDefault("http_client.timeout", defaultHTTPTimeout)
	v.SetDefault("http_client.retry_attempts", defaultRetryAttempts)
	v.SetDefault("http_client.retry_delay", defaultRetryDelay)
	v.SetDefault("http_client.circuit_threshold", defaultCircuitThreshold)
	v.SetDefault("http_client.circuit_timeout", defaultCircuitTimeout)
	v.SetDefault("http_client.max_response_size", defaultMaxResponseSize)

	// Page builder defaults
	v.SetDefault("builder.api_url", defaultBuilderAPIURL)
	v.SetDefault("builder.page_model", "page")
	v.SetDefault("builder.article_model", "article")
	v.SetDefault("builder.header_model", "header")
	v.SetDefault("builder.footer_model", "footer")

	// Commerce defaults
	v.SetDefault("shopify.api_version", defaultShopifyAPIVersion)

	// Design defaults
	v.SetDefault("design.tokens_file", "")
	v.SetDefault("design.tokens_optional", true)

	v.SetDefault("seo.probe_images", true)
	v.SetDefault("revalidate.secret", "")

	v.SetDefault("sites", []map[string]any{
		{
			"id":             "default",
			"name":           "blockfront",
			"base_url":       "http://localhost:8080",
			"locales":        []string{"en"},
			"default_locale": "en",
			"base_theme":     "light",
		},
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	const maxPort = 65535
	if c.Server.Port < 1 || c.Server.Port > maxPort {
		return fmt.Errorf("server.port must be between 1 and %d", maxPort)
	}

	validDrivers := map[string]bool{"sqlite": true, "postgres": true, "mysql": true}
	if !validDrivers[c.Database.Driver] {
		return fmt.Errorf("database.driver must be one of: sqlite, postgres, mysql")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	if c.Cache.Revalidate < 0 {
		return fmt.Errorf("cache.revalidate must not be negative")
	}
	if c.Cache.StaleTTL < c.Cache.Revalidate {
		return fmt.Errorf("cache.stale_ttl must be at least cache.revalidate")
	}
	if c.Cache.PathConcurrency < 1 {
		return fmt.Errorf("cache.path_concurrency must be at least 1")
	}
	if c.HTTPClient.RetryAttempts < 0 {
		return fmt.Errorf("http_client.retry_attempts must not be negative")
	}
	if c.Builder.APIURL == "" {
		return fmt.Errorf("builder.api_url is required")
	}
	if c.Builder.PageModel == "" {
		return fmt.Errorf("builder.page_model is required")
	}

	return c.validateSites()
}

// Address returns the server address in host:port format.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Site returns the site with the given ID.
func (c *Config) Site(id string) (SiteConfig, bool) {
	for _, s := range c.Sites {
		if s.ID == id {
			return s, true
		}
	}
	return SiteConfig{}, false
}
