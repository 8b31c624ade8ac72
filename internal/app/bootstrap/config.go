// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"net/url"
	"time"

	"github.com/dalemusser/threadhub/internal/app/system/paging"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for threadhub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, revalidate_url, etc.
//   - Environment variables: THREADHUB_MONGO_URI, THREADHUB_REVALIDATE_URL, etc.
//   - Command-line flags: --mongo_uri, --revalidate_url, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "threadhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// Page revalidation
	{Name: "revalidate_url", Default: "", Desc: "Webhook called with {path} after writes (blank logs only)"},
	{Name: "revalidate_secret", Default: "", Desc: "Shared secret sent in X-Revalidate-Secret"},
	{Name: "revalidate_timeout", Default: "5s", Desc: "Timeout for each revalidation request"},

	// Paging
	{Name: "search_page_size", Default: paging.DefaultPageSize, Desc: "Default page size for search and listings"},

	// Write throttling
	{Name: "write_rate_limit", Default: 30, Desc: "Max writes per client IP per window (0 disables)"},
	{Name: "write_rate_window", Default: "1m", Desc: "Window for write_rate_limit"},
	{Name: "trust_proxy_headers", Default: false, Desc: "Key write throttling on X-Forwarded-For/X-Real-IP (only behind a trusted proxy)"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig merges .env files, config files,
// environment variables (WAFFLE_* for core, THREADHUB_* for app) and
// command-line flags with precedence flags > env > files > defaults.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "THREADHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		RevalidateURL:     appValues.String("revalidate_url"),
		RevalidateSecret:  appValues.String("revalidate_secret"),
		RevalidateTimeout: appValues.Duration("revalidate_timeout", 5*time.Second),

		SearchPageSize: appValues.Int("search_page_size"),

		WriteRateLimit:  appValues.Int("write_rate_limit"),
		WriteRateWindow: appValues.Duration("write_rate_window", time.Minute),

		TrustProxyHeaders: appValues.Bool("trust_proxy_headers"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// The MongoDB URI is checked before any connection attempt; the revalidation
// URL, when set, must be absolute http(s).
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if appCfg.MongoDatabase == "" {
		return fmt.Errorf("mongo_database must not be empty")
	}
	if appCfg.MongoMinPoolSize > appCfg.MongoMaxPoolSize {
		return fmt.Errorf("mongo_min_pool_size (%d) exceeds mongo_max_pool_size (%d)",
			appCfg.MongoMinPoolSize, appCfg.MongoMaxPoolSize)
	}
	if appCfg.RevalidateURL != "" {
		u, err := url.Parse(appCfg.RevalidateURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("revalidate_url must be an absolute http(s) URL, got %q", appCfg.RevalidateURL)
		}
	}
	if appCfg.SearchPageSize < 1 || appCfg.SearchPageSize > paging.MaxPageSize {
		return fmt.Errorf("search_page_size must be between 1 and %d", paging.MaxPageSize)
	}
	if appCfg.WriteRateLimit > 0 && appCfg.WriteRateWindow <= 0 {
		return fmt.Errorf("write_rate_window must be positive when write_rate_limit is set")
	}
	return nil
}
