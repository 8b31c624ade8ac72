// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS, logging,
// CORS, body limits). AppConfig carries everything specific to threadhub:
// the MongoDB connection, the page revalidation webhook, and paging defaults.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in the driver pool
	MongoMinPoolSize uint64 // Minimum idle connections kept by the driver

	// Page revalidation webhook. Blank URL means revalidation requests are
	// only logged.
	RevalidateURL     string
	RevalidateSecret  string        // sent as X-Revalidate-Secret
	RevalidateTimeout time.Duration // per-request timeout for the webhook

	// Default page size for user search and thread listing.
	SearchPageSize int

	// Write throttling per client IP. WriteRateLimit <= 0 disables it.
	WriteRateLimit  int
	WriteRateWindow time.Duration

	// TrustProxyHeaders keys the throttle on X-Forwarded-For / X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxyHeaders bool
}
