// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like HTTP/HTTPS
// ports, TLS, logging level, CORS, and request body size limits.
// AppConfig is where everything specific to LinkVault lives.
type AppConfig struct {
	// Record storage backend: "file" or "mongo".
	// The file backend keeps one JSON file per table under DataDir and
	// needs no external services; the mongo backend stores records in
	// MongoDB collections of the same names.
	StorageBackend string

	// DataDir is the root directory for the file backend.
	DataDir string

	// MongoDB connection configuration (mongo backend only)
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// API key authentication for /api/* routes.
	// When set, clients must send "Authorization: Bearer <key>".
	// Leave empty to disable API key authentication (dev only).
	APIKey string

	// ShareBaseURL is the public origin used to build folder share
	// links, e.g. "https://links.example.com".
	ShareBaseURL string

	// Request ledger configuration
	LedgerOnlyErrors bool          // Record only requests with status >= 400
	LedgerRetention  time.Duration // How long ledger entries are kept (default: 30 days)

	// SeedDemoData creates a small set of sample folders and bookmarks
	// on first start when the store is empty. Useful for demos and
	// local development.
	SeedDemoData bool
}
