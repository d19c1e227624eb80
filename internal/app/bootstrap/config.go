// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// EnvVarPrefix is the prefix for environment variables.
const EnvVarPrefix = "LINKVAULT"

// appConfigKeys defines the configuration keys for this application.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: storage_backend, mongo_uri, etc.
//   - Environment variables: LINKVAULT_STORAGE_BACKEND, LINKVAULT_MONGO_URI, etc.
//   - Command-line flags: --storage_backend, --mongo_uri, etc.
var appConfigKeys = []config.AppKey{
	{Name: "storage_backend", Default: "file", Desc: "Record storage backend: 'file' or 'mongo'"},
	{Name: "data_dir", Default: "./data", Desc: "Data directory for the file backend"},

	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI (mongo backend)"},
	{Name: "mongo_database", Default: "linkvault", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	// API key configuration (for API consumers using Bearer token auth)
	{Name: "api_key", Default: "", Desc: "API key for /api access (leave empty to disable auth in dev)"},

	// Base URL used to build folder share links
	{Name: "share_base_url", Default: "http://localhost:8080", Desc: "Public base URL for folder share links"},

	// Request ledger settings
	{Name: "ledger_only_errors", Default: false, Desc: "Record only failed requests (status >= 400) in the ledger"},
	{Name: "ledger_retention", Default: "720h", Desc: "How long ledger entries are kept (e.g., 720h for 30 days)"},

	// Demo data seeding
	{Name: "seed_demo_data", Default: false, Desc: "Seed sample folders and bookmarks when the store is empty"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, LINKVAULT_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, EnvVarPrefix, appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		StorageBackend: appValues.String("storage_backend"),
		DataDir:        appValues.String("data_dir"),

		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		APIKey:       appValues.String("api_key"),
		ShareBaseURL: appValues.String("share_base_url"),

		LedgerOnlyErrors: appValues.Bool("ledger_only_errors"),
		LedgerRetention:  appValues.Duration("ledger_retention", 720*time.Hour),

		SeedDemoData: appValues.Bool("seed_demo_data"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	switch appCfg.StorageBackend {
	case "file":
		if appCfg.DataDir == "" {
			return fmt.Errorf("data_dir is required for the file backend")
		}
	case "mongo":
		if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
			logger.Error("invalid MongoDB URI", zap.Error(err))
			return fmt.Errorf("invalid MongoDB URI: %w", err)
		}
	default:
		return fmt.Errorf("unknown storage backend: %s (want 'file' or 'mongo')", appCfg.StorageBackend)
	}

	if appCfg.ShareBaseURL == "" {
		return fmt.Errorf("share_base_url is required")
	}

	// A non-positive retention would put the pruning cutoff in the
	// future and delete every ledger entry on each run.
	if appCfg.LedgerRetention <= 0 {
		return fmt.Errorf("ledger_retention must be a positive duration")
	}

	if coreCfg.Env == "prod" && appCfg.APIKey == "" {
		logger.Warn("api_key is not set; the API is open to anyone who can reach it")
	}

	return nil
}
