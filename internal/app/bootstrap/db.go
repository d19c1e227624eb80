// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/linkvault/linkvault/internal/app/store/bookmark"
	"github.com/linkvault/linkvault/internal/app/store/folder"
	ledgerstore "github.com/linkvault/linkvault/internal/app/store/ledger"
	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/app/store/tag"
	"github.com/linkvault/linkvault/internal/app/store/usage"
	"github.com/linkvault/linkvault/internal/app/system/indexes"
	"github.com/linkvault/linkvault/internal/app/system/seeding"
	"go.uber.org/zap"
)

// ConnectDB connects to the configured record backend.
//
// WAFFLE calls this after configuration is loaded but before
// EnsureSchema and Startup. The selected backend is wrapped in a
// record.Client, and the entity stores are built on top of it so later
// hooks and handlers never care which backend is in use.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	var deps DBDeps

	switch appCfg.StorageBackend {
	case "mongo":
		poolCfg := wafflemongo.DefaultPoolConfig()
		if appCfg.MongoMaxPoolSize > 0 {
			poolCfg.MaxPoolSize = appCfg.MongoMaxPoolSize
		}
		if appCfg.MongoMinPoolSize > 0 {
			poolCfg.MinPoolSize = appCfg.MongoMinPoolSize
		}

		client, err := wafflemongo.ConnectWithPool(ctx, appCfg.MongoURI, appCfg.MongoDatabase, poolCfg)
		if err != nil {
			return DBDeps{}, err
		}
		db := client.Database(appCfg.MongoDatabase)

		deps.MongoClient = client
		deps.MongoDatabase = db
		deps.Records = record.NewMongoClient(db)

		logger.Info("connected to MongoDB record backend",
			zap.String("database", appCfg.MongoDatabase),
			zap.Uint64("max_pool_size", poolCfg.MaxPoolSize),
			zap.Uint64("min_pool_size", poolCfg.MinPoolSize),
		)

	case "file", "":
		rc, err := record.NewFileClient(appCfg.DataDir)
		if err != nil {
			return DBDeps{}, fmt.Errorf("failed to open file record backend: %w", err)
		}
		deps.Records = rc

		logger.Info("opened file record backend",
			zap.String("data_dir", appCfg.DataDir),
		)

	default:
		return DBDeps{}, fmt.Errorf("unknown storage backend: %s", appCfg.StorageBackend)
	}

	deps.Bookmarks = bookmark.New(deps.Records)
	deps.Folders = folder.New(deps.Records)
	deps.Tags = tag.New(deps.Records)
	deps.Usage = usage.New(deps.Records)
	deps.Ledger = ledgerstore.New(deps.Records)

	return deps, nil
}

// EnsureSchema sets up indexes and default data as needed.
//
// This runs after ConnectDB succeeds but before Startup and before the
// HTTP handler is built. The file backend needs no schema work; for the
// mongo backend we create the indexes the record queries rely on.
//
// The context has a timeout based on coreCfg.IndexBootTimeout, so
// long-running work should respect context cancellation.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.MongoDatabase != nil {
		logger.Info("ensuring database indexes")
		if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
			logger.Error("failed to ensure indexes", zap.Error(err))
			return err
		}
	}

	if appCfg.SeedDemoData {
		logger.Info("seeding demo data")
		if err := seeding.SeedDemo(ctx, deps.Records, logger); err != nil {
			logger.Error("failed to seed demo data", zap.Error(err))
			return err
		}
	}

	return nil
}
