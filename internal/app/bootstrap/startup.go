// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/linkvault/linkvault/internal/app/system/tasks"
	"go.uber.org/zap"
)

// Startup runs once after DB connections and schema setup are complete,
// but before the HTTP handler is built and requests are served.
//
// LinkVault uses it to start the background maintenance jobs: folder
// count refresh, tag usage reconciliation, and ledger retention. The
// API keeps derived values correct on its own; the jobs repair drift
// left behind by crashes and trim old request logs.
//
// Returning a non-nil error aborts startup and prevents the server
// from starting.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	startTaskRunner(appCfg, deps, logger)
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(appCfg AppConfig, deps DBDeps, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	taskRunner.Register(tasks.FolderCountRefreshJob(deps.Folders, deps.Bookmarks, logger))
	taskRunner.Register(tasks.TagReconcileJob(deps.Tags, deps.Bookmarks, logger))
	taskRunner.Register(tasks.LedgerRetentionJob(deps.Ledger, appCfg.LedgerRetention, logger))

	taskRunner.Start()
}
