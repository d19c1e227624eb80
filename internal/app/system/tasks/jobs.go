// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	"github.com/linkvault/linkvault/internal/app/store/bookmark"
	"github.com/linkvault/linkvault/internal/app/store/folder"
	ledgerstore "github.com/linkvault/linkvault/internal/app/store/ledger"
	"github.com/linkvault/linkvault/internal/app/store/tag"
	"github.com/linkvault/linkvault/internal/app/system/aggregate"
	"go.uber.org/zap"
)

// jobFetchLimit bounds how many bookmarks a maintenance pass reads.
const jobFetchLimit = 1000

// FolderCountRefreshJob recomputes each folder's cached bookmark count
// from the bookmark list. API reads never trust the cached value, but
// keeping it fresh makes raw exports and older clients honest.
func FolderCountRefreshJob(folders *folder.Store, bookmarks *bookmark.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "folder-count-refresh",
		Interval: 10 * time.Minute,
		Run: func(ctx context.Context) error {
			all, err := bookmarks.List(ctx, jobFetchLimit)
			if err != nil {
				return err
			}
			counts := aggregate.FolderCounts(all)

			list, err := folders.List(ctx)
			if err != nil {
				return err
			}

			updated := 0
			for _, f := range list {
				want := counts[f.ID]
				if f.BookmarkCount == want {
					continue
				}
				if err := folders.SetBookmarkCount(ctx, f.ID, want); err != nil {
					return err
				}
				updated++
			}
			if updated > 0 {
				logger.Info("refreshed folder bookmark counts",
					zap.Int("updated", updated))
			}
			return nil
		},
	}
}

// TagReconcileJob repairs tag usage counts against the bookmark list:
// drifted counts are rewritten, orphaned tags deleted, missing tags
// recreated. Normal mutations keep counts in step; this job cleans up
// after crashes mid-edit.
func TagReconcileJob(tags *tag.Store, bookmarks *bookmark.Store, logger *zap.Logger) Job {
	return Job{
		Name:     "tag-reconcile",
		Interval: 1 * time.Hour,
		Run: func(ctx context.Context) error {
			all, err := bookmarks.List(ctx, jobFetchLimit)
			if err != nil {
				return err
			}
			if err := tags.Reconcile(ctx, aggregate.TagCounts(all)); err != nil {
				return err
			}
			logger.Debug("tag usage counts reconciled")
			return nil
		},
	}
}

// LedgerRetentionJob trims ledger entries older than retention.
func LedgerRetentionJob(ledger *ledgerstore.Store, retention time.Duration, logger *zap.Logger) Job {
	return Job{
		Name:     "ledger-retention",
		Interval: 6 * time.Hour,
		Run: func(ctx context.Context) error {
			deleted, err := ledger.DeleteOlderThan(ctx, time.Now().Add(-retention))
			if err != nil {
				return err
			}
			if deleted > 0 {
				logger.Info("trimmed old ledger entries",
					zap.Int("deleted", deleted))
			}
			return nil
		},
	}
}
