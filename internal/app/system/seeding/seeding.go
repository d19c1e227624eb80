// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"

	"github.com/linkvault/linkvault/internal/app/store/bookmark"
	"github.com/linkvault/linkvault/internal/app/store/folder"
	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/app/store/tag"
	"go.uber.org/zap"
)

// SeedDemo creates a small set of sample folders and bookmarks for
// demos and local development. It only runs against an empty store:
// if any bookmark exists the seed is skipped, so enabling the flag on
// an existing installation is harmless.
func SeedDemo(ctx context.Context, rc record.Client, logger *zap.Logger) error {
	bookmarks := bookmark.New(rc)
	folders := folder.New(rc)
	tags := tag.New(rc)

	existing, err := bookmarks.List(ctx, 1)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		logger.Debug("store is not empty, skipping demo seed")
		return nil
	}

	dev, err := folders.Create(ctx, folder.CreateInput{Name: "Development", Color: "#16a34a"})
	if err != nil {
		return err
	}
	reading, err := folders.Create(ctx, folder.CreateInput{Name: "Reading List", Color: "#ea580c"})
	if err != nil {
		return err
	}

	samples := []bookmark.CreateInput{
		{
			Title:       "The Go Programming Language",
			URL:         "https://go.dev",
			Description: "Official Go website with downloads, docs, and the blog.",
			Tags:        []string{"go", "reference"},
			FolderID:    dev.ID,
			IsPinned:    true,
		},
		{
			Title:       "Go Package Index",
			URL:         "https://pkg.go.dev",
			Description: "Searchable documentation for Go packages.",
			Tags:        []string{"go", "reference"},
			FolderID:    dev.ID,
		},
		{
			Title:    "The Go Blog",
			URL:      "https://go.dev/blog",
			Tags:     []string{"go", "reading"},
			FolderID: reading.ID,
		},
	}

	for _, in := range samples {
		created, err := bookmarks.Create(ctx, in)
		if err != nil {
			return err
		}
		if err := tags.SyncBookmarkTags(ctx, nil, created.Tags); err != nil {
			return err
		}
	}

	logger.Info("seeded demo data",
		zap.Int("folders", 2),
		zap.Int("bookmarks", len(samples)))
	return nil
}
