// Package testutil provides fixtures for testing stores and handlers.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/linkvault/linkvault/internal/app/store/record"
)

// SetupRecordClient returns a file-backed record client rooted in a
// per-test temp directory. Stores and handlers run against the same
// record interface in production, so tests exercise the real query and
// mutation paths without a database.
func SetupRecordClient(t *testing.T) *record.FileClient {
	t.Helper()

	rc, err := record.NewFileClient(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create test record client: %v", err)
	}
	return rc
}

// TestContext returns a context with a reasonable timeout for test operations.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
