package bookmark

import (
	"reflect"
	"testing"

	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/testutil"
)

func TestCreateAndGet(t *testing.T) {
	store := New(testutil.SetupRecordClient(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, CreateInput{
		Title:       "Go Blog",
		URL:         "https://go.dev/blog",
		Description: "release notes",
		Tags:        []string{"go", "news"},
		FolderID:    2,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("Create did not assign an id")
	}
	if created.Favicon != "https://www.google.com/s2/favicons?sz=32&domain=go.dev" {
		t.Errorf("Favicon = %q", created.Favicon)
	}
	if created.DateAdded.IsZero() || !created.DateAdded.Equal(created.DateModified) {
		t.Errorf("timestamps: added %v modified %v", created.DateAdded, created.DateModified)
	}

	got, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "Go Blog" {
		t.Errorf("Title = %q, want Go Blog", got.Title)
	}
	if !reflect.DeepEqual(got.Tags, []string{"go", "news"}) {
		t.Errorf("Tags = %v", got.Tags)
	}
	if got.FolderID != 2 {
		t.Errorf("FolderID = %d, want 2", got.FolderID)
	}
}

func TestCreateUnparseableURLHasNoFavicon(t *testing.T) {
	store := New(testutil.SetupRecordClient(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, CreateInput{Title: "Weird", URL: "::::not-a-url"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.Favicon != "" {
		t.Errorf("Favicon = %q, want empty", created.Favicon)
	}
}

func TestUpdateIsPartial(t *testing.T) {
	store := New(testutil.SetupRecordClient(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, CreateInput{
		Title: "Original",
		URL:   "https://example.com",
		Tags:  []string{"keep"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	title := "Renamed"
	updated, err := store.Update(ctx, created.ID, UpdateInput{Title: &title})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", updated.Title)
	}
	if updated.URL != "https://example.com" {
		t.Errorf("URL changed: %q", updated.URL)
	}
	if !reflect.DeepEqual(updated.Tags, []string{"keep"}) {
		t.Errorf("Tags changed: %v", updated.Tags)
	}
	if updated.DateModified.Before(created.DateModified) {
		t.Error("DateModified did not advance")
	}
	if !updated.DateAdded.Equal(created.DateAdded) {
		t.Error("DateAdded was rewritten")
	}
}

func TestUpdateURLRefreshesFavicon(t *testing.T) {
	store := New(testutil.SetupRecordClient(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, CreateInput{Title: "x", URL: "https://old.example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newURL := "https://new.example.com"
	updated, err := store.Update(ctx, created.ID, UpdateInput{URL: &newURL})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Favicon != "https://www.google.com/s2/favicons?sz=32&domain=new.example.com" {
		t.Errorf("Favicon = %q", updated.Favicon)
	}
}

func TestToggleFlagsAreIndependent(t *testing.T) {
	store := New(testutil.SetupRecordClient(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, CreateInput{Title: "x", URL: "https://example.com", IsPinned: true})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	archived := true
	updated, err := store.Update(ctx, created.ID, UpdateInput{IsArchived: &archived})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !updated.IsPinned {
		t.Error("archiving cleared the pin")
	}
	if !updated.IsArchived {
		t.Error("IsArchived = false, want true")
	}
}

func TestDelete(t *testing.T) {
	store := New(testutil.SetupRecordClient(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, CreateInput{Title: "x", URL: "https://example.com"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := store.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Get(ctx, created.ID); !record.IsNotFound(err) {
		t.Errorf("Get after delete: err = %v, want not found", err)
	}
	if err := store.Delete(ctx, created.ID); !record.IsNotFound(err) {
		t.Errorf("second Delete: err = %v, want not found", err)
	}
}

func TestListByIDs(t *testing.T) {
	store := New(testutil.SetupRecordClient(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	var ids []int
	for _, title := range []string{"a", "b", "c"} {
		b, err := store.Create(ctx, CreateInput{Title: title, URL: "https://example.com/" + title})
		if err != nil {
			t.Fatalf("Create(%s): %v", title, err)
		}
		ids = append(ids, b.ID)
	}

	got, err := store.ListByIDs(ctx, []int{ids[0], ids[2], 999})
	if err != nil {
		t.Fatalf("ListByIDs: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d bookmarks, want 2", len(got))
	}
	seen := map[int]bool{}
	for _, b := range got {
		seen[b.ID] = true
	}
	if !seen[ids[0]] || !seen[ids[2]] {
		t.Errorf("got ids %v, want %d and %d", seen, ids[0], ids[2])
	}

	if empty, err := store.ListByIDs(ctx, nil); err != nil || len(empty) != 0 {
		t.Errorf("ListByIDs(nil) = (%v, %v), want empty", empty, err)
	}
}

func TestListByFolder(t *testing.T) {
	store := New(testutil.SetupRecordClient(t))
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for i, folderID := range []int{1, 1, 2} {
		if _, err := store.Create(ctx, CreateInput{
			Title:    "bm",
			URL:      "https://example.com",
			FolderID: folderID,
		}); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	got, err := store.ListByFolder(ctx, 1)
	if err != nil {
		t.Fatalf("ListByFolder: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d bookmarks in folder 1, want 2", len(got))
	}
}
