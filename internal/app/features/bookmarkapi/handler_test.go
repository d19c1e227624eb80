package bookmarkapi

import (
	"context"
	"net/http"
	"strconv"
	"testing"

	"github.com/linkvault/linkvault/internal/app/store/bookmark"
	"github.com/linkvault/linkvault/internal/app/store/tag"
	"github.com/linkvault/linkvault/internal/app/store/usage"
	"github.com/linkvault/linkvault/internal/domain/models"
	"github.com/linkvault/linkvault/internal/testutil"
	"go.uber.org/zap"
)

type fixture struct {
	router    http.Handler
	bookmarks *bookmark.Store
	tags      *tag.Store
	usage     *usage.Store
}

func setup(t *testing.T) *fixture {
	t.Helper()
	rc := testutil.SetupRecordClient(t)
	bookmarks := bookmark.New(rc)
	tags := tag.New(rc)
	usageStore := usage.New(rc)
	h := NewHandler(bookmarks, tags, usageStore, zap.NewNop())
	return &fixture{
		router:    Routes(h),
		bookmarks: bookmarks,
		tags:      tags,
		usage:     usageStore,
	}
}

func (f *fixture) seed(t *testing.T, in bookmark.CreateInput) *models.Bookmark {
	t.Helper()
	b, err := f.bookmarks.Create(context.Background(), in)
	if err != nil {
		t.Fatalf("failed to seed bookmark: %v", err)
	}
	if err := f.tags.SyncBookmarkTags(context.Background(), nil, b.Tags); err != nil {
		t.Fatalf("failed to seed tags: %v", err)
	}
	return b
}

func TestCreateBookmark(t *testing.T) {
	f := setup(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", CreateBookmarkInput{
		Title: "Go Blog",
		URL:   "https://go.dev/blog",
		Tags:  []string{"go", "reading"},
	})
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusCreated)

	var created models.Bookmark
	testutil.DecodeJSON(t, rec.ResponseRecorder, &created)
	if created.ID == 0 {
		t.Fatal("expected created bookmark to have an id")
	}
	if created.Favicon == "" {
		t.Error("expected a derived favicon URL")
	}

	// Creating a bookmark brings its tags into existence.
	tags, err := f.tags.List(context.Background())
	if err != nil {
		t.Fatalf("tag list failed: %v", err)
	}
	if len(tags) != 2 {
		t.Fatalf("tag count: got %d, want 2", len(tags))
	}
	for _, tg := range tags {
		if tg.UsageCount != 1 {
			t.Errorf("tag %q usage count: got %d, want 1", tg.Name, tg.UsageCount)
		}
	}
}

func TestCreateBookmarkValidation(t *testing.T) {
	f := setup(t)

	cases := []struct {
		name string
		in   CreateBookmarkInput
	}{
		{"missing title", CreateBookmarkInput{URL: "https://go.dev"}},
		{"missing url", CreateBookmarkInput{Title: "Go"}},
		{"bad scheme", CreateBookmarkInput{Title: "Go", URL: "ftp://go.dev"}},
		{"no host", CreateBookmarkInput{Title: "Go", URL: "https://"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodPost, "/", tc.in)
			rec := testutil.NewRecorder()
			f.router.ServeHTTP(rec.ResponseRecorder, req)
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertContains(t, "fields")
		})
	}
}

func TestGetBookmark(t *testing.T) {
	f := setup(t)
	b := f.seed(t, bookmark.CreateInput{Title: "Go Blog", URL: "https://go.dev/blog"})

	req := testutil.NewJSONRequest(t, http.MethodGet, "/"+strconv.Itoa(b.ID), nil)
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var got models.Bookmark
	testutil.DecodeJSON(t, rec.ResponseRecorder, &got)
	if got.Title != "Go Blog" {
		t.Errorf("title: got %q, want %q", got.Title, "Go Blog")
	}
}

func TestGetBookmarkNotFound(t *testing.T) {
	f := setup(t)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/999", nil)
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestGetBookmarkBadID(t *testing.T) {
	f := setup(t)

	req := testutil.NewJSONRequest(t, http.MethodGet, "/abc", nil)
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestListBookmarksFiltered(t *testing.T) {
	f := setup(t)
	f.seed(t, bookmark.CreateInput{Title: "Go Blog", URL: "https://go.dev/blog", Tags: []string{"go"}})
	f.seed(t, bookmark.CreateInput{Title: "Rust Blog", URL: "https://blog.rust-lang.org", Tags: []string{"rust"}})
	pinned := f.seed(t, bookmark.CreateInput{Title: "Docs", URL: "https://pkg.go.dev", Tags: []string{"go"}, IsPinned: true})

	cases := []struct {
		name   string
		target string
		want   int
	}{
		{"all", "/", 3},
		{"query", "/?q=rust", 1},
		{"tag", "/?tag=go", 2},
		{"pinned", "/?pinned=true", 1},
		{"combined", "/?tag=go&pinned=true", 1},
		{"no match", "/?q=zig", 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.NewJSONRequest(t, http.MethodGet, tc.target, nil)
			rec := testutil.NewRecorder()
			f.router.ServeHTTP(rec.ResponseRecorder, req)
			rec.AssertStatus(t, http.StatusOK)

			var got []models.Bookmark
			testutil.DecodeJSON(t, rec.ResponseRecorder, &got)
			if len(got) != tc.want {
				t.Errorf("result count: got %d, want %d", len(got), tc.want)
			}
		})
	}

	// Pinned filter should return the pinned bookmark specifically.
	req := testutil.NewJSONRequest(t, http.MethodGet, "/?pinned=true", nil)
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)
	var got []models.Bookmark
	testutil.DecodeJSON(t, rec.ResponseRecorder, &got)
	if len(got) != 1 || got[0].ID != pinned.ID {
		t.Errorf("pinned filter returned wrong bookmark: %+v", got)
	}
}

func TestUpdateBookmarkPartial(t *testing.T) {
	f := setup(t)
	b := f.seed(t, bookmark.CreateInput{
		Title:       "Go Blog",
		URL:         "https://go.dev/blog",
		Description: "official blog",
		Tags:        []string{"go"},
	})

	newTitle := "The Go Blog"
	req := testutil.NewJSONRequest(t, http.MethodPut, "/"+strconv.Itoa(b.ID), UpdateBookmarkInput{Title: &newTitle})
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var got models.Bookmark
	testutil.DecodeJSON(t, rec.ResponseRecorder, &got)
	if got.Title != newTitle {
		t.Errorf("title: got %q, want %q", got.Title, newTitle)
	}
	if got.Description != "official blog" {
		t.Errorf("description changed on partial update: got %q", got.Description)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "go" {
		t.Errorf("tags changed on partial update: got %v", got.Tags)
	}
}

func TestUpdateBookmarkTagSync(t *testing.T) {
	f := setup(t)
	b := f.seed(t, bookmark.CreateInput{
		Title: "Go Blog",
		URL:   "https://go.dev/blog",
		Tags:  []string{"go", "reading"},
	})

	newTags := []string{"go", "news"}
	req := testutil.NewJSONRequest(t, http.MethodPut, "/"+strconv.Itoa(b.ID), UpdateBookmarkInput{Tags: &newTags})
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusOK)

	tags, err := f.tags.List(context.Background())
	if err != nil {
		t.Fatalf("tag list failed: %v", err)
	}
	names := make(map[string]int)
	for _, tg := range tags {
		names[tg.Name] = tg.UsageCount
	}
	if _, ok := names["reading"]; ok {
		t.Error("dropped tag 'reading' should have been deleted")
	}
	if names["go"] != 1 {
		t.Errorf("tag 'go' usage count: got %d, want 1", names["go"])
	}
	if names["news"] != 1 {
		t.Errorf("tag 'news' usage count: got %d, want 1", names["news"])
	}
}

func TestUpdateBookmarkValidation(t *testing.T) {
	f := setup(t)
	b := f.seed(t, bookmark.CreateInput{Title: "Go Blog", URL: "https://go.dev/blog"})

	empty := ""
	req := testutil.NewJSONRequest(t, http.MethodPut, "/"+strconv.Itoa(b.ID), UpdateBookmarkInput{Title: &empty})
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)

	badURL := "not a url"
	req = testutil.NewJSONRequest(t, http.MethodPut, "/"+strconv.Itoa(b.ID), UpdateBookmarkInput{URL: &badURL})
	rec = testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestDeleteBookmark(t *testing.T) {
	f := setup(t)
	b := f.seed(t, bookmark.CreateInput{
		Title: "Go Blog",
		URL:   "https://go.dev/blog",
		Tags:  []string{"go"},
	})
	if _, err := f.usage.Record(context.Background(), b.ID, models.UsageTypeClick); err != nil {
		t.Fatalf("failed to seed usage: %v", err)
	}

	req := testutil.NewJSONRequest(t, http.MethodDelete, "/"+strconv.Itoa(b.ID), nil)
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNoContent)

	// Tags and usage events go with the bookmark.
	tags, err := f.tags.List(context.Background())
	if err != nil {
		t.Fatalf("tag list failed: %v", err)
	}
	if len(tags) != 0 {
		t.Errorf("tags remaining after delete: %v", tags)
	}
	events, err := f.usage.ListForBookmark(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("usage list failed: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("usage events remaining after delete: %d", len(events))
	}
}

func TestDeleteBookmarkNotFound(t *testing.T) {
	f := setup(t)

	req := testutil.NewJSONRequest(t, http.MethodDelete, "/42", nil)
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestTogglePin(t *testing.T) {
	f := setup(t)
	b := f.seed(t, bookmark.CreateInput{Title: "Go Blog", URL: "https://go.dev/blog"})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/"+strconv.Itoa(b.ID)+"/toggle-pin", nil)
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var got models.Bookmark
	testutil.DecodeJSON(t, rec.ResponseRecorder, &got)
	if !got.IsPinned {
		t.Error("expected bookmark to be pinned after toggle")
	}

	// Toggling again flips it back.
	req = testutil.NewJSONRequest(t, http.MethodPost, "/"+strconv.Itoa(b.ID)+"/toggle-pin", nil)
	rec = testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)
	testutil.DecodeJSON(t, rec.ResponseRecorder, &got)
	if got.IsPinned {
		t.Error("expected bookmark to be unpinned after second toggle")
	}
}

func TestToggleArchiveLeavesPin(t *testing.T) {
	f := setup(t)
	b := f.seed(t, bookmark.CreateInput{Title: "Go Blog", URL: "https://go.dev/blog", IsPinned: true})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/"+strconv.Itoa(b.ID)+"/toggle-archive", nil)
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)

	rec.AssertStatus(t, http.StatusOK)
	var got models.Bookmark
	testutil.DecodeJSON(t, rec.ResponseRecorder, &got)
	if !got.IsArchived {
		t.Error("expected bookmark to be archived after toggle")
	}
	if !got.IsPinned {
		t.Error("archiving should not touch the pin flag")
	}
}

func TestClickRecordsUsage(t *testing.T) {
	f := setup(t)
	b := f.seed(t, bookmark.CreateInput{Title: "Go Blog", URL: "https://go.dev/blog"})

	req := testutil.NewJSONRequest(t, http.MethodPost, "/"+strconv.Itoa(b.ID)+"/click", nil)
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusCreated)

	events, err := f.usage.ListForBookmark(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("usage list failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("usage event count: got %d, want 1", len(events))
	}
	if events[0].UsageType != models.UsageTypeClick {
		t.Errorf("usage type: got %q, want %q", events[0].UsageType, models.UsageTypeClick)
	}
}

func TestClickMissingBookmark(t *testing.T) {
	f := setup(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/7/click", nil)
	rec := testutil.NewRecorder()
	f.router.ServeHTTP(rec.ResponseRecorder, req)
	rec.AssertStatus(t, http.StatusNotFound)
}
