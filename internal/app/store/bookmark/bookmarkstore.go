// Package bookmark provides storage for bookmarks on top of the raw
// record client.
package bookmark

import (
	"context"
	"fmt"
	"time"

	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/app/system/normalize"
	"github.com/linkvault/linkvault/internal/domain/models"
)

// Table is the raw record table backing this store.
const Table = "bookmark_c"

// Store provides access to the bookmark_c table.
type Store struct {
	rc record.Client
}

// New creates a new bookmark store.
func New(rc record.Client) *Store {
	return &Store{rc: rc}
}

// List returns up to limit bookmarks. Zero limit means the record
// client's default page size. Ordering is left to the caller; the
// aggregate package owns the date-desc sort.
func (s *Store) List(ctx context.Context, limit int) ([]models.Bookmark, error) {
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{Limit: limit})
	if err != nil {
		return nil, err
	}
	return normalize.Bookmarks(resp.Data), nil
}

// ListByIDs returns the bookmarks with the given ids. Ids that no
// longer exist are simply absent from the result.
func (s *Store) ListByIDs(ctx context.Context, ids []int) ([]models.Bookmark, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	values := make([]any, 0, len(ids))
	for _, id := range ids {
		values = append(values, id)
	}
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{
		Where: []record.Condition{{
			FieldName: "Id",
			Operator:  record.OpEqualTo,
			Values:    values,
		}},
		Limit: len(ids),
	})
	if err != nil {
		return nil, err
	}
	return normalize.Bookmarks(resp.Data), nil
}

// ListByFolder returns the bookmarks filed in the given folder.
func (s *Store) ListByFolder(ctx context.Context, folderID int) ([]models.Bookmark, error) {
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{
		Where: []record.Condition{{
			FieldName: "folder_id_c",
			Operator:  record.OpEqualTo,
			Values:    []any{folderID},
		}},
	})
	if err != nil {
		return nil, err
	}
	return normalize.Bookmarks(resp.Data), nil
}

// Get retrieves a bookmark by id. Returns record.ErrNotFound if it
// does not exist.
func (s *Store) Get(ctx context.Context, id int) (*models.Bookmark, error) {
	rec, err := s.rc.GetRecordByID(ctx, Table, id, nil)
	if err != nil {
		return nil, err
	}
	b := normalize.Bookmark(rec)
	return &b, nil
}

// CreateInput contains the input for creating a bookmark.
type CreateInput struct {
	Title       string
	URL         string
	Description string
	Tags        []string
	FolderID    int
	IsPinned    bool
	IsArchived  bool
}

// Create creates a new bookmark. The favicon is derived from the URL
// and both timestamps are set to now.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Bookmark, error) {
	now := time.Now().UTC()
	b := models.Bookmark{
		Title:        input.Title,
		URL:          input.URL,
		Description:  input.Description,
		Tags:         input.Tags,
		Favicon:      normalize.FaviconURL(input.URL),
		FolderID:     input.FolderID,
		DateAdded:    now,
		DateModified: now,
		IsPinned:     input.IsPinned,
		IsArchived:   input.IsArchived,
	}

	resp, err := s.rc.CreateRecord(ctx, Table, []record.Raw{normalize.BookmarkRecord(b)})
	if err != nil {
		return nil, err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return nil, fmt.Errorf("create bookmark: %s", failed[0].Message)
	}
	created := normalize.Bookmark(resp.Data[0])
	return &created, nil
}

// UpdateInput contains the input for updating a bookmark. Nil fields
// are left untouched.
type UpdateInput struct {
	Title       *string
	URL         *string
	Description *string
	Tags        *[]string
	FolderID    *int
	IsPinned    *bool
	IsArchived  *bool
}

// Update applies a partial update and returns the updated bookmark.
// Changing the URL re-derives the favicon; DateModified always moves.
func (s *Store) Update(ctx context.Context, id int, input UpdateInput) (*models.Bookmark, error) {
	rec := record.Raw{
		"Id":              id,
		"date_modified_c": normalize.TimeString(time.Now().UTC()),
	}
	if input.Title != nil {
		rec["title_c"] = *input.Title
		rec["Name"] = *input.Title
	}
	if input.URL != nil {
		rec["url_c"] = *input.URL
		rec["favicon_c"] = normalize.FaviconURL(*input.URL)
	}
	if input.Description != nil {
		rec["description_c"] = *input.Description
	}
	if input.Tags != nil {
		rec["tags_c"] = normalize.JoinTags(*input.Tags)
	}
	if input.FolderID != nil {
		rec["folder_id_c"] = *input.FolderID
	}
	if input.IsPinned != nil {
		rec["is_pinned_c"] = *input.IsPinned
	}
	if input.IsArchived != nil {
		rec["is_archived_c"] = *input.IsArchived
	}

	resp, err := s.rc.UpdateRecord(ctx, Table, []record.Raw{rec})
	if err != nil {
		return nil, err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return nil, record.ErrNotFound
	}
	updated := normalize.Bookmark(resp.Data[0])
	return &updated, nil
}

// Delete removes a bookmark. Returns record.ErrNotFound when the id
// does not exist.
func (s *Store) Delete(ctx context.Context, id int) error {
	resp, err := s.rc.DeleteRecord(ctx, Table, []int{id})
	if err != nil {
		return err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return record.ErrNotFound
	}
	return nil
}
