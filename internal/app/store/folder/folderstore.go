// Package folder provides storage for bookmark folders, including the
// sharing state that the sharing endpoints manage.
package folder

import (
	"context"
	"fmt"

	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/app/system/normalize"
	"github.com/linkvault/linkvault/internal/domain/models"
)

// Table is the raw record table backing this store.
const Table = "folder_c"

// Store provides access to the folder_c table.
type Store struct {
	rc record.Client
}

// New creates a new folder store.
func New(rc record.Client) *Store {
	return &Store{rc: rc}
}

// List returns all folders.
func (s *Store) List(ctx context.Context) ([]models.Folder, error) {
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{
		OrderBy: []record.Order{{FieldName: "name_c"}},
	})
	if err != nil {
		return nil, err
	}
	return normalize.Folders(resp.Data), nil
}

// Get retrieves a folder by id. Returns record.ErrNotFound if it does
// not exist.
func (s *Store) Get(ctx context.Context, id int) (*models.Folder, error) {
	rec, err := s.rc.GetRecordByID(ctx, Table, id, nil)
	if err != nil {
		return nil, err
	}
	f := normalize.Folder(rec)
	return &f, nil
}

// CreateInput contains the input for creating a folder.
type CreateInput struct {
	Name     string
	Color    string
	ParentID int
}

// Create creates a new folder. New folders are unshared and use the
// default color when none is given.
func (s *Store) Create(ctx context.Context, input CreateInput) (*models.Folder, error) {
	color := input.Color
	if color == "" {
		color = models.DefaultFolderColor
	}
	f := models.Folder{
		Name:             input.Name,
		Color:            color,
		ParentID:         input.ParentID,
		SharePermissions: models.SharePermissionView,
	}

	resp, err := s.rc.CreateRecord(ctx, Table, []record.Raw{normalize.FolderRecord(f)})
	if err != nil {
		return nil, err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return nil, fmt.Errorf("create folder: %s", failed[0].Message)
	}
	created := normalize.Folder(resp.Data[0])
	return &created, nil
}

// UpdateInput contains the input for updating a folder. Nil fields are
// left untouched.
type UpdateInput struct {
	Name     *string
	Color    *string
	ParentID *int
}

// Update applies a partial update and returns the updated folder.
// Callers are responsible for the cycle check when moving folders; see
// WouldCreateCycle.
func (s *Store) Update(ctx context.Context, id int, input UpdateInput) (*models.Folder, error) {
	rec := record.Raw{"Id": id}
	if input.Name != nil {
		rec["name_c"] = *input.Name
		rec["Name"] = *input.Name
	}
	if input.Color != nil {
		rec["color_c"] = *input.Color
	}
	if input.ParentID != nil {
		rec["parent_id_c"] = *input.ParentID
	}

	resp, err := s.rc.UpdateRecord(ctx, Table, []record.Raw{rec})
	if err != nil {
		return nil, err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return nil, record.ErrNotFound
	}
	updated := normalize.Folder(resp.Data[0])
	return &updated, nil
}

// Delete removes a folder. Returns record.ErrNotFound when the id does
// not exist. Emptiness checks belong to the caller.
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

// SetBookmarkCount writes the cached bookmark count for a folder.
func (s *Store) SetBookmarkCount(ctx context.Context, id, count int) error {
	resp, err := s.rc.UpdateRecord(ctx, Table, []record.Raw{{
		"Id":               id,
		"bookmark_count_c": count,
	}})
	if err != nil {
		return err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return record.ErrNotFound
	}
	return nil
}

// HasSubfolders reports whether any folder names id as its parent.
func (s *Store) HasSubfolders(ctx context.Context, id int) (bool, error) {
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{
		Where: []record.Condition{{
			FieldName: "parent_id_c",
			Operator:  record.OpEqualTo,
			Values:    []any{id},
		}},
		Limit: 1,
	})
	if err != nil {
		return false, err
	}
	return len(resp.Data) > 0, nil
}

// WouldCreateCycle reports whether setting newParentID as the parent
// of id would make the folder its own ancestor. It walks the parent
// chain from newParentID up to the root.
func (s *Store) WouldCreateCycle(ctx context.Context, id, newParentID int) (bool, error) {
	if newParentID == 0 {
		return false, nil
	}
	if newParentID == id {
		return true, nil
	}

	current := newParentID
	// Bounded walk so a corrupt parent chain cannot loop forever.
	for depth := 0; depth < 100 && current != 0; depth++ {
		parent, err := s.Get(ctx, current)
		if err != nil {
			if record.IsNotFound(err) {
				return false, nil
			}
			return false, err
		}
		if parent.ParentID == id {
			return true, nil
		}
		current = parent.ParentID
	}
	return false, nil
}

// Share marks a folder shared with the given recipients and
// permission level, and returns the updated folder.
func (s *Store) Share(ctx context.Context, id int, sharedWith []string, permissions string) (*models.Folder, error) {
	resp, err := s.rc.UpdateRecord(ctx, Table, []record.Raw{{
		"Id":                  id,
		"shared_c":            true,
		"shared_with_c":       normalize.JoinTags(sharedWith),
		"share_permissions_c": permissions,
	}})
	if err != nil {
		return nil, err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return nil, record.ErrNotFound
	}
	updated := normalize.Folder(resp.Data[0])
	return &updated, nil
}

// Unshare clears a folder's sharing state: recipients empty,
// permissions back to view.
func (s *Store) Unshare(ctx context.Context, id int) (*models.Folder, error) {
	resp, err := s.rc.UpdateRecord(ctx, Table, []record.Raw{{
		"Id":                  id,
		"shared_c":            false,
		"shared_with_c":       "",
		"share_permissions_c": models.SharePermissionView,
	}})
	if err != nil {
		return nil, err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return nil, record.ErrNotFound
	}
	updated := normalize.Folder(resp.Data[0])
	return &updated, nil
}

// UpdateSharePermissions changes the permission level on an
// already-shared folder.
func (s *Store) UpdateSharePermissions(ctx context.Context, id int, permissions string) (*models.Folder, error) {
	resp, err := s.rc.UpdateRecord(ctx, Table, []record.Raw{{
		"Id":                  id,
		"share_permissions_c": permissions,
	}})
	if err != nil {
		return nil, err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return nil, record.ErrNotFound
	}
	updated := normalize.Folder(resp.Data[0])
	return &updated, nil
}
