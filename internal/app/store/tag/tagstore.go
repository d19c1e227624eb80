// Package tag provides storage for tags and the usage-count
// bookkeeping that keeps them in step with bookmark edits.
package tag

import (
	"context"
	"fmt"

	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/app/system/normalize"
	"github.com/linkvault/linkvault/internal/domain/models"
)

// Table is the raw record table backing this store.
const Table = "tag_c"

// DefaultColor is assigned to tags created implicitly by bookmark
// edits.
const DefaultColor = "#2563eb"

// Store provides access to the tag_c table.
type Store struct {
	rc record.Client
}

// New creates a new tag store.
func New(rc record.Client) *Store {
	return &Store{rc: rc}
}

// List returns all tags ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Tag, error) {
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{
		OrderBy: []record.Order{{FieldName: "name_c"}},
	})
	if err != nil {
		return nil, err
	}
	return normalize.Tags(resp.Data), nil
}

// GetByName retrieves a tag by its (case-sensitive) name. Returns
// record.ErrNotFound if no tag carries it.
func (s *Store) GetByName(ctx context.Context, name string) (*models.Tag, error) {
	rec, _, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	t := normalize.Tag(rec)
	return &t, nil
}

// findByName returns the raw record and id for a tag name.
func (s *Store) findByName(ctx context.Context, name string) (record.Raw, int, error) {
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{
		Where: []record.Condition{{
			FieldName: "name_c",
			Operator:  record.OpEqualTo,
			Values:    []any{name},
		}},
		Limit: 1,
	})
	if err != nil {
		return nil, 0, err
	}
	if len(resp.Data) == 0 {
		return nil, 0, record.ErrNotFound
	}
	return resp.Data[0], resp.Data[0].ID(), nil
}

// UpdateColor changes a tag's display color.
func (s *Store) UpdateColor(ctx context.Context, name, color string) (*models.Tag, error) {
	_, id, err := s.findByName(ctx, name)
	if err != nil {
		return nil, err
	}

	resp, err := s.rc.UpdateRecord(ctx, Table, []record.Raw{{
		"Id":      id,
		"color_c": color,
	}})
	if err != nil {
		return nil, err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return nil, record.ErrNotFound
	}
	t := normalize.Tag(resp.Data[0])
	return &t, nil
}

// SyncBookmarkTags reconciles tag usage counts after a bookmark's tag
// list changes from before to after. New names create tags at count 1
// with the default color; names dropped from their last bookmark are
// deleted rather than left at zero. Pass nil before for bookmark
// creation and nil after for deletion.
func (s *Store) SyncBookmarkTags(ctx context.Context, before, after []string) error {
	beforeSet := toSet(before)
	afterSet := toSet(after)

	for name := range afterSet {
		if beforeSet[name] {
			continue
		}
		if err := s.credit(ctx, name); err != nil {
			return fmt.Errorf("tag %q: %w", name, err)
		}
	}
	for name := range beforeSet {
		if afterSet[name] {
			continue
		}
		if err := s.debit(ctx, name); err != nil {
			return fmt.Errorf("tag %q: %w", name, err)
		}
	}
	return nil
}

// credit increments a tag's usage count, creating the tag on first use.
func (s *Store) credit(ctx context.Context, name string) error {
	rec, id, err := s.findByName(ctx, name)
	if record.IsNotFound(err) {
		resp, err := s.rc.CreateRecord(ctx, Table, []record.Raw{{
			"Name":          name,
			"name_c":        name,
			"color_c":       DefaultColor,
			"usage_count_c": 1,
		}})
		if err != nil {
			return err
		}
		if failed := resp.FailedRecords(); len(failed) > 0 {
			return fmt.Errorf("create: %s", failed[0].Message)
		}
		return nil
	}
	if err != nil {
		return err
	}

	resp, err := s.rc.UpdateRecord(ctx, Table, []record.Raw{{
		"Id":            id,
		"usage_count_c": normalize.Int(rec["usage_count_c"]) + 1,
	}})
	if err != nil {
		return err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return fmt.Errorf("increment: %s", failed[0].Message)
	}
	return nil
}

// debit decrements a tag's usage count, deleting the tag when the
// count reaches zero. A missing tag is not an error; the count has
// already converged.
func (s *Store) debit(ctx context.Context, name string) error {
	rec, id, err := s.findByName(ctx, name)
	if record.IsNotFound(err) {
		return nil
	}
	if err != nil {
		return err
	}

	count := normalize.Int(rec["usage_count_c"]) - 1
	if count <= 0 {
		_, err := s.rc.DeleteRecord(ctx, Table, []int{id})
		return err
	}

	resp, err := s.rc.UpdateRecord(ctx, Table, []record.Raw{{
		"Id":            id,
		"usage_count_c": count,
	}})
	if err != nil {
		return err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return fmt.Errorf("decrement: %s", failed[0].Message)
	}
	return nil
}

// Reconcile rewrites every tag's usage count from the authoritative
// per-tag counts (computed from the bookmark list), creating missing
// tags and deleting orphans. The background GC job uses it to repair
// drift left by crashed mutations.
func (s *Store) Reconcile(ctx context.Context, counts map[string]int) error {
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{Limit: 1000})
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(resp.Data))
	for _, rec := range resp.Data {
		name := normalize.Str(rec["name_c"])
		seen[name] = true

		want := counts[name]
		if want <= 0 {
			if _, err := s.rc.DeleteRecord(ctx, Table, []int{rec.ID()}); err != nil {
				return err
			}
			continue
		}
		if normalize.Int(rec["usage_count_c"]) != want {
			if _, err := s.rc.UpdateRecord(ctx, Table, []record.Raw{{
				"Id":            rec.ID(),
				"usage_count_c": want,
			}}); err != nil {
				return err
			}
		}
	}

	for name, want := range counts {
		if seen[name] || want <= 0 {
			continue
		}
		if _, err := s.rc.CreateRecord(ctx, Table, []record.Raw{{
			"Name":          name,
			"name_c":        name,
			"color_c":       DefaultColor,
			"usage_count_c": want,
		}}); err != nil {
			return err
		}
	}
	return nil
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		if n != "" {
			set[n] = true
		}
	}
	return set
}
