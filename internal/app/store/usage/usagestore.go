// Package usage provides storage for bookmark usage events, the raw
// material for the analytics endpoints.
package usage

import (
	"context"
	"fmt"
	"time"

	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/app/system/normalize"
	"github.com/linkvault/linkvault/internal/domain/models"
)

// Table is the raw record table backing this store.
const Table = "usage_c"

// ListLimit caps how many events analytics reads pull in one call.
const ListLimit = 10000

// Store provides access to the usage_c table.
type Store struct {
	rc record.Client
}

// New creates a new usage store.
func New(rc record.Client) *Store {
	return &Store{rc: rc}
}

// Record appends a usage event for a bookmark at now.
func (s *Store) Record(ctx context.Context, bookmarkID int, usageType string) (*models.UsageEvent, error) {
	resp, err := s.rc.CreateRecord(ctx, Table, []record.Raw{{
		"Name":          fmt.Sprintf("usage-%d", bookmarkID),
		"bookmark_id_c": bookmarkID,
		"timestamp_c":   normalize.TimeString(time.Now().UTC()),
		"usage_type_c":  usageType,
	}})
	if err != nil {
		return nil, err
	}
	if failed := resp.FailedRecords(); len(failed) > 0 {
		return nil, fmt.Errorf("record usage: %s", failed[0].Message)
	}
	e := normalize.UsageEvent(resp.Data[0])
	return &e, nil
}

// List returns recent usage events, newest first.
func (s *Store) List(ctx context.Context) ([]models.UsageEvent, error) {
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{
		OrderBy: []record.Order{{FieldName: "Id", Desc: true}},
		Limit:   ListLimit,
	})
	if err != nil {
		return nil, err
	}
	return normalize.UsageEvents(resp.Data), nil
}

// ListForBookmark returns the usage events for one bookmark.
func (s *Store) ListForBookmark(ctx context.Context, bookmarkID int) ([]models.UsageEvent, error) {
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{
		Where: []record.Condition{{
			FieldName: "bookmark_id_c",
			Operator:  record.OpEqualTo,
			Values:    []any{bookmarkID},
		}},
		Limit: ListLimit,
	})
	if err != nil {
		return nil, err
	}
	return normalize.UsageEvents(resp.Data), nil
}

// DeleteForBookmark removes all usage events for a bookmark. Called
// when the bookmark itself is deleted.
func (s *Store) DeleteForBookmark(ctx context.Context, bookmarkID int) error {
	events, err := s.ListForBookmark(ctx, bookmarkID)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	ids := make([]int, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	_, err = s.rc.DeleteRecord(ctx, Table, ids)
	return err
}
