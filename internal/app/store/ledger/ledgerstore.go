// Package ledgerstore persists the request ledger: one entry per API
// request, written by the ledger middleware. Entries go through the
// record client so both storage backends carry the same ledger.
package ledgerstore

import (
	"context"
	"time"

	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/app/system/normalize"
)

// Table is the raw record table backing this store.
const Table = "ledger_entries"

// Entry represents a single request log in the ledger.
type Entry struct {
	ID int `json:"Id"`

	RequestID       string `json:"requestId"`
	ClientRequestID string `json:"clientRequestId,omitempty"`

	Method   string `json:"method"`
	Path     string `json:"path"`
	Query    string `json:"query,omitempty"`
	RemoteIP string `json:"remoteIp"`

	RequestBodySize    int64  `json:"requestBodySize"`
	RequestBodyPreview string `json:"requestBodyPreview,omitempty"`

	StatusCode   int    `json:"statusCode"`
	ResponseSize int64  `json:"responseSize"`
	ErrorClass   string `json:"errorClass,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`

	DurationMs  float64   `json:"durationMs"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
}

// Store provides ledger entry persistence.
type Store struct {
	rc record.Client
}

// New creates a new ledger store.
func New(rc record.Client) *Store {
	return &Store{rc: rc}
}

// Create inserts a new ledger entry.
func (s *Store) Create(ctx context.Context, entry Entry) error {
	_, err := s.rc.CreateRecord(ctx, Table, []record.Raw{{
		"Name":                 entry.RequestID,
		"request_id":           entry.RequestID,
		"client_request_id":    entry.ClientRequestID,
		"method":               entry.Method,
		"path":                 entry.Path,
		"query":                entry.Query,
		"remote_ip":            entry.RemoteIP,
		"request_body_size":    entry.RequestBodySize,
		"request_body_preview": entry.RequestBodyPreview,
		"status_code":          entry.StatusCode,
		"response_size":        entry.ResponseSize,
		"error_class":          entry.ErrorClass,
		"error_message":        entry.ErrorMessage,
		"duration_ms":          entry.DurationMs,
		"started_at":           normalize.TimeString(entry.StartedAt),
		"completed_at":         normalize.TimeString(entry.CompletedAt),
	}})
	return err
}

// Recent returns up to limit entries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{
		OrderBy: []record.Order{{FieldName: "Id", Desc: true}},
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return fromRaws(resp.Data), nil
}

// RecentErrors returns the most recent entries with status >= 400.
func (s *Store) RecentErrors(ctx context.Context, limit int) ([]Entry, error) {
	if limit < 1 || limit > 100 {
		limit = 10
	}
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{
		Where: []record.Condition{{
			FieldName: "status_code",
			Operator:  record.OpGreaterThanOrEqualTo,
			Values:    []any{400},
		}},
		OrderBy: []record.Order{{FieldName: "Id", Desc: true}},
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}
	return fromRaws(resp.Data), nil
}

// DeleteOlderThan deletes entries that started before cutoff and
// returns how many went.
func (s *Store) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	resp, err := s.rc.FetchRecords(ctx, Table, record.Query{
		Where: []record.Condition{{
			FieldName: "started_at",
			Operator:  record.OpLessThan,
			Values:    []any{normalize.TimeString(cutoff)},
		}},
		Fields: []string{"Id"},
		Limit:  1000,
	})
	if err != nil {
		return 0, err
	}
	if len(resp.Data) == 0 {
		return 0, nil
	}

	ids := make([]int, 0, len(resp.Data))
	for _, rec := range resp.Data {
		ids = append(ids, rec.ID())
	}
	if _, err := s.rc.DeleteRecord(ctx, Table, ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func fromRaws(recs []record.Raw) []Entry {
	out := make([]Entry, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Entry{
			ID:                 rec.ID(),
			RequestID:          normalize.Str(rec["request_id"]),
			ClientRequestID:    normalize.Str(rec["client_request_id"]),
			Method:             normalize.Str(rec["method"]),
			Path:               normalize.Str(rec["path"]),
			Query:              normalize.Str(rec["query"]),
			RemoteIP:           normalize.Str(rec["remote_ip"]),
			RequestBodySize:    int64(normalize.Int(rec["request_body_size"])),
			RequestBodyPreview: normalize.Str(rec["request_body_preview"]),
			StatusCode:         normalize.Int(rec["status_code"]),
			ResponseSize:       int64(normalize.Int(rec["response_size"])),
			ErrorClass:         normalize.Str(rec["error_class"]),
			ErrorMessage:       normalize.Str(rec["error_message"]),
			DurationMs:         asFloat(rec["duration_ms"]),
			StartedAt:          normalize.Time(rec["started_at"]),
			CompletedAt:        normalize.Time(rec["completed_at"]),
		})
	}
	return out
}
