package record

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// FileClient implements Client on JSON files, one per table, under a
// base directory. It serves local development without a database and
// the test suite. Tables load on first touch and stay in memory; every
// mutation rewrites the table's file.
type FileClient struct {
	dir string

	mu     sync.Mutex
	tables map[string][]Raw
}

// NewFileClient creates a file-backed record client rooted at dir,
// creating the directory if needed.
func NewFileClient(dir string) (*FileClient, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("record dir: %w", err)
	}
	return &FileClient{dir: dir, tables: make(map[string][]Raw)}, nil
}

var _ Client = (*FileClient)(nil)

func (f *FileClient) path(table string) string {
	return filepath.Join(f.dir, table+".json")
}

// load returns the in-memory records for table, reading the file on
// first access. Caller must hold f.mu.
func (f *FileClient) load(table string) ([]Raw, error) {
	if recs, ok := f.tables[table]; ok {
		return recs, nil
	}

	data, err := os.ReadFile(f.path(table))
	if os.IsNotExist(err) {
		f.tables[table] = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", table, err)
	}

	var recs []Raw
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("parse table %s: %w", table, err)
	}
	f.tables[table] = recs
	return recs, nil
}

// flush rewrites the table's file. Write-then-rename keeps a crash
// from leaving a half-written table behind. Caller must hold f.mu.
func (f *FileClient) flush(table string) error {
	recs := f.tables[table]
	if recs == nil {
		recs = []Raw{}
	}
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode table %s: %w", table, err)
	}

	tmp := f.path(table) + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write table %s: %w", table, err)
	}
	if err := os.Rename(tmp, f.path(table)); err != nil {
		return fmt.Errorf("write table %s: %w", table, err)
	}
	return nil
}

// nextID is max existing id + 1. Caller must hold f.mu.
func nextFileID(recs []Raw) int {
	max := 0
	for _, rec := range recs {
		if id := rec.ID(); id > max {
			max = id
		}
	}
	return max + 1
}

// FetchRecords evaluates q in memory.
func (f *FileClient) FetchRecords(ctx context.Context, table string, q Query) (Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.load(table)
	if err != nil {
		return Response{}, err
	}

	var matched []Raw
	for _, rec := range recs {
		ok := true
		for _, cond := range q.Where {
			if !matches(rec, cond) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, rec)
		}
	}

	if len(q.OrderBy) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return less(matched[i], matched[j], q.OrderBy)
		})
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if q.Offset >= len(matched) {
		matched = nil
	} else {
		matched = matched[q.Offset:]
	}
	if len(matched) > limit {
		matched = matched[:limit]
	}

	resp := Response{Success: true, Data: make([]Raw, 0, len(matched))}
	for _, rec := range matched {
		resp.Data = append(resp.Data, project(clone(rec), q.Fields))
	}
	return resp, nil
}

// GetRecordByID returns the record with the given id, or ErrNotFound.
func (f *FileClient) GetRecordByID(ctx context.Context, table string, id int, fields []string) (Raw, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.load(table)
	if err != nil {
		return nil, err
	}
	for _, rec := range recs {
		if rec.ID() == id {
			return project(clone(rec), fields), nil
		}
	}
	return nil, ErrNotFound
}

// CreateRecord inserts records with freshly assigned ids.
func (f *FileClient) CreateRecord(ctx context.Context, table string, records []Raw) (Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.load(table)
	if err != nil {
		return Response{}, err
	}

	resp := Response{Success: true}
	for _, rec := range records {
		created := clone(rec)
		created["Id"] = nextFileID(recs)
		recs = append(recs, created)
		resp.Results = append(resp.Results, Result{Success: true, Data: clone(created)})
		resp.Data = append(resp.Data, clone(created))
	}
	f.tables[table] = recs

	if err := f.flush(table); err != nil {
		return Response{}, err
	}
	return resp, nil
}

// UpdateRecord merges the provided fields into existing records.
func (f *FileClient) UpdateRecord(ctx context.Context, table string, records []Raw) (Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.load(table)
	if err != nil {
		return Response{}, err
	}

	resp := Response{Success: true}
	dirty := false
	for _, rec := range records {
		id, ok := asInt(rec["Id"])
		if !ok {
			resp.Results = append(resp.Results, failedResult(rec, "update: missing Id"))
			continue
		}

		idx := -1
		for i := range recs {
			if recs[i].ID() == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			resp.Results = append(resp.Results, failedResult(rec, "update %d: not found", id))
			continue
		}

		for k, v := range rec {
			if k == "Id" {
				continue
			}
			recs[idx][k] = v
		}
		dirty = true
		resp.Results = append(resp.Results, Result{Success: true, Data: clone(recs[idx])})
		resp.Data = append(resp.Data, clone(recs[idx]))
	}

	if dirty {
		f.tables[table] = recs
		if err := f.flush(table); err != nil {
			return Response{}, err
		}
	}
	return resp, nil
}

// DeleteRecord removes records by id.
func (f *FileClient) DeleteRecord(ctx context.Context, table string, ids []int) (Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	recs, err := f.load(table)
	if err != nil {
		return Response{}, err
	}

	resp := Response{Success: true}
	dirty := false
	for _, id := range ids {
		idx := -1
		for i := range recs {
			if recs[i].ID() == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			resp.Results = append(resp.Results, failedResult(Raw{"Id": id}, "delete %d: not found", id))
			continue
		}
		recs = append(recs[:idx], recs[idx+1:]...)
		dirty = true
		resp.Results = append(resp.Results, Result{Success: true, Data: Raw{"Id": id}})
	}

	if dirty {
		f.tables[table] = recs
		if err := f.flush(table); err != nil {
			return Response{}, err
		}
	}
	return resp, nil
}

// Ping verifies the base directory is still usable.
func (f *FileClient) Ping(ctx context.Context) error {
	_, err := os.Stat(f.dir)
	return err
}

func clone(rec Raw) Raw {
	out := make(Raw, len(rec))
	for k, v := range rec {
		out[k] = v
	}
	return out
}
