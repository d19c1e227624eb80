// Package record provides access to the raw record tables backing
// LinkVault. Records are schemaless maps with suffixed field names
// (title_c, url_c, ...); the normalize package translates them to and
// from domain models.
//
// Two implementations exist: a MongoDB-backed client for normal
// operation and a file-backed client used when no database is
// configured and in tests.
package record

import (
	"context"
	"fmt"
	"strings"
)

// DefaultLimit caps a fetch when the query does not set its own limit.
const DefaultLimit = 100

// Raw is one record as stored. The id travels under the "Id" key.
type Raw map[string]any

// ID returns the record's integer id, or 0 if absent.
func (r Raw) ID() int {
	n, _ := asInt(r["Id"])
	return n
}

// Condition operators understood by Query.Where.
const (
	OpEqualTo              = "EqualTo"
	OpNotEqualTo           = "NotEqualTo"
	OpGreaterThan          = "GreaterThan"
	OpGreaterThanOrEqualTo = "GreaterThanOrEqualTo"
	OpLessThan             = "LessThan"
	OpLessThanOrEqualTo    = "LessThanOrEqualTo"
	OpContains             = "Contains"
)

// Condition matches records where FieldName relates to one of Values
// under Operator. Multiple values form an OR within the condition.
type Condition struct {
	FieldName string
	Operator  string
	Values    []any
}

// Order sorts by a single field.
type Order struct {
	FieldName string
	Desc      bool
}

// Query shapes a FetchRecords call. Zero Limit means DefaultLimit.
// Conditions are ANDed together.
type Query struct {
	Fields  []string
	Where   []Condition
	OrderBy []Order
	Limit   int
	Offset  int
}

// Result reports the outcome for one record in a batch mutation.
type Result struct {
	Success bool   `json:"success"`
	Data    Raw    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Response is the envelope returned by fetches and batch mutations.
// Success reflects the operation as a whole; Results carries
// per-record outcomes for mutations.
type Response struct {
	Success bool     `json:"success"`
	Data    []Raw    `json:"data,omitempty"`
	Results []Result `json:"results,omitempty"`
	Message string   `json:"message,omitempty"`
}

// FailedRecords returns the results that did not succeed.
func (r Response) FailedRecords() []Result {
	var failed []Result
	for _, res := range r.Results {
		if !res.Success {
			failed = append(failed, res)
		}
	}
	return failed
}

// Client is the record-store interface consumed by the entity stores.
// Implementations must assign ids on create and must not modify fields
// a partial update does not mention.
type Client interface {
	FetchRecords(ctx context.Context, table string, q Query) (Response, error)
	GetRecordByID(ctx context.Context, table string, id int, fields []string) (Raw, error)
	CreateRecord(ctx context.Context, table string, records []Raw) (Response, error)
	UpdateRecord(ctx context.Context, table string, records []Raw) (Response, error)
	DeleteRecord(ctx context.Context, table string, ids []int) (Response, error)
	Ping(ctx context.Context) error
}

// asInt coerces the numeric types that appear after JSON and BSON
// round-trips into an int.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case float32:
		return int(n), true
	}
	return 0, false
}

// asFloat coerces numerics to float64 for ordering comparisons.
func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}

// matches reports whether rec satisfies cond. Unknown operators never
// match; a condition with no values never matches.
func matches(rec Raw, cond Condition) bool {
	have := rec[cond.FieldName]
	for _, want := range cond.Values {
		if matchOne(have, cond.Operator, want) {
			return true
		}
	}
	return false
}

func matchOne(have any, op string, want any) bool {
	switch op {
	case OpEqualTo:
		return looseEqual(have, want)
	case OpNotEqualTo:
		return !looseEqual(have, want)
	case OpContains:
		hs, ok1 := have.(string)
		ws, ok2 := want.(string)
		return ok1 && ok2 && strings.Contains(strings.ToLower(hs), strings.ToLower(ws))
	case OpGreaterThan, OpGreaterThanOrEqualTo, OpLessThan, OpLessThanOrEqualTo:
		c, ok := compareOrdered(have, want)
		if !ok {
			return false
		}
		switch op {
		case OpGreaterThan:
			return c > 0
		case OpGreaterThanOrEqualTo:
			return c >= 0
		case OpLessThan:
			return c < 0
		default:
			return c <= 0
		}
	}
	return false
}

// looseEqual compares across the numeric types JSON and BSON produce,
// so an id stored as float64 still equals the int the caller passes.
func looseEqual(a, b any) bool {
	if af, ok := asFloat(a); ok {
		bf, ok := asFloat(b)
		return ok && af == bf
	}
	return a == b
}

func compareOrdered(a, b any) (int, bool) {
	if af, aok := asFloat(a); aok {
		bf, bok := asFloat(b)
		if !bok {
			return 0, false
		}
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		}
		return 0, true
	}
	as, aok := a.(string)
	bs, bok := b.(string)
	if !aok || !bok {
		return 0, false
	}
	return strings.Compare(as, bs), true
}

// less orders two records by the query's OrderBy fields.
func less(a, b Raw, orderBy []Order) bool {
	for _, o := range orderBy {
		c, ok := compareOrdered(a[o.FieldName], b[o.FieldName])
		if !ok || c == 0 {
			continue
		}
		if o.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

// project returns a copy of rec limited to the requested fields. The
// "Id" key always survives projection.
func project(rec Raw, fields []string) Raw {
	if len(fields) == 0 {
		return rec
	}
	out := Raw{"Id": rec["Id"]}
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}

func failedResult(rec Raw, format string, args ...any) Result {
	return Result{Success: false, Data: rec, Message: fmt.Sprintf(format, args...)}
}
