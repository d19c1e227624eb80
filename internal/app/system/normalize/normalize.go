// Package normalize translates between raw store records and domain
// models. Raw records carry suffixed field names (title_c, url_c, ...)
// and loosely typed values; the functions here produce fully typed
// models with defaults applied, and build raw records back from
// models for writes.
//
// Normalization is total: malformed raw values degrade to zero values
// instead of producing errors, so a damaged record never takes a list
// endpoint down with it.
package normalize

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/linkvault/linkvault/internal/app/store/record"
	"github.com/linkvault/linkvault/internal/domain/models"
)

// Bookmark converts a raw bookmark_c record to a model.
func Bookmark(rec record.Raw) models.Bookmark {
	return models.Bookmark{
		ID:           rec.ID(),
		Title:        Str(rec["title_c"]),
		URL:          Str(rec["url_c"]),
		Description:  Str(rec["description_c"]),
		Tags:         SplitTags(Str(rec["tags_c"])),
		Favicon:      Str(rec["favicon_c"]),
		FolderID:     FolderRef(rec["folder_id_c"]),
		DateAdded:    Time(rec["date_added_c"]),
		DateModified: Time(rec["date_modified_c"]),
		IsPinned:     Bool(rec["is_pinned_c"]),
		IsArchived:   Bool(rec["is_archived_c"]),
	}
}

// Bookmarks converts a slice of raw records.
func Bookmarks(recs []record.Raw) []models.Bookmark {
	out := make([]models.Bookmark, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Bookmark(rec))
	}
	return out
}

// BookmarkRecord builds the raw record for a bookmark write. The Id is
// included only when nonzero (updates carry it, creates do not).
func BookmarkRecord(b models.Bookmark) record.Raw {
	rec := record.Raw{
		"Name":            b.Title,
		"title_c":         b.Title,
		"url_c":           b.URL,
		"description_c":   b.Description,
		"tags_c":          JoinTags(b.Tags),
		"favicon_c":       b.Favicon,
		"folder_id_c":     b.FolderID,
		"date_added_c":    TimeString(b.DateAdded),
		"date_modified_c": TimeString(b.DateModified),
		"is_pinned_c":     b.IsPinned,
		"is_archived_c":   b.IsArchived,
	}
	if b.ID != 0 {
		rec["Id"] = b.ID
	}
	return rec
}

// Folder converts a raw folder_c record to a model, applying the
// sharing and color defaults.
func Folder(rec record.Raw) models.Folder {
	f := models.Folder{
		ID:               rec.ID(),
		Name:             Str(rec["name_c"]),
		Color:            Str(rec["color_c"]),
		ParentID:         FolderRef(rec["parent_id_c"]),
		BookmarkCount:    Int(rec["bookmark_count_c"]),
		IsShared:         Bool(rec["shared_c"]),
		SharedWith:       SplitTags(Str(rec["shared_with_c"])),
		SharePermissions: Str(rec["share_permissions_c"]),
	}
	if f.Name == "" {
		f.Name = Str(rec["Name"])
	}
	if f.Color == "" {
		f.Color = models.DefaultFolderColor
	}
	if !models.IsValidSharePermission(f.SharePermissions) {
		f.SharePermissions = models.SharePermissionView
	}
	if !f.IsShared {
		f.SharedWith = nil
		f.SharePermissions = models.SharePermissionView
	}
	return f
}

// Folders converts a slice of raw records.
func Folders(recs []record.Raw) []models.Folder {
	out := make([]models.Folder, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Folder(rec))
	}
	return out
}

// FolderRecord builds the raw record for a folder write.
func FolderRecord(f models.Folder) record.Raw {
	rec := record.Raw{
		"Name":                f.Name,
		"name_c":              f.Name,
		"color_c":             f.Color,
		"parent_id_c":         f.ParentID,
		"bookmark_count_c":    f.BookmarkCount,
		"shared_c":            f.IsShared,
		"shared_with_c":       JoinTags(f.SharedWith),
		"share_permissions_c": f.SharePermissions,
	}
	if f.ID != 0 {
		rec["Id"] = f.ID
	}
	return rec
}

// Tag converts a raw tag_c record to a model.
func Tag(rec record.Raw) models.Tag {
	t := models.Tag{
		Name:       Str(rec["name_c"]),
		Color:      Str(rec["color_c"]),
		UsageCount: Int(rec["usage_count_c"]),
	}
	if t.Name == "" {
		t.Name = Str(rec["Name"])
	}
	return t
}

// Tags converts a slice of raw records.
func Tags(recs []record.Raw) []models.Tag {
	out := make([]models.Tag, 0, len(recs))
	for _, rec := range recs {
		out = append(out, Tag(rec))
	}
	return out
}

// UsageEvent converts a raw usage_c record to a model.
func UsageEvent(rec record.Raw) models.UsageEvent {
	return models.UsageEvent{
		ID:         rec.ID(),
		BookmarkID: FolderRef(rec["bookmark_id_c"]),
		Timestamp:  Time(rec["timestamp_c"]),
		UsageType:  Str(rec["usage_type_c"]),
	}
}

// UsageEvents converts a slice of raw records.
func UsageEvents(recs []record.Raw) []models.UsageEvent {
	out := make([]models.UsageEvent, 0, len(recs))
	for _, rec := range recs {
		out = append(out, UsageEvent(rec))
	}
	return out
}

// SplitTags splits a comma-joined list into trimmed names, dropping
// empties. SplitTags(JoinTags(x)) == x for any clean input x.
func SplitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// JoinTags is the inverse of SplitTags.
func JoinTags(tags []string) string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return strings.Join(out, ",")
}

// FolderRef unwraps a record reference that may arrive as a bare
// number, a numeric string, or an object carrying an Id. Anything else
// is 0 (no reference).
func FolderRef(v any) int {
	switch ref := v.(type) {
	case nil:
		return 0
	case map[string]any:
		return record.Raw(ref).ID()
	case record.Raw:
		return ref.ID()
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(ref))
		if err != nil {
			return 0
		}
		return n
	}
	n := Int(v)
	return n
}

// FaviconURL derives an icon URL for a bookmark address, or "" when
// the address cannot be parsed into a host.
func FaviconURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Hostname() == "" {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/s2/favicons?sz=32&domain=%s", u.Hostname())
}

// Str coerces a raw value to a trimmed string.
func Str(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// Int coerces the numeric shapes JSON and BSON produce to an int.
func Int(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	case float32:
		return int(n)
	}
	return 0
}

// Bool coerces a raw value to bool. String forms ("true", "1") appear
// in records imported from older exports.
func Bool(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return b == "true" || b == "1"
	}
	return false
}

// Time parses a raw timestamp. Records store RFC 3339 strings; values
// already decoded to time.Time pass through.
func Time(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		parsed, err := time.Parse(time.RFC3339Nano, t)
		if err != nil {
			return time.Time{}
		}
		return parsed
	}
	return time.Time{}
}

// TimeString formats a timestamp for storage.
func TimeString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}
