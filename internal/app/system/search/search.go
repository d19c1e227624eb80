// Package search implements in-memory bookmark filtering for the list
// and search endpoints. Matching is a case-insensitive substring test
// across title, URL, description, and tag names; filtering happens
// after fetch so both record backends behave identically.
package search

import (
	"strings"

	"github.com/linkvault/linkvault/internal/domain/models"
)

// Filter holds the criteria applied to a bookmark list. Zero values
// mean "no constraint", so the zero Filter passes everything through.
type Filter struct {
	// Query is matched as a case-insensitive substring against title,
	// URL, description, and each tag.
	Query string

	// FolderID restricts to one folder when nonzero.
	FolderID int

	// Tag restricts to bookmarks carrying the exact tag name.
	Tag string

	// Pinned/Archived restrict on the flags when non-nil.
	Pinned   *bool
	Archived *bool
}

// IsZero reports whether the filter constrains anything.
func (f Filter) IsZero() bool {
	return f.Query == "" && f.FolderID == 0 && f.Tag == "" && f.Pinned == nil && f.Archived == nil
}

// Matches reports whether b satisfies every set criterion.
func (f Filter) Matches(b models.Bookmark) bool {
	if f.FolderID != 0 && b.FolderID != f.FolderID {
		return false
	}
	if f.Tag != "" && !b.HasTag(f.Tag) {
		return false
	}
	if f.Pinned != nil && b.IsPinned != *f.Pinned {
		return false
	}
	if f.Archived != nil && b.IsArchived != *f.Archived {
		return false
	}
	if f.Query == "" {
		return true
	}

	q := strings.ToLower(f.Query)
	if strings.Contains(strings.ToLower(b.Title), q) ||
		strings.Contains(strings.ToLower(b.URL), q) ||
		strings.Contains(strings.ToLower(b.Description), q) {
		return true
	}
	for _, tag := range b.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Apply returns the bookmarks matching f, preserving input order. The
// result is always a fresh slice so callers can sort it freely.
func Apply(bookmarks []models.Bookmark, f Filter) []models.Bookmark {
	out := make([]models.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if f.Matches(b) {
			out = append(out, b)
		}
	}
	return out
}
