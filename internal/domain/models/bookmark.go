package models

import "time"

// Bookmark is the canonical view-model for a saved link.
//
// Raw store records carry suffixed field names (title_c, url_c, ...);
// the normalize package maps between the raw shape and this one. All
// optional fields default to their zero value so downstream code never
// has to distinguish "absent" from "empty".
type Bookmark struct {
	// ID is assigned by the record store and never changes.
	ID int `json:"Id"`

	// URL is the full address of the saved page. Always an absolute
	// http/https URL for bookmarks created through the API.
	URL string `json:"url"`

	// Title is the display name. Never empty for bookmarks created
	// through the API.
	Title string `json:"title"`

	Description string `json:"description"`

	// Tags are plain tag names. Order is preserved for display but is
	// not significant for matching. Stored as a comma-joined string in
	// the raw record.
	Tags []string `json:"tags"`

	// Favicon is a derived icon URL, or empty if the bookmark URL
	// could not be parsed.
	Favicon string `json:"favicon"`

	// FolderID references a Folder by id; 0 means no folder. This is a
	// weak reference with no enforcement at the store level.
	FolderID int `json:"folderId"`

	// DateAdded is set once at creation and never rewritten.
	DateAdded time.Time `json:"dateAdded"`

	// DateModified is refreshed on every update.
	DateModified time.Time `json:"dateModified"`

	// IsPinned and IsArchived are independent flags: archiving does not
	// unpin, and pinning does not unarchive.
	IsPinned   bool `json:"isPinned"`
	IsArchived bool `json:"isArchived"`
}

// HasTag reports whether the bookmark carries the named tag.
// Comparison is case-sensitive, matching tag identity.
func (b *Bookmark) HasTag(name string) bool {
	for _, t := range b.Tags {
		if t == name {
			return true
		}
	}
	return false
}
