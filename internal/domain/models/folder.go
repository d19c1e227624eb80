package models

// Share permission levels for a shared folder.
const (
	SharePermissionView = "view"
	SharePermissionEdit = "edit"
)

// DefaultFolderColor is used when a folder is created without a color.
const DefaultFolderColor = "#2563eb"

// Folder groups bookmarks and can be shared with other people by email.
type Folder struct {
	// ID is assigned by the record store.
	ID int `json:"Id"`

	// Name is non-empty and at most 50 characters when created through
	// the folder-creation flow.
	Name string `json:"name"`

	// Color is a hex color string, e.g. "#2563eb".
	Color string `json:"color"`

	// ParentID references another folder; 0 means root. Writes that
	// would make a folder its own ancestor are rejected.
	ParentID int `json:"parentId"`

	// BookmarkCount is a cached derived value. It is refreshed by the
	// background count job and recomputed on read by the aggregate
	// package; it is never treated as authoritative.
	BookmarkCount int `json:"bookmarkCount"`

	// Sharing state. Whenever IsShared is false, SharedWith is empty
	// and SharePermissions is "view".
	IsShared         bool     `json:"isShared"`
	SharedWith       []string `json:"sharedWith"`
	SharePermissions string   `json:"sharePermissions"`
}

// IsRoot reports whether the folder sits at the top level.
func (f *Folder) IsRoot() bool {
	return f.ParentID == 0
}

// IsValidSharePermission reports whether p is a recognized permission level.
func IsValidSharePermission(p string) bool {
	return p == SharePermissionView || p == SharePermissionEdit
}
