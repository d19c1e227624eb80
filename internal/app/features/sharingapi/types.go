package sharingapi

import "github.com/linkvault/linkvault/internal/domain/models"

// ShareFolderInput is the request body for POST /sharing/folders/{id}/share.
type ShareFolderInput struct {
	SharedWith  []string `json:"sharedWith"`
	Permissions string   `json:"permissions" validate:"required,sharepermission" label:"Permissions"`
}

// UpdatePermissionsInput is the request body for
// PUT /sharing/folders/{id}/permissions.
type UpdatePermissionsInput struct {
	Permissions string `json:"permissions" validate:"required,sharepermission" label:"Permissions"`
}

// ShareResponse is returned by the share endpoints: the folder's new
// sharing state plus the public link carrying the share token.
type ShareResponse struct {
	Folder   models.Folder `json:"folder"`
	ShareURL string        `json:"shareUrl"`
}

// SharedFolderResponse is returned when a share token is resolved.
type SharedFolderResponse struct {
	Folder      models.Folder     `json:"folder"`
	Bookmarks   []models.Bookmark `json:"bookmarks"`
	Permissions string            `json:"permissions"`
}
