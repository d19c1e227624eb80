package bookmarkapi

// CreateBookmarkInput is the request body for POST /bookmarks.
type CreateBookmarkInput struct {
	Title       string   `json:"title" validate:"required,max=200" label:"Title"`
	URL         string   `json:"url" validate:"required,httpurl" label:"URL"`
	Description string   `json:"description" validate:"max=2000" label:"Description"`
	Tags        []string `json:"tags"`
	FolderID    int      `json:"folderId"`
	IsPinned    bool     `json:"isPinned"`
	IsArchived  bool     `json:"isArchived"`
}

// UpdateBookmarkInput is the request body for PUT /bookmarks/{id}.
// Absent fields are left untouched; validation runs only on the fields
// present.
type UpdateBookmarkInput struct {
	Title       *string   `json:"title"`
	URL         *string   `json:"url"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	FolderID    *int      `json:"folderId"`
	IsPinned    *bool     `json:"isPinned"`
	IsArchived  *bool     `json:"isArchived"`
}
