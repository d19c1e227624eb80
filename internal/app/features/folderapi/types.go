package folderapi

// CreateFolderInput is the request body for POST /folders.
type CreateFolderInput struct {
	Name     string `json:"name" validate:"required,max=50" label:"Name"`
	Color    string `json:"color" label:"Color"`
	ParentID int    `json:"parentId"`
}

// UpdateFolderInput is the request body for PUT /folders/{id}. Absent
// fields are left untouched.
type UpdateFolderInput struct {
	Name     *string `json:"name"`
	Color    *string `json:"color"`
	ParentID *int    `json:"parentId"`
}
