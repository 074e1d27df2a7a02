package dto

// CreateFileRequest represents the request body for creating a file.
type CreateFileRequest struct {
	ProjectID string `json:"project_id"`
	Name      string `json:"name"`
	Content   string `json:"content,omitempty"`
	Type      string `json:"type,omitempty"`
}

// UpdateFileRequest represents the request body for updating a file.
// project_id is absent: files never move between projects.
type UpdateFileRequest struct {
	Name    *string `json:"name,omitempty"`
	Content *string `json:"content,omitempty"`
	Type    *string `json:"type,omitempty"`
}
