package model

import "time"

// FileType enumerates the supported document formats.
type FileType string

const (
	FileTypeMarkdown FileType = "markdown"
	FileTypeCSV      FileType = "csv"
	FileTypeJSON     FileType = "json"
)

// IsValid checks if the file type is one of the supported formats.
func (t FileType) IsValid() bool {
	switch t {
	case FileTypeMarkdown, FileTypeCSV, FileTypeJSON:
		return true
	}
	return false
}

// File represents a document stored inside a project.
// Its effective owner is the owner of the parent project; there are no
// per-file ACLs.
type File struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Type      FileType  `json:"type"`
	ProjectID string    `json:"project_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
