package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gitreq/gitreq/internal/apperror"
	"github.com/gitreq/gitreq/internal/metrics"
	"github.com/gitreq/gitreq/internal/model"
	"github.com/gitreq/gitreq/internal/repository"
)

// FileStore is the persistence surface FileService depends on.
type FileStore interface {
	CreateFile(ctx context.Context, file *model.File) error
	GetFileByID(ctx context.Context, id string) (*model.File, error)
	ListFilesByProject(ctx context.Context, projectID string, filter repository.FileFilter, limit, offset int) ([]*model.File, error)
	UpdateFile(ctx context.Context, id string, upd repository.FileUpdate) (*model.File, error)
	DeleteFile(ctx context.Context, id string) error
	HasFileAccess(ctx context.Context, fileID, userID string) (bool, error)
}

// ProjectAuthorizer answers whether a user owns a project. FileService
// needs it when the file does not exist yet (create) or when listing by
// project, where there is no file row to join through.
type ProjectAuthorizer interface {
	IsProjectOwner(ctx context.Context, projectID, userID string) (bool, error)
}

// FileService handles file business logic. Access to a file is derived
// from ownership of its parent project; files carry no owner of their own.
type FileService struct {
	files    FileStore
	projects ProjectAuthorizer
	metrics  metrics.Recorder
	now      func() time.Time
}

// NewFileService creates a new FileService.
func NewFileService(files FileStore, projects ProjectAuthorizer, recorder metrics.Recorder) *FileService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &FileService{
		files:    files,
		projects: projects,
		metrics:  recorder,
		now:      time.Now,
	}
}

// CreateFileInput defines input for creating a file.
type CreateFileInput struct {
	ProjectID string
	Name      string
	Content   string
	Type      string
}

// Create creates a file inside a project the caller owns.
func (s *FileService) Create(ctx context.Context, userID string, input CreateFileInput) (*model.File, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, apperror.Validation("File name is required")
	}
	if input.ProjectID == "" {
		return nil, apperror.Validation("Project ID is required")
	}

	fileType := model.FileType(input.Type)
	if fileType == "" {
		fileType = model.FileTypeMarkdown
	}
	if !fileType.IsValid() {
		return nil, apperror.Validation("File type must be one of: markdown, csv, json")
	}

	owns, err := s.projects.IsProjectOwner(ctx, input.ProjectID, userID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("check project ownership: %w", err))
	}
	if !owns {
		s.metrics.IncAuthzDenied("file")
		return nil, apperror.Forbidden()
	}

	now := s.now().UTC()
	file := &model.File{
		ID:        newID(),
		Name:      name,
		Content:   input.Content,
		Type:      fileType,
		ProjectID: input.ProjectID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.files.CreateFile(ctx, file); err != nil {
		return nil, apperror.Internal(fmt.Errorf("create file: %w", err))
	}

	s.metrics.IncFileCreated()

	return file, nil
}

// Get returns a file, content included, from a project the caller owns.
func (s *FileService) Get(ctx context.Context, userID, fileID string) (*model.File, error) {
	if err := s.authorize(ctx, userID, fileID); err != nil {
		return nil, err
	}

	file, err := s.files.GetFileByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, apperror.NotFound("File not found")
		}
		return nil, apperror.Internal(fmt.Errorf("get file: %w", err))
	}

	return file, nil
}

// ListForProjectInput defines input for listing a project's files.
type ListForProjectInput struct {
	ProjectID string
	Type      string
	Limit     int
	Offset    int
}

// ListForProject returns a project's files, most recently updated first.
// Listings omit content; fetch a single file to read it.
func (s *FileService) ListForProject(ctx context.Context, userID string, input ListForProjectInput) ([]*model.File, error) {
	filter := repository.FileFilter{}
	if input.Type != "" {
		fileType := model.FileType(input.Type)
		if !fileType.IsValid() {
			return nil, apperror.Validation("File type must be one of: markdown, csv, json")
		}
		filter.Type = fileType
	}

	owns, err := s.projects.IsProjectOwner(ctx, input.ProjectID, userID)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("check project ownership: %w", err))
	}
	if !owns {
		s.metrics.IncAuthzDenied("file")
		return nil, apperror.Forbidden()
	}

	limit := clampLimit(input.Limit)
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	files, err := s.files.ListFilesByProject(ctx, input.ProjectID, filter, limit, offset)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("list files: %w", err))
	}
	if files == nil {
		files = []*model.File{}
	}

	return files, nil
}

// UpdateFileInput defines the mutable file fields. project_id is not
// here: a file never moves between projects.
type UpdateFileInput struct {
	Name    *string
	Content *string
	Type    *string
}

// Update applies allow-listed changes to a file the caller can access.
func (s *FileService) Update(ctx context.Context, userID, fileID string, input UpdateFileInput) (*model.File, error) {
	if err := s.authorize(ctx, userID, fileID); err != nil {
		return nil, err
	}

	upd := repository.FileUpdate{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > maxNameLength {
			return nil, apperror.Validation("File name must not be empty")
		}
		upd.Name = &name
	}
	if input.Content != nil {
		upd.Content = input.Content
	}
	if input.Type != nil {
		fileType := model.FileType(*input.Type)
		if !fileType.IsValid() {
			return nil, apperror.Validation("File type must be one of: markdown, csv, json")
		}
		upd.Type = &fileType
	}

	if upd.IsEmpty() {
		return nil, apperror.Validation("no valid fields to update")
	}

	file, err := s.files.UpdateFile(ctx, fileID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, apperror.NotFound("File not found")
		}
		return nil, apperror.Internal(fmt.Errorf("update file: %w", err))
	}

	s.metrics.IncFileUpdated()

	return file, nil
}

// Delete removes a file the caller can access.
func (s *FileService) Delete(ctx context.Context, userID, fileID string) error {
	if err := s.authorize(ctx, userID, fileID); err != nil {
		return err
	}

	if err := s.files.DeleteFile(ctx, fileID); err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return apperror.NotFound("File not found")
		}
		return apperror.Internal(fmt.Errorf("delete file: %w", err))
	}

	s.metrics.IncFileDeleted()

	return nil
}

// authorize denies access unless the user owns the file's parent project.
// A file that does not exist is denied the same way, so responses do not
// leak which IDs are taken.
func (s *FileService) authorize(ctx context.Context, userID, fileID string) error {
	owns, err := s.files.HasFileAccess(ctx, fileID, userID)
	if err != nil {
		return apperror.Internal(fmt.Errorf("check file access: %w", err))
	}
	if !owns {
		s.metrics.IncAuthzDenied("file")
		return apperror.Forbidden()
	}
	return nil
}
