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

// ProjectStore is the persistence surface ProjectService depends on.
type ProjectStore interface {
	CreateProject(ctx context.Context, project *model.Project) error
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	ListProjectsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.Project, error)
	UpdateProject(ctx context.Context, id string, upd repository.ProjectUpdate) (*model.Project, error)
	DeleteProject(ctx context.Context, id string) error
	IsProjectOwner(ctx context.Context, projectID, userID string) (bool, error)
}

// ProjectService handles project business logic. Every read and write is
// gated on ownership: non-owners get the same answer whether the project
// exists or not.
type ProjectService struct {
	projects ProjectStore
	metrics  metrics.Recorder
	now      func() time.Time
}

// NewProjectService creates a new ProjectService.
func NewProjectService(projects ProjectStore, recorder metrics.Recorder) *ProjectService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ProjectService{
		projects: projects,
		metrics:  recorder,
		now:      time.Now,
	}
}

// CreateProjectInput defines input for creating a project.
type CreateProjectInput struct {
	Name        string
	Description string
}

// Create creates a project owned by the given user.
func (s *ProjectService) Create(ctx context.Context, ownerID string, input CreateProjectInput) (*model.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" || len(name) > maxNameLength {
		return nil, apperror.Validation("Project name is required")
	}

	now := s.now().UTC()
	project := &model.Project{
		ID:          newID(),
		Name:        name,
		Description: strings.TrimSpace(input.Description),
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.projects.CreateProject(ctx, project); err != nil {
		return nil, apperror.Internal(fmt.Errorf("create project: %w", err))
	}

	s.metrics.IncProjectCreated()

	return project, nil
}

// List returns the caller's projects, most recently updated first.
func (s *ProjectService) List(ctx context.Context, ownerID string, limit, offset int) ([]*model.Project, error) {
	limit = clampLimit(limit)
	if offset < 0 {
		offset = 0
	}

	projects, err := s.projects.ListProjectsByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("list projects: %w", err))
	}
	if projects == nil {
		projects = []*model.Project{}
	}

	return projects, nil
}

// Get returns a project the caller owns.
func (s *ProjectService) Get(ctx context.Context, userID, projectID string) (*model.Project, error) {
	if err := s.authorize(ctx, userID, projectID); err != nil {
		return nil, err
	}

	project, err := s.projects.GetProjectByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperror.NotFound("Project not found")
		}
		return nil, apperror.Internal(fmt.Errorf("get project: %w", err))
	}

	return project, nil
}

// UpdateProjectInput defines the mutable project fields. Anything else a
// caller sends is dropped before it gets here.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// Update applies allow-listed changes to a project the caller owns.
func (s *ProjectService) Update(ctx context.Context, userID, projectID string, input UpdateProjectInput) (*model.Project, error) {
	if err := s.authorize(ctx, userID, projectID); err != nil {
		return nil, err
	}

	upd := repository.ProjectUpdate{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" || len(name) > maxNameLength {
			return nil, apperror.Validation("Project name must not be empty")
		}
		upd.Name = &name
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		upd.Description = &description
	}

	if upd.IsEmpty() {
		return nil, apperror.Validation("no valid fields to update")
	}

	project, err := s.projects.UpdateProject(ctx, projectID, upd)
	if err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return nil, apperror.NotFound("Project not found")
		}
		return nil, apperror.Internal(fmt.Errorf("update project: %w", err))
	}

	s.metrics.IncProjectUpdated()

	return project, nil
}

// Delete removes a project the caller owns, files included.
func (s *ProjectService) Delete(ctx context.Context, userID, projectID string) error {
	if err := s.authorize(ctx, userID, projectID); err != nil {
		return err
	}

	if err := s.projects.DeleteProject(ctx, projectID); err != nil {
		if errors.Is(err, repository.ErrProjectNotFound) {
			return apperror.NotFound("Project not found")
		}
		return apperror.Internal(fmt.Errorf("delete project: %w", err))
	}

	s.metrics.IncProjectDeleted()

	return nil
}

// authorize denies access unless the user owns the project. A project
// that does not exist is denied the same way, so responses do not leak
// which IDs are taken.
func (s *ProjectService) authorize(ctx context.Context, userID, projectID string) error {
	owns, err := s.projects.IsProjectOwner(ctx, projectID, userID)
	if err != nil {
		return apperror.Internal(fmt.Errorf("check project ownership: %w", err))
	}
	if !owns {
		s.metrics.IncAuthzDenied("project")
		return apperror.Forbidden()
	}
	return nil
}
