package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gitreq/gitreq/internal/model"
)

// ErrProjectNotFound indicates the project row is absent.
var ErrProjectNotFound = errors.New("project not found")

// ProjectUpdate carries the allow-listed mutable project fields.
// Nil means "leave unchanged". owner_id is deliberately absent:
// ownership is never reassigned by an update.
type ProjectUpdate struct {
	Name        *string
	Description *string
}

// IsEmpty reports whether no field is set.
func (u ProjectUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil
}

// CreateProject inserts a new project into the database.
func (r *Repository) CreateProject(ctx context.Context, project *model.Project) error {
	query := `
		INSERT INTO projects (id, name, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.Name,
		project.Description,
		project.OwnerID,
		project.CreatedAt,
		project.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}

	return nil
}

// GetProjectByID retrieves a project by its ID.
func (r *Repository) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM projects
		WHERE id = $1
	`

	project, err := scanProject(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project by ID: %w", err)
	}

	return project, nil
}

// ListProjectsByOwner retrieves the owner's projects, most recently
// updated first.
func (r *Repository) ListProjectsByOwner(ctx context.Context, ownerID string, limit, offset int) ([]*model.Project, error) {
	query := `
		SELECT id, name, description, owner_id, created_at, updated_at
		FROM projects
		WHERE owner_id = $1
		ORDER BY updated_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []*model.Project
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, &p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating projects: %w", err)
	}

	return projects, nil
}

// UpdateProject applies the allow-listed fields and bumps updated_at.
// Returns ErrProjectNotFound when the row is absent.
func (r *Repository) UpdateProject(ctx context.Context, id string, upd ProjectUpdate) (*model.Project, error) {
	sets := make([]string, 0, 2)
	args := []any{id}

	if upd.Name != nil {
		args = append(args, *upd.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.Description != nil {
		args = append(args, *upd.Description)
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)))
	}

	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf(`
		UPDATE projects
		SET %s
		WHERE id = $1
		RETURNING id, name, description, owner_id, created_at, updated_at
	`, strings.Join(sets, ", "))

	project, err := scanProject(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return project, nil
}

// DeleteProject removes a project. Its files go with it via the schema's
// ON DELETE CASCADE rule.
func (r *Repository) DeleteProject(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrProjectNotFound
	}

	return nil
}

// IsProjectOwner reports whether the user owns the project.
// A missing project yields false, not an error; callers needing to
// distinguish 403 from 404 do a separate existence check.
func (r *Repository) IsProjectOwner(ctx context.Context, projectID, userID string) (bool, error) {
	query := `SELECT owner_id FROM projects WHERE id = $1`

	var ownerID string
	err := r.pool.QueryRow(ctx, query, projectID).Scan(&ownerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check project ownership: %w", err)
	}

	return ownerID == userID, nil
}

// scanProject scans a single row into a Project model.
func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.OwnerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
