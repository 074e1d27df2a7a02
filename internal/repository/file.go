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

// ErrFileNotFound indicates the file row is absent.
var ErrFileNotFound = errors.New("file not found")

// FileUpdate carries the allow-listed mutable file fields.
// Nil means "leave unchanged". project_id is deliberately absent:
// a file never moves between projects.
type FileUpdate struct {
	Name    *string
	Content *string
	Type    *model.FileType
}

// IsEmpty reports whether no field is set.
func (u FileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Content == nil && u.Type == nil
}

// FileFilter defines filters for listing files within a project.
type FileFilter struct {
	Type model.FileType // empty means all types
}

// CreateFile inserts a new file into the database.
func (r *Repository) CreateFile(ctx context.Context, file *model.File) error {
	query := `
		INSERT INTO files (id, name, content, type, project_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		file.ID,
		file.Name,
		file.Content,
		file.Type,
		file.ProjectID,
		file.CreatedAt,
		file.UpdatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	return nil
}

// GetFileByID retrieves a file by its ID, content included.
func (r *Repository) GetFileByID(ctx context.Context, id string) (*model.File, error) {
	query := `
		SELECT id, name, content, type, project_id, created_at, updated_at
		FROM files
		WHERE id = $1
	`

	file, err := scanFile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to get file by ID: %w", err)
	}

	return file, nil
}

// ListFilesByProject retrieves a project's files, most recently updated
// first. Content is omitted from listings; fetch a single file for it.
func (r *Repository) ListFilesByProject(ctx context.Context, projectID string, filter FileFilter, limit, offset int) ([]*model.File, error) {
	query := `
		SELECT id, name, type, project_id, created_at, updated_at
		FROM files
		WHERE project_id = $1
	`
	args := []any{projectID}

	if filter.Type != "" {
		args = append(args, filter.Type)
		query += fmt.Sprintf(" AND type = $%d", len(args))
	}

	query += fmt.Sprintf(" ORDER BY updated_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	var files []*model.File
	for rows.Next() {
		var f model.File
		if err := rows.Scan(&f.ID, &f.Name, &f.Type, &f.ProjectID, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file: %w", err)
		}
		files = append(files, &f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating files: %w", err)
	}

	return files, nil
}

// UpdateFile applies the allow-listed fields and bumps updated_at.
// Returns ErrFileNotFound when the row is absent.
func (r *Repository) UpdateFile(ctx context.Context, id string, upd FileUpdate) (*model.File, error) {
	sets := make([]string, 0, 3)
	args := []any{id}

	if upd.Name != nil {
		args = append(args, *upd.Name)
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)))
	}
	if upd.Content != nil {
		args = append(args, *upd.Content)
		sets = append(sets, fmt.Sprintf("content = $%d", len(args)))
	}
	if upd.Type != nil {
		args = append(args, *upd.Type)
		sets = append(sets, fmt.Sprintf("type = $%d", len(args)))
	}

	args = append(args, time.Now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))

	query := fmt.Sprintf(`
		UPDATE files
		SET %s
		WHERE id = $1
		RETURNING id, name, content, type, project_id, created_at, updated_at
	`, strings.Join(sets, ", "))

	file, err := scanFile(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to update file: %w", err)
	}

	return file, nil
}

// DeleteFile removes a file.
func (r *Repository) DeleteFile(ctx context.Context, id string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrFileNotFound
	}

	return nil
}

// HasFileAccess reports whether the user owns the file's parent project.
// Single relational lookup: files join projects on project_id, compare
// owner_id. A missing file yields false, not an error.
func (r *Repository) HasFileAccess(ctx context.Context, fileID, userID string) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1
			FROM files f
			INNER JOIN projects p ON f.project_id = p.id
			WHERE f.id = $1 AND p.owner_id = $2
		)
	`

	var hasAccess bool
	if err := r.pool.QueryRow(ctx, query, fileID, userID).Scan(&hasAccess); err != nil {
		return false, fmt.Errorf("failed to check file access: %w", err)
	}

	return hasAccess, nil
}

// scanFile scans a single row into a File model.
func scanFile(row pgx.Row) (*model.File, error) {
	var f model.File
	err := row.Scan(
		&f.ID,
		&f.Name,
		&f.Content,
		&f.Type,
		&f.ProjectID,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
