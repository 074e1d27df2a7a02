// Package testutil provides shared helpers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/gitreq/gitreq/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 730731

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// migrationFiles lists the schema migrations in dependency order.
var migrationFiles = []string{
	"000001_users",
	"000002_projects",
	"000003_files",
}

// ResetSchema drops and recreates the full schema for tests. Down
// migrations run in reverse order so foreign keys unwind cleanly.
func ResetSchema(ctx context.Context, pool *pgxpool.Pool) error {
	root, err := ProjectRoot()
	if err != nil {
		return err
	}

	for i := len(migrationFiles) - 1; i >= 0; i-- {
		if err := applyMigration(ctx, pool, root, migrationFiles[i]+".down.sql"); err != nil {
			return err
		}
	}
	for _, name := range migrationFiles {
		if err := applyMigration(ctx, pool, root, name+".up.sql"); err != nil {
			return err
		}
	}

	return nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, root, filename string) error {
	sql, err := os.ReadFile(filepath.Join(root, "migrations", filename))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filename, err)
	}
	if _, err := pool.Exec(ctx, string(sql)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filename, err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// UniqueID returns a fresh entity ID for test fixtures.
func UniqueID() string {
	return ulid.Make().String()
}

// NewTestUser creates a test user with sensible defaults.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC()
	return &model.User{
		ID:           UniqueID(),
		Email:        email,
		PasswordHash: "$2a$04$C6UzMDM.H6dfI/f/IKcEeO5cEf0hL5kqBoNQkMqTUPsO1nO9kZmxu",
		Name:         "Test User",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestProject creates a test project owned by the given user.
func NewTestProject(t testing.TB, ownerID string) *model.Project {
	t.Helper()
	now := time.Now().UTC()
	return &model.Project{
		ID:          UniqueID(),
		Name:        "Test Project",
		Description: "fixture project",
		OwnerID:     ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTestFile creates a test file inside the given project.
func NewTestFile(t testing.TB, projectID string) *model.File {
	t.Helper()
	now := time.Now().UTC()
	return &model.File{
		ID:        UniqueID(),
		Name:      "notes.md",
		Content:   "# notes",
		Type:      model.FileTypeMarkdown,
		ProjectID: projectID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
