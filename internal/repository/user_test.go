package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/gitreq/gitreq/internal/testutil"
)

// newTestRepository connects to the database named by DATABASE_URL and
// resets the schema. Tests are skipped when the variable is unset.
func newTestRepository(t *testing.T, ctx context.Context) *Repository {
	t.Helper()

	dbURL := testutil.RequireEnv(t, "DATABASE_URL")
	repo, err := New(ctx, dbURL)
	if err != nil {
		t.Fatalf("create repository: %v", err)
	}
	t.Cleanup(repo.Close)

	unlock, err := testutil.AcquireDBLock(ctx, repo.Pool())
	if err != nil {
		t.Fatalf("acquire db lock: %v", err)
	}
	t.Cleanup(func() {
		_ = unlock()
	})

	if err := testutil.ResetSchema(ctx, repo.Pool()); err != nil {
		t.Fatalf("reset schema: %v", err)
	}

	return repo
}

func TestRepository_CreateAndGetUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := testutil.NewTestUser(t, "alice@example.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	byID, err := repo.GetUserByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("get user by ID: %v", err)
	}
	if byID.Email != user.Email || byID.Name != user.Name {
		t.Fatalf("user mismatch: got %+v want %+v", byID, user)
	}

	byEmail, err := repo.GetUserByEmail(ctx, user.Email)
	if err != nil {
		t.Fatalf("get user by email: %v", err)
	}
	if byEmail.PasswordHash != user.PasswordHash {
		t.Fatalf("expected password hash to round-trip for login lookups")
	}
}

func TestRepository_CreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	first := testutil.NewTestUser(t, "dup@example.com")
	if err := repo.CreateUser(ctx, first); err != nil {
		t.Fatalf("create user: %v", err)
	}

	second := testutil.NewTestUser(t, "dup@example.com")
	if err := repo.CreateUser(ctx, second); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRepository_UpdateUser(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := testutil.NewTestUser(t, "update@example.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	newName := "Renamed"
	updated, err := repo.UpdateUser(ctx, user.ID, UserUpdate{Name: &newName})
	if err != nil {
		t.Fatalf("update user: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("expected renamed user, got %q", updated.Name)
	}
	if !updated.UpdatedAt.After(user.UpdatedAt) {
		t.Fatalf("expected updated_at to move forward")
	}

	if _, err := repo.UpdateUser(ctx, "missing", UserUpdate{Name: &newName}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestRepository_DeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t, ctx)

	user := testutil.NewTestUser(t, "cascade@example.com")
	if err := repo.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	project := testutil.NewTestProject(t, user.ID)
	if err := repo.CreateProject(ctx, project); err != nil {
		t.Fatalf("create project: %v", err)
	}
	file := testutil.NewTestFile(t, project.ID)
	if err := repo.CreateFile(ctx, file); err != nil {
		t.Fatalf("create file: %v", err)
	}

	if err := repo.DeleteUser(ctx, user.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	if _, err := repo.GetProjectByID(ctx, project.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("expected project to cascade away, got %v", err)
	}
	if _, err := repo.GetFileByID(ctx, file.ID); !errors.Is(err, ErrFileNotFound) {
		t.Fatalf("expected file to cascade away, got %v", err)
	}

	if err := repo.DeleteUser(ctx, user.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound on second delete, got %v", err)
	}
}
