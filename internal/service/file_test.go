package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitreq/gitreq/internal/apperror"
	"github.com/gitreq/gitreq/internal/model"
)

// fileFixture wires a file service on top of shared project state so the
// derived-ownership paths behave like the real JOIN-backed queries.
type fileFixture struct {
	files    *FileService
	projects *ProjectService
	owner    string
	project  *model.Project
}

func newFileFixture(t *testing.T) *fileFixture {
	t.Helper()
	projectStore := newFakeProjectStore()
	fileStore := newFakeFileStore(projectStore)

	projects := NewProjectService(projectStore, nil)
	files := NewFileService(fileStore, projectStore, nil)

	project, err := projects.Create(context.Background(), "owner-1", CreateProjectInput{Name: "workspace"})
	require.NoError(t, err)

	return &fileFixture{files: files, projects: projects, owner: "owner-1", project: project}
}

func (fx *fileFixture) seedFile(t *testing.T, name string) *model.File {
	t.Helper()
	file, err := fx.files.Create(context.Background(), fx.owner, CreateFileInput{
		ProjectID: fx.project.ID,
		Name:      name,
		Content:   "# hello",
		Type:      "markdown",
	})
	require.NoError(t, err)
	return file
}

func TestFileCreate(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)

	file, err := fx.files.Create(ctx, fx.owner, CreateFileInput{
		ProjectID: fx.project.ID,
		Name:      "notes.md",
		Content:   "# notes",
		Type:      "markdown",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, file.ID)
	assert.Equal(t, "notes.md", file.Name)
	assert.Equal(t, model.FileTypeMarkdown, file.Type)
	assert.Equal(t, fx.project.ID, file.ProjectID)
}

func TestFileCreateDefaultsToMarkdown(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)

	file, err := fx.files.Create(ctx, fx.owner, CreateFileInput{
		ProjectID: fx.project.ID,
		Name:      "untyped",
	})
	require.NoError(t, err)
	assert.Equal(t, model.FileTypeMarkdown, file.Type)
}

func TestFileCreateRejectsUnknownType(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)

	_, err := fx.files.Create(ctx, fx.owner, CreateFileInput{
		ProjectID: fx.project.ID,
		Name:      "binary.xlsx",
		Type:      "xlsx",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apperror.From(err).Status)
}

func TestFileCreateInForeignProjectDenied(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)

	_, err := fx.files.Create(ctx, "owner-2", CreateFileInput{
		ProjectID: fx.project.ID,
		Name:      "sneaky.md",
	})
	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, http.StatusForbidden, appErr.Status)
	assert.Equal(t, "Access denied", appErr.Message)
}

func TestFileGetViaParentOwnership(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)
	file := fx.seedFile(t, "readme.md")

	got, err := fx.files.Get(ctx, fx.owner, file.ID)
	require.NoError(t, err)
	assert.Equal(t, file.ID, got.ID)
	assert.Equal(t, "# hello", got.Content)

	_, err = fx.files.Get(ctx, "owner-2", file.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.From(err).Status)
}

func TestFileGetMissingLooksLikeDenied(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)
	file := fx.seedFile(t, "readme.md")

	_, errForeign := fx.files.Get(ctx, "owner-2", file.ID)
	_, errMissing := fx.files.Get(ctx, "owner-2", "does-not-exist")

	require.Error(t, errForeign)
	require.Error(t, errMissing)
	assert.Equal(t, apperror.From(errForeign).Status, apperror.From(errMissing).Status,
		"a foreign file and a missing file must be indistinguishable")
}

func TestFileUpdate(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)
	file := fx.seedFile(t, "data.md")

	newContent := "a,b\n1,2"
	newType := "csv"
	updated, err := fx.files.Update(ctx, fx.owner, file.ID, UpdateFileInput{
		Content: &newContent,
		Type:    &newType,
	})
	require.NoError(t, err)
	assert.Equal(t, "a,b\n1,2", updated.Content)
	assert.Equal(t, model.FileTypeCSV, updated.Type)
}

func TestFileUpdateNoFields(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)
	file := fx.seedFile(t, "data.md")

	_, err := fx.files.Update(ctx, fx.owner, file.ID, UpdateFileInput{})
	require.Error(t, err)
	appErr := apperror.From(err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
	assert.Equal(t, "no valid fields to update", appErr.Message)
}

func TestFileUpdateByNonOwnerDenied(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)
	file := fx.seedFile(t, "data.md")

	newName := "stolen.md"
	_, err := fx.files.Update(ctx, "owner-2", file.ID, UpdateFileInput{Name: &newName})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.From(err).Status)
}

func TestFileDelete(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)
	file := fx.seedFile(t, "data.md")

	require.NoError(t, fx.files.Delete(ctx, fx.owner, file.ID))

	// Gone now, so the owner is denied like anyone else.
	err := fx.files.Delete(ctx, fx.owner, file.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.From(err).Status)
}

func TestFileListForProject(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)
	fx.seedFile(t, "a.md")
	fx.seedFile(t, "b.md")

	files, err := fx.files.ListForProject(ctx, fx.owner, ListForProjectInput{ProjectID: fx.project.ID})
	require.NoError(t, err)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.Empty(t, f.Content, "listings omit content")
	}

	_, err = fx.files.ListForProject(ctx, "owner-2", ListForProjectInput{ProjectID: fx.project.ID})
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.From(err).Status)
}

func TestFileListFilterByType(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)
	fx.seedFile(t, "doc.md")

	_, err := fx.files.Create(ctx, fx.owner, CreateFileInput{
		ProjectID: fx.project.ID,
		Name:      "data.csv",
		Type:      "csv",
	})
	require.NoError(t, err)

	files, err := fx.files.ListForProject(ctx, fx.owner, ListForProjectInput{
		ProjectID: fx.project.ID,
		Type:      "csv",
	})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, model.FileTypeCSV, files[0].Type)
}

func TestFileAccessLostWhenProjectDeleted(t *testing.T) {
	ctx := context.Background()
	fx := newFileFixture(t)
	file := fx.seedFile(t, "orphan.md")

	require.NoError(t, fx.projects.Delete(ctx, fx.owner, fx.project.ID))

	_, err := fx.files.Get(ctx, fx.owner, file.ID)
	require.Error(t, err)
	assert.Equal(t, http.StatusForbidden, apperror.From(err).Status)
}
