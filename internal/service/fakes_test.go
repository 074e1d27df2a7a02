package service

import (
	"context"
	"sync"

	"github.com/gitreq/gitreq/internal/model"
	"github.com/gitreq/gitreq/internal/repository"
)

// In-memory store fakes. They mirror the repository contracts closely
// enough for the ownership and validation paths under test, including
// the sentinel errors the services branch on.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by ID
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *model.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeUserStore) UpdateUser(_ context.Context, id string, upd repository.UserUpdate) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if upd.Email != nil {
		for otherID, other := range f.users {
			if otherID != id && other.Email == *upd.Email {
				return nil, repository.ErrEmailExists
			}
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserStore) DeleteUser(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

type fakeProjectStore struct {
	mu       sync.Mutex
	projects map[string]*model.Project
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: make(map[string]*model.Project)}
}

func (f *fakeProjectStore) CreateProject(_ context.Context, project *model.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *project
	f.projects[project.ID] = &cp
	return nil
}

func (f *fakeProjectStore) GetProjectByID(_ context.Context, id string) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectStore) ListProjectsByOwner(_ context.Context, ownerID string, limit, offset int) ([]*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.Project
	for _, p := range f.projects {
		if p.OwnerID == ownerID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProjectStore) UpdateProject(_ context.Context, id string, upd repository.ProjectUpdate) (*model.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[id]
	if !ok {
		return nil, repository.ErrProjectNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProjectStore) DeleteProject(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.projects[id]; !ok {
		return repository.ErrProjectNotFound
	}
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectStore) IsProjectOwner(_ context.Context, projectID, userID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.projects[projectID]
	if !ok {
		return false, nil
	}
	return p.OwnerID == userID, nil
}

type fakeFileStore struct {
	mu       sync.Mutex
	files    map[string]*model.File
	projects *fakeProjectStore
}

func newFakeFileStore(projects *fakeProjectStore) *fakeFileStore {
	return &fakeFileStore{files: make(map[string]*model.File), projects: projects}
}

func (f *fakeFileStore) CreateFile(_ context.Context, file *model.File) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *file
	f.files[file.ID] = &cp
	return nil
}

func (f *fakeFileStore) GetFileByID(_ context.Context, id string) (*model.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.files[id]
	if !ok {
		return nil, repository.ErrFileNotFound
	}
	cp := *fl
	return &cp, nil
}

func (f *fakeFileStore) ListFilesByProject(_ context.Context, projectID string, filter repository.FileFilter, limit, offset int) ([]*model.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.File
	for _, fl := range f.files {
		if fl.ProjectID != projectID {
			continue
		}
		if filter.Type != "" && fl.Type != filter.Type {
			continue
		}
		cp := *fl
		cp.Content = ""
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeFileStore) UpdateFile(_ context.Context, id string, upd repository.FileUpdate) (*model.File, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fl, ok := f.files[id]
	if !ok {
		return nil, repository.ErrFileNotFound
	}
	if upd.Name != nil {
		fl.Name = *upd.Name
	}
	if upd.Content != nil {
		fl.Content = *upd.Content
	}
	if upd.Type != nil {
		fl.Type = *upd.Type
	}
	cp := *fl
	return &cp, nil
}

func (f *fakeFileStore) DeleteFile(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[id]; !ok {
		return repository.ErrFileNotFound
	}
	delete(f.files, id)
	return nil
}

func (f *fakeFileStore) HasFileAccess(_ context.Context, fileID, userID string) (bool, error) {
	f.mu.Lock()
	fl, ok := f.files[fileID]
	f.mu.Unlock()
	if !ok {
		return false, nil
	}
	return f.projects.IsProjectOwner(context.Background(), fl.ProjectID, userID)
}
