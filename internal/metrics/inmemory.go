package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UsersRegistered     uint64
	LoginSuccesses      uint64
	LoginFailures       uint64
	TokensVerified      uint64
	TokensInvalid       uint64
	TokensExpired       uint64
	HashDurationCount   uint64
	HashDurationTotalNs int64
	AuthzDeniedProject  uint64
	AuthzDeniedFile     uint64
	ProjectsCreated     uint64
	ProjectsUpdated     uint64
	ProjectsDeleted     uint64
	FilesCreated        uint64
	FilesUpdated        uint64
	FilesDeleted        uint64
}

// InMemoryRecorder stores metrics in memory for tests and the debug endpoint.
type InMemoryRecorder struct {
	usersRegistered     uint64
	loginSuccesses      uint64
	loginFailures       uint64
	tokensVerified      uint64
	tokensInvalid       uint64
	tokensExpired       uint64
	hashDurationCount   uint64
	hashDurationTotalNs int64
	authzDeniedProject  uint64
	authzDeniedFile     uint64
	projectsCreated     uint64
	projectsUpdated     uint64
	projectsDeleted     uint64
	filesCreated        uint64
	filesUpdated        uint64
	filesDeleted        uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UsersRegistered:     atomic.LoadUint64(&m.usersRegistered),
		LoginSuccesses:      atomic.LoadUint64(&m.loginSuccesses),
		LoginFailures:       atomic.LoadUint64(&m.loginFailures),
		TokensVerified:      atomic.LoadUint64(&m.tokensVerified),
		TokensInvalid:       atomic.LoadUint64(&m.tokensInvalid),
		TokensExpired:       atomic.LoadUint64(&m.tokensExpired),
		HashDurationCount:   atomic.LoadUint64(&m.hashDurationCount),
		HashDurationTotalNs: atomic.LoadInt64(&m.hashDurationTotalNs),
		AuthzDeniedProject:  atomic.LoadUint64(&m.authzDeniedProject),
		AuthzDeniedFile:     atomic.LoadUint64(&m.authzDeniedFile),
		ProjectsCreated:     atomic.LoadUint64(&m.projectsCreated),
		ProjectsUpdated:     atomic.LoadUint64(&m.projectsUpdated),
		ProjectsDeleted:     atomic.LoadUint64(&m.projectsDeleted),
		FilesCreated:        atomic.LoadUint64(&m.filesCreated),
		FilesUpdated:        atomic.LoadUint64(&m.filesUpdated),
		FilesDeleted:        atomic.LoadUint64(&m.filesDeleted),
	}
}

// IncUserRegistered increments the registration counter.
func (m *InMemoryRecorder) IncUserRegistered() {
	atomic.AddUint64(&m.usersRegistered, 1)
}

// IncLoginAttempt increments the login counter for the outcome.
func (m *InMemoryRecorder) IncLoginAttempt(status string) {
	if status == "success" {
		atomic.AddUint64(&m.loginSuccesses, 1)
		return
	}
	atomic.AddUint64(&m.loginFailures, 1)
}

// IncTokenVerified increments the token verification counter for the outcome.
func (m *InMemoryRecorder) IncTokenVerified(status string) {
	switch status {
	case "success":
		atomic.AddUint64(&m.tokensVerified, 1)
	case "expired":
		atomic.AddUint64(&m.tokensExpired, 1)
	default:
		atomic.AddUint64(&m.tokensInvalid, 1)
	}
}

// ObserveHashDuration records a password hashing duration.
func (m *InMemoryRecorder) ObserveHashDuration(duration time.Duration) {
	atomic.AddUint64(&m.hashDurationCount, 1)
	atomic.AddInt64(&m.hashDurationTotalNs, duration.Nanoseconds())
}

// IncAuthzDenied increments the authorization denial counter for the resource.
func (m *InMemoryRecorder) IncAuthzDenied(resource string) {
	if resource == "file" {
		atomic.AddUint64(&m.authzDeniedFile, 1)
		return
	}
	atomic.AddUint64(&m.authzDeniedProject, 1)
}

// IncProjectCreated increments the project created counter.
func (m *InMemoryRecorder) IncProjectCreated() {
	atomic.AddUint64(&m.projectsCreated, 1)
}

// IncProjectUpdated increments the project updated counter.
func (m *InMemoryRecorder) IncProjectUpdated() {
	atomic.AddUint64(&m.projectsUpdated, 1)
}

// IncProjectDeleted increments the project deleted counter.
func (m *InMemoryRecorder) IncProjectDeleted() {
	atomic.AddUint64(&m.projectsDeleted, 1)
}

// IncFileCreated increments the file created counter.
func (m *InMemoryRecorder) IncFileCreated() {
	atomic.AddUint64(&m.filesCreated, 1)
}

// IncFileUpdated increments the file updated counter.
func (m *InMemoryRecorder) IncFileUpdated() {
	atomic.AddUint64(&m.filesUpdated, 1)
}

// IncFileDeleted increments the file deleted counter.
func (m *InMemoryRecorder) IncFileDeleted() {
	atomic.AddUint64(&m.filesDeleted, 1)
}
