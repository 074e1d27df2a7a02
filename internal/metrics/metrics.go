// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Identity metrics
	IncUserRegistered()
	IncLoginAttempt(status string) // status: "success" or "failure"
	IncTokenVerified(status string) // status: "success", "invalid", "expired"
	ObserveHashDuration(duration time.Duration)

	// Authorization metrics
	IncAuthzDenied(resource string) // resource: "project" or "file"

	// Resource metrics
	IncProjectCreated()
	IncProjectUpdated()
	IncProjectDeleted()
	IncFileCreated()
	IncFileUpdated()
	IncFileDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
