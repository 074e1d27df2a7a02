package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncUserRegistered is a no-op.
func (n *NoopRecorder) IncUserRegistered() {}

// IncLoginAttempt is a no-op.
func (n *NoopRecorder) IncLoginAttempt(status string) {}

// IncTokenVerified is a no-op.
func (n *NoopRecorder) IncTokenVerified(status string) {}

// ObserveHashDuration is a no-op.
func (n *NoopRecorder) ObserveHashDuration(duration time.Duration) {}

// IncAuthzDenied is a no-op.
func (n *NoopRecorder) IncAuthzDenied(resource string) {}

// IncProjectCreated is a no-op.
func (n *NoopRecorder) IncProjectCreated() {}

// IncProjectUpdated is a no-op.
func (n *NoopRecorder) IncProjectUpdated() {}

// IncProjectDeleted is a no-op.
func (n *NoopRecorder) IncProjectDeleted() {}

// IncFileCreated is a no-op.
func (n *NoopRecorder) IncFileCreated() {}

// IncFileUpdated is a no-op.
func (n *NoopRecorder) IncFileUpdated() {}

// IncFileDeleted is a no-op.
func (n *NoopRecorder) IncFileDeleted() {}
