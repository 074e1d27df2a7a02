package handler

import (
	"fmt"
	"net/http"

	"github.com/gitreq/gitreq/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "gitreq_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "gitreq_login_attempts_total{status=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "gitreq_login_attempts_total{status=\"failure\"} %d\n", snap.LoginFailures)

	writeMetric(w, "gitreq_tokens_verified_total{status=\"success\"} %d\n", snap.TokensVerified)
	writeMetric(w, "gitreq_tokens_verified_total{status=\"invalid\"} %d\n", snap.TokensInvalid)
	writeMetric(w, "gitreq_tokens_verified_total{status=\"expired\"} %d\n", snap.TokensExpired)

	writeMetric(w, "gitreq_password_hash_duration_seconds_count %d\n", snap.HashDurationCount)
	writeMetric(w, "gitreq_password_hash_duration_seconds_sum %.6f\n", float64(snap.HashDurationTotalNs)/1e9)

	writeMetric(w, "gitreq_authz_denied_total{resource=\"project\"} %d\n", snap.AuthzDeniedProject)
	writeMetric(w, "gitreq_authz_denied_total{resource=\"file\"} %d\n", snap.AuthzDeniedFile)

	writeMetric(w, "gitreq_projects_created_total %d\n", snap.ProjectsCreated)
	writeMetric(w, "gitreq_projects_updated_total %d\n", snap.ProjectsUpdated)
	writeMetric(w, "gitreq_projects_deleted_total %d\n", snap.ProjectsDeleted)

	writeMetric(w, "gitreq_files_created_total %d\n", snap.FilesCreated)
	writeMetric(w, "gitreq_files_updated_total %d\n", snap.FilesUpdated)
	writeMetric(w, "gitreq_files_deleted_total %d\n", snap.FilesDeleted)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
