package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gitreq/gitreq/internal/auth"
	"github.com/gitreq/gitreq/internal/handler/dto"
	"github.com/gitreq/gitreq/internal/service"
)

// FileHandler handles HTTP requests for file operations.
type FileHandler struct {
	svc    *service.FileService
	logger *slog.Logger
}

// NewFileHandler creates a new FileHandler.
func NewFileHandler(svc *service.FileService, logger *slog.Logger) *FileHandler {
	return &FileHandler{
		svc:    svc,
		logger: logger,
	}
}

// Create handles POST /api/files.
func (h *FileHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	var req dto.CreateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	file, err := h.svc.Create(r.Context(), principal.ID, service.CreateFileInput{
		ProjectID: req.ProjectID,
		Name:      req.Name,
		Content:   req.Content,
		Type:      req.Type,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("file_created", "file_id", file.ID, "project_id", file.ProjectID)

	writeSuccess(w, http.StatusCreated, file)
}

// ListForProject handles GET /api/files/project/{projectId}.
func (h *FileHandler) ListForProject(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())
	projectID := chi.URLParam(r, "projectId")

	limit, offset := parsePagination(r)
	files, err := h.svc.ListForProject(r.Context(), principal.ID, service.ListForProjectInput{
		ProjectID: projectID,
		Type:      r.URL.Query().Get("type"),
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, files)
}

// Get handles GET /api/files/{id}.
func (h *FileHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	file, err := h.svc.Get(r.Context(), principal.ID, id)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, file)
}

// Update handles PUT /api/files/{id}.
func (h *FileHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req dto.UpdateFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	file, err := h.svc.Update(r.Context(), principal.ID, id, service.UpdateFileInput{
		Name:    req.Name,
		Content: req.Content,
		Type:    req.Type,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("file_updated", "file_id", file.ID)

	writeSuccess(w, http.StatusOK, file)
}

// Delete handles DELETE /api/files/{id}.
func (h *FileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if err := h.svc.Delete(r.Context(), principal.ID, id); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("file_deleted", "file_id", id)

	w.WriteHeader(http.StatusNoContent)
}
