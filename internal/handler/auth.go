package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gitreq/gitreq/internal/auth"
	"github.com/gitreq/gitreq/internal/handler/dto"
	"github.com/gitreq/gitreq/internal/service"
)

// AuthHandler handles HTTP requests for registration, login and profile
// management.
type AuthHandler struct {
	svc    *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(svc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		svc:    svc,
		logger: logger,
	}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := h.svc.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_registered", "user_id", out.User.ID)

	writeSuccess(w, http.StatusCreated, dto.AuthResponse{User: out.User, Token: out.Token})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	out, err := h.svc.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("user_logged_in", "user_id", out.User.ID)

	writeSuccess(w, http.StatusOK, dto.AuthResponse{User: out.User, Token: out.Token})
}

// Profile handles GET /api/auth/profile.
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	user, err := h.svc.Profile(r.Context(), principal.ID)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	writeSuccess(w, http.StatusOK, user)
}

// UpdateProfile handles PATCH /api/auth/profile.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.svc.UpdateProfile(r.Context(), principal.ID, service.UpdateProfileInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("profile_updated", "user_id", principal.ID)

	writeSuccess(w, http.StatusOK, user)
}

// DeleteAccount handles DELETE /api/auth/profile.
func (h *AuthHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	principal := auth.MustPrincipalFromContext(r.Context())

	if err := h.svc.DeleteAccount(r.Context(), principal.ID); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}

	h.logger.Info("account_deleted", "user_id", principal.ID)

	w.WriteHeader(http.StatusNoContent)
}
