package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/fixitnow/fixitnow-server/internal/authz"
	"github.com/fixitnow/fixitnow-server/internal/models"
	"github.com/fixitnow/fixitnow-server/internal/services"
)

// AuthHandler handles sign-up and sign-in endpoints.
type AuthHandler struct {
	authSvc *services.AuthService
	userSvc *services.UserService
	logger  *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(as *services.AuthService, us *services.UserService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{authSvc: as, userSvc: us, logger: logger}
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.authSvc.Register(r.Context(), &req)
	if err != nil {
		h.logger.Warnw("Registration failed", "error", err)
		respondError(w, http.StatusBadRequest, "Could not create account")
		return
	}

	respondJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authSvc.Login)
}

// AdminLogin handles POST /api/v1/auth/admin/login. The denial is the same
// generic message whether the password was wrong or the role insufficient.
func (h *AuthHandler) AdminLogin(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, h.authSvc.AdminLogin)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, req *models.LoginRequest) (*models.AuthResponse, error)) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := fn(r.Context(), &req)
	if err != nil {
		respondError(w, http.StatusUnauthorized, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/v1/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := authz.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	profile, err := h.userSvc.FindByID(r.Context(), ident.UserID)
	if err != nil {
		respondError(w, http.StatusNotFound, "Profile not found")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
