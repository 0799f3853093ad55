// Package handlers contains HTTP request handlers for the FixIt Now API.
// Handlers parse requests, call services, and return JSON responses.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fixitnow/fixitnow-server/internal/authz"
	"github.com/fixitnow/fixitnow-server/internal/models"
	"github.com/fixitnow/fixitnow-server/internal/services"
)

// ComplaintHandler handles complaint-related HTTP endpoints.
type ComplaintHandler struct {
	intakeSvc    *services.IntakeService
	triageSvc    *services.TriageService
	complaintSvc *services.ComplaintService
	logger       *zap.SugaredLogger
}

// NewComplaintHandler creates a new complaint handler.
func NewComplaintHandler(is *services.IntakeService, ts *services.TriageService, cs *services.ComplaintService, logger *zap.SugaredLogger) *ComplaintHandler {
	return &ComplaintHandler{intakeSvc: is, triageSvc: ts, complaintSvc: cs, logger: logger}
}

// Submit handles POST /api/v1/complaints
func (h *ComplaintHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ident, ok := authz.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	var req models.ComplaintSubmission
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	complaint, err := h.intakeSvc.Submit(r.Context(), ident.UserID, ident.Name, &req)
	if err != nil {
		h.logger.Errorw("Failed to create complaint", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusCreated, complaint)
}

// List handles GET /api/v1/complaints with role-based visibility scoping.
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := authz.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	complaints, err := h.complaintSvc.ListScoped(r.Context(), ident.UserID, ident.Role, ident.District)
	if err != nil {
		h.logger.Errorw("Failed to list complaints", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to list complaints")
		return
	}

	respondJSON(w, http.StatusOK, complaints)
}

// Get handles GET /api/v1/complaints/{id}
func (h *ComplaintHandler) Get(w http.ResponseWriter, r *http.Request) {
	ident, ok := authz.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	complaint, err := h.complaintSvc.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "Complaint not found")
		return
	}

	// Plain users may only see their own reports.
	if !ident.Role.IsAdmin() && complaint.UserID != ident.UserID {
		respondError(w, http.StatusNotFound, "Complaint not found")
		return
	}

	respondJSON(w, http.StatusOK, complaint)
}

// UpdateStatus handles PUT /api/v1/complaints/{id}/status (admin only).
func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid complaint id")
		return
	}

	var req models.StatusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Status.Valid() {
		respondError(w, http.StatusBadRequest, "Unknown status")
		return
	}

	complaint, err := h.triageSvc.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.logger.Errorw("Failed to update complaint status", "complaint_id", id, "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, complaint)
}

// Heatmap handles GET /api/v1/map/heatmap
func (h *ComplaintHandler) Heatmap(w http.ResponseWriter, r *http.Request) {
	ident, ok := authz.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	points, err := h.complaintSvc.Heatmap(r.Context(), ident.UserID, ident.Role, ident.District)
	if err != nil {
		h.logger.Errorw("Failed to build heatmap", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to build heatmap")
		return
	}

	respondJSON(w, http.StatusOK, points)
}

// Trends handles GET /api/v1/analytics/trends
func (h *ComplaintHandler) Trends(w http.ResponseWriter, r *http.Request) {
	trends, err := h.complaintSvc.GetTrends(r.Context(), 30)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch trends")
		return
	}
	respondJSON(w, http.StatusOK, trends)
}

// Categories handles GET /api/v1/analytics/categories
func (h *ComplaintHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.complaintSvc.GetCategoryDistribution(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	respondJSON(w, http.StatusOK, cats)
}

// Districts handles GET /api/v1/analytics/districts
func (h *ComplaintHandler) Districts(w http.ResponseWriter, r *http.Request) {
	districts, err := h.complaintSvc.GetDistrictDistribution(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch districts")
		return
	}
	respondJSON(w, http.StatusOK, districts)
}

// Helper: respond with JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Helper: respond with error
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
