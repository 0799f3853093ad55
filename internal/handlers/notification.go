package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fixitnow/fixitnow-server/internal/authz"
	"github.com/fixitnow/fixitnow-server/internal/services"
)

// NotificationHandler handles notification endpoints.
type NotificationHandler struct {
	svc    *services.NotificationService
	logger *zap.SugaredLogger
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(svc *services.NotificationService, logger *zap.SugaredLogger) *NotificationHandler {
	return &NotificationHandler{svc: svc, logger: logger}
}

// List handles GET /api/v1/notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ident, ok := authz.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	notifs, err := h.svc.ListForUser(r.Context(), ident.UserID, 50)
	if err != nil {
		h.logger.Errorw("Failed to list notifications", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch notifications")
		return
	}

	respondJSON(w, http.StatusOK, notifs)
}

// MarkRead handles POST /api/v1/notifications/read and flips every unread
// notification for the caller in one write.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ident, ok := authz.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Authorization required")
		return
	}

	updated, err := h.svc.MarkAllRead(r.Context(), ident.UserID)
	if err != nil {
		h.logger.Errorw("Failed to mark notifications read", "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to update notifications")
		return
	}

	respondJSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
