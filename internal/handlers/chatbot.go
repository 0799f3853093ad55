package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/fixitnow/fixitnow-server/internal/ai"
	"github.com/fixitnow/fixitnow-server/internal/models"
)

// ChatbotHandler handles the free-text extraction endpoint backing the
// chat widget. intel is nil when AI is not configured.
type ChatbotHandler struct {
	intel  *ai.Client
	logger *zap.SugaredLogger
}

// NewChatbotHandler creates a new chatbot handler.
func NewChatbotHandler(intel *ai.Client, logger *zap.SugaredLogger) *ChatbotHandler {
	return &ChatbotHandler{intel: intel, logger: logger}
}

// Extract handles POST /api/v1/chatbot/extract
func (h *ChatbotHandler) Extract(w http.ResponseWriter, r *http.Request) {
	if h.intel == nil {
		respondError(w, http.StatusServiceUnavailable, "Chatbot is not available")
		return
	}

	var req models.ChatbotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.UserInput) == "" {
		respondError(w, http.StatusBadRequest, "user_input is required")
		return
	}

	report, err := h.intel.ExtractIssueReport(r.Context(), req.UserInput)
	if err != nil {
		h.logger.Errorw("Chatbot extraction failed", "error", err)
		respondError(w, http.StatusBadGateway, "Could not process your message")
		return
	}

	respondJSON(w, http.StatusOK, report)
}
