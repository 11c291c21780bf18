package tips

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/neoncare/neoncare-platform/internal/api/respond"
	"github.com/neoncare/neoncare-platform/internal/session"
	"github.com/neoncare/neoncare-platform/pkg/logging"
)

// Handler exposes the chat-tip endpoints.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates the tips handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

type chatRequest struct {
	Message             string        `json:"message"`
	ConversationHistory []ChatMessage `json:"conversationHistory"`
}

// Chat handles POST /functions/v1/groq-chat. The response carries the
// assistant text plus its confidence score.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.svc.Ask(r.Context(), s.UserID, req.Message, req.ConversationHistory)
	switch {
	case errors.Is(err, ErrEmptyMessage):
		respond.Error(w, http.StatusBadRequest, "Message is required")
		return
	case errors.Is(err, ErrQuotaExceeded):
		respond.Error(w, http.StatusPaymentRequired, "daily free tip limit reached, upgrade to premium for unlimited tips")
		return
	case err != nil:
		h.logger.Error("tip request failed", "error", err, "user_id", s.UserID)
		respond.Error(w, http.StatusBadGateway, "failed to get AI response")
		return
	}

	respond.JSON(w, http.StatusOK, result)
}

// History handles GET /tips. It returns the user's most recent exchanges.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	list, err := h.svc.History(r.Context(), s.UserID)
	if err != nil {
		h.logger.Error("tip history failed", "error", err, "user_id", s.UserID)
		respond.Error(w, http.StatusInternalServerError, "failed to load tips")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"tips": list})
}
