package notify

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/neoncare/neoncare-platform/internal/api/respond"
	"github.com/neoncare/neoncare-platform/pkg/logging"
)

// Handler exposes the send-booking-email endpoint.
type Handler struct {
	sender EmailSender
	logger *logging.Logger
}

// NewHandler creates the email handler.
func NewHandler(sender EmailSender, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{sender: sender, logger: logger}
}

type sendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// SendEmail handles POST /functions/v1/send-booking-email.
// Contract: {to, subject, html} -> {success, data}; a missing field is a 400
// naming the field and no send is attempted.
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var missing []string
	if strings.TrimSpace(req.To) == "" {
		missing = append(missing, "to")
	}
	if strings.TrimSpace(req.Subject) == "" {
		missing = append(missing, "subject")
	}
	if strings.TrimSpace(req.HTML) == "" {
		missing = append(missing, "html")
	}
	if len(missing) > 0 {
		respond.Error(w, http.StatusBadRequest, "Missing required fields: "+strings.Join(missing, ", "))
		return
	}

	if h.sender == nil {
		respond.Error(w, http.StatusInternalServerError, "email sender not configured")
		return
	}

	msg := EmailMessage{To: req.To, Subject: req.Subject, HTML: req.HTML}
	if err := h.sender.Send(r.Context(), msg); err != nil {
		h.logger.Error("send email failed", "error", err, "to", req.To)
		respond.Error(w, http.StatusBadGateway, err.Error())
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"data":    map[string]string{"to": req.To, "subject": req.Subject},
	})
}
