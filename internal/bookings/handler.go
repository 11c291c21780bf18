package bookings

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/neoncare/neoncare-platform/internal/api/respond"
	"github.com/neoncare/neoncare-platform/internal/session"
	"github.com/neoncare/neoncare-platform/pkg/logging"
)

// Handler exposes the booking endpoints.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates the bookings handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// ListClinics handles GET /bookings/clinics.
func (h *Handler) ListClinics(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{"clinics": Clinics()})
}

// ListSlots handles GET /bookings/slots.
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{"timeSlots": TimeSlots()})
}

type createBookingRequest struct {
	ClinicID string `json:"clinicId"`
	Date     string `json:"date"` // YYYY-MM-DD
	TimeSlot string `json:"timeSlot"`
}

// Create handles POST /bookings. The body is run through the same selection
// rules the UI applies: an out-of-window date or unknown slot never reaches
// the store.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var sel Selection
	sel.SelectClinic(req.ClinicID)
	if req.Date != "" {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid date format, expected YYYY-MM-DD")
			return
		}
		sel.SelectDate(date)
	}
	sel.SelectTime(req.TimeSlot)

	booking, err := h.svc.Confirm(r.Context(), s.UserID, s.Email, &sel)
	if errors.Is(err, ErrSelectionIncomplete) {
		respond.Error(w, http.StatusBadRequest, "clinic, date, and time slot are all required; the date must be within one year")
		return
	}
	if err != nil {
		h.logger.Error("booking confirm failed", "error", err, "user_id", s.UserID)
		respond.Error(w, http.StatusInternalServerError, "failed to create booking")
		return
	}

	respond.JSON(w, http.StatusCreated, map[string]any{"success": true, "booking": booking})
}

// List handles GET /bookings.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	list, err := h.svc.History(r.Context(), s.UserID)
	if err != nil {
		h.logger.Error("booking list failed", "error", err, "user_id", s.UserID)
		respond.Error(w, http.StatusInternalServerError, "failed to load bookings")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"bookings": list})
}
