package payments

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/neoncare/neoncare-platform/internal/api/respond"
	"github.com/neoncare/neoncare-platform/internal/session"
	"github.com/neoncare/neoncare-platform/pkg/logging"
)

// Handler exposes the checkout and verification endpoints.
type Handler struct {
	svc    *Service
	logger *logging.Logger
}

// NewHandler creates the payments handler.
func NewHandler(svc *Service, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, logger: logger}
}

// ListPlans handles GET /payments/plans.
func (h *Handler) ListPlans(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{"plans": Plans()})
}

type paystackCheckoutRequest struct {
	Email     string  `json:"email"`
	Amount    float64 `json:"amount"`
	PlanName  string  `json:"planName"`
	Reference string  `json:"reference"`
}

// PaystackCheckout handles POST /functions/v1/paystack-payment.
func (h *Handler) PaystackCheckout(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req paystackCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Amount == 0 || req.PlanName == "" {
		respond.Error(w, http.StatusBadRequest, "Missing required fields: email, amount, or planName")
		return
	}

	checkout, err := h.svc.StartPaystackCheckout(r.Context(), s.UserID, req.Email, req.PlanName, req.Amount, req.Reference)
	if errors.Is(err, ErrGatewayNotConfigured) {
		respond.Error(w, http.StatusInternalServerError, "Paystack secret key not configured")
		return
	}
	if err != nil {
		h.logger.Error("paystack checkout failed", "error", err, "user_id", s.UserID)
		respond.Error(w, http.StatusBadRequest, "Failed to initialize payment")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"authorizationUrl": checkout.AuthorizationURL,
		"accessCode":       checkout.AccessCode,
		"reference":        checkout.Reference,
	})
}

type intasendCheckoutRequest struct {
	Amount   float64 `json:"amount"`
	Email    string  `json:"email"`
	PlanName string  `json:"planName"`
}

// IntaSendCheckout handles POST /functions/v1/intasend-pay.
func (h *Handler) IntaSendCheckout(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req intasendCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Amount == 0 || req.Email == "" || req.PlanName == "" {
		respond.Error(w, http.StatusBadRequest, "Missing required fields: amount, email, and planName")
		return
	}

	url, err := h.svc.StartIntaSendCheckout(r.Context(), s.UserID, req.Email, req.PlanName, req.Amount, r.Header.Get("Origin"))
	if errors.Is(err, ErrGatewayNotConfigured) {
		respond.Error(w, http.StatusInternalServerError, "Server configuration error.")
		return
	}
	if err != nil {
		h.logger.Error("intasend checkout failed", "error", err, "user_id", s.UserID)
		respond.Error(w, http.StatusBadGateway, "Failed to create IntaSend checkout session")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{"url": url})
}

type verifyRequest struct {
	Reference string `json:"reference"`
}

// Verify handles POST /functions/v1/verify-payment. Verification runs
// entirely server side; the client never decides premium status.
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Reference == "" {
		h.verifyError(w, "Missing required field: reference")
		return
	}

	outcome, err := h.svc.VerifyAndUpgrade(r.Context(), req.Reference)
	switch {
	case errors.Is(err, ErrPaymentNotSuccessful):
		h.verifyError(w, "Payment was not successful")
		return
	case errors.Is(err, ErrUserIDMissing):
		h.verifyError(w, "User ID not found in payment metadata")
		return
	case errors.Is(err, ErrGatewayNotConfigured):
		respond.Error(w, http.StatusInternalServerError, "Paystack secret key not configured")
		return
	case err != nil:
		h.logger.Error("payment verification failed", "error", err, "reference", req.Reference)
		h.verifyError(w, "Failed to verify payment")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"status":    "success",
		"userId":    outcome.UserID,
		"reference": outcome.Reference,
		"amount":    outcome.AmountKES,
		"paidAt":    outcome.PaidAt,
	})
}

func (h *Handler) verifyError(w http.ResponseWriter, msg string) {
	respond.JSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"status":  "error",
		"error":   msg,
	})
}
