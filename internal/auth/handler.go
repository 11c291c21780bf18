package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/neoncare/neoncare-platform/internal/api/respond"
	"github.com/neoncare/neoncare-platform/internal/session"
	"github.com/neoncare/neoncare-platform/pkg/logging"
)

// PremiumReader reports the premium flag for a user profile.
type PremiumReader interface {
	IsPremium(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Handler exposes the auth endpoints.
type Handler struct {
	svc      *Service
	profiles PremiumReader
	logger   *logging.Logger
}

// NewHandler creates the auth handler.
func NewHandler(svc *Service, profiles PremiumReader, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{svc: svc, profiles: profiles, logger: logger}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string   `json:"token"`
	User  userView `json:"user"`
}

type userView struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	IsPremium bool   `json:"isPremium"`
}

// SignUp handles POST /auth/signup.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := h.svc.SignUp(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, ErrEmailTaken):
		respond.Error(w, http.StatusConflict, "email already registered")
		return
	case errors.Is(err, ErrWeakPassword):
		respond.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	case err != nil:
		h.logger.Error("signup failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to create account")
		return
	}
	respond.JSON(w, http.StatusCreated, sessionResponse{
		Token: token,
		User:  userView{ID: user.ID.String(), Email: user.Email},
	})
}

// SignIn handles POST /auth/signin.
func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	user, token, err := h.svc.SignIn(r.Context(), req.Email, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		respond.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if err != nil {
		h.logger.Error("signin failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to sign in")
		return
	}
	premium := h.premiumFor(r.Context(), user.ID)
	respond.JSON(w, http.StatusOK, sessionResponse{
		Token: token,
		User:  userView{ID: user.ID.String(), Email: user.Email, IsPremium: premium},
	})
}

type resetRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	Password string `json:"password"`
}

// RequestReset handles POST /auth/reset-request.
// Always answers 200 so the endpoint does not reveal which emails exist.
func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" {
		respond.Error(w, http.StatusBadRequest, "Missing required field: email")
		return
	}
	if err := h.svc.RequestPasswordReset(r.Context(), req.Email); err != nil {
		h.logger.Error("reset request failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to process reset request")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Reset handles POST /auth/reset.
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		respond.Error(w, http.StatusBadRequest, "Missing required field: token")
		return
	}
	err := h.svc.ResetPassword(r.Context(), req.Token, req.Password)
	switch {
	case errors.Is(err, ErrResetTokenInvalid):
		respond.Error(w, http.StatusBadRequest, "reset token invalid or expired")
		return
	case errors.Is(err, ErrWeakPassword):
		respond.Error(w, http.StatusBadRequest, "password must be at least 8 characters")
		return
	case err != nil:
		h.logger.Error("password reset failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "failed to reset password")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]any{"success": true})
}

// Me handles GET /auth/me for an authenticated session.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	s, ok := session.FromContext(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respond.JSON(w, http.StatusOK, userView{
		ID:        s.UserID.String(),
		Email:     s.Email,
		IsPremium: h.premiumFor(r.Context(), s.UserID),
	})
}

func (h *Handler) premiumFor(ctx context.Context, userID uuid.UUID) bool {
	if h.profiles == nil {
		return false
	}
	premium, err := h.profiles.IsPremium(ctx, userID)
	if err != nil {
		h.logger.Warn("premium lookup failed", "error", err, "user_id", userID)
		return false
	}
	return premium
}
