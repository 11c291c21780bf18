package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/neoncare/neoncare-platform/internal/notify"
	"github.com/neoncare/neoncare-platform/pkg/logging"
)

var (
	// ErrInvalidCredentials is returned for a bad email/password pair.
	ErrInvalidCredentials = errors.New("auth: invalid email or password")
	// ErrWeakPassword is returned when a password is under the minimum length.
	ErrWeakPassword = errors.New("auth: password must be at least 8 characters")
)

// Config carries token settings for the auth service.
type Config struct {
	JWTSecret     string
	JWTTTL        time.Duration
	ResetTokenTTL time.Duration
	SiteURL       string
}

// Service implements email/password accounts with JWT sessions.
type Service struct {
	repo   *Repository
	email  notify.EmailSender
	logger *logging.Logger
	cfg    Config
}

// NewService constructs the auth service. The email sender may be nil; reset
// emails are then skipped.
func NewService(repo *Repository, email notify.EmailSender, cfg Config, logger *logging.Logger) *Service {
	if repo == nil {
		panic("auth: repository required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.JWTTTL <= 0 {
		cfg.JWTTTL = 24 * time.Hour
	}
	if cfg.ResetTokenTTL <= 0 {
		cfg.ResetTokenTTL = time.Hour
	}
	return &Service{repo: repo, email: email, logger: logger, cfg: cfg}
}

// SignUp registers a new account and returns the user with a session token.
func (s *Service) SignUp(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, "", fmt.Errorf("auth: invalid email")
	}
	if len(password) < 8 {
		return nil, "", ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("auth: hash password: %w", err)
	}

	user, err := s.repo.CreateUser(ctx, email, string(hash))
	if err != nil {
		return nil, "", err
	}

	token, err := IssueToken(s.cfg.JWTSecret, s.cfg.JWTTTL, user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	s.logger.Info("user signed up", "user_id", user.ID, "email", user.Email)
	return user, token, nil
}

// SignIn checks credentials and returns the user with a session token.
func (s *Service) SignIn(ctx context.Context, email, password string) (*User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := IssueToken(s.cfg.JWTSecret, s.cfg.JWTTTL, user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// RequestPasswordReset issues a single-use reset token and emails it.
// Unknown emails are ignored so the endpoint does not leak registrations.
func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.repo.GetByEmail(ctx, email)
	if errors.Is(err, ErrUserNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := s.repo.CreateResetToken(ctx, user.ID, token, time.Now().Add(s.cfg.ResetTokenTTL)); err != nil {
		return err
	}

	if s.email != nil {
		resetURL := fmt.Sprintf("%s/auth/reset?token=%s", s.cfg.SiteURL, token)
		msg := notify.EmailMessage{
			To:      user.Email,
			Subject: "Reset your Neon Care password",
			Body:    "Follow this link to reset your password: " + resetURL,
			HTML:    fmt.Sprintf(`<p>Follow <a href="%s">this link</a> to reset your Neon Care password. The link expires in %s.</p>`, resetURL, s.cfg.ResetTokenTTL),
		}
		if err := s.email.Send(ctx, msg); err != nil {
			// The token is stored either way; a lost email is retryable.
			s.logger.Warn("reset email failed", "error", err, "email", user.Email)
		}
	}
	return nil
}

// ResetPassword consumes a reset token and installs the new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return ErrWeakPassword
	}
	userID, err := s.repo.ConsumeResetToken(ctx, token)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("auth: hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	s.logger.Info("password reset completed", "user_id", userID)
	return nil
}
