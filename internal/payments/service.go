package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/neoncare/neoncare-platform/internal/observability/metrics"
	"github.com/neoncare/neoncare-platform/pkg/logging"
)

var (
	// ErrGatewayNotConfigured is returned when the requested provider has
	// no API keys configured.
	ErrGatewayNotConfigured = errors.New("payments: gateway not configured")
	// ErrPaymentNotSuccessful is returned when the gateway reports any
	// status other than success for a verified reference.
	ErrPaymentNotSuccessful = errors.New("payments: payment was not successful")
	// ErrUserIDMissing is returned when the verified transaction carries no
	// user id in its metadata.
	ErrUserIDMissing = errors.New("payments: user id not found in payment metadata")
)

// Store abstracts the repository for the service.
type Store interface {
	RecordInitiated(ctx context.Context, userID uuid.UUID, reference, planName string, amountKES float64, provider string) (*Payment, error)
	SetStatus(ctx context.Context, reference, status string) error
}

// ProfileWriter flips a user's premium flag.
type ProfileWriter interface {
	SetPremium(ctx context.Context, userID uuid.UUID) error
}

// VerifyOutcome is the server-side result of a successful verification.
type VerifyOutcome struct {
	UserID    string  `json:"userId"`
	Reference string  `json:"reference"`
	AmountKES float64 `json:"amount"`
	PaidAt    string  `json:"paidAt"`
}

// Service drives premium checkout and verification.
type Service struct {
	paystack *PaystackClient
	intasend *IntaSendClient
	store    Store
	profiles ProfileWriter
	metrics  *metrics.Metrics
	logger   *logging.Logger
}

// NewService constructs a payments service. Either gateway client may be
// nil; the matching operation then fails with ErrGatewayNotConfigured.
func NewService(paystack *PaystackClient, intasend *IntaSendClient, store Store, profiles ProfileWriter, m *metrics.Metrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		paystack: paystack,
		intasend: intasend,
		store:    store,
		profiles: profiles,
		metrics:  m,
		logger:   logger,
	}
}

// IntaSendConfigured reports whether the alternate gateway has keys.
func (s *Service) IntaSendConfigured() bool { return s.intasend != nil }

// StartPaystackCheckout initializes a hosted Paystack checkout. An empty
// reference gets a freshly generated one; retries always re-initiate with
// a new reference rather than reusing an old attempt.
func (s *Service) StartPaystackCheckout(ctx context.Context, userID uuid.UUID, email, planName string, amountKES float64, reference string) (*CheckoutSession, error) {
	if s.paystack == nil {
		return nil, ErrGatewayNotConfigured
	}
	if reference == "" {
		reference = NewReference()
	}

	session, err := s.paystack.Initialize(ctx, InitializeParams{
		Email:     email,
		AmountKES: amountKES,
		PlanName:  planName,
		Reference: reference,
		UserID:    userID.String(),
	})
	if err != nil {
		return nil, err
	}

	if s.store != nil {
		if _, err := s.store.RecordInitiated(ctx, userID, session.Reference, planName, amountKES, "paystack"); err != nil {
			s.logger.Warn("recording payment attempt failed", "error", err, "reference", session.Reference)
		}
	}
	s.logger.Info("paystack checkout initialized", "user_id", userID, "plan", planName, "reference", session.Reference)
	return session, nil
}

// StartIntaSendCheckout creates a hosted IntaSend checkout.
func (s *Service) StartIntaSendCheckout(ctx context.Context, userID uuid.UUID, email, planName string, amountKES float64, origin string) (string, error) {
	if s.intasend == nil {
		return "", ErrGatewayNotConfigured
	}
	url, err := s.intasend.CreateCheckout(ctx, IntaSendParams{
		Email:     email,
		AmountKES: amountKES,
		PlanName:  planName,
		Host:      origin,
	})
	if err != nil {
		return "", err
	}
	if s.store != nil {
		if _, err := s.store.RecordInitiated(ctx, userID, NewReference(), planName, amountKES, "intasend"); err != nil {
			s.logger.Warn("recording payment attempt failed", "error", err, "provider", "intasend")
		}
	}
	return url, nil
}

// VerifyAndUpgrade checks a reference against Paystack and, only when the
// gateway reports success, flips the payer's premium flag. Any other
// status is a hard failure with no profile mutation.
func (s *Service) VerifyAndUpgrade(ctx context.Context, reference string) (*VerifyOutcome, error) {
	if s.paystack == nil {
		return nil, ErrGatewayNotConfigured
	}

	tx, err := s.paystack.Verify(ctx, reference)
	if err != nil {
		s.metrics.PaymentVerified("error")
		return nil, err
	}

	if tx.Status != "success" {
		s.metrics.PaymentVerified("failed")
		s.markStatus(ctx, reference, StatusFailed)
		return nil, ErrPaymentNotSuccessful
	}

	rawUserID, ok := tx.CustomField("user_id")
	if !ok || rawUserID == "" {
		s.metrics.PaymentVerified("error")
		return nil, ErrUserIDMissing
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		s.metrics.PaymentVerified("error")
		return nil, fmt.Errorf("payments: invalid user id in metadata: %w", err)
	}

	if err := s.profiles.SetPremium(ctx, userID); err != nil {
		s.metrics.PaymentVerified("error")
		return nil, fmt.Errorf("payments: failed to update user profile: %w", err)
	}

	s.markStatus(ctx, reference, StatusVerified)
	s.metrics.PaymentVerified("success")
	s.logger.Info("payment verified, premium granted", "user_id", userID, "reference", tx.Reference)

	return &VerifyOutcome{
		UserID:    userID.String(),
		Reference: tx.Reference,
		AmountKES: float64(tx.AmountKobo) / 100,
		PaidAt:    tx.PaidAt,
	}, nil
}

func (s *Service) markStatus(ctx context.Context, reference, status string) {
	if s.store == nil {
		return
	}
	if err := s.store.SetStatus(ctx, reference, status); err != nil {
		s.logger.Warn("updating payment status failed", "error", err, "reference", reference, "status", status)
	}
}
