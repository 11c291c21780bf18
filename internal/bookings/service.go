package bookings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/neoncare/neoncare-platform/internal/notify"
	"github.com/neoncare/neoncare-platform/internal/observability/metrics"
	"github.com/neoncare/neoncare-platform/pkg/logging"
)

var bookingsTracer = otel.Tracer("neoncare.internal.bookings")

var (
	// ErrSelectionIncomplete is returned when confirm runs before clinic,
	// date, and slot are all chosen.
	ErrSelectionIncomplete = errors.New("bookings: selection incomplete")
	// ErrNotAuthenticated is returned when no user is attached to the confirm.
	ErrNotAuthenticated = errors.New("bookings: authenticated user required")
)

// Store abstracts the repository for the service.
type Store interface {
	CreateConfirmed(ctx context.Context, userID uuid.UUID, clinicName string, date time.Time, timeSlot string) (*Booking, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Booking, error)
}

// Service confirms bookings and sends the confirmation email.
type Service struct {
	store   Store
	email   notify.EmailSender
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewService constructs a bookings service. The email sender may be nil; the
// confirmation email is then skipped.
func NewService(store Store, email notify.EmailSender, m *metrics.Metrics, logger *logging.Logger) *Service {
	if store == nil {
		panic("bookings: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{store: store, email: email, metrics: m, logger: logger}
}

// Confirm persists one confirmed booking for the selection, sends a
// best-effort confirmation email, and clears the selection. A persistence
// failure leaves the selection intact so the caller can retry; an email
// failure is reported as a warning only and the booking stands.
func (s *Service) Confirm(ctx context.Context, userID uuid.UUID, userEmail string, sel *Selection) (*Booking, error) {
	if userID == uuid.Nil {
		return nil, ErrNotAuthenticated
	}
	if sel == nil || !sel.Complete() {
		return nil, ErrSelectionIncomplete
	}

	ctx, span := bookingsTracer.Start(ctx, "bookings.confirm")
	defer span.End()
	span.SetAttributes(
		attribute.String("neoncare.user_id", userID.String()),
		attribute.String("neoncare.clinic_id", sel.ClinicID),
	)

	clinicName := sel.ClinicID
	if c, ok := ClinicByID(sel.ClinicID); ok {
		clinicName = c.Name
	}

	booking, err := s.store.CreateConfirmed(ctx, userID, clinicName, sel.Date, sel.TimeSlot)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	s.metrics.BookingConfirmed()

	if s.email != nil && userEmail != "" {
		subject, html := notify.BuildBookingConfirmation(notify.BookingDetails{
			ClinicName: booking.ClinicName,
			Date:       booking.Date,
			TimeSlot:   booking.TimeSlot,
		})
		msg := notify.EmailMessage{To: userEmail, Subject: subject, HTML: html}
		if err := s.email.Send(ctx, msg); err != nil {
			s.logger.Warn("confirmation email failed, booking stands", "error", err, "booking_id", booking.ID)
			s.metrics.EmailSent("error")
		} else {
			s.metrics.EmailSent("sent")
		}
	}

	sel.Reset()
	s.logger.Info("booking confirmed", "user_id", userID, "booking_id", booking.ID, "clinic", booking.ClinicName)
	return booking, nil
}

// History returns the user's bookings.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	return s.store.ListForUser(ctx, userID)
}
