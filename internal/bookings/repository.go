package bookings

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// StatusConfirmed is the only status a booking ever has; rows are never
// mutated or cancelled in-app.
const StatusConfirmed = "confirmed"

// Booking is one persisted appointment row.
type Booking struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	ClinicName string    `json:"clinicName"`
	Date       time.Time `json:"date"`
	TimeSlot   string    `json:"timeSlot"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides persistence for bookings.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("bookings: db required")
	}
	return &Repository{db: db}
}

// CreateConfirmed inserts a confirmed booking row and returns it.
func (r *Repository) CreateConfirmed(ctx context.Context, userID uuid.UUID, clinicName string, date time.Time, timeSlot string) (*Booking, error) {
	b := Booking{
		ID:         uuid.New(),
		UserID:     userID,
		ClinicName: clinicName,
		Date:       date,
		TimeSlot:   timeSlot,
		Status:     StatusConfirmed,
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO bookings (id, user_id, clinic_name, date, time_slot, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		b.ID, b.UserID, b.ClinicName, b.Date, b.TimeSlot, b.Status,
	).Scan(&b.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("bookings: insert confirmed: %w", err)
	}
	return &b, nil
}

// ListForUser returns the user's bookings, soonest appointment first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Booking, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, clinic_name, date, time_slot, status, created_at
		 FROM bookings WHERE user_id = $1 ORDER BY date ASC, time_slot ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("bookings: list for user: %w", err)
	}
	defer rows.Close()

	out := []Booking{}
	for rows.Next() {
		var b Booking
		if err := rows.Scan(&b.ID, &b.UserID, &b.ClinicName, &b.Date, &b.TimeSlot, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("bookings: scan row: %w", err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
