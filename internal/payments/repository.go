package payments

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Payment attempt states. Only verified attempts ever mutate a profile.
const (
	StatusInitiated = "initiated"
	StatusVerified  = "verified"
	StatusFailed    = "failed"
	StatusAbandoned = "abandoned"
)

// Payment is one checkout attempt.
type Payment struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	Reference string    `json:"reference"`
	PlanName  string    `json:"planName"`
	AmountKES float64   `json:"amount"`
	Provider  string    `json:"provider"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists payment attempts.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("payments: db required")
	}
	return &Repository{db: db}
}

// RecordInitiated inserts a fresh attempt in the initiated state.
func (r *Repository) RecordInitiated(ctx context.Context, userID uuid.UUID, reference, planName string, amountKES float64, provider string) (*Payment, error) {
	p := Payment{
		ID:        uuid.New(),
		UserID:    userID,
		Reference: reference,
		PlanName:  planName,
		AmountKES: amountKES,
		Provider:  provider,
		Status:    StatusInitiated,
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO payments (id, user_id, reference, plan_name, amount, provider, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		p.ID, p.UserID, p.Reference, p.PlanName, p.AmountKES, p.Provider, p.Status,
	).Scan(&p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("payments: insert attempt: %w", err)
	}
	return &p, nil
}

// SetStatus moves the attempt with the given reference into a terminal
// state. Unknown references are a no-op; the verify path works even for
// attempts initiated outside this service.
func (r *Repository) SetStatus(ctx context.Context, reference, status string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE payments SET status = $2, updated_at = now() WHERE reference = $1`,
		reference, status,
	)
	if err != nil {
		return fmt.Errorf("payments: update status: %w", err)
	}
	return nil
}
