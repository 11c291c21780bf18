package profiles

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrProfileNotFound is returned when no profile row exists for the user.
var ErrProfileNotFound = errors.New("profiles: profile not found")

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository reads and updates profile rows. The premium flag only ever
// moves false -> true; no downgrade path exists.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("profiles: db required")
	}
	return &Repository{db: db}
}

// IsPremium reports the premium flag for the user.
func (r *Repository) IsPremium(ctx context.Context, userID uuid.UUID) (bool, error) {
	var premium bool
	err := r.db.QueryRow(ctx,
		`SELECT is_premium FROM profiles WHERE id = $1`, userID,
	).Scan(&premium)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, ErrProfileNotFound
	}
	if err != nil {
		return false, fmt.Errorf("profiles: load premium flag: %w", err)
	}
	return premium, nil
}

// SetPremium flips the premium flag to true.
func (r *Repository) SetPremium(ctx context.Context, userID uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE profiles SET is_premium = true, updated_at = now() WHERE id = $1`, userID,
	)
	if err != nil {
		return fmt.Errorf("profiles: set premium: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrProfileNotFound
	}
	return nil
}
