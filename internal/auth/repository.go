package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrEmailTaken is returned when a signup reuses an existing email.
	ErrEmailTaken = errors.New("auth: email already registered")
	// ErrUserNotFound is returned for lookups that match no user.
	ErrUserNotFound = errors.New("auth: user not found")
	// ErrResetTokenInvalid covers unknown, used, and expired reset tokens.
	ErrResetTokenInvalid = errors.New("auth: reset token invalid or expired")
)

// User is an account row. The password hash never leaves this package.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies it.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides persistence for users and password-reset tokens.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("auth: db required")
	}
	return &Repository{db: db}
}

// CreateUser inserts the user and its empty profile row in one transaction.
func (r *Repository) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth: begin signup tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	user := User{ID: uuid.New(), Email: email, PasswordHash: passwordHash}
	err = tx.QueryRow(ctx,
		`INSERT INTO users (id, email, password_hash) VALUES ($1, $2, $3)
		 ON CONFLICT (email) DO NOTHING
		 RETURNING created_at`,
		user.ID, user.Email, user.PasswordHash,
	).Scan(&user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("auth: insert user: %w", err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO profiles (id, is_premium) VALUES ($1, false)`, user.ID,
	); err != nil {
		return nil, fmt.Errorf("auth: insert profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("auth: commit signup tx: %w", err)
	}
	return &user, nil
}

// GetByEmail loads a user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.db.QueryRow(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth: load user by email: %w", err)
	}
	return &u, nil
}

// CreateResetToken stores a single-use password-reset token.
func (r *Repository) CreateResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	if _, err := r.db.Exec(ctx,
		`INSERT INTO password_resets (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		token, userID, expiresAt,
	); err != nil {
		return fmt.Errorf("auth: insert reset token: %w", err)
	}
	return nil
}

// ConsumeResetToken marks a live token as used and returns its user id.
// Used and expired tokens map to ErrResetTokenInvalid.
func (r *Repository) ConsumeResetToken(ctx context.Context, token string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := r.db.QueryRow(ctx,
		`UPDATE password_resets SET used = true
		 WHERE token = $1 AND used = false AND expires_at > now()
		 RETURNING user_id`,
		token,
	).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, ErrResetTokenInvalid
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth: consume reset token: %w", err)
	}
	return userID, nil
}

// UpdatePassword replaces the stored hash for the user.
func (r *Repository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $2 WHERE id = $1`, userID, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("auth: update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}
