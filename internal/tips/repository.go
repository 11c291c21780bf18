package tips

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Tip is one stored question/answer exchange.
type Tip struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"userId"`
	InputText  string    `json:"inputText"`
	AIResponse string    `json:"aiResponse"`
	Confidence int       `json:"confidence"`
	CreatedAt  time.Time `json:"createdAt"`
}

// DB is the subset of pgxpool.Pool the repository needs; pgxmock satisfies it.
type DB interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository provides persistence for tips.
type Repository struct {
	db DB
}

// NewRepository creates a repository backed by a pgx pool.
func NewRepository(db DB) *Repository {
	if db == nil {
		panic("tips: db required")
	}
	return &Repository{db: db}
}

// Create inserts a tip row and fills in its id and creation time.
func (r *Repository) Create(ctx context.Context, tip *Tip) error {
	if tip.ID == uuid.Nil {
		tip.ID = uuid.New()
	}
	err := r.db.QueryRow(ctx,
		`INSERT INTO tips (id, user_id, input_text, ai_response, confidence)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at`,
		tip.ID, tip.UserID, tip.InputText, tip.AIResponse, tip.Confidence,
	).Scan(&tip.CreatedAt)
	if err != nil {
		return fmt.Errorf("tips: insert tip: %w", err)
	}
	return nil
}

// ListRecent returns the user's newest tips first, capped at limit.
func (r *Repository) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Tip, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, input_text, ai_response, confidence, created_at
		 FROM tips WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("tips: list recent: %w", err)
	}
	defer rows.Close()

	out := []Tip{}
	for rows.Next() {
		var t Tip
		if err := rows.Scan(&t.ID, &t.UserID, &t.InputText, &t.AIResponse, &t.Confidence, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("tips: scan row: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
