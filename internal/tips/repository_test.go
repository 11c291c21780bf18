package tips

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestCreateTip(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewRepository(mock)
	userID := uuid.New()
	created := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO tips").
		WithArgs(pgxmock.AnyArg(), userID, "I have a sore throat", "Gargle warm salt water.", 72).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))

	tip := &Tip{UserID: userID, InputText: "I have a sore throat", AIResponse: "Gargle warm salt water.", Confidence: 72}
	if err := repo.Create(context.Background(), tip); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if tip.ID == uuid.Nil {
		t.Fatal("Create must assign an id")
	}
	if !tip.CreatedAt.Equal(created) {
		t.Fatalf("expected created_at %s, got %s", created, tip.CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListRecent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewRepository(mock)
	userID := uuid.New()
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "user_id", "input_text", "ai_response", "confidence", "created_at"}).
		AddRow(uuid.New(), userID, "headache", "Rest in a dark room.", 81, now).
		AddRow(uuid.New(), userID, "sore throat", "Gargle warm salt water.", 72, now.Add(-time.Hour))
	mock.ExpectQuery("SELECT id, user_id, input_text").
		WithArgs(userID, 5).
		WillReturnRows(rows)

	list, err := repo.ListRecent(context.Background(), userID, 5)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 tips, got %d", len(list))
	}
	if list[0].InputText != "headache" {
		t.Fatalf("unexpected first tip: %+v", list[0])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestListRecent_DefaultsLimit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewRepository(mock)
	userID := uuid.New()

	mock.ExpectQuery("SELECT id, user_id, input_text").
		WithArgs(userID, 5).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "input_text", "ai_response", "confidence", "created_at"}))

	list, err := repo.ListRecent(context.Background(), userID, 0)
	if err != nil {
		t.Fatalf("ListRecent returned error: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", list)
	}
}
