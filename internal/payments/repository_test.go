package payments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestRecordInitiated(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewRepository(mock)
	userID := uuid.New()
	created := time.Now().UTC()

	mock.ExpectQuery("INSERT INTO payments").
		WithArgs(pgxmock.AnyArg(), userID, "premium-1-abcdefghi", "Weekly", 999.0, "paystack", StatusInitiated).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(created))

	p, err := repo.RecordInitiated(context.Background(), userID, "premium-1-abcdefghi", "Weekly", 999, "paystack")
	if err != nil {
		t.Fatalf("RecordInitiated returned error: %v", err)
	}
	if p.Status != StatusInitiated || p.Reference != "premium-1-abcdefghi" {
		t.Fatalf("unexpected payment row: %+v", p)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSetStatus(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	defer mock.Close()

	repo := NewRepository(mock)

	mock.ExpectExec("UPDATE payments SET status").
		WithArgs("premium-1-abcdefghi", StatusVerified).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.SetStatus(context.Background(), "premium-1-abcdefghi", StatusVerified); err != nil {
		t.Fatalf("SetStatus returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
