package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"golang.org/x/crypto/bcrypt"

	"github.com/neoncare/neoncare-platform/internal/notify"
)

func newTestService(t *testing.T, email notify.EmailSender) (*Service, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgx mock: %v", err)
	}
	t.Cleanup(mock.Close)
	cfg := Config{JWTSecret: "test-secret", JWTTTL: time.Hour, ResetTokenTTL: time.Hour, SiteURL: "https://neoncare.ke"}
	return NewService(NewRepository(mock), email, cfg, nil), mock
}

func TestSignUp(t *testing.T) {
	svc, mock := newTestService(t, nil)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs(pgxmock.AnyArg(), "amina@example.com", pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"created_at"}).AddRow(time.Now().UTC()))
	mock.ExpectExec("INSERT INTO profiles").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	user, token, err := svc.SignUp(context.Background(), "  Amina@Example.COM ", "sufficiently-long")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if user.Email != "amina@example.com" {
		t.Fatalf("email must be normalized, got %q", user.Email)
	}
	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("signup token must parse: %v", err)
	}
	if claims.Subject != user.ID.String() {
		t.Fatalf("token subject %q does not match user %s", claims.Subject, user.ID)
	}
}

func TestSignUp_WeakPassword(t *testing.T) {
	svc, _ := newTestService(t, nil)

	if _, _, err := svc.SignUp(context.Background(), "amina@example.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestSignUp_InvalidEmail(t *testing.T) {
	svc, _ := newTestService(t, nil)

	if _, _, err := svc.SignUp(context.Background(), "not-an-email", "sufficiently-long"); err == nil {
		t.Fatal("expected error for invalid email")
	}
}

func userRow(t *testing.T, id uuid.UUID, email, password string) *pgxmock.Rows {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}).
		AddRow(id, email, string(hash), time.Now().UTC())
}

func TestSignIn(t *testing.T) {
	svc, mock := newTestService(t, nil)
	userID := uuid.New()

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("amina@example.com").
		WillReturnRows(userRow(t, userID, "amina@example.com", "correct-horse"))

	user, token, err := svc.SignIn(context.Background(), "amina@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("SignIn returned error: %v", err)
	}
	if user.ID != userID || token == "" {
		t.Fatalf("unexpected signin result: %+v, token %q", user, token)
	}
}

func TestSignIn_WrongPassword(t *testing.T) {
	svc, mock := newTestService(t, nil)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("amina@example.com").
		WillReturnRows(userRow(t, uuid.New(), "amina@example.com", "correct-horse"))

	if _, _, err := svc.SignIn(context.Background(), "amina@example.com", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignIn_UnknownEmail(t *testing.T) {
	svc, mock := newTestService(t, nil)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("ghost@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	if _, _, err := svc.SignIn(context.Background(), "ghost@example.com", "whatever"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

type recordingSender struct {
	sent []notify.EmailMessage
	err  error
}

func (r *recordingSender) Send(ctx context.Context, msg notify.EmailMessage) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func TestRequestPasswordReset(t *testing.T) {
	sender := &recordingSender{}
	svc, mock := newTestService(t, sender)
	userID := uuid.New()

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("amina@example.com").
		WillReturnRows(userRow(t, userID, "amina@example.com", "correct-horse"))
	mock.ExpectExec("INSERT INTO password_resets").
		WithArgs(pgxmock.AnyArg(), userID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := svc.RequestPasswordReset(context.Background(), "amina@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset returned error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("expected one reset email, got %d", len(sender.sent))
	}
	if !strings.Contains(sender.sent[0].HTML, "https://neoncare.ke/auth/reset?token=") {
		t.Fatalf("reset email must link to the site reset page: %s", sender.sent[0].HTML)
	}
}

func TestRequestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	sender := &recordingSender{}
	svc, mock := newTestService(t, sender)

	mock.ExpectQuery("SELECT id, email, password_hash").
		WithArgs("ghost@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password_hash", "created_at"}))

	if err := svc.RequestPasswordReset(context.Background(), "ghost@example.com"); err != nil {
		t.Fatalf("unknown email must not error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("unknown email must not receive a reset email")
	}
}

func TestResetPassword(t *testing.T) {
	svc, mock := newTestService(t, nil)
	userID := uuid.New()

	mock.ExpectQuery("UPDATE password_resets SET used").
		WithArgs("token-1").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}).AddRow(userID))
	mock.ExpectExec("UPDATE users SET password_hash").
		WithArgs(userID, pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := svc.ResetPassword(context.Background(), "token-1", "new-long-password"); err != nil {
		t.Fatalf("ResetPassword returned error: %v", err)
	}
}

func TestResetPassword_InvalidToken(t *testing.T) {
	svc, mock := newTestService(t, nil)

	mock.ExpectQuery("UPDATE password_resets SET used").
		WithArgs("stale").
		WillReturnRows(pgxmock.NewRows([]string{"user_id"}))

	if err := svc.ResetPassword(context.Background(), "stale", "new-long-password"); !errors.Is(err, ErrResetTokenInvalid) {
		t.Fatalf("expected ErrResetTokenInvalid, got %v", err)
	}
}
