package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestIssueAndParseToken(t *testing.T) {
	userID := uuid.New()
	token, err := IssueToken("test-secret", time.Hour, userID, "amina@example.com")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}

	claims, err := ParseToken("test-secret", token)
	if err != nil {
		t.Fatalf("ParseToken returned error: %v", err)
	}
	if claims.Subject != userID.String() {
		t.Fatalf("expected subject %s, got %s", userID, claims.Subject)
	}
	if claims.Email != "amina@example.com" {
		t.Fatalf("unexpected email claim %q", claims.Email)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, err := IssueToken("right-secret", time.Hour, uuid.New(), "a@b.com")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	if _, err := ParseToken("wrong-secret", token); err == nil {
		t.Fatal("token signed with another secret must not parse")
	}
}

func TestParseToken_Expired(t *testing.T) {
	token, err := IssueToken("test-secret", -time.Minute, uuid.New(), "a@b.com")
	if err != nil {
		t.Fatalf("IssueToken returned error: %v", err)
	}
	if _, err := ParseToken("test-secret", token); err == nil {
		t.Fatal("expired token must not parse")
	}
}

func TestIssueToken_RequiresSecret(t *testing.T) {
	if _, err := IssueToken("", time.Hour, uuid.New(), "a@b.com"); err == nil {
		t.Fatal("expected error without a secret")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := ParseToken("test-secret", "not-a-token"); err == nil {
		t.Fatal("garbage input must not parse")
	}
}
