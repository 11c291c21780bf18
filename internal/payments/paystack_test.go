package payments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPaystackInitialize(t *testing.T) {
	var captured map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/initialize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test_123" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code":       "abc123",
				"reference":         "premium-1756600000000-a1b2c3d4e",
			},
		})
	}))
	defer srv.Close()

	client := NewPaystackClient("sk_test_123", "https://neoncare.ke", nil).WithBaseURL(srv.URL)
	out, err := client.Initialize(context.Background(), InitializeParams{
		Email:     "amina@example.com",
		AmountKES: 999,
		PlanName:  "Weekly",
		Reference: "premium-1756600000000-a1b2c3d4e",
		UserID:    "4f2e2f9e-0000-4000-8000-000000000001",
	})
	if err != nil {
		t.Fatalf("Initialize returned error: %v", err)
	}
	if out.AuthorizationURL != "https://checkout.paystack.com/abc123" || out.AccessCode != "abc123" {
		t.Fatalf("unexpected session: %+v", out)
	}

	if got := captured["amount"].(float64); got != 99900 {
		t.Fatalf("expected amount in kobo 99900, got %v", got)
	}
	if got := captured["callback_url"].(string); got != "https://neoncare.ke/payment/callback" {
		t.Fatalf("unexpected callback_url %q", got)
	}
	meta := captured["metadata"].(map[string]any)
	fields := meta["custom_fields"].([]any)
	if len(fields) != 2 {
		t.Fatalf("expected plan_name and user_id custom fields, got %v", fields)
	}
	first := fields[0].(map[string]any)
	if first["variable_name"] != "plan_name" || first["value"] != "Weekly" {
		t.Fatalf("unexpected first custom field: %v", first)
	}
	second := fields[1].(map[string]any)
	if second["variable_name"] != "user_id" || second["value"] != "4f2e2f9e-0000-4000-8000-000000000001" {
		t.Fatalf("unexpected second custom field: %v", second)
	}
}

func TestPaystackVerify(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/transaction/verify/premium-1-abcdefghi" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": true,
			"data": map[string]any{
				"status":    "success",
				"reference": "premium-1-abcdefghi",
				"amount":    99900,
				"paid_at":   "2026-08-31T10:00:00.000Z",
				"metadata": map[string]any{
					"planName": "Weekly",
					"custom_fields": []map[string]any{
						{"display_name": "User ID", "variable_name": "user_id", "value": "u-1"},
					},
				},
			},
		})
	}))
	defer srv.Close()

	client := NewPaystackClient("sk_test_123", "", nil).WithBaseURL(srv.URL)
	tx, err := client.Verify(context.Background(), "premium-1-abcdefghi")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if tx.Status != "success" || tx.AmountKobo != 99900 {
		t.Fatalf("unexpected transaction: %+v", tx)
	}
	if v, ok := tx.CustomField("user_id"); !ok || v != "u-1" {
		t.Fatalf("expected user_id custom field, got %q (%v)", v, ok)
	}
	if _, ok := tx.CustomField("plan_name"); ok {
		t.Fatal("absent custom field must not resolve")
	}
}

func TestPaystack_ErrorPropagatesMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  false,
			"message": "Invalid key",
		})
	}))
	defer srv.Close()

	client := NewPaystackClient("sk_test_bad", "", nil).WithBaseURL(srv.URL)
	_, err := client.Verify(context.Background(), "ref")
	if err == nil {
		t.Fatal("expected error from non-2xx status")
	}
}

func TestNewPaystackClient_NoKey(t *testing.T) {
	if c := NewPaystackClient("", "https://neoncare.ke", nil); c != nil {
		t.Fatal("expected nil client without a secret key")
	}
}
