package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type recordingSender struct {
	sent []EmailMessage
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg EmailMessage) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, msg)
	return nil
}

func postEmail(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/functions/v1/send-booking-email", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SendEmail(rec, req)
	return rec
}

func TestSendEmail_MissingSubject(t *testing.T) {
	sender := &recordingSender{}
	h := NewHandler(sender, nil)

	rec := postEmail(t, h, `{"to":"user@example.com","html":"<p>hi</p>"}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if !strings.Contains(body["error"].(string), "subject") {
		t.Fatalf("expected error to name the missing field, got %v", body["error"])
	}
	if len(sender.sent) != 0 {
		t.Fatal("no email should be sent when validation fails")
	}
}

func TestSendEmail_Success(t *testing.T) {
	sender := &recordingSender{}
	h := NewHandler(sender, nil)

	rec := postEmail(t, h, `{"to":"user@example.com","subject":"Appointment","html":"<p>hi</p>"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if body["success"] != true {
		t.Fatalf("expected success=true, got %v", body["success"])
	}
	if len(sender.sent) != 1 || sender.sent[0].To != "user@example.com" {
		t.Fatalf("unexpected sent messages: %+v", sender.sent)
	}
}

func TestSendEmail_UpstreamFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("notify: sendgrid returned status 503")}
	h := NewHandler(sender, nil)

	rec := postEmail(t, h, `{"to":"user@example.com","subject":"Appointment","html":"<p>hi</p>"}`)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	var body map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["success"] != false {
		t.Fatalf("expected success=false, got %v", body["success"])
	}
}

func TestBuildBookingConfirmation(t *testing.T) {
	date := time.Date(2026, 9, 3, 0, 0, 0, 0, time.UTC)
	subject, html := BuildBookingConfirmation(BookingDetails{
		ClinicName: "HealthPlus Clinic",
		Date:       date,
		TimeSlot:   "09:00 AM",
	})

	if !strings.Contains(subject, "HealthPlus Clinic") {
		t.Errorf("subject should name the clinic: %q", subject)
	}
	for _, want := range []string{"HealthPlus Clinic", "Thursday, September 3, 2026", "09:00 AM"} {
		if !strings.Contains(html, want) {
			t.Errorf("html missing %q", want)
		}
	}
}
