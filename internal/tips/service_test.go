package tips

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
	lastMsgs []ChatMessage
}

func (f *fakeLLM) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	f.calls++
	f.lastMsgs = messages
	return f.response, f.err
}

type fakeTipStore struct {
	created   []Tip
	createErr error
	recent    []Tip
}

func (f *fakeTipStore) Create(ctx context.Context, tip *Tip) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, *tip)
	return nil
}

func (f *fakeTipStore) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Tip, error) {
	return f.recent, nil
}

type fakePremium struct {
	premium bool
	err     error
}

func (f *fakePremium) IsPremium(ctx context.Context, userID uuid.UUID) (bool, error) {
	return f.premium, f.err
}

type fakeQuota struct {
	allow       bool
	lastPremium bool
}

func (f *fakeQuota) Allow(ctx context.Context, userID uuid.UUID, premium bool) bool {
	f.lastPremium = premium
	return f.allow
}

func TestAsk_HappyPath(t *testing.T) {
	llm := &fakeLLM{response: "Rest, hydrate, and monitor your temperature."}
	store := &fakeTipStore{}
	svc := NewService(llm, store, &fakePremium{}, &fakeQuota{allow: true}, nil, nil)
	userID := uuid.New()

	result, err := svc.Ask(context.Background(), userID, "I have a mild fever", nil)
	if err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if result.Response != llm.response {
		t.Fatalf("unexpected response %q", result.Response)
	}
	if result.Confidence < 60 || result.Confidence > 95 {
		t.Fatalf("confidence %d outside 60..95", result.Confidence)
	}
	if len(store.created) != 1 {
		t.Fatalf("expected one stored tip, got %d", len(store.created))
	}
	stored := store.created[0]
	if stored.UserID != userID || stored.InputText != "I have a mild fever" || stored.AIResponse != llm.response {
		t.Fatalf("unexpected stored tip: %+v", stored)
	}
	if stored.Confidence != result.Confidence {
		t.Fatal("stored confidence must match the returned confidence")
	}
}

func TestAsk_EmptyMessageNeverCallsLLM(t *testing.T) {
	llm := &fakeLLM{response: "unused"}
	store := &fakeTipStore{}
	svc := NewService(llm, store, nil, nil, nil, nil)

	_, err := svc.Ask(context.Background(), uuid.New(), "   ", nil)
	if !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if llm.calls != 0 {
		t.Fatal("empty message must not reach the llm")
	}
	if len(store.created) != 0 {
		t.Fatal("empty message must not be stored")
	}
}

func TestAsk_SystemPromptAndHistoryOrdering(t *testing.T) {
	llm := &fakeLLM{response: "ok"}
	svc := NewService(llm, &fakeTipStore{}, nil, nil, nil, nil)

	history := []ChatMessage{
		{Role: ChatRoleUser, Content: "I have a headache"},
		{Role: ChatRoleAssistant, Content: "How long has it lasted?"},
		{Role: "system", Content: "should be dropped"},
		{Role: ChatRoleUser, Content: "  "},
	}
	if _, err := svc.Ask(context.Background(), uuid.New(), "Two days now", history); err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}

	msgs := llm.lastMsgs
	if len(msgs) != 4 {
		t.Fatalf("expected system + 2 history turns + question, got %d messages", len(msgs))
	}
	if msgs[0].Role != ChatRoleSystem || !strings.Contains(msgs[0].Content, "AI Daktari") {
		t.Fatalf("first message must be the system prompt, got %+v", msgs[0])
	}
	if msgs[1].Content != "I have a headache" || msgs[2].Content != "How long has it lasted?" {
		t.Fatalf("history turns out of order: %+v", msgs[1:3])
	}
	if msgs[3].Role != ChatRoleUser || msgs[3].Content != "Two days now" {
		t.Fatalf("last message must be the question, got %+v", msgs[3])
	}
}

func TestAsk_QuotaExceeded(t *testing.T) {
	llm := &fakeLLM{response: "unused"}
	svc := NewService(llm, &fakeTipStore{}, &fakePremium{}, &fakeQuota{allow: false}, nil, nil)

	_, err := svc.Ask(context.Background(), uuid.New(), "question", nil)
	if !errors.Is(err, ErrQuotaExceeded) {
		t.Fatalf("expected ErrQuotaExceeded, got %v", err)
	}
	if llm.calls != 0 {
		t.Fatal("over-quota request must not reach the llm")
	}
}

func TestAsk_PremiumStatusPassedToQuota(t *testing.T) {
	quota := &fakeQuota{allow: true}
	svc := NewService(&fakeLLM{response: "ok"}, &fakeTipStore{}, &fakePremium{premium: true}, quota, nil, nil)

	if _, err := svc.Ask(context.Background(), uuid.New(), "question", nil); err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if !quota.lastPremium {
		t.Fatal("quota must see the user's premium status")
	}
}

func TestAsk_PremiumLookupFailureTreatedAsFree(t *testing.T) {
	quota := &fakeQuota{allow: true}
	svc := NewService(&fakeLLM{response: "ok"}, &fakeTipStore{}, &fakePremium{premium: true, err: errors.New("db down")}, quota, nil, nil)

	if _, err := svc.Ask(context.Background(), uuid.New(), "question", nil); err != nil {
		t.Fatalf("Ask returned error: %v", err)
	}
	if quota.lastPremium {
		t.Fatal("a failed premium lookup must fall back to free tier")
	}
}

func TestAsk_LLMFailure(t *testing.T) {
	llm := &fakeLLM{err: errors.New("provider down")}
	store := &fakeTipStore{}
	svc := NewService(llm, store, nil, nil, nil, nil)

	if _, err := svc.Ask(context.Background(), uuid.New(), "question", nil); err == nil {
		t.Fatal("expected error when the llm fails")
	}
	if len(store.created) != 0 {
		t.Fatal("failed completion must not be stored")
	}
}

func TestAsk_StoreFailureStillReturnsAnswer(t *testing.T) {
	llm := &fakeLLM{response: "Stay hydrated."}
	store := &fakeTipStore{createErr: errors.New("insert failed")}
	svc := NewService(llm, store, nil, nil, nil, nil)

	result, err := svc.Ask(context.Background(), uuid.New(), "question", nil)
	if err != nil {
		t.Fatalf("a storage failure must not fail the request: %v", err)
	}
	if result.Response != "Stay hydrated." {
		t.Fatalf("unexpected response %q", result.Response)
	}
}

func TestHistory(t *testing.T) {
	store := &fakeTipStore{recent: []Tip{{InputText: "headache"}, {InputText: "fever"}}}
	svc := NewService(&fakeLLM{response: "ok"}, store, nil, nil, nil, nil)

	list, err := svc.History(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("History returned error: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 tips, got %d", len(list))
	}
}
