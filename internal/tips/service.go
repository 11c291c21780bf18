package tips

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/neoncare/neoncare-platform/internal/observability/metrics"
	"github.com/neoncare/neoncare-platform/pkg/logging"
)

var tipsTracer = otel.Tracer("neoncare.internal.tips")

// systemPrompt frames every tip conversation.
const systemPrompt = "You are AI Daktari, a helpful health assistant. Provide health advice and information based on symptoms described by users. Always remind users to consult with healthcare professionals for serious concerns. Be empathetic and informative."

const historyLimit = 5

var (
	// ErrEmptyMessage is returned when the tip request has no message text.
	ErrEmptyMessage = errors.New("tips: message is required")
	// ErrQuotaExceeded is returned when a free-tier user is over the daily limit.
	ErrQuotaExceeded = errors.New("tips: daily free tip limit reached")
)

// Store abstracts the repository for the service.
type Store interface {
	Create(ctx context.Context, tip *Tip) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]Tip, error)
}

// PremiumReader reports whether a user has an active premium subscription.
type PremiumReader interface {
	IsPremium(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Quota gates free-tier usage.
type Quota interface {
	Allow(ctx context.Context, userID uuid.UUID, premium bool) bool
}

// TipResult is the answer returned to the user for one question.
type TipResult struct {
	Response   string `json:"response"`
	Confidence int    `json:"confidence"`
}

// Service answers health questions through the LLM and records the exchange.
type Service struct {
	llm     LLMClient
	store   Store
	premium PremiumReader
	quota   Quota
	metrics *metrics.Metrics
	logger  *logging.Logger
}

// NewService constructs a tips service. premium and quota may be nil, in
// which case every request is treated as in-quota.
func NewService(llm LLMClient, store Store, premium PremiumReader, quota Quota, m *metrics.Metrics, logger *logging.Logger) *Service {
	if llm == nil {
		panic("tips: llm client required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{llm: llm, store: store, premium: premium, quota: quota, metrics: m, logger: logger}
}

// Ask runs one question through the LLM and returns the answer with its
// confidence score. The exchange is stored best-effort; a storage failure
// never withholds the answer from the user.
func (s *Service) Ask(ctx context.Context, userID uuid.UUID, message string, history []ChatMessage) (*TipResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	ctx, span := tipsTracer.Start(ctx, "tips.ask")
	defer span.End()
	span.SetAttributes(attribute.String("neoncare.user_id", userID.String()))

	premium := s.isPremium(ctx, userID)
	if s.quota != nil && !s.quota.Allow(ctx, userID, premium) {
		s.metrics.TipServed("limited")
		return nil, ErrQuotaExceeded
	}

	messages := make([]ChatMessage, 0, len(history)+2)
	messages = append(messages, ChatMessage{Role: ChatRoleSystem, Content: systemPrompt})
	for _, turn := range history {
		if turn.Role != ChatRoleUser && turn.Role != ChatRoleAssistant {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		messages = append(messages, turn)
	}
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: message})

	response, err := s.llm.Complete(ctx, messages)
	if err != nil {
		span.RecordError(err)
		s.metrics.TipServed("error")
		return nil, fmt.Errorf("tips: completion failed: %w", err)
	}

	confidence := ConfidenceFor(response)

	if s.store != nil {
		tip := &Tip{UserID: userID, InputText: message, AIResponse: response, Confidence: confidence}
		if err := s.store.Create(ctx, tip); err != nil {
			s.logger.Warn("storing tip failed, still returning response", "error", err, "user_id", userID)
		}
	}

	s.metrics.TipServed("ok")
	s.logger.Info("tip served", "user_id", userID, "confidence", confidence)
	return &TipResult{Response: response, Confidence: confidence}, nil
}

// History returns the user's most recent tips.
func (s *Service) History(ctx context.Context, userID uuid.UUID) ([]Tip, error) {
	if s.store == nil {
		return []Tip{}, nil
	}
	return s.store.ListRecent(ctx, userID, historyLimit)
}

func (s *Service) isPremium(ctx context.Context, userID uuid.UUID) bool {
	if s.premium == nil {
		return false
	}
	premium, err := s.premium.IsPremium(ctx, userID)
	if err != nil {
		s.logger.Warn("premium lookup failed, treating as free tier", "error", err, "user_id", userID)
		return false
	}
	return premium
}
