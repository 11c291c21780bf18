package tips

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/neoncare/neoncare-platform/pkg/logging"
)

// GroqClient calls Groq's OpenAI-compatible chat-completions endpoint.
type GroqClient struct {
	apiKey     string
	model      string
	maxTokens  int
	baseURL    string
	httpClient *http.Client
	logger     *logging.Logger
}

// NewGroqClient creates a Groq client. Returns nil when no API key is
// configured so callers can skip straight to the fallback.
func NewGroqClient(apiKey, model string, maxTokens int, logger *logging.Logger) *GroqClient {
	if strings.TrimSpace(apiKey) == "" {
		return nil
	}
	if model == "" {
		model = "llama3-8b-8192"
	}
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &GroqClient{
		apiKey:     apiKey,
		model:      model,
		maxTokens:  maxTokens,
		baseURL:    "https://api.groq.com",
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// WithBaseURL overrides the Groq API host (tests).
func (c *GroqClient) WithBaseURL(baseURL string) *GroqClient {
	if baseURL != "" {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
	return c
}

type groqRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the conversation and returns the assistant text.
func (c *GroqClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("tips: groq requires at least one message")
	}

	payload, err := json.Marshal(groqRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("tips: groq payload: %w", err)
	}

	apiURL := c.baseURL + "/openai/v1/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("tips: groq request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("tips: groq call: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("tips: groq read response: %w", err)
	}

	var parsed groqResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("tips: groq decode response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(body))
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		c.logger.Error("groq returned error status", "status", resp.StatusCode, "body", msg)
		return "", fmt.Errorf("tips: groq api error: %d: %s", resp.StatusCode, msg)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.New("tips: groq returned no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}
