package tips

import (
	"context"
	"errors"

	"github.com/neoncare/neoncare-platform/pkg/logging"
)

// FallbackClient tries a primary LLM provider and falls back to a
// secondary one when the primary fails.
type FallbackClient struct {
	primary  LLMClient
	fallback LLMClient
	logger   *logging.Logger
}

// NewFallbackClient wires a primary and fallback provider. Either may be
// nil; Complete uses whichever is available.
func NewFallbackClient(primary, fallback LLMClient, logger *logging.Logger) *FallbackClient {
	if logger == nil {
		logger = logging.Default()
	}
	return &FallbackClient{primary: primary, fallback: fallback, logger: logger}
}

// Complete runs the conversation against the primary provider, retrying
// on the fallback if the primary errors.
func (c *FallbackClient) Complete(ctx context.Context, messages []ChatMessage) (string, error) {
	if c.primary == nil && c.fallback == nil {
		return "", errors.New("tips: no llm provider configured")
	}

	if c.primary != nil {
		out, err := c.primary.Complete(ctx, messages)
		if err == nil {
			return out, nil
		}
		if c.fallback == nil {
			return "", err
		}
		c.logger.Warn("primary llm provider failed, using fallback", "error", err)
	}

	return c.fallback.Complete(ctx, messages)
}
