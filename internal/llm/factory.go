package llm

import (
	"context"
	"fmt"

	"github.com/agenthands/storyweave/internal/config"
)

// NewClient builds the adapter for one provider from the shared LLM config.
func NewClient(ctx context.Context, provider Provider, cfg config.LLMConfig) (LLMClient, error) {
	switch provider {
	case ProviderClaude:
		return NewClaudeClient(cfg.Claude.APIKey, cfg.Claude.Model, cfg.Claude.BaseURL, cfg.MaxTokens), nil

	case ProviderGemini:
		c, err := NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.MaxTokens)
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}
}
