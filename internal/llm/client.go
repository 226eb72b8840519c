package llm

import (
	"context"
	"fmt"
	"strings"
)

type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Provider string

const (
	ProviderClaude Provider = "claude"
	ProviderGemini Provider = "gemini"
)

// ParseProvider maps a caller-supplied name onto a known provider,
// ignoring case.
func ParseProvider(name string) (Provider, error) {
	switch p := Provider(strings.ToLower(strings.TrimSpace(name))); p {
	case ProviderClaude, ProviderGemini:
		return p, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, name)
	}
}
