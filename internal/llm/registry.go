package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agenthands/storyweave/internal/config"
	"go.uber.org/zap"
)

// Registry holds one adapter per provider and applies the shared timeout.
// It holds no locks, so concurrent requests never wait on each other.
type Registry struct {
	clients    map[Provider]LLMClient
	configured map[Provider]bool
	timeout    time.Duration
	metrics    *Metrics
	logger     *zap.Logger
}

func NewRegistry(ctx context.Context, cfg config.LLMConfig, metrics *Metrics, logger *zap.Logger) (*Registry, error) {
	r := &Registry{
		clients: make(map[Provider]LLMClient),
		configured: map[Provider]bool{
			ProviderClaude: cfg.Claude.APIKey != "",
			ProviderGemini: cfg.Gemini.APIKey != "",
		},
		timeout: cfg.Timeout(),
		metrics: metrics,
		logger:  logger.Named("llm"),
	}
	for _, p := range []Provider{ProviderClaude, ProviderGemini} {
		c, err := NewClient(ctx, p, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s client: %w", p, err)
		}
		r.clients[p] = c
	}
	return r, nil
}

// NewRegistryWithClients wires prebuilt adapters, mainly for tests.
func NewRegistryWithClients(clients map[Provider]LLMClient, timeout time.Duration, metrics *Metrics, logger *zap.Logger) *Registry {
	configured := make(map[Provider]bool, len(clients))
	for p := range clients {
		configured[p] = true
	}
	return &Registry{
		clients:    clients,
		configured: configured,
		timeout:    timeout,
		metrics:    metrics,
		logger:     logger.Named("llm"),
	}
}

// Configured reports whether an API key is present for p.
func (r *Registry) Configured(p Provider) bool {
	return r.configured[p]
}

// Generate runs prompt against provider under the registry timeout. There is
// no retry and no fallback to the other provider.
func (r *Registry) Generate(ctx context.Context, provider Provider, prompt string) (string, error) {
	client, ok := r.clients[provider]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedProvider, provider)
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := client.Generate(ctx, prompt)
	elapsed := time.Since(start)

	if err != nil {
		status := "error"
		switch {
		case errors.Is(err, ErrMissingAPIKey):
			status = "missing_key"
		case errors.Is(err, context.DeadlineExceeded):
			status = "timeout"
		case errors.Is(err, ErrEmptyResponse):
			status = "empty_response"
		}
		r.metrics.observe(provider, status, elapsed.Seconds())
		r.logger.Warn("generation failed",
			zap.String("provider", string(provider)),
			zap.String("status", status),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return "", providerError(provider, err)
	}

	r.metrics.observe(provider, "success", elapsed.Seconds())
	r.logger.Debug("generation succeeded",
		zap.String("provider", string(provider)),
		zap.Duration("elapsed", elapsed),
		zap.Int("chars", len(text)))
	return text, nil
}

// Close releases provider connections that need it.
func (r *Registry) Close() error {
	var errs []error
	for _, c := range r.clients {
		if closer, ok := c.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
