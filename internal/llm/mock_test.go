package llm

import (
	"context"

	"github.com/agenthands/storyweave/internal/config"
)

type MockLLM struct {
	Response string
	Err      error
	Prompts  []string
	Block    bool
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func testConfig() config.LLMConfig {
	cfg := config.Default().LLM
	cfg.Claude.APIKey = "claude-key"
	return cfg
}
