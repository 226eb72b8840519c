package llm

import (
	"context"

	"github.com/liushuangls/go-anthropic/v2"
)

const DefaultClaudeModel = "claude-3-5-sonnet-20241022"

type ClaudeClient struct {
	client    *anthropic.Client
	apiKey    string
	model     string
	maxTokens int
}

// NewClaudeClient never fails; a missing key is reported on each Generate
// call so the service can still start without it.
func NewClaudeClient(apiKey, model, baseURL string, maxTokens int) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	if model == "" {
		model = DefaultClaudeModel
	}
	if maxTokens <= 0 {
		maxTokens = 1000
	}

	return &ClaudeClient{
		client:    anthropic.NewClient(apiKey, opts...),
		apiKey:    apiKey,
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", providerError(ProviderClaude, ErrMissingAPIKey)
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(prompt),
				},
			},
		},
		MaxTokens: c.maxTokens,
	})
	if err != nil {
		return "", providerError(ProviderClaude, err)
	}

	if len(resp.Content) > 0 && resp.Content[0].Text != nil {
		return *resp.Content[0].Text, nil
	}
	return "", providerError(ProviderClaude, ErrEmptyResponse)
}
