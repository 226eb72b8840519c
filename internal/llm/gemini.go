package llm

import (
	"context"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "gemini-pro"

type GeminiClient struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewGeminiClient only dials when a key is present. Without one the client
// reports ErrMissingAPIKey from Generate.
func NewGeminiClient(ctx context.Context, apiKey, model string, maxTokens int, opts ...option.ClientOption) (*GeminiClient, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	c := &GeminiClient{model: model, maxTokens: int32(maxTokens)}
	if apiKey == "" {
		return c, nil
	}

	client, err := genai.NewClient(ctx, append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, providerError(ProviderGemini, err)
	}
	c.client = client
	return c, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	if c.client == nil {
		return "", providerError(ProviderGemini, ErrMissingAPIKey)
	}

	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.7)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(c.maxTokens)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", providerError(ProviderGemini, err)
	}

	if len(resp.Candidates) > 0 && resp.Candidates[0].Content != nil && len(resp.Candidates[0].Content.Parts) > 0 {
		if txt, ok := resp.Candidates[0].Content.Parts[0].(genai.Text); ok {
			return string(txt), nil
		}
	}
	return "", providerError(ProviderGemini, ErrEmptyResponse)
}

func (c *GeminiClient) Close() error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}
