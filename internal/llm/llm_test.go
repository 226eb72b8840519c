package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseProvider(t *testing.T) {
	p, err := ParseProvider("Claude")
	require.NoError(t, err)
	assert.Equal(t, ProviderClaude, p)

	p, err = ParseProvider(" GEMINI ")
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, p)

	_, err = ParseProvider("openai")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestClaudeClient_Generate(t *testing.T) {
	var gotKey, gotVersion string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","model":"claude-3-5-sonnet-20241022",
			"content":[{"type":"text","text":"The torch flickers."}],
			"stop_reason":"end_turn","usage":{"input_tokens":10,"output_tokens":5}}`))
	}))
	defer srv.Close()

	c := NewClaudeClient("test-key", "", srv.URL+"/v1", 0)
	text, err := c.Generate(context.Background(), "write")

	require.NoError(t, err)
	assert.Equal(t, "The torch flickers.", text)
	assert.Equal(t, "test-key", gotKey)
	assert.NotEmpty(t, gotVersion)
	assert.Equal(t, DefaultClaudeModel, gotBody["model"])
	assert.EqualValues(t, 1000, gotBody["max_tokens"])
}

func TestClaudeClient_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"api_error","message":"upstream exploded"}}`))
	}))
	defer srv.Close()

	c := NewClaudeClient("test-key", "", srv.URL+"/v1", 0)
	_, err := c.Generate(context.Background(), "write")

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ProviderClaude, pe.Provider)
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestClaudeClient_EmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"msg_1","type":"message","role":"assistant","content":[]}`))
	}))
	defer srv.Close()

	c := NewClaudeClient("test-key", "", srv.URL+"/v1", 0)
	_, err := c.Generate(context.Background(), "write")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestMissingKeys(t *testing.T) {
	claude := NewClaudeClient("", "", "", 0)
	_, err := claude.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	gemini, err := NewGeminiClient(context.Background(), "", "", 0)
	require.NoError(t, err)
	_, err = gemini.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.NoError(t, gemini.Close())

	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ProviderGemini, pe.Provider)
}

func TestRegistry_GenerateRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	mock := &MockLLM{Response: "Once upon a time"}
	r := NewRegistryWithClients(map[Provider]LLMClient{ProviderClaude: mock}, time.Second, metrics, zap.NewNop())

	text, err := r.Generate(context.Background(), ProviderClaude, "prompt")
	require.NoError(t, err)
	assert.Equal(t, "Once upon a time", text)
	assert.Equal(t, []string{"prompt"}, mock.Prompts)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("claude", "success")))
	assert.True(t, r.Configured(ProviderClaude))
	assert.False(t, r.Configured(ProviderGemini))
}

func TestRegistry_UnknownProvider(t *testing.T) {
	r := NewRegistryWithClients(map[Provider]LLMClient{}, time.Second, nil, zap.NewNop())
	_, err := r.Generate(context.Background(), ProviderGemini, "p")
	assert.ErrorIs(t, err, ErrUnsupportedProvider)
}

func TestRegistry_Timeout(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	mock := &MockLLM{Block: true}
	r := NewRegistryWithClients(map[Provider]LLMClient{ProviderGemini: mock}, 20*time.Millisecond, metrics, zap.NewNop())

	_, err := r.Generate(context.Background(), ProviderGemini, "p")

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	var pe *ProviderError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, ProviderGemini, pe.Provider)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("gemini", "timeout")))
}

func TestRegistry_KeepsProviderErrorDetail(t *testing.T) {
	upstream := &ProviderError{Provider: ProviderClaude, Err: errors.New("status 529: overloaded")}
	r := NewRegistryWithClients(map[Provider]LLMClient{ProviderClaude: &MockLLM{Err: upstream}}, time.Second, nil, zap.NewNop())

	_, err := r.Generate(context.Background(), ProviderClaude, "p")
	assert.Same(t, upstream, err)
	assert.Equal(t, "claude: status 529: overloaded", err.Error())
}

func TestNewRegistry_FromConfig(t *testing.T) {
	cfg := testConfig()
	r, err := NewRegistry(context.Background(), cfg, nil, zap.NewNop())
	require.NoError(t, err)
	defer r.Close()

	assert.True(t, r.Configured(ProviderClaude))
	assert.False(t, r.Configured(ProviderGemini))

	_, err = r.Generate(context.Background(), ProviderGemini, "p")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
