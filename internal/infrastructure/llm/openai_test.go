package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DocStructurer/internal/config"
	"DocStructurer/internal/domain"
)

type capturedRequest struct {
	Model       string   `json:"model"`
	MaxTokens   int      `json:"max_tokens"`
	Temperature *float64 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newOpenAIServer(t *testing.T, status int, body string, captured *capturedRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if captured != nil {
			_ = json.NewDecoder(r.Body).Decode(captured)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIProviderComplete(t *testing.T) {
	t.Parallel()

	var captured capturedRequest
	srv := newOpenAIServer(t, http.StatusOK, `{
		"id":"chatcmpl-1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
		"choices":[{"index":0,"message":{"role":"assistant","content":"<h1>Hello</h1>"},"finish_reason":"stop"}],
		"usage":{"prompt_tokens":12,"completion_tokens":5,"total_tokens":17}
	}`, &captured)

	provider := NewOpenAIProvider(config.OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "gpt-4o-mini"}, srv.Client())
	require.True(t, provider.Available())

	zero := float32(0)
	res, err := provider.Complete(context.Background(), domain.ChatRequest{
		System:      "system prompt",
		User:        "user prompt",
		MaxTokens:   20,
		Temperature: &zero,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.CompletionResult{
		Content:          "<h1>Hello</h1>",
		PromptTokens:     12,
		CompletionTokens: 5,
		TotalTokens:      17,
		Provider:         OpenAIName,
		Model:            "gpt-4o-mini",
	}, res)

	assert.Equal(t, "gpt-4o-mini", captured.Model)
	assert.Equal(t, 20, captured.MaxTokens)
	require.NotNil(t, captured.Temperature)
	assert.InDelta(t, 0, *captured.Temperature, 1e-9)
	require.Len(t, captured.Messages, 2)
	assert.Equal(t, "system", captured.Messages[0].Role)
	assert.Equal(t, "user prompt", captured.Messages[1].Content)
}

func TestOpenAIProviderErrors(t *testing.T) {
	t.Parallel()

	t.Run("server error", func(t *testing.T) {
		t.Parallel()
		srv := newOpenAIServer(t, http.StatusInternalServerError, `{"error":{"message":"overloaded","type":"server_error"}}`, nil)
		provider := NewOpenAIProvider(config.OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "gpt-4o"}, srv.Client())

		_, err := provider.Complete(context.Background(), domain.ChatRequest{User: "hi"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "openai chat completion")
	})

	t.Run("no choices", func(t *testing.T) {
		t.Parallel()
		srv := newOpenAIServer(t, http.StatusOK, `{"id":"x","choices":[],"usage":{}}`, nil)
		provider := NewOpenAIProvider(config.OpenAIConfig{BaseURL: srv.URL + "/v1", APIKey: "sk-test", Model: "gpt-4o"}, srv.Client())

		_, err := provider.Complete(context.Background(), domain.ChatRequest{User: "hi"})
		assert.ErrorContains(t, err, "no choices")
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()
		provider := NewOpenAIProvider(config.OpenAIConfig{Model: "gpt-4o"}, nil)
		assert.False(t, provider.Available())

		_, err := provider.Complete(context.Background(), domain.ChatRequest{User: "hi"})
		assert.EqualError(t, err, "openai provider misconfigured")
	})
}
