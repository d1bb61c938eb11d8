package llm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"DocStructurer/internal/config"
	"DocStructurer/internal/domain"
	"DocStructurer/internal/ports"
)

// OpenAIName is the registry name of the primary provider.
const OpenAIName = "openai"

// OpenAIProvider implements ports.ChatProvider backed by OpenAI-compatible APIs.
type OpenAIProvider struct {
	apiKey       string
	defaultModel string
	client       *openai.Client
}

var _ ports.ChatProvider = (*OpenAIProvider)(nil)

// NewOpenAIProvider builds a provider from configuration. A nil httpClient
// gets a generous timeout; per-call deadlines come from the context.
func NewOpenAIProvider(cfg config.OpenAIConfig, httpClient *http.Client) *OpenAIProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	clientCfg.HTTPClient = httpClient

	return &OpenAIProvider{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		defaultModel: cfg.Model,
		client:       openai.NewClientWithConfig(clientCfg),
	}
}

// Name identifies the provider inside the registry.
func (p *OpenAIProvider) Name() string {
	return OpenAIName
}

// Available reports whether a credential is configured.
func (p *OpenAIProvider) Available() bool {
	return p != nil && p.apiKey != ""
}

// Complete sends system and user messages as one chat completion.
func (p *OpenAIProvider) Complete(ctx context.Context, req domain.ChatRequest) (domain.CompletionResult, error) {
	if !p.Available() {
		return domain.CompletionResult{}, errors.New("openai provider misconfigured")
	}

	model := req.Model
	if model == "" {
		model = p.defaultModel
	}

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if system := strings.TrimSpace(req.System); system != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: system})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.User})

	chatReq := openai.ChatCompletionRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
	}
	if req.Temperature != nil {
		chatReq.Temperature = *req.Temperature
		// A zero temperature is dropped by omitempty.
		if chatReq.Temperature == 0 {
			chatReq.Temperature = math.SmallestNonzeroFloat32
		}
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return domain.CompletionResult{}, errors.New("openai chat completion: no choices returned")
	}

	return domain.CompletionResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
		TotalTokens:      resp.Usage.TotalTokens,
		Provider:         OpenAIName,
		Model:            model,
	}, nil
}
