package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"DocStructurer/internal/config"
	"DocStructurer/internal/domain"
	"DocStructurer/internal/ports"
)

// GeminiName is the registry name of the secondary provider.
const GeminiName = "gemini"

// GeminiProvider implements ports.ChatProvider on the Gemini API.
type GeminiProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

var _ ports.ChatProvider = (*GeminiProvider)(nil)

// NewGeminiProvider builds a provider; without an API key it reports unavailable.
func NewGeminiProvider(cfg config.GeminiConfig, httpClient *http.Client) *GeminiProvider {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 120 * time.Second}
	}
	return &GeminiProvider{
		apiKey:     strings.TrimSpace(cfg.APIKey),
		baseURL:    cfg.BaseURL,
		httpClient: httpClient,
	}
}

// Name identifies the provider inside the registry.
func (p *GeminiProvider) Name() string {
	return GeminiName
}

// Available reports whether a credential is configured.
func (p *GeminiProvider) Available() bool {
	return p != nil && p.apiKey != ""
}

// Complete runs GenerateContent. Gemini usage is approximated by counting
// whitespace-separated words of the prompt and the answer.
func (p *GeminiProvider) Complete(ctx context.Context, req domain.ChatRequest) (domain.CompletionResult, error) {
	if !p.Available() {
		return domain.CompletionResult{}, errors.New("gemini provider misconfigured")
	}
	if req.Model == "" {
		return domain.CompletionResult{}, errors.New("gemini model is required")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:     p.apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: p.httpClient,
	}
	if p.baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: p.baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("gemini client: %w", err)
	}

	genCfg := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if system := strings.TrimSpace(req.System); system != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if req.Temperature != nil {
		genCfg.Temperature = genai.Ptr(*req.Temperature)
	}

	resp, err := client.Models.GenerateContent(ctx, req.Model, genai.Text(req.User), genCfg)
	if err != nil {
		return domain.CompletionResult{}, fmt.Errorf("gemini generate content: %w", err)
	}

	text := responseText(resp)
	if text == "" {
		return domain.CompletionResult{}, errors.New("gemini generate content: empty answer")
	}

	promptTokens := approxTokens(req.System) + approxTokens(req.User)
	completionTokens := approxTokens(text)

	return domain.CompletionResult{
		Content:          text,
		PromptTokens:     promptTokens,
		CompletionTokens: completionTokens,
		TotalTokens:      promptTokens + completionTokens,
		Provider:         GeminiName,
		Model:            req.Model,
	}, nil
}

func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ""
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

func approxTokens(text string) int {
	return len(strings.Fields(text))
}
