package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DocStructurer/internal/domain"
	"DocStructurer/internal/metrics"
)

type fakeProcessor struct {
	result *domain.ProcessingResult
	err    error
	panics bool
	got    []domain.ProcessingRequest
}

func (f *fakeProcessor) Process(ctx context.Context, req domain.ProcessingRequest) (*domain.ProcessingResult, error) {
	if f.panics {
		panic("boom")
	}
	f.got = append(f.got, req)
	return f.result, f.err
}

func newTestRouter(t *testing.T, proc Processor, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return SetupRouter(RouterDeps{
		Processor: proc,
		Metrics:   metrics.New(),
		StaticDir: staticDir,
	})
}

func postProcess(t *testing.T, r *gin.Engine, body string) map[string]any {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/process", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	return payload
}

func TestHealthHandler(t *testing.T) {
	r := newTestRouter(t, &fakeProcessor{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestProcessSuccess(t *testing.T) {
	proc := &fakeProcessor{result: &domain.ProcessingResult{
		HTML:        `<div class="a4">ok</div>`,
		Tokens:      domain.TokenUsage{Prompt: 100, Completion: 50, Total: 150},
		Cost:        domain.CostEstimate{USD: 0.5, GBP: 0.4, INR: 41.5},
		Model:       "gpt-5",
		Theme:       domain.ThemeFinance,
		Mode:        domain.ModeDocument,
		SourceTitle: "Quarterly report",
	}}
	r := newTestRouter(t, proc, "")

	payload := postProcess(t, r, `{"text":"some text","model":"gpt-5","verbosity":"Concise","articleUrl":"","aiTopic":""}`)

	require.Len(t, proc.got, 1)
	assert.Equal(t, "some text", proc.got[0].Text)
	assert.Equal(t, "gpt-5", proc.got[0].Model)
	assert.Equal(t, domain.VerbosityConcise, proc.got[0].Verbosity)

	assert.Nil(t, payload["error"])
	assert.Equal(t, `<div class="a4">ok</div>`, payload["html"])
	assert.Equal(t, map[string]any{"prompt": 100.0, "completion": 50.0, "total": 150.0}, payload["tokens"])
	assert.InDelta(t, 0.5, payload["cost"], 1e-9)
	assert.Equal(t, map[string]any{"USD": 0.5, "GBP": 0.4, "INR": 41.5}, payload["costInCurrencies"])
	assert.Equal(t, "finance", payload["theme"])
	assert.Equal(t, domain.ThemeFinance.Color(), payload["theme_color"])
	assert.Equal(t, "document", payload["mode"])
	assert.Equal(t, "Quarterly report", payload["source_title"])
}

func TestProcessOmitsEmptySourceTitle(t *testing.T) {
	proc := &fakeProcessor{result: &domain.ProcessingResult{HTML: "x", Theme: domain.ThemeDefault, Mode: domain.ModeResearch}}
	r := newTestRouter(t, proc, "")

	payload := postProcess(t, r, `{"aiTopic":"solar panels"}`)

	_, ok := payload["source_title"]
	assert.False(t, ok)
	assert.Equal(t, "research", payload["mode"])
	assert.Equal(t, "solar panels", proc.got[0].AITopic)
}

func TestProcessErrorMessages(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"no input", domain.ErrNoInput, "No input text or AI topic provided."},
		{"extraction", fmt.Errorf("%w: status 404", domain.ErrExtractionFailed), "Could not extract content from the provided URL."},
		{"empty html", domain.ErrEmptyResponse, "AI returned empty HTML."},
		{"provider", &domain.ProviderError{Provider: "openai", Model: "gpt-5", Attempts: 3, Err: errors.New("rate limited")}, "Unexpected server error: "},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(t, &fakeProcessor{err: tc.err}, "")
			payload := postProcess(t, r, `{"text":"abc"}`)

			msg, _ := payload["error"].(string)
			assert.True(t, strings.HasPrefix(msg, tc.want), "got %q", msg)
			assert.Nil(t, payload["html"])
		})
	}
}

func TestProcessMalformedBodyIsEmptyRequest(t *testing.T) {
	proc := &fakeProcessor{err: domain.ErrNoInput}
	r := newTestRouter(t, proc, "")

	payload := postProcess(t, r, `{not json`)

	require.Len(t, proc.got, 1)
	assert.True(t, proc.got[0].Empty())
	assert.Equal(t, "No input text or AI topic provided.", payload["error"])
}

func TestProcessPanicIsReportedAsError(t *testing.T) {
	r := newTestRouter(t, &fakeProcessor{panics: true}, "")

	payload := postProcess(t, r, `{"text":"abc"}`)

	assert.Equal(t, "Unexpected server error: boom", payload["error"])
}

func TestRequestIDIsEchoed(t *testing.T) {
	r := newTestRouter(t, &fakeProcessor{}, "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	r.ServeHTTP(w, req)

	assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
}

func TestIndexServesStaticFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>structurer</h1>"), 0o644))
	r := newTestRouter(t, &fakeProcessor{}, dir)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>structurer</h1>")
}

func TestIndexFallsBackToPlaceholder(t *testing.T) {
	r := newTestRouter(t, &fakeProcessor{}, t.TempDir())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/process")
}

func TestMetricsEndpoint(t *testing.T) {
	m := metrics.New()
	m.ObserveRequest("document", "ok", 0)
	gin.SetMode(gin.TestMode)
	r := SetupRouter(RouterDeps{Processor: &fakeProcessor{}, Metrics: m})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "requests_total")
}
