package usecase

import (
	"context"
	"sync"

	"DocStructurer/internal/domain"
)

type fakeResponse struct {
	res domain.CompletionResult
	err error
}

// fakeProvider replays responses in order and repeats the last one.
type fakeProvider struct {
	name      string
	available bool
	onCall    func(n int)

	mu        sync.Mutex
	requests  []domain.ChatRequest
	responses []fakeResponse
}

func newFakeProvider(name string, responses ...fakeResponse) *fakeProvider {
	return &fakeProvider{name: name, available: true, responses: responses}
}

func (f *fakeProvider) Name() string    { return f.name }
func (f *fakeProvider) Available() bool { return f.available }

func (f *fakeProvider) Complete(_ context.Context, req domain.ChatRequest) (domain.CompletionResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	n := len(f.requests)
	var resp fakeResponse
	if len(f.responses) > 0 {
		idx := n - 1
		if idx >= len(f.responses) {
			idx = len(f.responses) - 1
		}
		resp = f.responses[idx]
	}
	onCall := f.onCall
	f.mu.Unlock()

	if onCall != nil {
		onCall(n)
	}
	return resp.res, resp.err
}

func (f *fakeProvider) calls() []domain.ChatRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ChatRequest(nil), f.requests...)
}

func answer(content string) fakeResponse {
	return fakeResponse{res: domain.CompletionResult{Content: content}}
}

type fakeRates map[string]float64

func (f fakeRates) Rates(context.Context) map[string]float64 {
	out := make(map[string]float64, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}
