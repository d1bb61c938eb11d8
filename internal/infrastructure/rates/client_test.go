package rates

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"DocStructurer/internal/domain"
)

func TestRatesLiveWithGapsFilled(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"result":"success","rates":{"USD":1,"GBP":0.75,"EUR":0.9}}`))
	}))
	defer srv.Close()

	got := NewClient(srv.URL, time.Second, nil, nil).Rates(context.Background())

	assert.Equal(t, map[string]float64{"USD": 1, "GBP": 0.75, "INR": 83.0}, got)
}

func TestRatesFallback(t *testing.T) {
	t.Parallel()

	cases := map[string]http.HandlerFunc{
		"server error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"malformed": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`not json`))
		},
		"slow": func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`{"rates":{"GBP":2}}`))
		},
	}

	for name, handler := range cases {
		name, handler := name, handler
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(handler)
			defer srv.Close()

			got := NewClient(srv.URL, 100*time.Millisecond, nil, nil).Rates(context.Background())
			assert.Equal(t, domain.FallbackRates(), got)
		})
	}
}

func TestRatesCustomFallbackIsCopied(t *testing.T) {
	t.Parallel()

	fallback := map[string]float64{"USD": 1, "GBP": 0.5, "INR": 80}
	client := NewClient("http://127.0.0.1:0/unreachable", 100*time.Millisecond, fallback, nil)

	got := client.Rates(context.Background())
	got["GBP"] = 99

	assert.Equal(t, 0.5, fallback["GBP"])
}
