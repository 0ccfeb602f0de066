package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuietHTTPClient(breakerMax int) *RateLimitedHTTPClient {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel)
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = breakerMax
	return NewRateLimitedHTTPClient(cfg, logger)
}

func TestHTTPClientConcurrentRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	t.Cleanup(server.Close)

	client := newQuietHTTPClient(5)

	// Hammer the shared client from several goroutines; the circuit
	// breaker state must stay consistent under the race detector
	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			for j := 0; j < 4; j++ {
				resp, err := client.Get(context.Background(), server.URL)
				if err != nil {
					errs[slot] = err
					return
				}
				resp.Body.Close()
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

func TestHTTPClientCircuitBreakerOpens(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // every request now fails to connect

	client := newQuietHTTPClient(2)

	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	_, err = client.Get(context.Background(), server.URL)
	require.Error(t, err)

	// Breaker is open; the request is refused before reaching the wire
	_, err = client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}
