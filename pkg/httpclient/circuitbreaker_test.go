package httpclient

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
		FailureRatio: 0.5,
		MinRequests:  3,
	}
}

func TestBreakerClient_PassesThroughSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	bc := NewBreakerClient(New(fastConfig()), testBreakerConfig("bc-success"), newTestLogger())
	resp, err := bc.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, gobreaker.StateClosed, bc.State())
}

func TestBreakerClient_OpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.MaxRetries = 0
	bc := NewBreakerClient(New(cfg), testBreakerConfig("bc-open"), newTestLogger())

	for i := 0; i < 3; i++ {
		_, err := bc.Get(context.Background(), srv.URL)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, bc.State())

	_, err := bc.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircuitOpen))
}

func TestBreakerClient_5xxCountsAsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	cfg := fastConfig()
	cfg.MaxRetries = 0
	bc := NewBreakerClient(New(cfg), testBreakerConfig("bc-5xx"), newTestLogger())

	_, err := bc.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error 502")
}
