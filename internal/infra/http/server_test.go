package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-status-bot/internal/domain"
)

func TestHealthzReturnsSnapshot(t *testing.T) {
	now := time.Now().UTC()
	health := func() domain.PollHealth {
		return domain.PollHealth{Cycles: 3, Cursor: 1000, LastCycleAt: now, LastSuccessAt: now}
	}
	srv := NewServer(zerolog.Nop(), ":0", prometheus.NewRegistry(), health, time.Hour)

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.PollHealth
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, int64(3), got.Cycles)
	assert.Equal(t, int64(1000), got.Cursor)
}

func TestHealthzStale(t *testing.T) {
	old := time.Now().Add(-2 * time.Hour)
	health := func() domain.PollHealth {
		return domain.PollHealth{Cycles: 5, LastCycleAt: time.Now(), LastSuccessAt: old, LastError: "boom"}
	}
	srv := NewServer(zerolog.Nop(), ":0", prometheus.NewRegistry(), health, time.Hour)

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "boom")
}

func TestMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test"})
	registry.MustRegister(counter)
	counter.Inc()

	srv := NewServer(zerolog.Nop(), ":0", registry, func() domain.PollHealth { return domain.PollHealth{} }, 0)

	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test_total 1")
}
