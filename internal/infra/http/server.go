package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"homework-status-bot/internal/domain"
)

// HealthFunc возвращает текущее состояние цикла опроса.
type HealthFunc func() domain.PollHealth

// Server отдаёт /metrics и /healthz рядом с циклом опроса.
type Server struct {
	Router chi.Router
	log    zerolog.Logger
	srv    *http.Server
}

// NewServer создаёт HTTP сервер. staleAfter — через сколько без успешного цикла
// /healthz отвечает 503; ноль отключает проверку.
func NewServer(logger zerolog.Logger, addr string, gatherer prometheus.Gatherer, health HealthFunc, staleAfter time.Duration) *Server {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", healthHandler(health, staleAfter))
	return &Server{
		Router: r,
		log:    logger,
		srv: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		},
	}
}

func healthHandler(health HealthFunc, staleAfter time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snapshot := health()
		status := http.StatusOK
		if staleAfter > 0 && !snapshot.LastCycleAt.IsZero() && time.Since(snapshot.LastSuccessAt) > staleAfter {
			status = http.StatusServiceUnavailable
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(snapshot)
	}
}

// Start запускает http.Server и блокируется до его остановки.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("http: server started")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown корректно завершает работу сервера.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
