package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"homework-status-bot/internal/domain"
	"homework-status-bot/internal/infra/metrics"
	"homework-status-bot/internal/usecase/homework"
)

// DefaultInterval — пауза между циклами опроса.
const DefaultInterval = 600 * time.Second

// errorKey — ключ последнего отправленного сообщения об ошибке в lastSent.
// Ключи домашних работ имеют префикс homeworkKeyPrefix и с ним не пересекаются.
const (
	errorKey          = "error"
	homeworkKeyPrefix = "homework:"
)

// Service опрашивает API статусов и пересылает изменения в чат.
type Service struct {
	source   domain.StatusSource
	notifier domain.Notifier
	log      zerolog.Logger
	interval time.Duration
	now      func() time.Time

	cursor   int64
	lastSent map[string]string

	mu     sync.Mutex
	health domain.PollHealth
}

// Option настраивает Service.
type Option func(*Service)

// WithInterval задаёт паузу между циклами.
func WithInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithClock подменяет источник времени.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithCursor задаёт начальное значение курсора.
func WithCursor(cursor int64) Option {
	return func(s *Service) {
		s.cursor = cursor
	}
}

// NewService создаёт цикл опроса. Курсор по умолчанию равен текущему времени.
func NewService(source domain.StatusSource, notifier domain.Notifier, log zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		source:   source,
		notifier: notifier,
		log:      log.With().Str("component", "poller").Logger(),
		interval: DefaultInterval,
		now:      time.Now,
		lastSent: map[string]string{errorKey: ""},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cursor == 0 {
		s.cursor = s.now().Unix()
	}
	s.health.Cursor = s.cursor
	return s
}

// Run повторяет циклы опроса с паузой interval до отмены ctx.
func (s *Service) Run(ctx context.Context) {
	s.log.Info().Dur("interval", s.interval).Int64("cursor", s.cursor).Msg("poller: started")
	timer := time.NewTimer(s.interval)
	defer timer.Stop()

	for {
		_ = s.RunOnce(ctx)

		timer.Reset(s.interval)
		select {
		case <-ctx.Done():
			s.log.Info().Msg("poller: stopped")
			return
		case <-timer.C:
		}
	}
}

// RunOnce выполняет один цикл: запрос, проверку ответа, рассылку и обработку ошибки.
// Возвращает ошибку цикла уже после того, как она обработана.
func (s *Service) RunOnce(ctx context.Context) error {
	cycleLog := s.log.With().Str("cycle_id", uuid.NewString()).Int64("cursor", s.cursor).Logger()

	err := s.poll(ctx, cycleLog)
	metrics.ObserveCycle(err)
	s.recordHealth(err)

	if err != nil {
		if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
			cycleLog.Info().Err(err).Msg("poller: cycle interrupted")
			return err
		}
		cycleLog.Error().Err(err).Msg("poller: cycle failed")
		s.reportError(ctx, cycleLog, err)
		return err
	}
	s.lastSent[errorKey] = ""
	return nil
}

// Cursor возвращает текущую нижнюю границу окна запроса.
func (s *Service) Cursor() int64 {
	return s.cursor
}

// Health возвращает снимок состояния цикла.
func (s *Service) Health() domain.PollHealth {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.health
}

func (s *Service) poll(ctx context.Context, log zerolog.Logger) error {
	log.Info().Msg("poller: requesting homework statuses")
	resp, err := s.source.GetAPIAnswer(ctx, s.cursor)
	if err != nil {
		return err
	}
	homeworks, err := homework.CheckResponse(resp)
	if err != nil {
		return err
	}

	if len(homeworks) == 0 {
		log.Info().Msg("poller: no new homework statuses")
	}
	for _, record := range homeworks {
		if err := s.dispatch(ctx, log, record); err != nil {
			return err
		}
	}

	if current, ok := homework.CurrentDate(resp); ok {
		s.cursor = current
		metrics.PollCursor.Set(float64(current))
	}
	return nil
}

func (s *Service) dispatch(ctx context.Context, log zerolog.Logger, record any) error {
	message, err := homework.ParseStatus(record)
	if err != nil {
		return err
	}
	name := homework.Name(record)
	metrics.HomeworkStatuses.WithLabelValues(homework.Status(record)).Inc()

	key := homeworkKeyPrefix + name
	if s.lastSent[key] == message {
		log.Debug().Str("homework", name).Msg("poller: status already reported")
		metrics.NotificationsSuppressed.Inc()
		return nil
	}
	if err := s.notifier.SendMessage(ctx, message); err != nil {
		return err
	}
	s.lastSent[key] = message
	metrics.NotificationsSent.WithLabelValues("status").Inc()
	log.Info().Str("homework", name).Str("message", message).Msg("poller: status sent")
	return nil
}

// reportError отправляет текст ошибки, если он отличается от последнего отправленного.
func (s *Service) reportError(ctx context.Context, log zerolog.Logger, cause error) {
	message := fmt.Sprintf("Program failure: %v", cause)
	if s.lastSent[errorKey] == message {
		log.Debug().Msg("poller: error already reported")
		metrics.NotificationsSuppressed.Inc()
		return
	}
	if err := s.notifier.SendMessage(ctx, message); err != nil {
		log.Error().Err(err).Msg("poller: failed to report error")
		return
	}
	s.lastSent[errorKey] = message
	metrics.NotificationsSent.WithLabelValues("error").Inc()
}

func (s *Service) recordHealth(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now().UTC()
	s.health.Cycles++
	s.health.LastCycleAt = now
	s.health.Cursor = s.cursor
	if err != nil {
		s.health.LastError = err.Error()
		return
	}
	s.health.LastError = ""
	s.health.LastSuccessAt = now
}
