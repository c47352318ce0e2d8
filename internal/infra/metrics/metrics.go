package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	PollCycles = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "poll_cycles_total",
		Help: "Циклы опроса API по результату",
	}, []string{"result"})
	PollCursor = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "poll_cursor_seconds",
		Help: "Текущая нижняя граница окна запроса (unix)",
	})
	HomeworkStatuses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "homework_statuses_total",
		Help: "Полученные статусы домашних работ",
	}, []string{"status"})
	NotificationsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_sent_total",
		Help: "Отправленные уведомления по типу",
	}, []string{"kind"})
	NotificationsSuppressed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notifications_suppressed_total",
		Help: "Уведомления, подавленные как повторные",
	})
	BotSendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "bot_send_errors_total",
		Help: "Ошибки отправки сообщений ботом",
	})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 60},
	}, []string{"component", "operation", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		PollCycles,
		PollCursor,
		HomeworkStatuses,
		NotificationsSent,
		NotificationsSuppressed,
		BotSendErrors,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	NetworkRequestDuration.WithLabelValues(component, operation, status).Observe(time.Since(start).Seconds())
	NetworkRequestTotal.WithLabelValues(component, operation, status).Inc()
}

// ObserveCycle учитывает завершённый цикл опроса.
func ObserveCycle(err error) {
	if err != nil {
		PollCycles.WithLabelValues("error").Inc()
		return
	}
	PollCycles.WithLabelValues("success").Inc()
}
