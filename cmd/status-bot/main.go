package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"homework-status-bot/internal/adapters/practicum"
	"homework-status-bot/internal/adapters/telegram"
	"homework-status-bot/internal/infra/config"
	apphttp "homework-status-bot/internal/infra/http"
	applog "homework-status-bot/internal/infra/log"
	"homework-status-bot/internal/infra/metrics"
	"homework-status-bot/internal/usecase/poller"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, out io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		logger := applog.NewLogger(os.Getenv("APP_ENV"), out)
		logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("status-bot: конфигурация окружения некорректна, бот остановлен")
		return 1
	}
	logger := applog.NewLogger(cfg.AppEnv, out)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics.MustRegister(registry)

	botAPI := newBotAPI(cfg.Telegram.Token, cfg.Telegram.APIEndpoint)
	// Недоступность Telegram при старте не фатальна: отправка повторится в следующих циклах.
	if self, err := botAPI.GetMe(); err != nil {
		logger.Warn().Err(err).Msg("status-bot: getMe failed, continuing without bot identity")
	} else {
		botAPI.Self = self
		logger.Info().Str("bot", self.UserName).Msg("status-bot: authorized")
	}

	client, err := practicum.New(cfg.Practicum.Token,
		practicum.WithEndpoint(cfg.Practicum.Endpoint),
		practicum.WithTimeout(cfg.Practicum.Timeout),
	)
	if err != nil {
		logger.WithLevel(zerolog.FatalLevel).Err(err).Msg("status-bot: не удалось создать клиента API")
		return 1
	}

	notifier := telegram.NewNotifier(botAPI, cfg.Telegram.ChatID, logger)
	service := poller.NewService(client, notifier, logger, poller.WithInterval(cfg.PollInterval))

	if cfg.HTTPAddr != "" {
		server := apphttp.NewServer(logger.With().Str("component", "http").Logger(), cfg.HTTPAddr, registry, service.Health, 3*cfg.PollInterval)
		go func() {
			if err := server.Start(); err != nil {
				logger.Error().Err(err).Msg("status-bot: HTTP сервер остановлен")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("status-bot: graceful shutdown failed")
			}
		}()
	}

	logger.Info().Str("chat", string(cfg.Telegram.ChatID)).Msg("status-bot: запуск опроса")
	service.Run(ctx)
	logger.Info().Msg("status-bot: остановлен")
	return 0
}

// newBotAPI собирает клиента Telegram без сетевого вызова getMe,
// который делает tgbotapi.NewBotAPIWithClient.
func newBotAPI(token, endpoint string) *tgbotapi.BotAPI {
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: 30 * time.Second},
		Buffer: 100,
	}
	bot.SetAPIEndpoint(endpoint)
	return bot
}
