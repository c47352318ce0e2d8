package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"

	"homework-status-bot/internal/domain"
)

// AppConfig описывает конфигурацию бота.
type AppConfig struct {
	AppEnv       string        `envconfig:"APP_ENV" default:"prod"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"600s"`
	HTTPAddr     string        `envconfig:"HTTP_ADDR" default:":9090"`

	Practicum struct {
		Token    string        `envconfig:"PRACTICUM_TOKEN" required:"true"`
		Endpoint string        `envconfig:"PRACTICUM_ENDPOINT" default:"https://practicum.yandex.ru/api/user_api/homework_statuses/"`
		Timeout  time.Duration `envconfig:"PRACTICUM_TIMEOUT" default:"30s"`
	} `envconfig:""`

	Telegram struct {
		Token       string        `envconfig:"TELEGRAM_TOKEN" required:"true"`
		ChatID      domain.ChatID `envconfig:"TELEGRAM_CHAT_ID" required:"true"`
		APIEndpoint string        `envconfig:"TELEGRAM_API_ENDPOINT" default:"https://api.telegram.org/bot%s/%s"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения. Отсутствие обязательной переменной
// возвращается как domain.ErrConfigurationMissing, неразбираемое значение —
// как domain.ErrConfigurationInvalid.
func Load() (AppConfig, error) {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		var parseErr *envconfig.ParseError
		if errors.As(err, &parseErr) {
			return AppConfig{}, fmt.Errorf("%w: %v", domain.ErrConfigurationInvalid, err)
		}
		return AppConfig{}, fmt.Errorf("%w: %v", domain.ErrConfigurationMissing, err)
	}
	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// validate ловит переменные, заданные пустой строкой: envconfig считает их присутствующими.
func (c AppConfig) validate() error {
	switch {
	case c.Practicum.Token == "":
		return fmt.Errorf("%w: PRACTICUM_TOKEN is empty", domain.ErrConfigurationMissing)
	case c.Telegram.Token == "":
		return fmt.Errorf("%w: TELEGRAM_TOKEN is empty", domain.ErrConfigurationMissing)
	case c.Telegram.ChatID == "":
		return fmt.Errorf("%w: TELEGRAM_CHAT_ID is empty", domain.ErrConfigurationMissing)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: POLL_INTERVAL must be positive, got %s", domain.ErrConfigurationInvalid, c.PollInterval)
	}
	if err := c.Telegram.ChatID.Validate(); err != nil {
		return fmt.Errorf("TELEGRAM_CHAT_ID: %w", err)
	}
	return nil
}
