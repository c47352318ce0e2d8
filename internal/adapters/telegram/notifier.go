package telegram

import (
	"context"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"homework-status-bot/internal/domain"
	"homework-status-bot/internal/infra/metrics"
)

// Sender — часть tgbotapi.BotAPI, нужная для отправки сообщений.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier отправляет уведомления в один чат.
type Notifier struct {
	bot    Sender
	chatID domain.ChatID
	log    zerolog.Logger
}

// NewNotifier создаёт отправителя для чата chatID: числового id или @username канала.
func NewNotifier(bot Sender, chatID domain.ChatID, log zerolog.Logger) *Notifier {
	return &Notifier{bot: bot, chatID: chatID, log: log.With().Str("component", "notifier").Logger()}
}

// SendMessage отправляет текст, разбивая его на части по лимиту Telegram.
// Ошибка доставки возвращается как *domain.NotificationDeliveryError.
func (n *Notifier) SendMessage(ctx context.Context, text string) error {
	parts := splitText(text, messageLimit)
	if len(parts) == 0 {
		return &domain.NotificationDeliveryError{ChatID: n.chatID, Err: domain.ErrEmptyMessage}
	}
	for _, part := range parts {
		if err := ctx.Err(); err != nil {
			return &domain.NotificationDeliveryError{ChatID: n.chatID, Err: err}
		}
		msg, err := n.newMessage(part)
		if err != nil {
			return &domain.NotificationDeliveryError{ChatID: n.chatID, Err: err}
		}
		start := time.Now()
		_, err = n.bot.Send(msg)
		metrics.ObserveNetworkRequest("telegram_bot", "send_message", start, err)
		if err != nil {
			metrics.BotSendErrors.Inc()
			return &domain.NotificationDeliveryError{ChatID: n.chatID, Err: err}
		}
		n.log.Debug().Str("chat", string(n.chatID)).Str("text", part).Msg("message sent")
	}
	return nil
}

func (n *Notifier) newMessage(text string) (tgbotapi.MessageConfig, error) {
	if n.chatID.IsChannel() {
		return tgbotapi.NewMessageToChannel(string(n.chatID), text), nil
	}
	id, err := n.chatID.Int64()
	if err != nil {
		return tgbotapi.MessageConfig{}, err
	}
	return tgbotapi.NewMessage(id, text), nil
}

var _ domain.Notifier = (*Notifier)(nil)
