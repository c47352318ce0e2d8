package domain

import "context"

// StatusSource возвращает сырой ответ API статусов домашних работ.
type StatusSource interface {
	GetAPIAnswer(ctx context.Context, timestamp int64) (any, error)
}

// Notifier доставляет текстовые уведомления в настроенный чат.
type Notifier interface {
	SendMessage(ctx context.Context, text string) error
}
