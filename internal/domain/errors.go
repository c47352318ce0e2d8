package domain

import (
	"errors"
	"fmt"
)

// ErrConfigurationMissing возвращается, если не задана обязательная переменная окружения.
var ErrConfigurationMissing = errors.New("required environment variable is missing")

// ErrConfigurationInvalid возвращается, если переменная окружения задана, но не разбирается.
var ErrConfigurationInvalid = errors.New("environment variable has invalid value")

// ErrEmptyMessage возвращается при попытке отправить пустой текст.
var ErrEmptyMessage = errors.New("message text is empty")

// Причины ResponseShapeError.
var (
	ErrEmptyResponse    = errors.New("response is empty")
	ErrResponseType     = errors.New("response has unexpected type")
	ErrMissingHomeworks = errors.New("response has no homeworks key")
	ErrCheckResponse    = errors.New("homeworks field is not a list")
)

// Причины StatusParseError.
var (
	ErrHomeworkType  = errors.New("homework record is not an object")
	ErrMissingName   = errors.New("homework name is missing")
	ErrMissingStatus = errors.New("homework status key is missing")
	ErrUnknownStatus = errors.New("undocumented homework status")
)

// HTTPRequestError описывает ответ API с кодом, отличным от 200.
type HTTPRequestError struct {
	URL        string
	StatusCode int
}

func (e *HTTPRequestError) Error() string {
	return fmt.Sprintf("%s endpoint is unavailable. API response code: %d", e.URL, e.StatusCode)
}

// ResponseShapeError сообщает о неожиданной структуре ответа API.
type ResponseShapeError struct {
	Err error
}

func (e *ResponseShapeError) Error() string {
	return "api response check: " + e.Err.Error()
}

func (e *ResponseShapeError) Unwrap() error { return e.Err }

// StatusParseError сообщает о некорректной записи домашней работы.
type StatusParseError struct {
	Err    error
	Detail string
}

func (e *StatusParseError) Error() string {
	if e.Detail == "" {
		return "homework status parse: " + e.Err.Error()
	}
	return fmt.Sprintf("homework status parse: %s: %s", e.Err, e.Detail)
}

func (e *StatusParseError) Unwrap() error { return e.Err }

// NotificationDeliveryError возвращается, если Telegram не принял сообщение.
type NotificationDeliveryError struct {
	ChatID ChatID
	Err    error
}

func (e *NotificationDeliveryError) Error() string {
	return fmt.Sprintf("send message to chat %s: %v", e.ChatID, e.Err)
}

func (e *NotificationDeliveryError) Unwrap() error { return e.Err }
