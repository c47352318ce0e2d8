package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ChatID — идентификатор чата Telegram: число или @username канала.
type ChatID string

// IsChannel сообщает, задан ли чат через @username.
func (c ChatID) IsChannel() bool {
	return strings.HasPrefix(string(c), "@")
}

// Int64 возвращает числовой идентификатор чата.
func (c ChatID) Int64() (int64, error) {
	return strconv.ParseInt(string(c), 10, 64)
}

// Validate проверяет формат идентификатора.
func (c ChatID) Validate() error {
	if c.IsChannel() {
		if len(c) < 2 || strings.ContainsAny(string(c[1:]), " @") {
			return fmt.Errorf("%w: bad channel username %q", ErrConfigurationInvalid, string(c))
		}
		return nil
	}
	id, err := c.Int64()
	if err != nil || id == 0 {
		return fmt.Errorf("%w: chat id %q is neither a number nor @username", ErrConfigurationInvalid, string(c))
	}
	return nil
}
