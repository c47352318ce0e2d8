package homework

import (
	"fmt"
	"strings"

	"homework-status-bot/internal/domain"
)

var verdicts = map[domain.HomeworkStatus]string{
	domain.StatusApproved:  "The work has been reviewed: the reviewer liked everything. Hooray!",
	domain.StatusReviewing: "The work has been taken for review by the reviewer.",
	domain.StatusRejected:  "The work has been reviewed: the reviewer has comments.",
}

// Verdict возвращает текст вердикта для известного статуса.
func Verdict(status domain.HomeworkStatus) (string, bool) {
	verdict, ok := verdicts[status]
	return verdict, ok
}

// ParseStatus формирует текст уведомления о смене статуса домашней работы.
// Запись без имени считается ошибкой.
func ParseStatus(record any) (string, error) {
	hw, ok := record.(map[string]any)
	if !ok {
		return "", &domain.StatusParseError{Err: domain.ErrHomeworkType, Detail: fmt.Sprintf("%T", record)}
	}

	name, _ := hw[domain.FieldHomeworkName].(string)
	if strings.TrimSpace(name) == "" {
		return "", &domain.StatusParseError{Err: domain.ErrMissingName}
	}

	rawStatus, ok := hw[domain.FieldStatus]
	if !ok {
		return "", &domain.StatusParseError{Err: domain.ErrMissingStatus, Detail: name}
	}
	status, _ := rawStatus.(string)
	verdict, ok := Verdict(domain.HomeworkStatus(status))
	if !ok {
		return "", &domain.StatusParseError{Err: domain.ErrUnknownStatus, Detail: fmt.Sprintf("%v", rawStatus)}
	}

	return fmt.Sprintf("Changed review status of \"%s\". %s", name, verdict), nil
}

// Name возвращает имя домашней работы или пустую строку.
func Name(record any) string {
	hw, ok := record.(map[string]any)
	if !ok {
		return ""
	}
	name, _ := hw[domain.FieldHomeworkName].(string)
	return name
}

// Status возвращает код статуса домашней работы или пустую строку.
func Status(record any) string {
	hw, ok := record.(map[string]any)
	if !ok {
		return ""
	}
	status, _ := hw[domain.FieldStatus].(string)
	return status
}
