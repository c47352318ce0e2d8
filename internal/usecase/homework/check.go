package homework

import (
	"encoding/json"
	"math"

	"homework-status-bot/internal/domain"
)

// CheckResponse проверяет структуру ответа API и возвращает список домашних работ.
func CheckResponse(resp any) ([]any, error) {
	if isEmpty(resp) {
		return nil, &domain.ResponseShapeError{Err: domain.ErrEmptyResponse}
	}
	body, ok := resp.(map[string]any)
	if !ok {
		return nil, &domain.ResponseShapeError{Err: domain.ErrResponseType}
	}
	raw, ok := body[domain.FieldHomeworks]
	if !ok {
		return nil, &domain.ResponseShapeError{Err: domain.ErrMissingHomeworks}
	}
	homeworks, ok := raw.([]any)
	if !ok {
		return nil, &domain.ResponseShapeError{Err: domain.ErrCheckResponse}
	}
	return homeworks, nil
}

// CurrentDate возвращает current_date из ответа, если он есть и является целым числом.
func CurrentDate(resp any) (int64, bool) {
	body, ok := resp.(map[string]any)
	if !ok {
		return 0, false
	}
	switch v := body[domain.FieldCurrentDate].(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	case float64:
		if v != math.Trunc(v) {
			return 0, false
		}
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}

// isEmpty повторяет проверку на «пустое» значение JSON: null, пустые объект,
// массив и строка, false и ноль.
func isEmpty(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case map[string]any:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case string:
		return t == ""
	case bool:
		return !t
	case json.Number:
		f, err := t.Float64()
		return err == nil && f == 0
	case float64:
		return t == 0
	default:
		return false
	}
}
