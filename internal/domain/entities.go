package domain

import "time"

// HomeworkStatus — код статуса проверки домашней работы.
type HomeworkStatus string

const (
	StatusApproved  HomeworkStatus = "approved"
	StatusReviewing HomeworkStatus = "reviewing"
	StatusRejected  HomeworkStatus = "rejected"
)

// Ключи полей в ответе API.
const (
	FieldHomeworks    = "homeworks"
	FieldCurrentDate  = "current_date"
	FieldHomeworkName = "homework_name"
	FieldStatus       = "status"
)

// PollHealth — снимок состояния цикла опроса для /healthz.
type PollHealth struct {
	Cycles        int64     `json:"cycles"`
	Cursor        int64     `json:"cursor"`
	LastCycleAt   time.Time `json:"last_cycle_at"`
	LastSuccessAt time.Time `json:"last_success_at"`
	LastError     string    `json:"last_error,omitempty"`
}
