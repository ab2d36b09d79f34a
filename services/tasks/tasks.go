package tasks

import (
	"encoding/json"
	"time"

	"havenly/models"

	"github.com/hibiken/asynq"
)

const (
	TypeSendEmail        = "email:send"
	TypeCheckInReminder  = "reminder:checkin"
	TypeCompleteBookings = "booking:complete"
)

// NewEmailTask wraps an email for background delivery.
func NewEmailTask(payload models.EmailPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSendEmail, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)}
	return task, opts, nil
}

func NewReminderTask(payload models.ReminderPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCheckInReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(payload.FireAt), asynq.MaxRetry(3)}

	return task, opts, nil
}

// NewCompleteBookingsTask is registered with the scheduler; it has no payload.
func NewCompleteBookingsTask() *asynq.Task {
	return asynq.NewTask(TypeCompleteBookings, nil)
}
