package notification

import (
	"context"
	"fmt"
	"time"

	"havenly/models"
	"havenly/services/tasks"
	"havenly/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NotificationService hands messages to the background worker.
type NotificationService interface {
	SendEmail(ctx context.Context, email models.EmailPayload) error
	ScheduleCheckInReminder(ctx context.Context, bookingID string, fireAt time.Time) error
}

// QueueNotificationService enqueues work on asynq.
type QueueNotificationService struct {
	client *asynq.Client
}

func NewQueueNotificationService(client *asynq.Client) (*QueueNotificationService, error) {
	if client == nil {
		return nil, fmt.Errorf("notification service initialization error: asynq client is nil")
	}
	return &QueueNotificationService{client: client}, nil
}

func (s *QueueNotificationService) SendEmail(ctx context.Context, email models.EmailPayload) error {
	if email.ToEmail == "" {
		return fmt.Errorf("SendEmail: missing recipient")
	}
	task, opts, err := tasks.NewEmailTask(email)
	if err != nil {
		return fmt.Errorf("SendEmail: failed to build task: %w", err)
	}
	info, err := s.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("SendEmail: failed to enqueue: %w", err)
	}
	utils.GetLogger().Debug("Email enqueued", zap.String("taskID", info.ID), zap.String("to", email.ToEmail))
	return nil
}

func (s *QueueNotificationService) ScheduleCheckInReminder(ctx context.Context, bookingID string, fireAt time.Time) error {
	// A reminder whose moment already passed is sent right away.
	if fireAt.Before(time.Now()) {
		fireAt = time.Now()
	}
	task, opts, err := tasks.NewReminderTask(models.ReminderPayload{BookingID: bookingID, FireAt: fireAt})
	if err != nil {
		return fmt.Errorf("ScheduleCheckInReminder: failed to build task: %w", err)
	}
	if _, err := s.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("ScheduleCheckInReminder: failed to enqueue: %w", err)
	}
	return nil
}

// DirectNotificationService sends email inline; reminders are only logged.
// It backs deployments running without a queue.
type DirectNotificationService struct {
	Mailer Mailer
}

func (s *DirectNotificationService) SendEmail(ctx context.Context, email models.EmailPayload) error {
	return s.Mailer.Send(ctx, email)
}

func (s *DirectNotificationService) ScheduleCheckInReminder(_ context.Context, bookingID string, fireAt time.Time) error {
	utils.GetLogger().Warn("No queue configured, check-in reminder skipped",
		zap.String("bookingID", bookingID),
		zap.Time("fireAt", fireAt),
	)
	return nil
}
