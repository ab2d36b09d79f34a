package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"havenly/config"
	"havenly/models"
	"havenly/services/notification"
	"havenly/services/tasks"
	"havenly/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// CompletionSchedule is the cron spec of the ended-stays sweep.
const CompletionSchedule = "@hourly"

// BookingJobs is the part of the booking service the worker drives.
type BookingJobs interface {
	CheckInReminder(ctx context.Context, id string) (*models.EmailPayload, error)
	CompleteEndedBookings(ctx context.Context) (int64, error)
}

// Worker consumes the background queues and runs the periodic sweep.
type Worker struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
	mailer    notification.Mailer
	bookings  BookingJobs
}

// RedisOpt returns the asynq connection for the queue database.
func RedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

func NewWorker(mailer notification.Mailer, bookings BookingJobs) *Worker {
	opt := RedisOpt()
	w := &Worker{
		server: asynq.NewServer(opt, asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: utils.GetLogger().Sugar(),
		}),
		scheduler: asynq.NewScheduler(opt, &asynq.SchedulerOpts{Location: time.UTC}),
		mailer:    mailer,
		bookings:  bookings,
	}
	w.mux = w.routes()
	return w
}

func (w *Worker) routes() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSendEmail, w.handleEmail)
	mux.HandleFunc(tasks.TypeCheckInReminder, w.handleReminder)
	mux.HandleFunc(tasks.TypeCompleteBookings, w.handleComplete)
	return mux
}

// Start runs the worker and scheduler in the background.
func (w *Worker) Start(ctx context.Context) {
	logger := utils.GetLogger()

	if _, err := w.scheduler.Register(CompletionSchedule, tasks.NewCompleteBookingsTask()); err != nil {
		logger.Error("Failed to register completion sweep", zap.Error(err))
	} else {
		go func() {
			if err := w.scheduler.Run(); err != nil {
				logger.Error("Scheduler stopped", zap.Error(err))
			}
		}()
	}

	go monitorRedisConnection(ctx)

	go func() {
		logger.Info("Starting background worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.server.Run(w.mux)
			if err == nil {
				return
			}
			logger.Warn("Background worker failed to start",
				zap.Int("attempt", attempts),
				zap.Int("maxAttempts", maxAttempts),
				zap.Error(err),
			)
			if attempts == maxAttempts {
				logger.Error("Background worker gave up; queued jobs will wait for the next start")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
}

// Shutdown drains in-flight tasks.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

func (w *Worker) handleEmail(ctx context.Context, task *asynq.Task) error {
	var email models.EmailPayload
	if err := json.Unmarshal(task.Payload(), &email); err != nil {
		return fmt.Errorf("invalid email payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := w.mailer.Send(ctx, email); err != nil {
		utils.GetLogger().Warn("Email delivery failed", zap.String("to", email.ToEmail), zap.Error(err))
		return err
	}
	return nil
}

func (w *Worker) handleReminder(ctx context.Context, task *asynq.Task) error {
	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("invalid reminder payload: %v: %w", err, asynq.SkipRetry)
	}

	email, err := w.bookings.CheckInReminder(ctx, p.BookingID)
	if err != nil {
		if utils.StatusOf(err) == http.StatusNotFound {
			return nil
		}
		return err
	}
	if email == nil {
		// Cancelled or already started.
		utils.GetLogger().Debug("Reminder no longer needed", zap.String("bookingID", p.BookingID))
		return nil
	}
	return w.mailer.Send(ctx, *email)
}

func (w *Worker) handleComplete(ctx context.Context, _ *asynq.Task) error {
	n, err := w.bookings.CompleteEndedBookings(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		utils.GetLogger().Info("Completed ended bookings", zap.Int64("count", n))
	}
	return nil
}

// monitorRedisConnection pings the queue database to surface outages in logs.
func monitorRedisConnection(ctx context.Context) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				utils.GetLogger().Warn("Queue Redis unreachable", zap.Error(err))
			}
		}
	}
}
