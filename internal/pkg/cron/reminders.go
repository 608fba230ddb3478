package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/reminder"
)

// ReminderJobs scans due attendance and disciplinary reminders.
type ReminderJobs struct {
	reminderService reminder.ReminderService
	cfg             config.RemindersConfig
}

func NewReminderJobs(reminderService reminder.ReminderService, cfg config.RemindersConfig) *ReminderJobs {
	return &ReminderJobs{
		reminderService: reminderService,
		cfg:             cfg,
	}
}

// RegisterJobs registers the daily scan unless reminders are disabled.
func (j *ReminderJobs) RegisterJobs(scheduler *Scheduler) error {
	if !j.cfg.Enabled {
		slog.Info("Cron: daily reminders disabled")
		return nil
	}
	return scheduler.AddJob("daily_reminders", j.cfg.Cron, j.RunDailyReminders)
}

func (j *ReminderJobs) RunDailyReminders(ctx context.Context) error {
	slog.Info("Cron: Starting daily reminders job")

	result, err := j.reminderService.RunDaily(ctx)
	if errors.Is(err, reminder.ErrRunInProgress) {
		slog.Warn("Cron: daily reminders already running, skipping tick")
		return nil
	}
	if err != nil {
		return fmt.Errorf("daily reminders: %w", err)
	}

	slog.Info("Cron: Daily reminders completed", "enqueued", result.Enqueued, "duplicates", result.Duplicates)
	return nil
}
