package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/presentismo"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/reminder"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReminderService struct {
	calls int
	err   error
}

func (s *fakeReminderService) RunDaily(ctx context.Context) (reminder.RunResult, error) {
	s.calls++
	return reminder.RunResult{Enqueued: 1}, s.err
}

func (s *fakeReminderService) ListDispatches(ctx context.Context, params pagination.Params) (pagination.Page[reminder.DispatchResponse], error) {
	return pagination.Page[reminder.DispatchResponse]{}, nil
}

type fakePresentismoService struct {
	presentismo.PresentismoService
	calls int
}

func (s *fakePresentismoService) SendMonthlyReport(ctx context.Context) error {
	s.calls++
	return nil
}

func TestReminderJobs_Register(t *testing.T) {
	s := NewScheduler(time.UTC)
	svc := &fakeReminderService{}

	require.NoError(t, NewReminderJobs(svc, config.RemindersConfig{Enabled: true, Cron: "0 8 * * *"}).RegisterJobs(s))
	assert.Contains(t, s.Jobs(), "daily_reminders")

	s.RunOnce(context.Background())
	assert.Equal(t, 1, svc.calls)
}

func TestReminderJobs_Disabled(t *testing.T) {
	s := NewScheduler(time.UTC)
	require.NoError(t, NewReminderJobs(&fakeReminderService{}, config.RemindersConfig{Cron: "0 8 * * *"}).RegisterJobs(s))
	assert.Empty(t, s.Jobs())
}

func TestReminderJobs_BadSpec(t *testing.T) {
	s := NewScheduler(time.UTC)
	err := NewReminderJobs(&fakeReminderService{}, config.RemindersConfig{Enabled: true, Cron: "every day"}).RegisterJobs(s)
	assert.Error(t, err)
}

func TestReminderJobs_RunInProgressIsNotAnError(t *testing.T) {
	jobs := NewReminderJobs(&fakeReminderService{err: reminder.ErrRunInProgress}, config.RemindersConfig{})
	assert.NoError(t, jobs.RunDailyReminders(context.Background()))

	jobs = NewReminderJobs(&fakeReminderService{err: errors.New("db down")}, config.RemindersConfig{})
	assert.Error(t, jobs.RunDailyReminders(context.Background()))
}

func TestPresentismoJobs_Register(t *testing.T) {
	s := NewScheduler(time.UTC)
	svc := &fakePresentismoService{}

	require.NoError(t, NewPresentismoJobs(svc, config.PresentismoConfig{ReportEnabled: true, ReportCron: "0 9 1 * *"}).RegisterJobs(s))
	assert.Contains(t, s.Jobs(), "presentismo_report")

	s.RunOnce(context.Background())
	assert.Equal(t, 1, svc.calls)
}
