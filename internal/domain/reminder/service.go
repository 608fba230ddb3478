package reminder

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type ReminderService interface {
	// RunDaily scans due reminders and enqueues each (record, kind, due date) at most once.
	RunDaily(ctx context.Context) (RunResult, error)

	ListDispatches(ctx context.Context, params pagination.Params) (pagination.Page[DispatchResponse], error)
}
