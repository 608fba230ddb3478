package attendance

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type AttendanceService interface {
	// CreateAttendance stores the record, its event and its notification in one transaction.
	CreateAttendance(ctx context.Context, req CreateAttendanceRequest) (AttendanceResponse, error)

	ListAttendances(ctx context.Context, filter AttendanceFilter, params pagination.Params) (pagination.Page[AttendanceResponse], error)
	ListByEmployee(ctx context.Context, employeeID string, params pagination.Params) (pagination.Page[AttendanceResponse], error)
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// UpdateAttendance applies a partial update and appends one event per changed field group.
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	// DeleteAttendance removes the stored document best-effort, then the record.
	DeleteAttendance(ctx context.Context, id string) error

	GetStats(ctx context.Context) (Stats, error)
}
