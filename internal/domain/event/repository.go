package event

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

// EventRepository only appends and reads; there is no update or delete.
type EventRepository interface {
	Append(ctx context.Context, ev NewEvent) (EmployeeEvent, error)
	ListByEmployee(ctx context.Context, employeeID string, params pagination.Params) ([]EmployeeEvent, int64, error)
}
