package attendance

import (
	"context"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type AttendanceRepository interface {
	Create(ctx context.Context, a Attendance) (Attendance, error)
	GetByID(ctx context.Context, id string) (Attendance, error)
	GetWithEmployee(ctx context.Context, id string) (AttendanceWithEmployee, error)
	Update(ctx context.Context, a Attendance) (Attendance, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter AttendanceFilter, params pagination.Params) ([]AttendanceWithEmployee, int64, error)

	// Stats counts records dated in [from, to).
	Stats(ctx context.Context, from, to time.Time) (Stats, error)

	// ListWithDocument returns every record holding a stored document.
	ListWithDocument(ctx context.Context) ([]Attendance, error)
	UpdateDocument(ctx context.Context, id string, document string) error
}
