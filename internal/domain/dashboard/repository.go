package dashboard

import (
	"context"
	"time"
)

// AttendanceCount narrows an attendance count; nil fields are not filtered.
type AttendanceCount struct {
	From            *time.Time
	To              *time.Time
	Type            *string
	Justified       *bool
	LostPresentismo *bool
}

type DashboardRepository interface {
	CountActiveEmployees(ctx context.Context) (int64, error)
	CountAttendances(ctx context.Context, f AttendanceCount) (int64, error)

	// CountDisciplinaries counts measures of the given types dated in [from, to).
	CountDisciplinaries(ctx context.Context, from, to time.Time, types []string) (int64, error)

	// CountActiveSuspensions counts measures with a duration whose return date is today or later.
	CountActiveSuspensions(ctx context.Context, today time.Time) (int64, error)

	CountUnsignedReceipts(ctx context.Context) (int64, error)
}
