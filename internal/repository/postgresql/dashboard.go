package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/dashboard"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
)

type dashboardRepositoryImpl struct {
	db *database.DB
}

func NewDashboardRepository(db *database.DB) dashboard.DashboardRepository {
	return &dashboardRepositoryImpl{db: db}
}

// CountActiveEmployees implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountActiveEmployees(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employees WHERE activo`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active employees: %w", err)
	}
	return count, nil
}

// CountAttendances implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountAttendances(ctx context.Context, f dashboard.AttendanceCount) (int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if f.From != nil {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", argIdx))
		args = append(args, *f.From)
		argIdx++
	}
	if f.To != nil {
		conditions = append(conditions, fmt.Sprintf("date < $%d", argIdx))
		args = append(args, *f.To)
		argIdx++
	}
	if f.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIdx))
		args = append(args, *f.Type)
		argIdx++
	}
	if f.Justified != nil {
		conditions = append(conditions, fmt.Sprintf("justified = $%d", argIdx))
		args = append(args, *f.Justified)
		argIdx++
	}
	if f.LostPresentismo != nil {
		conditions = append(conditions, fmt.Sprintf("lost_presentismo = $%d", argIdx))
		args = append(args, *f.LostPresentismo)
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM attendances WHERE %s", strings.Join(conditions, " AND "))

	var count int64
	if err := q.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count attendances: %w", err)
	}
	return count, nil
}

// CountDisciplinaries implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountDisciplinaries(ctx context.Context, from, to time.Time, types []string) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM disciplinaries WHERE date >= $1 AND date < $2 AND type = ANY($3)`

	var count int64
	if err := q.QueryRow(ctx, query, from, to, types).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count disciplinaries: %w", err)
	}
	return count, nil
}

// CountActiveSuspensions implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountActiveSuspensions(ctx context.Context, today time.Time) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*) FROM disciplinaries
		WHERE duration_days IS NOT NULL AND return_to_work_date >= $1`

	var count int64
	if err := q.QueryRow(ctx, query, today).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count active suspensions: %w", err)
	}
	return count, nil
}

// CountUnsignedReceipts implements dashboard.DashboardRepository.
func (r *dashboardRepositoryImpl) CountUnsignedReceipts(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, r.db)

	var count int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM payroll_receipts WHERE NOT signed`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unsigned receipts: %w", err)
	}
	return count, nil
}
