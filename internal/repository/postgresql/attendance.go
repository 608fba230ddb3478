package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/attendance"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

const attendanceColumns = `a.id, a.employee_id, a.date, a.type, a.justified, a.lost_presentismo, a.comments,
	a.justification_document, a.scheduled_entry, a.actual_entry, a.late_minutes, a.certificate_expiry,
	a.vacations_start, a.vacations_end, a.suspension_days, a.return_to_work_date, a.created_at, a.updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func attendanceScanTargets(a *attendance.Attendance) []interface{} {
	return []interface{}{
		&a.ID, &a.EmployeeID, &a.Date, &a.Type, &a.Justified, &a.LostPresentismo, &a.Comments,
		&a.JustificationDocument, &a.ScheduledEntry, &a.ActualEntry, &a.LateMinutes, &a.CertificateExpiry,
		&a.VacationsStart, &a.VacationsEnd, &a.SuspensionDays, &a.ReturnToWorkDate, &a.CreatedAt, &a.UpdatedAt,
	}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(attendanceScanTargets(&a)...)
	return a, err
}

func scanAttendanceWithEmployee(row pgx.Row) (attendance.AttendanceWithEmployee, error) {
	var a attendance.AttendanceWithEmployee
	targets := append(attendanceScanTargets(&a.Attendance),
		&a.Employee.ID, &a.Employee.Nombre, &a.Employee.Apellido, &a.Employee.Legajo)
	err := row.Scan(targets...)
	return a, err
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances AS a (
			employee_id, date, type, justified, lost_presentismo, comments, justification_document,
			scheduled_entry, actual_entry, late_minutes, certificate_expiry, vacations_start,
			vacations_end, suspension_days, return_to_work_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		a.EmployeeID, a.Date, a.Type, a.Justified, a.LostPresentismo, a.Comments, a.JustificationDocument,
		a.ScheduledEntry, a.ActualEntry, a.LateMinutes, a.CertificateExpiry, a.VacationsStart,
		a.VacationsEnd, a.SuspensionDays, a.ReturnToWorkDate,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances a WHERE a.id = $1`

	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance %s: %w", id, err)
	}
	return a, nil
}

// GetWithEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetWithEmployee(ctx context.Context, id string) (attendance.AttendanceWithEmployee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, e.id, e.nombre, e.apellido, e.legajo
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1`

	a, err := scanAttendanceWithEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceWithEmployee{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceWithEmployee{}, fmt.Errorf("failed to get attendance %s: %w", id, err)
	}
	return a, nil
}

// Update implements attendance.AttendanceRepository. Date, type and employee are immutable.
func (r *attendanceRepositoryImpl) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances AS a SET
			justified = $2, lost_presentismo = $3, comments = $4, justification_document = $5,
			scheduled_entry = $6, actual_entry = $7, late_minutes = $8, certificate_expiry = $9,
			vacations_start = $10, vacations_end = $11, suspension_days = $12, return_to_work_date = $13,
			updated_at = NOW()
		WHERE a.id = $1
		RETURNING ` + attendanceColumns

	updated, err := scanAttendance(q.QueryRow(ctx, query,
		a.ID, a.Justified, a.LostPresentismo, a.Comments, a.JustificationDocument,
		a.ScheduledEntry, a.ActualEntry, a.LateMinutes, a.CertificateExpiry,
		a.VacationsStart, a.VacationsEnd, a.SuspensionDays, a.ReturnToWorkDate,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance %s: %w", a.ID, err)
	}
	return updated, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) List(ctx context.Context, filter attendance.AttendanceFilter, params pagination.Params) ([]attendance.AttendanceWithEmployee, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != "" {
		conditions = append(conditions, fmt.Sprintf("a.employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.Type != "" {
		conditions = append(conditions, fmt.Sprintf("a.type = $%d", argIdx))
		args = append(args, filter.Type)
		argIdx++
	}
	if filter.Justified != nil {
		conditions = append(conditions, fmt.Sprintf("a.justified = $%d", argIdx))
		args = append(args, *filter.Justified)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM attendances a WHERE %s", whereClause)
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	sortOrder := "DESC"
	if filter.SortDir == "asc" {
		sortOrder = "ASC"
	}

	query := fmt.Sprintf(`
		SELECT %s, e.id, e.nombre, e.apellido, e.legajo
		FROM attendances a
		JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date %s, a.created_at %s, a.id %s
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, whereClause, sortOrder, sortOrder, sortOrder, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.AttendanceWithEmployee
	for rows.Next() {
		a, err := scanAttendanceWithEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

// Stats implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Stats(ctx context.Context, from, to time.Time) (attendance.Stats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT
			COUNT(*) FILTER (WHERE type = $3),
			COUNT(*) FILTER (WHERE type = $4),
			COUNT(DISTINCT employee_id) FILTER (WHERE lost_presentismo)
		FROM attendances
		WHERE date >= $1 AND date < $2`

	var stats attendance.Stats
	err := q.QueryRow(ctx, query, from, to, attendance.TypeInasistencia, attendance.TypeTardanza).Scan(
		&stats.AbsencesThisMonth, &stats.LateArrivalsThisMonth, &stats.EmployeesWithoutPresentismoCount,
	)
	if err != nil {
		return attendance.Stats{}, fmt.Errorf("failed to compute attendance stats: %w", err)
	}
	return stats, nil
}

// ListWithDocument implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListWithDocument(ctx context.Context) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances a
		WHERE a.justification_document IS NOT NULL AND a.justification_document <> ''
		ORDER BY a.created_at`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance documents: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// UpdateDocument implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) UpdateDocument(ctx context.Context, id string, document string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE attendances SET justification_document = $2, updated_at = NOW() WHERE id = $1`, id, document)
	if err != nil {
		return fmt.Errorf("failed to update attendance document %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}
