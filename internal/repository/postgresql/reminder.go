package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/reminder"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type reminderRepositoryImpl struct {
	db *database.DB
}

func NewReminderRepository(db *database.DB) reminder.ReminderRepository {
	return &reminderRepositoryImpl{db: db}
}

// ListCandidates implements reminder.ReminderRepository.
func (r *reminderRepositoryImpl) ListCandidates(ctx context.Context, today, tomorrow time.Time) ([]reminder.Candidate, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH due AS (
			SELECT 'attendance' AS record_type, a.id AS record_id, 'certificate_expiry' AS kind,
				a.certificate_expiry AS due_date, a.employee_id
			FROM attendances a
			WHERE a.type = 'licencia medica' AND a.certificate_expiry IN ($1::date, $2::date)
			UNION ALL
			SELECT 'attendance', a.id, 'vacation_start', a.vacations_start, a.employee_id
			FROM attendances a
			WHERE a.type = 'vacaciones' AND a.vacations_start = $1::date
			UNION ALL
			SELECT 'attendance', a.id, 'return_to_work', a.return_to_work_date, a.employee_id
			FROM attendances a
			WHERE a.return_to_work_date = $1::date
			UNION ALL
			SELECT 'disciplinary', d.id, 'disciplinary_return', d.return_to_work_date, d.employee_id
			FROM disciplinaries d
			WHERE d.return_to_work_date = $1::date
		)
		SELECT due.record_type, due.record_id, due.kind, due.due_date, ` + prefixed("e", employeeColumns) + `
		FROM due
		JOIN employees e ON e.id = due.employee_id
		ORDER BY due.kind, e.apellido, e.nombre, due.record_id`

	rows, err := q.Query(ctx, query, today, tomorrow)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminder candidates: %w", err)
	}
	defer rows.Close()

	var candidates []reminder.Candidate
	for rows.Next() {
		var c reminder.Candidate
		emp := &c.Employee
		err := rows.Scan(
			&c.RecordType, &c.RecordID, &c.Kind, &c.DueDate,
			&emp.ID, &emp.Nombre, &emp.Apellido, &emp.DNI, &emp.Legajo, &emp.Email,
			&emp.Telefono, &emp.Domicilio, &emp.Puesto, &emp.Departamento, &emp.Sucursal,
			&emp.Salario, &emp.Activo, &emp.FechaIngreso, &emp.CreatedAt, &emp.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reminder candidate: %w", err)
		}
		candidates = append(candidates, c)
	}
	return candidates, rows.Err()
}

// Claim implements reminder.ReminderRepository.
func (r *reminderRepositoryImpl) Claim(ctx context.Context, d reminder.Dispatch) (reminder.Dispatch, bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO reminder_dispatches (record_type, record_id, kind, due_date, employee_id)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT ON CONSTRAINT reminder_dispatches_record_kind_due_key DO NOTHING
		RETURNING id, record_type, record_id, kind, due_date, employee_id, outbox_id, created_at`

	var claimed reminder.Dispatch
	err := q.QueryRow(ctx, query, d.RecordType, d.RecordID, d.Kind, d.DueDate, d.EmployeeID).Scan(
		&claimed.ID, &claimed.RecordType, &claimed.RecordID, &claimed.Kind, &claimed.DueDate,
		&claimed.EmployeeID, &claimed.OutboxID, &claimed.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return reminder.Dispatch{}, false, nil
		}
		return reminder.Dispatch{}, false, fmt.Errorf("failed to claim reminder %s/%s: %w", d.RecordID, d.Kind, err)
	}
	return claimed, true, nil
}

// AttachOutbox implements reminder.ReminderRepository.
func (r *reminderRepositoryImpl) AttachOutbox(ctx context.Context, dispatchID, outboxID string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `UPDATE reminder_dispatches SET outbox_id = $2 WHERE id = $1`, dispatchID, outboxID); err != nil {
		return fmt.Errorf("failed to attach outbox message to dispatch %s: %w", dispatchID, err)
	}
	return nil
}

// List implements reminder.ReminderRepository. Newest first.
func (r *reminderRepositoryImpl) List(ctx context.Context, params pagination.Params) ([]reminder.Dispatch, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM reminder_dispatches`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count dispatches: %w", err)
	}

	query := `
		SELECT id, record_type, record_id, kind, due_date, employee_id, outbox_id, created_at
		FROM reminder_dispatches
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	rows, err := q.Query(ctx, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list dispatches: %w", err)
	}
	defer rows.Close()

	var dispatches []reminder.Dispatch
	for rows.Next() {
		var d reminder.Dispatch
		if err := rows.Scan(&d.ID, &d.RecordType, &d.RecordID, &d.Kind, &d.DueDate, &d.EmployeeID, &d.OutboxID, &d.CreatedAt); err != nil {
			return nil, 0, err
		}
		dispatches = append(dispatches, d)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return dispatches, total, nil
}
