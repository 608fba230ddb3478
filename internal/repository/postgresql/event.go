package postgresql

import (
	"context"
	"fmt"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/event"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type eventRepositoryImpl struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) event.EventRepository {
	return &eventRepositoryImpl{db: db}
}

// Append implements event.EventRepository.
func (r *eventRepositoryImpl) Append(ctx context.Context, ev event.NewEvent) (event.EmployeeEvent, error) {
	q := GetQuerier(ctx, r.db)

	changes := ev.Changes
	if changes == nil {
		changes = []event.Change{}
	}

	query := `
		INSERT INTO employee_events (employee_id, type, message, changes)
		VALUES ($1, $2, $3, $4)
		RETURNING id, employee_id, type, message, changes, created_at`

	var created event.EmployeeEvent
	err := q.QueryRow(ctx, query, ev.EmployeeID, ev.Type, ev.Message, changes).Scan(
		&created.ID, &created.EmployeeID, &created.Type, &created.Message, &created.Changes, &created.CreatedAt,
	)
	if err != nil {
		return event.EmployeeEvent{}, fmt.Errorf("failed to append %s event: %w", ev.Type, err)
	}
	return created, nil
}

// ListByEmployee implements event.EventRepository. Newest first.
func (r *eventRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, params pagination.Params) ([]event.EmployeeEvent, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM employee_events WHERE employee_id = $1`, employeeID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	query := `
		SELECT id, employee_id, type, message, changes, created_at
		FROM employee_events
		WHERE employee_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := q.Query(ctx, query, employeeID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []event.EmployeeEvent
	for rows.Next() {
		var ev event.EmployeeEvent
		if err := rows.Scan(&ev.ID, &ev.EmployeeID, &ev.Type, &ev.Message, &ev.Changes, &ev.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, ev)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return events, total, nil
}
