package event

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/sse"
)

// StreamTopic is the hub topic every committed employee event is published on.
const StreamTopic = "employee_events"

type EventService interface {
	// Record appends an event inside the caller's transaction, if any. Call Publish after commit.
	Record(ctx context.Context, ev NewEvent) (EmployeeEvent, error)

	// Publish pushes committed events to live subscribers.
	Publish(events ...EmployeeEvent)

	// CreateEvent stores a manual entry for an existing employee.
	CreateEvent(ctx context.Context, req CreateEventRequest) (EventResponse, error)

	ListByEmployee(ctx context.Context, employeeID string, params pagination.Params) (pagination.Page[EventResponse], error)

	// Subscribe returns the live feed of published events and its cleanup function.
	Subscribe() (chan sse.Event, func())
}
