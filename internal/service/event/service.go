package event

import (
	"context"
	"fmt"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/event"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/sse"
)

type EventServiceImpl struct {
	event.EventRepository
	employee.EmployeeRepository
	hub *sse.Hub
}

func NewEventService(eventRepo event.EventRepository, employeeRepo employee.EmployeeRepository, hub *sse.Hub) event.EventService {
	return &EventServiceImpl{
		EventRepository:    eventRepo,
		EmployeeRepository: employeeRepo,
		hub:                hub,
	}
}

// Record implements event.EventService.
func (s *EventServiceImpl) Record(ctx context.Context, ev event.NewEvent) (event.EmployeeEvent, error) {
	return s.EventRepository.Append(ctx, ev)
}

// Publish implements event.EventService.
func (s *EventServiceImpl) Publish(events ...event.EmployeeEvent) {
	if s.hub == nil {
		return
	}
	for _, ev := range events {
		s.hub.Publish(event.StreamTopic, sse.Event{
			Event: string(ev.Type),
			Data:  event.ToResponse(ev),
		})
	}
}

// CreateEvent implements event.EventService.
func (s *EventServiceImpl) CreateEvent(ctx context.Context, req event.CreateEventRequest) (event.EventResponse, error) {
	if err := req.Validate(); err != nil {
		return event.EventResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return event.EventResponse{}, err
	}

	created, err := s.EventRepository.Append(ctx, event.NewEvent{
		EmployeeID: req.EmployeeID,
		Type:       event.Type(req.Type),
		Message:    req.Message,
		Changes:    req.Changes,
	})
	if err != nil {
		return event.EventResponse{}, fmt.Errorf("failed to create event: %w", err)
	}

	s.Publish(created)
	return event.ToResponse(created), nil
}

// ListByEmployee implements event.EventService.
func (s *EventServiceImpl) ListByEmployee(ctx context.Context, employeeID string, params pagination.Params) (pagination.Page[event.EventResponse], error) {
	events, total, err := s.EventRepository.ListByEmployee(ctx, employeeID, params)
	if err != nil {
		return pagination.Page[event.EventResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(events, total, params), event.ToResponse), nil
}

// Subscribe implements event.EventService.
func (s *EventServiceImpl) Subscribe() (chan sse.Event, func()) {
	return s.hub.Subscribe(event.StreamTopic)
}
