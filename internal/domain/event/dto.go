package event

import (
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
)

type CreateEventRequest struct {
	EmployeeID string   `json:"employeeId" validate:"required,uuid"`
	Type       string   `json:"type" validate:"required,max=64"`
	Message    string   `json:"message" validate:"required,max=2000"`
	Changes    []Change `json:"changes,omitempty"`
}

func (r *CreateEventRequest) Validate() error {
	errs := validator.Struct(r)
	return errs.OrNil()
}

type EventResponse struct {
	ID         string   `json:"id"`
	EmployeeID string   `json:"employeeId"`
	Type       string   `json:"type"`
	Message    string   `json:"message"`
	Changes    []Change `json:"changes"`
	CreatedAt  string   `json:"createdAt"`
}

func ToResponse(ev EmployeeEvent) EventResponse {
	changes := ev.Changes
	if changes == nil {
		changes = []Change{}
	}
	return EventResponse{
		ID:         ev.ID,
		EmployeeID: ev.EmployeeID,
		Type:       string(ev.Type),
		Message:    ev.Message,
		Changes:    changes,
		CreatedAt:  ev.CreatedAt.Format(time.RFC3339),
	}
}
