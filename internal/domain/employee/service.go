package employee

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	ListEmployees(ctx context.Context, filter EmployeeFilter, params pagination.Params) (pagination.Page[EmployeeResponse], error)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee applies a partial update and records an employee_update event when watched fields change.
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	DeleteEmployee(ctx context.Context, id string) error

	// WhatsAppQR renders a PNG QR code that opens a chat with the employee.
	WhatsAppQR(ctx context.Context, id string) ([]byte, error)
}
