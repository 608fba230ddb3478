package employee

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type EmployeeRepository interface {
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	GetByID(ctx context.Context, id string) (Employee, error)
	Update(ctx context.Context, emp Employee) (Employee, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter EmployeeFilter, params pagination.Params) ([]Employee, int64, error)

	// ListWithPhone returns every employee with a non-empty phone, ordered by apellido, nombre.
	ListWithPhone(ctx context.Context) ([]Employee, error)

	// GetByIDs returns the employees found among ids, keyed by id.
	GetByIDs(ctx context.Context, ids []string) (map[string]Employee, error)
}
