package disciplinary

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type DisciplinaryService interface {
	CreateDisciplinary(ctx context.Context, req CreateDisciplinaryRequest) (DisciplinaryResponse, error)
	ListDisciplinaries(ctx context.Context, filter DisciplinaryFilter, params pagination.Params) (pagination.Page[DisciplinaryResponse], error)
	ListByEmployee(ctx context.Context, employeeID string, params pagination.Params) (pagination.Page[DisciplinaryResponse], error)
	GetDisciplinary(ctx context.Context, id string) (DisciplinaryResponse, error)
	UpdateDisciplinary(ctx context.Context, req UpdateDisciplinaryRequest) (DisciplinaryResponse, error)
	DeleteDisciplinary(ctx context.Context, id string) error
}
