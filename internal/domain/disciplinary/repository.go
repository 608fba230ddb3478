package disciplinary

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type DisciplinaryRepository interface {
	Create(ctx context.Context, d Disciplinary) (Disciplinary, error)
	GetByID(ctx context.Context, id string) (Disciplinary, error)
	GetWithEmployee(ctx context.Context, id string) (DisciplinaryWithEmployee, error)
	Update(ctx context.Context, d Disciplinary) (Disciplinary, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter DisciplinaryFilter, params pagination.Params) ([]DisciplinaryWithEmployee, int64, error)

	ListWithDocument(ctx context.Context) ([]Disciplinary, error)
	UpdateDocument(ctx context.Context, id string, document string) error
}
