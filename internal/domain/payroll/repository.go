package payroll

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type ReceiptRepository interface {
	Create(ctx context.Context, r Receipt) (Receipt, error)
	GetByID(ctx context.Context, id string) (Receipt, error)
	GetWithEmployee(ctx context.Context, id string) (ReceiptWithEmployee, error)
	Update(ctx context.Context, r Receipt) (Receipt, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ReceiptFilter, params pagination.Params) ([]ReceiptWithEmployee, int64, error)
}
