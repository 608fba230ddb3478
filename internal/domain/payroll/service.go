package payroll

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type PayrollService interface {
	CreateReceipt(ctx context.Context, req CreateReceiptRequest) (ReceiptResponse, error)
	ListReceipts(ctx context.Context, filter ReceiptFilter, params pagination.Params) (pagination.Page[ReceiptResponse], error)
	ListByEmployee(ctx context.Context, employeeID string, params pagination.Params) (pagination.Page[ReceiptResponse], error)
	GetReceipt(ctx context.Context, id string) (ReceiptResponse, error)

	// UpdateReceipt applies a partial update; signing without a date stamps today.
	UpdateReceipt(ctx context.Context, req UpdateReceiptRequest) (ReceiptResponse, error)

	DeleteReceipt(ctx context.Context, id string) error

	// RenderPDF returns the receipt as a PDF document and a suggested file name.
	RenderPDF(ctx context.Context, id string) ([]byte, string, error)
}
