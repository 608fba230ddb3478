package payroll

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/payroll"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const anaID = "3f6c2a9e-1b4d-4e7a-9c21-8d5e0f4b7a10"

type fakeReceiptRepo struct {
	receipts map[string]payroll.Receipt
}

func (r *fakeReceiptRepo) Create(ctx context.Context, rec payroll.Receipt) (payroll.Receipt, error) {
	for _, existing := range r.receipts {
		if existing.EmployeeID == rec.EmployeeID && existing.Period == rec.Period {
			return payroll.Receipt{}, payroll.ErrReceiptAlreadyExists
		}
	}
	rec.ID = uuid.NewString()
	r.receipts[rec.ID] = rec
	return rec, nil
}

func (r *fakeReceiptRepo) GetByID(ctx context.Context, id string) (payroll.Receipt, error) {
	rec, ok := r.receipts[id]
	if !ok {
		return payroll.Receipt{}, payroll.ErrReceiptNotFound
	}
	return rec, nil
}

func (r *fakeReceiptRepo) GetWithEmployee(ctx context.Context, id string) (payroll.ReceiptWithEmployee, error) {
	rec, err := r.GetByID(ctx, id)
	if err != nil {
		return payroll.ReceiptWithEmployee{}, err
	}
	legajo := "A-12"
	return payroll.ReceiptWithEmployee{Receipt: rec, Employee: employee.Ref{ID: rec.EmployeeID, Nombre: "Ana", Apellido: "García", Legajo: &legajo}}, nil
}

func (r *fakeReceiptRepo) Update(ctx context.Context, rec payroll.Receipt) (payroll.Receipt, error) {
	r.receipts[rec.ID] = rec
	return rec, nil
}

func (r *fakeReceiptRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.receipts[id]; !ok {
		return payroll.ErrReceiptNotFound
	}
	delete(r.receipts, id)
	return nil
}

func (r *fakeReceiptRepo) List(ctx context.Context, filter payroll.ReceiptFilter, params pagination.Params) ([]payroll.ReceiptWithEmployee, int64, error) {
	var out []payroll.ReceiptWithEmployee
	for _, rec := range r.receipts {
		if filter.EmployeeID != "" && rec.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, payroll.ReceiptWithEmployee{Receipt: rec})
	}
	return out, int64(len(out)), nil
}

func newTestService() (*PayrollServiceImpl, *fakeReceiptRepo) {
	repo := &fakeReceiptRepo{receipts: map[string]payroll.Receipt{}}
	employees := servicetest.NewEmployeeRepo(employee.Employee{ID: anaID, Nombre: "Ana", Apellido: "García"})
	svc := NewPayrollService(repo, employees, time.UTC).(*PayrollServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 4, 5, 15, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestCreateReceipt_DuplicatePeriod(t *testing.T) {
	svc, _ := newTestService()
	req := payroll.CreateReceiptRequest{EmployeeID: anaID, Period: "2024-03"}

	resp, err := svc.CreateReceipt(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.HasPresentismo)
	assert.True(t, resp.Discounts.IsZero())

	_, err = svc.CreateReceipt(context.Background(), req)
	assert.ErrorIs(t, err, payroll.ErrReceiptAlreadyExists)
}

func TestCreateReceipt_InvalidPeriod(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateReceipt(context.Background(), payroll.CreateReceiptRequest{EmployeeID: anaID, Period: "03/2024"})
	assert.Error(t, err)
}

func TestUpdateReceipt_SigningStampsToday(t *testing.T) {
	svc, _ := newTestService()
	created, err := svc.CreateReceipt(context.Background(), payroll.CreateReceiptRequest{EmployeeID: anaID, Period: "2024-03"})
	require.NoError(t, err)
	assert.Nil(t, created.SignedDate)

	signed := true
	updated, err := svc.UpdateReceipt(context.Background(), payroll.UpdateReceiptRequest{ID: created.ID, Signed: &signed})
	require.NoError(t, err)
	require.NotNil(t, updated.SignedDate)
	assert.Equal(t, "2024-04-05", *updated.SignedDate)

	signed = false
	updated, err = svc.UpdateReceipt(context.Background(), payroll.UpdateReceiptRequest{ID: created.ID, Signed: &signed})
	require.NoError(t, err)
	assert.Nil(t, updated.SignedDate)
}

func TestRenderPDF(t *testing.T) {
	svc, _ := newTestService()
	net := decimal.RequireFromString("350000.50")
	created, err := svc.CreateReceipt(context.Background(), payroll.CreateReceiptRequest{EmployeeID: anaID, Period: "2024-03", NetAmount: &net})
	require.NoError(t, err)

	out, name, err := svc.RenderPDF(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "recibo-2024-03-garcía.pdf", name)

	_, _, err = svc.RenderPDF(context.Background(), "missing")
	assert.ErrorIs(t, err, payroll.ErrReceiptNotFound)
}
