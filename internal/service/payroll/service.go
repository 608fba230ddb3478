package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/payroll"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pdfdoc"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
)

type PayrollServiceImpl struct {
	payroll.ReceiptRepository
	employeeRepo employee.EmployeeRepository
	loc          *time.Location
	now          func() time.Time
}

func NewPayrollService(
	receiptRepo payroll.ReceiptRepository,
	employeeRepo employee.EmployeeRepository,
	loc *time.Location,
) payroll.PayrollService {
	if loc == nil {
		loc = time.UTC
	}
	return &PayrollServiceImpl{
		ReceiptRepository: receiptRepo,
		employeeRepo:      employeeRepo,
		loc:               loc,
		now:               time.Now,
	}
}

// CreateReceipt implements payroll.PayrollService.
func (s *PayrollServiceImpl) CreateReceipt(ctx context.Context, req payroll.CreateReceiptRequest) (payroll.ReceiptResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ReceiptResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return payroll.ReceiptResponse{}, err
	}

	receipt := payroll.Receipt{
		EmployeeID:       emp.ID,
		Period:           req.Period,
		Signed:           req.Signed,
		HasPresentismo:   req.HasPresentismo == nil || *req.HasPresentismo,
		ExtraHours:       orZero(req.ExtraHours),
		OtherAdditions:   orZero(req.OtherAdditions),
		Discounts:        orZero(req.Discounts),
		AdvanceRequested: req.AdvanceRequested,
		AdvanceAmount:    orZero(req.AdvanceAmount),
		NetAmount:        req.NetAmount,
		Notes:            strings.TrimSpace(req.Notes),
	}
	if receipt.PaymentDate, err = utils.ParseOptionalDate(req.PaymentDate); err != nil {
		return payroll.ReceiptResponse{}, err
	}
	if receipt.SignedDate, err = utils.ParseOptionalDate(req.SignedDate); err != nil {
		return payroll.ReceiptResponse{}, err
	}
	if receipt.AdvanceDate, err = utils.ParseOptionalDate(req.AdvanceDate); err != nil {
		return payroll.ReceiptResponse{}, err
	}
	s.stampSignedDate(&receipt)

	created, err := s.ReceiptRepository.Create(ctx, receipt)
	if err != nil {
		return payroll.ReceiptResponse{}, err
	}

	slog.Info("Payroll receipt created", "receipt_id", created.ID, "employee_id", emp.ID, "period", created.Period)
	resp := payroll.ToResponse(created)
	ref := emp.ToRef()
	resp.Employee = &ref
	return resp, nil
}

// ListReceipts implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListReceipts(ctx context.Context, filter payroll.ReceiptFilter, params pagination.Params) (pagination.Page[payroll.ReceiptResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[payroll.ReceiptResponse]{}, err
	}
	rows, total, err := s.ReceiptRepository.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[payroll.ReceiptResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(rows, total, params), withEmployee), nil
}

// ListByEmployee implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListByEmployee(ctx context.Context, employeeID string, params pagination.Params) (pagination.Page[payroll.ReceiptResponse], error) {
	return s.ListReceipts(ctx, payroll.ReceiptFilter{EmployeeID: employeeID}, params)
}

// GetReceipt implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetReceipt(ctx context.Context, id string) (payroll.ReceiptResponse, error) {
	row, err := s.ReceiptRepository.GetWithEmployee(ctx, id)
	if err != nil {
		return payroll.ReceiptResponse{}, err
	}
	return withEmployee(row), nil
}

// UpdateReceipt implements payroll.PayrollService.
func (s *PayrollServiceImpl) UpdateReceipt(ctx context.Context, req payroll.UpdateReceiptRequest) (payroll.ReceiptResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.ReceiptResponse{}, err
	}

	receipt, err := s.ReceiptRepository.GetByID(ctx, req.ID)
	if err != nil {
		return payroll.ReceiptResponse{}, err
	}

	if req.Period != nil {
		receipt.Period = strings.TrimSpace(*req.Period)
	}
	if req.PaymentDate != nil {
		if receipt.PaymentDate, err = utils.ParseOptionalDate(req.PaymentDate); err != nil {
			return payroll.ReceiptResponse{}, err
		}
	}
	if req.Signed != nil {
		receipt.Signed = *req.Signed
		if !receipt.Signed {
			receipt.SignedDate = nil
		}
	}
	if req.SignedDate != nil {
		if receipt.SignedDate, err = utils.ParseOptionalDate(req.SignedDate); err != nil {
			return payroll.ReceiptResponse{}, err
		}
	}
	if req.HasPresentismo != nil {
		receipt.HasPresentismo = *req.HasPresentismo
	}
	if req.ExtraHours != nil {
		receipt.ExtraHours = *req.ExtraHours
	}
	if req.OtherAdditions != nil {
		receipt.OtherAdditions = *req.OtherAdditions
	}
	if req.Discounts != nil {
		receipt.Discounts = *req.Discounts
	}
	if req.AdvanceRequested != nil {
		receipt.AdvanceRequested = *req.AdvanceRequested
	}
	if req.AdvanceDate != nil {
		if receipt.AdvanceDate, err = utils.ParseOptionalDate(req.AdvanceDate); err != nil {
			return payroll.ReceiptResponse{}, err
		}
	}
	if req.AdvanceAmount != nil {
		receipt.AdvanceAmount = *req.AdvanceAmount
	}
	if req.NetAmount != nil {
		net := *req.NetAmount
		receipt.NetAmount = &net
	}
	if req.Notes != nil {
		receipt.Notes = strings.TrimSpace(*req.Notes)
	}
	s.stampSignedDate(&receipt)

	updated, err := s.ReceiptRepository.Update(ctx, receipt)
	if err != nil {
		return payroll.ReceiptResponse{}, err
	}
	return payroll.ToResponse(updated), nil
}

// DeleteReceipt implements payroll.PayrollService.
func (s *PayrollServiceImpl) DeleteReceipt(ctx context.Context, id string) error {
	if err := s.ReceiptRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Payroll receipt deleted", "receipt_id", id)
	return nil
}

// RenderPDF implements payroll.PayrollService.
func (s *PayrollServiceImpl) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	row, err := s.ReceiptRepository.GetWithEmployee(ctx, id)
	if err != nil {
		return nil, "", err
	}

	periodLabel := row.Period
	if month, err := utils.ParseMonth(row.Period); err == nil {
		periodLabel = utils.MonthLabelES(month)
	}

	doc := pdfdoc.New("Recibo de sueldo – " + periodLabel)
	doc.Row("Empleado:", strings.TrimSpace(row.Employee.Nombre+" "+row.Employee.Apellido))
	if row.Employee.Legajo != nil {
		doc.Row("Legajo:", *row.Employee.Legajo)
	}
	doc.Row("Período:", row.Period)
	doc.Row("Fecha de pago:", utils.FormatOptionalDateAR(row.PaymentDate))

	doc.Subtitle("Conceptos")
	doc.Row("Presentismo:", yesNo(row.HasPresentismo))
	doc.Row("Horas extra:", money(row.ExtraHours))
	doc.Row("Otros adicionales:", money(row.OtherAdditions))
	doc.Row("Descuentos:", money(row.Discounts))
	if row.AdvanceRequested {
		doc.Row("Adelanto:", fmt.Sprintf("%s (%s)", money(row.AdvanceAmount), utils.FormatOptionalDateAR(row.AdvanceDate)))
	}
	if row.NetAmount != nil {
		doc.Row("Neto a cobrar:", money(*row.NetAmount))
	}
	if row.Notes != "" {
		doc.Row("Observaciones:", row.Notes)
	}

	doc.Space()
	if row.Signed {
		doc.Paragraph("Firmado el " + utils.FormatOptionalDateAR(row.SignedDate) + ".")
	} else {
		doc.Paragraph("Pendiente de firma.")
	}

	out, err := doc.Bytes()
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("recibo-%s-%s.pdf", row.Period, row.Employee.Apellido)
	return out, strings.ReplaceAll(strings.ToLower(filename), " ", "-"), nil
}

// stampSignedDate sets today's date on signed receipts without one.
func (s *PayrollServiceImpl) stampSignedDate(r *payroll.Receipt) {
	if r.Signed && r.SignedDate == nil {
		today := utils.Today(s.now(), s.loc)
		r.SignedDate = &today
	}
}

func withEmployee(row payroll.ReceiptWithEmployee) payroll.ReceiptResponse {
	resp := payroll.ToResponse(row.Receipt)
	ref := row.Employee
	resp.Employee = &ref
	return resp
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

func money(d decimal.Decimal) string {
	return "$ " + d.StringFixed(2)
}

func yesNo(b bool) string {
	if b {
		return "Sí"
	}
	return "No"
}
