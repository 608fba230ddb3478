package http

import (
	"net/http"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/payroll"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/response"
)

type PayrollHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	PDF(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{
		payrollService: payrollService,
	}
}

// Create implements PayrollHandler.
func (h *payrollHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateReceiptRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.payrollService.CreateReceipt(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll receipt created", result)
}

// List implements PayrollHandler.
func (h *payrollHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := payroll.ReceiptFilter{
		EmployeeID: q.Get("employeeId"),
		Period:     q.Get("period"),
	}

	signed, err := parseOptionalBool(r, "signed")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}
	filter.Signed = signed

	page, err := h.payrollService.ListReceipts(r.Context(), filter, parsePagination(r, defaultPageLimit, maxPageLimit))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, page)
}

// ListByEmployee implements PayrollHandler.
func (h *payrollHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}
	page, err := h.payrollService.ListByEmployee(r.Context(), employeeID, parsePagination(r, defaultPageLimit, maxPageLimit))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, page)
}

// Get implements PayrollHandler.
func (h *payrollHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", payroll.ErrReceiptNotFound)
	if !ok {
		return
	}
	result, err := h.payrollService.GetReceipt(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements PayrollHandler.
func (h *payrollHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateReceiptRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, ok := pathID(w, r, "id", payroll.ErrReceiptNotFound)
	if !ok {
		return
	}
	req.ID = id

	result, err := h.payrollService.UpdateReceipt(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll receipt updated", result)
}

// Delete implements PayrollHandler.
func (h *payrollHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", payroll.ErrReceiptNotFound)
	if !ok {
		return
	}
	if err := h.payrollService.DeleteReceipt(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll receipt deleted", nil)
}

// PDF implements PayrollHandler.
func (h *payrollHandlerImpl) PDF(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", payroll.ErrReceiptNotFound)
	if !ok {
		return
	}
	data, filename, err := h.payrollService.RenderPDF(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, "application/pdf", filename, data)
}
