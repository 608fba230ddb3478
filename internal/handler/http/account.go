package http

import (
	"net/http"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/account"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/response"
)

type AccountHandler interface {
	GetByEmployee(w http.ResponseWriter, r *http.Request)
	SetWeeklyDeduction(w http.ResponseWriter, r *http.Request)
	Purchase(w http.ResponseWriter, r *http.Request)
	Payment(w http.ResponseWriter, r *http.Request)
	PayrollDeduction(w http.ResponseWriter, r *http.Request)
}

type accountHandlerImpl struct {
	accountService account.AccountService
}

func NewAccountHandler(accountService account.AccountService) AccountHandler {
	return &accountHandlerImpl{
		accountService: accountService,
	}
}

// GetByEmployee implements AccountHandler.
func (h *accountHandlerImpl) GetByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}
	result, err := h.accountService.GetByEmployee(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SetWeeklyDeduction implements AccountHandler.
func (h *accountHandlerImpl) SetWeeklyDeduction(w http.ResponseWriter, r *http.Request) {
	var req account.WeeklyDeductionRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	employeeID, ok := pathID(w, r, "employeeId", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}
	req.EmployeeID = employeeID

	result, err := h.accountService.SetWeeklyDeduction(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Weekly deduction updated", result)
}

// Purchase implements AccountHandler.
func (h *accountHandlerImpl) Purchase(w http.ResponseWriter, r *http.Request) {
	var req account.MovementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.accountService.AddPurchase(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Purchase registered", result)
}

// Payment implements AccountHandler.
func (h *accountHandlerImpl) Payment(w http.ResponseWriter, r *http.Request) {
	var req account.MovementRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.accountService.AddPayment(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payment registered", result)
}

// PayrollDeduction implements AccountHandler.
func (h *accountHandlerImpl) PayrollDeduction(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}
	result, err := h.accountService.ApplyPayrollDeduction(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll deduction applied", result)
}
