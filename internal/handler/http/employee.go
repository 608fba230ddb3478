package http

import (
	"net/http"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/response"
)

const (
	defaultEmployeeLimit = 25
	maxEmployeeLimit     = 100
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	WhatsAppQR(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// List implements EmployeeHandler.
func (h *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := employee.EmployeeFilter{
		Query:        q.Get("q"),
		Departamento: q.Get("departamento"),
		Sucursal:     q.Get("sucursal"),
	}

	activo, err := parseOptionalBool(r, "activo")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}
	filter.Activo = activo

	page, err := h.employeeService.ListEmployees(r.Context(), filter, parsePagination(r, defaultEmployeeLimit, maxEmployeeLimit))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, page)
}

// Get implements EmployeeHandler.
func (h *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}
	result, err := h.employeeService.GetEmployee(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create implements EmployeeHandler.
func (h *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.employeeService.CreateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Employee created", result)
}

// Update implements EmployeeHandler.
func (h *employeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, ok := pathID(w, r, "id", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}
	req.ID = id

	result, err := h.employeeService.UpdateEmployee(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee updated", result)
}

// Delete implements EmployeeHandler.
func (h *employeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}
	if err := h.employeeService.DeleteEmployee(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Employee deleted", nil)
}

// WhatsAppQR implements EmployeeHandler.
func (h *employeeHandlerImpl) WhatsAppQR(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}
	png, err := h.employeeService.WhatsAppQR(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, "image/png", "", png)
}
