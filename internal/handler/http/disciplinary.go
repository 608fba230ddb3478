package http

import (
	"net/http"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/disciplinary"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/response"
)

type DisciplinaryHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type disciplinaryHandlerImpl struct {
	disciplinaryService disciplinary.DisciplinaryService
}

func NewDisciplinaryHandler(disciplinaryService disciplinary.DisciplinaryService) DisciplinaryHandler {
	return &disciplinaryHandlerImpl{
		disciplinaryService: disciplinaryService,
	}
}

// Create implements DisciplinaryHandler.
func (h *disciplinaryHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req disciplinary.CreateDisciplinaryRequest
	doc, ok := decodeWithDocument(w, r, &req)
	if !ok {
		return
	}
	defer doc.Close()
	req.File, req.FileHeader = doc.File, doc.Header

	result, err := h.disciplinaryService.CreateDisciplinary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Disciplinary record created", result)
}

// List implements DisciplinaryHandler.
func (h *disciplinaryHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := disciplinary.DisciplinaryFilter{
		EmployeeID: q.Get("employeeId"),
		Type:       q.Get("type"),
		SortDir:    q.Get("sortDir"),
	}

	signed, err := parseOptionalBool(r, "signed")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}
	filter.Signed = signed

	page, err := h.disciplinaryService.ListDisciplinaries(r.Context(), filter, parsePagination(r, defaultPageLimit, maxPageLimit))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, page)
}

// ListByEmployee implements DisciplinaryHandler.
func (h *disciplinaryHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}
	page, err := h.disciplinaryService.ListByEmployee(r.Context(), employeeID, parsePagination(r, defaultPageLimit, maxPageLimit))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, page)
}

// Get implements DisciplinaryHandler.
func (h *disciplinaryHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", disciplinary.ErrDisciplinaryNotFound)
	if !ok {
		return
	}
	result, err := h.disciplinaryService.GetDisciplinary(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements DisciplinaryHandler.
func (h *disciplinaryHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req disciplinary.UpdateDisciplinaryRequest
	doc, ok := decodeWithDocument(w, r, &req)
	if !ok {
		return
	}
	defer doc.Close()
	id, ok := pathID(w, r, "id", disciplinary.ErrDisciplinaryNotFound)
	if !ok {
		return
	}
	req.ID = id
	req.File, req.FileHeader = doc.File, doc.Header

	result, err := h.disciplinaryService.UpdateDisciplinary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Disciplinary record updated", result)
}

// Delete implements DisciplinaryHandler.
func (h *disciplinaryHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", disciplinary.ErrDisciplinaryNotFound)
	if !ok {
		return
	}
	if err := h.disciplinaryService.DeleteDisciplinary(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Disciplinary record deleted", nil)
}
