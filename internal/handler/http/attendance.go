package http

import (
	"net/http"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/attendance"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/response"
)

type AttendanceHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	Stats(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Create implements AttendanceHandler.
func (h *attendanceHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req attendance.CreateAttendanceRequest
	doc, ok := decodeWithDocument(w, r, &req)
	if !ok {
		return
	}
	defer doc.Close()
	req.File, req.FileHeader = doc.File, doc.Header

	result, err := h.attendanceService.CreateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Attendance record created", result)
}

// List implements AttendanceHandler.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := attendance.AttendanceFilter{
		EmployeeID: q.Get("employeeId"),
		Type:       q.Get("type"),
		SortDir:    q.Get("sortDir"),
	}

	justified, err := parseOptionalBool(r, "justified")
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}
	filter.Justified = justified

	page, err := h.attendanceService.ListAttendances(r.Context(), filter, parsePagination(r, defaultPageLimit, maxPageLimit))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, page)
}

// ListByEmployee implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	employeeID, ok := pathID(w, r, "employeeId", employee.ErrEmployeeNotFound)
	if !ok {
		return
	}

	page, err := h.attendanceService.ListByEmployee(r.Context(), employeeID, parsePagination(r, defaultPageLimit, maxPageLimit))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, page)
}

// Get implements AttendanceHandler.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", attendance.ErrAttendanceNotFound)
	if !ok {
		return
	}
	result, err := h.attendanceService.GetAttendance(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Update implements AttendanceHandler.
func (h *attendanceHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceRequest
	doc, ok := decodeWithDocument(w, r, &req)
	if !ok {
		return
	}
	defer doc.Close()
	id, ok := pathID(w, r, "id", attendance.ErrAttendanceNotFound)
	if !ok {
		return
	}
	req.ID = id
	req.File, req.FileHeader = doc.File, doc.Header

	result, err := h.attendanceService.UpdateAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record updated", result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", attendance.ErrAttendanceNotFound)
	if !ok {
		return
	}
	if err := h.attendanceService.DeleteAttendance(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance record deleted", nil)
}

// Stats implements AttendanceHandler.
func (h *attendanceHandlerImpl) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.attendanceService.GetStats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, stats)
}
