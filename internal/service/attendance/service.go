package attendance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/attendance"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/event"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/outbox"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"github.com/sj-empleados/empleados-backend-go/internal/repository/postgresql"
	"github.com/sj-empleados/empleados-backend-go/internal/service/file"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employeeRepo  employee.EmployeeRepository
	txManager     postgresql.TxManager
	eventService  event.EventService
	outboxService outbox.OutboxService
	fileService   file.FileService
	loc           *time.Location
	now           func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	txManager postgresql.TxManager,
	eventService event.EventService,
	outboxService outbox.OutboxService,
	fileService file.FileService,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		employeeRepo:         employeeRepo,
		txManager:            txManager,
		eventService:         eventService,
		outboxService:        outboxService,
		fileService:          fileService,
		loc:                  loc,
		now:                  time.Now,
	}
}

// CreateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CreateAttendance(ctx context.Context, req attendance.CreateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := newAttendance(req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if req.File != nil && req.FileHeader != nil {
		key, err := s.fileService.UploadDocument(ctx, file.FolderAttendance, emp.ID, req.File, req.FileHeader.Filename)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		record.JustificationDocument = &key
	}

	var (
		created  attendance.Attendance
		recorded event.EmployeeEvent
	)
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.AttendanceRepository.Create(ctx, record)
		if err != nil {
			return err
		}

		evType, message := creationMessage(created, emp)
		recorded, err = s.eventService.Record(ctx, event.NewEvent{
			EmployeeID: emp.ID,
			Type:       evType,
			Message:    message,
			Changes: []event.Change{{
				Field: "attendance",
				From:  nil,
				To: map[string]interface{}{
					"date":            utils.FormatDate(created.Date),
					"type":            string(created.Type),
					"justified":       created.Justified,
					"lostPresentismo": created.LostPresentismo,
				},
			}},
		})
		if err != nil {
			return err
		}

		if !emp.HasPhone() {
			return nil
		}
		_, err = s.outboxService.Enqueue(ctx, outbox.NewMessage{
			Recipient: emp.Telefono,
			Body:      message,
			Reference: "attendance:" + created.ID,
		})
		return err
	})
	if err != nil {
		if record.HasDocument() {
			s.removeDocument(ctx, *record.JustificationDocument)
		}
		return attendance.AttendanceResponse{}, err
	}

	s.eventService.Publish(recorded)
	slog.Info("Attendance created", "attendance_id", created.ID, "employee_id", emp.ID, "type", created.Type)

	resp := s.toResponse(ctx, created)
	ref := emp.ToRef()
	resp.Employee = &ref
	return resp, nil
}

// ListAttendances implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListAttendances(ctx context.Context, filter attendance.AttendanceFilter, params pagination.Params) (pagination.Page[attendance.AttendanceResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[attendance.AttendanceResponse]{}, err
	}
	rows, total, err := s.AttendanceRepository.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[attendance.AttendanceResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(rows, total, params), func(row attendance.AttendanceWithEmployee) attendance.AttendanceResponse {
		return s.withEmployee(ctx, row)
	}), nil
}

// ListByEmployee implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByEmployee(ctx context.Context, employeeID string, params pagination.Params) (pagination.Page[attendance.AttendanceResponse], error) {
	return s.ListAttendances(ctx, attendance.AttendanceFilter{EmployeeID: employeeID, SortDir: "desc"}, params)
}

// GetAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	row, err := s.AttendanceRepository.GetWithEmployee(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return s.withEmployee(ctx, row), nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	prev, err := s.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	next, err := applyAttendanceUpdate(prev, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	var uploaded string
	if req.File != nil && req.FileHeader != nil {
		uploaded, err = s.fileService.UploadDocument(ctx, file.FolderAttendance, prev.EmployeeID, req.File, req.FileHeader.Filename)
		if err != nil {
			return attendance.AttendanceResponse{}, err
		}
		next.JustificationDocument = &uploaded
	}

	var (
		updated  attendance.Attendance
		recorded []event.EmployeeEvent
	)
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.AttendanceRepository.Update(ctx, next)
		if err != nil {
			return err
		}
		for _, ev := range updateEvents(prev, updated) {
			stored, err := s.eventService.Record(ctx, ev)
			if err != nil {
				return err
			}
			recorded = append(recorded, stored)
		}
		return nil
	})
	if err != nil {
		if uploaded != "" {
			s.removeDocument(ctx, uploaded)
		}
		return attendance.AttendanceResponse{}, err
	}

	if uploaded != "" && prev.HasDocument() && *prev.JustificationDocument != uploaded {
		s.removeDocument(ctx, *prev.JustificationDocument)
	}

	s.eventService.Publish(recorded...)
	slog.Info("Attendance updated", "attendance_id", updated.ID, "events", len(recorded))
	return s.toResponse(ctx, updated), nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	existing, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.HasDocument() {
		s.removeDocument(ctx, *existing.JustificationDocument)
	}
	if err := s.AttendanceRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Attendance deleted", "attendance_id", id)
	return nil
}

// GetStats implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetStats(ctx context.Context) (attendance.Stats, error) {
	from, to := utils.MonthRange(utils.Today(s.now(), s.loc))
	return s.AttendanceRepository.Stats(ctx, from, to)
}

func (s *AttendanceServiceImpl) removeDocument(ctx context.Context, key string) {
	if err := s.fileService.DeleteFile(ctx, key); err != nil {
		slog.Warn("Failed to delete attendance document", "key", key, "error", err)
	}
}

func (s *AttendanceServiceImpl) toResponse(ctx context.Context, a attendance.Attendance) attendance.AttendanceResponse {
	resp := attendance.ToResponse(a)
	if a.HasDocument() {
		if url, err := s.fileService.GetFileURL(ctx, *a.JustificationDocument, 0); err == nil {
			resp.DocumentURL = &url
		}
	}
	return resp
}

func (s *AttendanceServiceImpl) withEmployee(ctx context.Context, row attendance.AttendanceWithEmployee) attendance.AttendanceResponse {
	resp := s.toResponse(ctx, row.Attendance)
	ref := row.Employee
	resp.Employee = &ref
	return resp
}

func newAttendance(req attendance.CreateAttendanceRequest) (attendance.Attendance, error) {
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return attendance.Attendance{}, err
	}
	a := attendance.Attendance{
		EmployeeID:      req.EmployeeID,
		Date:            date,
		Type:            attendance.Type(req.Type),
		Justified:       req.Justified,
		LostPresentismo: req.LostPresentismo,
		Comments:        strings.TrimSpace(req.Comments),
		ScheduledEntry:  emptyToNil(req.ScheduledEntry),
		ActualEntry:     emptyToNil(req.ActualEntry),
		SuspensionDays:  req.SuspensionDays,
	}
	if a.CertificateExpiry, err = utils.ParseOptionalDate(req.CertificateExpiry); err != nil {
		return attendance.Attendance{}, err
	}
	if a.VacationsStart, err = utils.ParseOptionalDate(req.VacationsStart); err != nil {
		return attendance.Attendance{}, err
	}
	if a.VacationsEnd, err = utils.ParseOptionalDate(req.VacationsEnd); err != nil {
		return attendance.Attendance{}, err
	}
	if a.ReturnToWorkDate, err = utils.ParseOptionalDate(req.ReturnToWorkDate); err != nil {
		return attendance.Attendance{}, err
	}
	a.DeriveLateMinutes()
	a.DefaultVacationStart()
	a.DeriveReturnToWork()
	return a, nil
}

// applyAttendanceUpdate copies present fields onto prev. Date, type and employee never change.
func applyAttendanceUpdate(prev attendance.Attendance, req attendance.UpdateAttendanceRequest) (attendance.Attendance, error) {
	next := prev
	if req.Justified != nil {
		next.Justified = *req.Justified
	}
	if req.LostPresentismo != nil {
		next.LostPresentismo = *req.LostPresentismo
	}
	if req.Comments != nil {
		next.Comments = strings.TrimSpace(*req.Comments)
	}
	if req.ScheduledEntry != nil {
		next.ScheduledEntry = emptyToNil(req.ScheduledEntry)
	}
	if req.ActualEntry != nil {
		next.ActualEntry = emptyToNil(req.ActualEntry)
	}
	if req.SuspensionDays != nil {
		next.SuspensionDays = req.SuspensionDays
		if *req.SuspensionDays == 0 {
			next.SuspensionDays = nil
		}
	}

	var err error
	if req.CertificateExpiry != nil {
		if next.CertificateExpiry, err = utils.ParseOptionalDate(emptyToNil(req.CertificateExpiry)); err != nil {
			return attendance.Attendance{}, err
		}
	}
	if req.VacationsStart != nil {
		if next.VacationsStart, err = utils.ParseOptionalDate(emptyToNil(req.VacationsStart)); err != nil {
			return attendance.Attendance{}, err
		}
	}
	if req.VacationsEnd != nil {
		if next.VacationsEnd, err = utils.ParseOptionalDate(emptyToNil(req.VacationsEnd)); err != nil {
			return attendance.Attendance{}, err
		}
	}
	// An empty return-to-work date keeps the stored one.
	if req.ReturnToWorkDate != nil && strings.TrimSpace(*req.ReturnToWorkDate) != "" {
		if next.ReturnToWorkDate, err = utils.ParseOptionalDate(req.ReturnToWorkDate); err != nil {
			return attendance.Attendance{}, err
		}
	}

	next.DeriveReturnToWork()
	next.DeriveLateMinutes()
	return next, nil
}

func creationMessage(a attendance.Attendance, emp employee.Employee) (event.Type, string) {
	name := emp.FullName()
	date := utils.FormatDateAR(a.Date)

	switch a.Type {
	case attendance.TypeLicenciaMedica:
		if a.HasDocument() {
			msg := fmt.Sprintf("Certificado médico cargado para %s (%s).", name, date)
			if a.CertificateExpiry != nil {
				msg += fmt.Sprintf(" Vence el %s.", utils.FormatDateAR(*a.CertificateExpiry))
			}
			return event.TypeMedicalCertificateUploaded, msg
		}
		msg := fmt.Sprintf("Licencia médica registrada para %s (%s).", name, date)
		if a.CertificateExpiry != nil {
			msg += fmt.Sprintf(" Certificado vence el %s.", utils.FormatDateAR(*a.CertificateExpiry))
		} else {
			msg += " Recordatorio: presentar certificado si corresponde."
		}
		return event.TypeMedicalLeaveRegistered, msg

	case attendance.TypeVacaciones:
		start := date
		if a.VacationsStart != nil {
			start = utils.FormatDateAR(*a.VacationsStart)
		}
		msg := fmt.Sprintf("Vacaciones registradas para %s desde %s hasta %s.", name, start, utils.FormatOptionalDateAR(a.VacationsEnd))
		if a.ReturnToWorkDate != nil {
			msg += fmt.Sprintf(" Reincorporación el %s.", utils.FormatDateAR(*a.ReturnToWorkDate))
		}
		return event.TypeVacationsRegistered, msg

	case attendance.TypeSancionRecibida:
		msg := fmt.Sprintf("Sanción registrada en el legajo de %s (%s).", name, date)
		if a.SuspensionDays != nil && *a.SuspensionDays > 0 {
			msg += fmt.Sprintf(" Duración: %d día(s).", *a.SuspensionDays)
		}
		if a.ReturnToWorkDate != nil {
			msg += fmt.Sprintf(" Reincorporación el %s.", utils.FormatDateAR(*a.ReturnToWorkDate))
		}
		return event.TypeDisciplinaryReceived, msg

	case attendance.TypeTardanza:
		return event.TypeLateArrival, fmt.Sprintf("Tardanza registrada para %s: %d minutos tarde (Establecida %s, Registrada %s).",
			name, a.LateMinutes, orDash(a.ScheduledEntry), orDash(a.ActualEntry))
	}

	return event.TypeAttendanceCreated, fmt.Sprintf("Nueva asistencia registrada (%s) para %s el %s.", a.Type, name, date)
}

// updateEvents returns one event per changed field group, in a fixed order.
func updateEvents(prev, next attendance.Attendance) []event.NewEvent {
	var events []event.NewEvent
	add := func(t event.Type, msg string, changes ...event.Change) {
		events = append(events, event.NewEvent{EmployeeID: next.EmployeeID, Type: t, Message: msg, Changes: changes})
	}

	if !sameString(prev.ScheduledEntry, next.ScheduledEntry) || !sameString(prev.ActualEntry, next.ActualEntry) || prev.LateMinutes != next.LateMinutes {
		add(event.TypeLateArrivalUpdate,
			fmt.Sprintf("Actualización de horarios. Establecida %s, Registrada %s, Tardanza %d min.", orDash(next.ScheduledEntry), orDash(next.ActualEntry), next.LateMinutes),
			event.Change{Field: "attendance.scheduledEntry", From: stringValue(prev.ScheduledEntry), To: stringValue(next.ScheduledEntry)},
			event.Change{Field: "attendance.actualEntry", From: stringValue(prev.ActualEntry), To: stringValue(next.ActualEntry)},
			event.Change{Field: "attendance.lateMinutes", From: prev.LateMinutes, To: next.LateMinutes},
		)
	}

	if prev.Justified != next.Justified {
		msg := "La ausencia quedó sin justificar."
		if next.Justified {
			msg = "La ausencia quedó justificada."
		}
		add(event.TypeAttendanceJustificationUpdate, msg,
			event.Change{Field: "attendance.justified", From: prev.Justified, To: next.Justified})
	}

	if next.Type == attendance.TypeLicenciaMedica && !sameString(prev.JustificationDocument, next.JustificationDocument) {
		add(event.TypeMedicalCertificateUploaded, "Se cargó/actualizó el certificado médico en el legajo.",
			event.Change{Field: "attendance.justificationDocument", From: stringValue(prev.JustificationDocument), To: stringValue(next.JustificationDocument)})
	}

	if next.Type == attendance.TypeLicenciaMedica && !sameDate(prev.CertificateExpiry, next.CertificateExpiry) {
		msg := "Se eliminó la fecha de vencimiento del certificado."
		if next.CertificateExpiry != nil {
			msg = "Se actualizó fecha de vencimiento de certificado: " + utils.FormatDateAR(*next.CertificateExpiry)
		}
		add(event.TypeMedicalCertificateExpiry, msg,
			event.Change{Field: "attendance.certificateExpiry", From: dateValue(prev.CertificateExpiry), To: dateValue(next.CertificateExpiry)})
	}

	if next.Type == attendance.TypeVacaciones && (!sameDate(prev.VacationsStart, next.VacationsStart) || !sameDate(prev.VacationsEnd, next.VacationsEnd)) {
		add(event.TypeVacationsDatesUpdate,
			fmt.Sprintf("Se actualizaron fechas de vacaciones: Inicio %s Fin %s.", utils.FormatOptionalDateAR(next.VacationsStart), utils.FormatOptionalDateAR(next.VacationsEnd)),
			event.Change{Field: "attendance.vacationsStart", From: dateValue(prev.VacationsStart), To: dateValue(next.VacationsStart)},
			event.Change{Field: "attendance.vacationsEnd", From: dateValue(prev.VacationsEnd), To: dateValue(next.VacationsEnd)},
		)
	}

	if next.Type == attendance.TypeSancionRecibida && (!sameInt(prev.SuspensionDays, next.SuspensionDays) || !sameDate(prev.ReturnToWorkDate, next.ReturnToWorkDate)) {
		days := "-"
		if next.SuspensionDays != nil {
			days = fmt.Sprint(*next.SuspensionDays)
		}
		add(event.TypeDisciplinaryReturnUpdate,
			fmt.Sprintf("Se actualizó suspensión: Días %s, Reincorporación %s.", days, utils.FormatOptionalDateAR(next.ReturnToWorkDate)),
			event.Change{Field: "attendance.suspensionDays", From: intValue(prev.SuspensionDays), To: intValue(next.SuspensionDays)},
			event.Change{Field: "attendance.returnToWorkDate", From: dateValue(prev.ReturnToWorkDate), To: dateValue(next.ReturnToWorkDate)},
		)
	}

	return events
}

func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return utils.SameDay(*a, *b)
}

func stringValue(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func intValue(i *int) interface{} {
	if i == nil {
		return nil
	}
	return *i
}

func dateValue(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return utils.FormatDate(*t)
}
