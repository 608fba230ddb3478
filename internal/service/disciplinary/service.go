package disciplinary

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/disciplinary"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/event"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/outbox"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"github.com/sj-empleados/empleados-backend-go/internal/repository/postgresql"
	"github.com/sj-empleados/empleados-backend-go/internal/service/file"
)

type DisciplinaryServiceImpl struct {
	disciplinary.DisciplinaryRepository
	employeeRepo  employee.EmployeeRepository
	txManager     postgresql.TxManager
	eventService  event.EventService
	outboxService outbox.OutboxService
	fileService   file.FileService
}

func NewDisciplinaryService(
	disciplinaryRepo disciplinary.DisciplinaryRepository,
	employeeRepo employee.EmployeeRepository,
	txManager postgresql.TxManager,
	eventService event.EventService,
	outboxService outbox.OutboxService,
	fileService file.FileService,
) disciplinary.DisciplinaryService {
	return &DisciplinaryServiceImpl{
		DisciplinaryRepository: disciplinaryRepo,
		employeeRepo:           employeeRepo,
		txManager:              txManager,
		eventService:           eventService,
		outboxService:          outboxService,
		fileService:            fileService,
	}
}

// CreateDisciplinary implements disciplinary.DisciplinaryService.
func (s *DisciplinaryServiceImpl) CreateDisciplinary(ctx context.Context, req disciplinary.CreateDisciplinaryRequest) (disciplinary.DisciplinaryResponse, error) {
	if err := req.Validate(); err != nil {
		return disciplinary.DisciplinaryResponse{}, err
	}

	emp, err := s.employeeRepo.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return disciplinary.DisciplinaryResponse{}, err
	}

	record, err := newDisciplinary(req)
	if err != nil {
		return disciplinary.DisciplinaryResponse{}, err
	}

	if req.File != nil && req.FileHeader != nil {
		key, err := s.fileService.UploadDocument(ctx, file.FolderDisciplinary, emp.ID, req.File, req.FileHeader.Filename)
		if err != nil {
			return disciplinary.DisciplinaryResponse{}, err
		}
		record.Document = &key
	}

	var (
		created  disciplinary.Disciplinary
		recorded event.EmployeeEvent
	)
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		created, err = s.DisciplinaryRepository.Create(ctx, record)
		if err != nil {
			return err
		}

		recorded, err = s.eventService.Record(ctx, event.NewEvent{
			EmployeeID: emp.ID,
			Type:       event.TypeDisciplinaryCreated,
			Message:    creationMessage(created),
			Changes: []event.Change{{
				Field: "disciplinary",
				From:  nil,
				To: map[string]interface{}{
					"type":             string(created.Type),
					"date":             utils.FormatDate(created.Date),
					"signed":           created.Signed,
					"durationDays":     intValue(created.DurationDays),
					"returnToWorkDate": dateValue(created.ReturnToWorkDate),
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
			Body:      notificationMessage(created),
			Reference: "disciplinary:" + created.ID,
		})
		return err
	})
	if err != nil {
		if record.HasDocument() {
			s.removeDocument(ctx, *record.Document)
		}
		return disciplinary.DisciplinaryResponse{}, err
	}

	s.eventService.Publish(recorded)
	slog.Info("Disciplinary created", "disciplinary_id", created.ID, "employee_id", emp.ID, "type", created.Type)

	resp := s.toResponse(ctx, created)
	ref := emp.ToRef()
	resp.Employee = &ref
	return resp, nil
}

// ListDisciplinaries implements disciplinary.DisciplinaryService.
func (s *DisciplinaryServiceImpl) ListDisciplinaries(ctx context.Context, filter disciplinary.DisciplinaryFilter, params pagination.Params) (pagination.Page[disciplinary.DisciplinaryResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[disciplinary.DisciplinaryResponse]{}, err
	}
	rows, total, err := s.DisciplinaryRepository.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[disciplinary.DisciplinaryResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(rows, total, params), func(row disciplinary.DisciplinaryWithEmployee) disciplinary.DisciplinaryResponse {
		return s.withEmployee(ctx, row)
	}), nil
}

// ListByEmployee implements disciplinary.DisciplinaryService.
func (s *DisciplinaryServiceImpl) ListByEmployee(ctx context.Context, employeeID string, params pagination.Params) (pagination.Page[disciplinary.DisciplinaryResponse], error) {
	return s.ListDisciplinaries(ctx, disciplinary.DisciplinaryFilter{EmployeeID: employeeID, SortDir: "desc"}, params)
}

// GetDisciplinary implements disciplinary.DisciplinaryService.
func (s *DisciplinaryServiceImpl) GetDisciplinary(ctx context.Context, id string) (disciplinary.DisciplinaryResponse, error) {
	row, err := s.DisciplinaryRepository.GetWithEmployee(ctx, id)
	if err != nil {
		return disciplinary.DisciplinaryResponse{}, err
	}
	return s.withEmployee(ctx, row), nil
}

// UpdateDisciplinary implements disciplinary.DisciplinaryService.
func (s *DisciplinaryServiceImpl) UpdateDisciplinary(ctx context.Context, req disciplinary.UpdateDisciplinaryRequest) (disciplinary.DisciplinaryResponse, error) {
	if err := req.Validate(); err != nil {
		return disciplinary.DisciplinaryResponse{}, err
	}

	prev, err := s.DisciplinaryRepository.GetByID(ctx, req.ID)
	if err != nil {
		return disciplinary.DisciplinaryResponse{}, err
	}

	next, err := applyDisciplinaryUpdate(prev, req)
	if err != nil {
		return disciplinary.DisciplinaryResponse{}, err
	}

	var uploaded string
	if req.File != nil && req.FileHeader != nil {
		uploaded, err = s.fileService.UploadDocument(ctx, file.FolderDisciplinary, prev.EmployeeID, req.File, req.FileHeader.Filename)
		if err != nil {
			return disciplinary.DisciplinaryResponse{}, err
		}
		next.Document = &uploaded
	}

	var (
		updated  disciplinary.Disciplinary
		recorded []event.EmployeeEvent
	)
	err = s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		updated, err = s.DisciplinaryRepository.Update(ctx, next)
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
		return disciplinary.DisciplinaryResponse{}, err
	}

	if uploaded != "" && prev.HasDocument() && *prev.Document != uploaded {
		s.removeDocument(ctx, *prev.Document)
	}

	s.eventService.Publish(recorded...)
	slog.Info("Disciplinary updated", "disciplinary_id", updated.ID, "events", len(recorded))
	return s.toResponse(ctx, updated), nil
}

// DeleteDisciplinary implements disciplinary.DisciplinaryService.
func (s *DisciplinaryServiceImpl) DeleteDisciplinary(ctx context.Context, id string) error {
	existing, err := s.DisciplinaryRepository.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.HasDocument() {
		s.removeDocument(ctx, *existing.Document)
	}
	if err := s.DisciplinaryRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Disciplinary deleted", "disciplinary_id", id)
	return nil
}

func (s *DisciplinaryServiceImpl) removeDocument(ctx context.Context, key string) {
	if err := s.fileService.DeleteFile(ctx, key); err != nil {
		slog.Warn("Failed to delete disciplinary document", "key", key, "error", err)
	}
}

func (s *DisciplinaryServiceImpl) toResponse(ctx context.Context, d disciplinary.Disciplinary) disciplinary.DisciplinaryResponse {
	resp := disciplinary.ToResponse(d)
	if d.HasDocument() {
		if url, err := s.fileService.GetFileURL(ctx, *d.Document, 0); err == nil {
			resp.DocumentURL = &url
		}
	}
	return resp
}

func (s *DisciplinaryServiceImpl) withEmployee(ctx context.Context, row disciplinary.DisciplinaryWithEmployee) disciplinary.DisciplinaryResponse {
	resp := s.toResponse(ctx, row.Disciplinary)
	ref := row.Employee
	resp.Employee = &ref
	return resp
}

func newDisciplinary(req disciplinary.CreateDisciplinaryRequest) (disciplinary.Disciplinary, error) {
	date, err := utils.ParseDate(req.Date)
	if err != nil {
		return disciplinary.Disciplinary{}, err
	}
	d := disciplinary.Disciplinary{
		EmployeeID:  req.EmployeeID,
		Date:        date,
		Time:        emptyToNil(req.Time),
		Type:        disciplinary.Type(req.Type),
		Description: strings.TrimSpace(req.Description),
		Signed:      req.Signed,
	}
	if req.DurationDays != nil && *req.DurationDays > 0 {
		d.DurationDays = req.DurationDays
	}
	if d.SignedDate, err = utils.ParseOptionalDate(req.SignedDate); err != nil {
		return disciplinary.Disciplinary{}, err
	}
	if d.ReturnToWorkDate, err = utils.ParseOptionalDate(req.ReturnToWorkDate); err != nil {
		return disciplinary.Disciplinary{}, err
	}
	d.DeriveReturnToWork()
	return d, nil
}

// applyDisciplinaryUpdate copies present fields onto prev. An empty durationDays or
// returnToWorkDate clears the stored value before the return date is derived again.
// A return date that was derived follows later changes to date or durationDays.
func applyDisciplinaryUpdate(prev disciplinary.Disciplinary, req disciplinary.UpdateDisciplinaryRequest) (disciplinary.Disciplinary, error) {
	next := prev
	var err error
	derived := prev.ReturnIsDerived()

	if req.Date != nil {
		if next.Date, err = utils.ParseDate(*req.Date); err != nil {
			return disciplinary.Disciplinary{}, err
		}
	}
	if req.Time != nil {
		next.Time = emptyToNil(req.Time)
	}
	if req.Type != nil {
		next.Type = disciplinary.Type(*req.Type)
	}
	if req.Description != nil {
		next.Description = strings.TrimSpace(*req.Description)
	}
	if req.Signed != nil {
		next.Signed = *req.Signed
	}
	if req.SignedDate != nil && strings.TrimSpace(*req.SignedDate) != "" {
		if next.SignedDate, err = utils.ParseOptionalDate(req.SignedDate); err != nil {
			return disciplinary.Disciplinary{}, err
		}
	}
	if req.DurationDays != nil {
		next.DurationDays = nil
		if *req.DurationDays > 0 {
			days := *req.DurationDays
			next.DurationDays = &days
		}
	}
	if req.ReturnToWorkDate != nil {
		if next.ReturnToWorkDate, err = utils.ParseOptionalDate(req.ReturnToWorkDate); err != nil {
			return disciplinary.Disciplinary{}, err
		}
	} else if derived && (req.Date != nil || req.DurationDays != nil) {
		next.ReturnToWorkDate = nil
	}

	next.DeriveReturnToWork()
	return next, nil
}

func creationMessage(d disciplinary.Disciplinary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Se registró una medida disciplinaria (%s) el %s", strings.ToUpper(string(d.Type)), utils.FormatDateAR(d.Date))
	if d.Time != nil {
		fmt.Fprintf(&b, " a las %s", *d.Time)
	}
	b.WriteString(".")
	if d.Description != "" {
		fmt.Fprintf(&b, " Detalle: %s", d.Description)
	}
	if d.DurationDays != nil {
		fmt.Fprintf(&b, " Suspensión: %d día(s).", *d.DurationDays)
	}
	if d.ReturnToWorkDate != nil {
		fmt.Fprintf(&b, " Reincorporación: %s.", utils.FormatDateAR(*d.ReturnToWorkDate))
	}
	return b.String()
}

func notificationMessage(d disciplinary.Disciplinary) string {
	head := fmt.Sprintf("RRHH: Medida disciplinaria (%s) el %s", strings.ToUpper(string(d.Type)), utils.FormatDateAR(d.Date))
	if d.Time != nil {
		head += " a las " + *d.Time
	}
	parts := []string{head + "."}
	if d.Description != "" {
		parts = append(parts, d.Description)
	}
	if d.DurationDays != nil {
		parts = append(parts, fmt.Sprintf("Suspensión: %d día(s).", *d.DurationDays))
	}
	if d.ReturnToWorkDate != nil {
		parts = append(parts, "Reincorp.: "+utils.FormatDateAR(*d.ReturnToWorkDate))
	}
	return strings.Join(parts, " ")
}

func updateEvents(prev, next disciplinary.Disciplinary) []event.NewEvent {
	var events []event.NewEvent

	if prev.Signed != next.Signed {
		msg := "La medida disciplinaria dejó de figurar como firmada."
		if next.Signed {
			msg = "La medida disciplinaria fue firmada."
		}
		events = append(events, event.NewEvent{
			EmployeeID: next.EmployeeID,
			Type:       event.TypeDisciplinarySignatureUpdate,
			Message:    msg,
			Changes:    []event.Change{{Field: "disciplinary.signed", From: prev.Signed, To: next.Signed}},
		})
	}

	if !sameInt(prev.DurationDays, next.DurationDays) || !sameDate(prev.ReturnToWorkDate, next.ReturnToWorkDate) {
		days := "-"
		if next.DurationDays != nil {
			days = fmt.Sprint(*next.DurationDays)
		}
		events = append(events, event.NewEvent{
			EmployeeID: next.EmployeeID,
			Type:       event.TypeDisciplinaryDatesUpdate,
			Message:    fmt.Sprintf("Actualización: Suspensión %s día(s), Reincorporación %s.", days, utils.FormatOptionalDateAR(next.ReturnToWorkDate)),
			Changes: []event.Change{
				{Field: "disciplinary.durationDays", From: intValue(prev.DurationDays), To: intValue(next.DurationDays)},
				{Field: "disciplinary.returnToWorkDate", From: dateValue(prev.ReturnToWorkDate), To: dateValue(next.ReturnToWorkDate)},
			},
		})
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
