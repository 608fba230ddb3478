package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/admin"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/attendance"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/disciplinary"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/whatsapp"
	"github.com/sj-empleados/empleados-backend-go/internal/service/file"
)

type AdminServiceImpl struct {
	sender           whatsapp.Sender
	employeeRepo     employee.EmployeeRepository
	attendanceRepo   attendance.AttendanceRepository
	disciplinaryRepo disciplinary.DisciplinaryRepository
	fileService      file.FileService

	migrating sync.Mutex
}

func NewAdminService(
	sender whatsapp.Sender,
	employeeRepo employee.EmployeeRepository,
	attendanceRepo attendance.AttendanceRepository,
	disciplinaryRepo disciplinary.DisciplinaryRepository,
	fileService file.FileService,
) admin.AdminService {
	return &AdminServiceImpl{
		sender:           sender,
		employeeRepo:     employeeRepo,
		attendanceRepo:   attendanceRepo,
		disciplinaryRepo: disciplinaryRepo,
		fileService:      fileService,
	}
}

// TestWhatsApp implements admin.AdminService.
func (s *AdminServiceImpl) TestWhatsApp(ctx context.Context, req admin.WhatsAppTestRequest) (admin.WhatsAppTestResponse, error) {
	if err := req.Validate(); err != nil {
		return admin.WhatsAppTestResponse{}, err
	}

	res, err := s.sender.Send(ctx, req.To, req.Body)
	if err != nil {
		slog.Warn("WhatsApp test message failed", "provider", s.sender.Provider(), "to", req.To, "error", err)
		return admin.WhatsAppTestResponse{}, fmt.Errorf("%w: %v", admin.ErrProviderFailed, err)
	}
	return admin.WhatsAppTestResponse{To: req.To, MessageID: res.MessageID, Mock: res.Mock}, nil
}

// Broadcast implements admin.AdminService.
func (s *AdminServiceImpl) Broadcast(ctx context.Context, req admin.BroadcastRequest) (admin.BroadcastResponse, error) {
	req.Normalize()

	employees, err := s.employeeRepo.ListWithPhone(ctx)
	if err != nil {
		return admin.BroadcastResponse{}, err
	}

	resp := admin.BroadcastResponse{Total: len(employees), Results: make([]admin.BroadcastResult, 0, len(employees))}
	for _, emp := range employees {
		if err := ctx.Err(); err != nil {
			return resp, err
		}

		result := admin.BroadcastResult{
			Empleado: strings.TrimSpace(emp.Nombre + " " + emp.Apellido),
			Telefono: emp.Telefono,
		}
		res, err := s.sender.Send(ctx, emp.Telefono, req.Body)
		if err != nil {
			result.Error = err.Error()
			resp.Errors++
		} else {
			result.MessageID = res.MessageID
			result.Mock = res.Mock
			resp.Sent++
		}
		resp.Results = append(resp.Results, result)
	}

	slog.Info("WhatsApp broadcast finished", "total", resp.Total, "sent", resp.Sent, "errors", resp.Errors)
	return resp, nil
}

// MigrateRawFormats implements admin.AdminService.
func (s *AdminServiceImpl) MigrateRawFormats(ctx context.Context) (admin.RawFormatsResponse, error) {
	if !s.migrating.TryLock() {
		return admin.RawFormatsResponse{}, admin.ErrMigrationInProgress
	}
	defer s.migrating.Unlock()

	var resp admin.RawFormatsResponse

	attendances, err := s.attendanceRepo.ListWithDocument(ctx)
	if err != nil {
		return resp, fmt.Errorf("failed to list attendance documents: %w", err)
	}
	for _, a := range attendances {
		if !a.HasDocument() {
			continue
		}
		s.normalize(ctx, &resp.Attendance, a.ID, *a.JustificationDocument, s.attendanceRepo.UpdateDocument)
	}

	disciplinaries, err := s.disciplinaryRepo.ListWithDocument(ctx)
	if err != nil {
		return resp, fmt.Errorf("failed to list disciplinary documents: %w", err)
	}
	for _, d := range disciplinaries {
		if !d.HasDocument() {
			continue
		}
		s.normalize(ctx, &resp.Disciplinary, d.ID, *d.Document, s.disciplinaryRepo.UpdateDocument)
	}

	slog.Info("Raw format migration finished",
		"attendance_scanned", resp.Attendance.Scanned,
		"attendance_updated", resp.Attendance.Updated,
		"disciplinary_scanned", resp.Disciplinary.Scanned,
		"disciplinary_updated", resp.Disciplinary.Updated,
	)
	return resp, nil
}

func (s *AdminServiceImpl) normalize(ctx context.Context, count *admin.MigrationCount, id, key string, update func(ctx context.Context, id, document string) error) {
	count.Scanned++

	newKey, changed, err := s.fileService.NormalizeExtension(ctx, key)
	if err != nil {
		count.Failed++
		if errors.Is(err, file.ErrUnknownRawFormat) {
			slog.Warn("Unknown document format", "id", id, "key", key)
		} else {
			slog.Error("Failed to normalize document", "id", id, "key", key, "error", err)
		}
		return
	}
	if !changed {
		return
	}

	if err := update(ctx, id, newKey); err != nil {
		count.Failed++
		slog.Error("Failed to update document reference", "id", id, "key", newKey, "error", err)
		if delErr := s.fileService.DeleteFile(ctx, newKey); delErr != nil {
			slog.Warn("Failed to remove normalized copy", "key", newKey, "error", delErr)
		}
		return
	}
	count.Updated++

	if err := s.fileService.DeleteFile(ctx, key); err != nil {
		slog.Warn("Failed to remove raw document", "id", id, "key", key, "error", err)
	}
}
