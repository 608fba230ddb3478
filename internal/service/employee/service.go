package employee

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/event"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/whatsapp"
	"github.com/sj-empleados/empleados-backend-go/internal/repository/postgresql"
	qrcode "github.com/skip2/go-qrcode"
)

const qrSize = 256

type EmployeeServiceImpl struct {
	employee.EmployeeRepository
	txManager          postgresql.TxManager
	eventService       event.EventService
	defaultCountryCode string
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	txManager postgresql.TxManager,
	eventService event.EventService,
	defaultCountryCode string,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		EmployeeRepository: employeeRepo,
		txManager:          txManager,
		eventService:       eventService,
		defaultCountryCode: defaultCountryCode,
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter, params pagination.Params) (pagination.Page[employee.EmployeeResponse], error) {
	filter.Normalize()
	employees, total, err := s.EmployeeRepository.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[employee.EmployeeResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(employees, total, params), employee.ToResponse), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return employee.ToResponse(emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	fechaIngreso, err := utils.ParseOptionalDate(req.FechaIngreso)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}

	created, err := s.EmployeeRepository.Create(ctx, employee.Employee{
		Nombre:       strings.TrimSpace(req.Nombre),
		Apellido:     strings.TrimSpace(req.Apellido),
		DNI:          emptyToNil(req.DNI),
		Legajo:       emptyToNil(req.Legajo),
		Email:        strings.TrimSpace(req.Email),
		Telefono:     strings.TrimSpace(req.Telefono),
		Domicilio:    req.Domicilio,
		Puesto:       req.Puesto,
		Departamento: req.Departamento,
		Sucursal:     req.Sucursal,
		Salario:      req.Salario,
		Activo:       activo,
		FechaIngreso: fechaIngreso,
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee created", "employee_id", created.ID)
	return employee.ToResponse(created), nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	var (
		updated  employee.Employee
		recorded []event.EmployeeEvent
	)
	err := s.txManager.WithinTransaction(ctx, func(ctx context.Context) error {
		current, err := s.EmployeeRepository.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		next, changes, err := applyEmployeeUpdate(current, req)
		if err != nil {
			return err
		}

		updated, err = s.EmployeeRepository.Update(ctx, next)
		if err != nil {
			return err
		}

		if len(changes) == 0 {
			return nil
		}
		ev, err := s.eventService.Record(ctx, event.NewEvent{
			EmployeeID: updated.ID,
			Type:       event.TypeEmployeeUpdate,
			Message:    employeeUpdateMessage(updated, changes),
			Changes:    changes,
		})
		if err != nil {
			return err
		}
		recorded = append(recorded, ev)
		return nil
	})
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	s.eventService.Publish(recorded...)
	return employee.ToResponse(updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.EmployeeRepository.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("Employee deleted", "employee_id", id)
	return nil
}

// WhatsAppQR implements employee.EmployeeService.
func (s *EmployeeServiceImpl) WhatsAppQR(ctx context.Context, id string) ([]byte, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !emp.HasPhone() {
		return nil, employee.ErrNoPhone
	}

	link, err := whatsapp.ChatLink(emp.Telefono, s.defaultCountryCode)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", employee.ErrNoPhone, err)
	}

	png, err := qrcode.Encode(link, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}

// applyEmployeeUpdate copies the present fields onto current and diffs the watched ones.
func applyEmployeeUpdate(current employee.Employee, req employee.UpdateEmployeeRequest) (employee.Employee, []event.Change, error) {
	next := current
	var changes []event.Change

	watchString := func(field string, dst *string, val *string) {
		if val == nil {
			return
		}
		if *dst != *val {
			changes = append(changes, event.Change{Field: field, From: *dst, To: *val})
		}
		*dst = *val
	}

	if req.Nombre != nil {
		next.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Apellido != nil {
		next.Apellido = strings.TrimSpace(*req.Apellido)
	}
	if req.DNI != nil {
		next.DNI = emptyToNil(req.DNI)
	}
	if req.Legajo != nil {
		next.Legajo = emptyToNil(req.Legajo)
	}
	if req.FechaIngreso != nil {
		fecha, err := utils.ParseOptionalDate(req.FechaIngreso)
		if err != nil {
			return employee.Employee{}, nil, err
		}
		next.FechaIngreso = fecha
	}

	// Watched fields, in the order they are reported.
	watchString("puesto", &next.Puesto, req.Puesto)
	watchString("departamento", &next.Departamento, req.Departamento)
	if req.Salario != nil {
		if !decimalEqual(next.Salario, req.Salario) {
			changes = append(changes, event.Change{Field: "salario", From: decimalValue(next.Salario), To: req.Salario.String()})
		}
		salario := *req.Salario
		next.Salario = &salario
	}
	if req.Activo != nil {
		if next.Activo != *req.Activo {
			changes = append(changes, event.Change{Field: "activo", From: next.Activo, To: *req.Activo})
		}
		next.Activo = *req.Activo
	}
	watchString("sucursal", &next.Sucursal, req.Sucursal)
	watchString("email", &next.Email, req.Email)
	watchString("telefono", &next.Telefono, req.Telefono)
	watchString("domicilio", &next.Domicilio, req.Domicilio)

	return next, changes, nil
}

func employeeUpdateMessage(emp employee.Employee, changes []event.Change) string {
	parts := make([]string, 0, len(changes))
	for _, c := range changes {
		parts = append(parts, fmt.Sprintf("%s: '%s' → '%s'", c.Field, displayValue(c.From), displayValue(c.To)))
	}
	return fmt.Sprintf("Modificaciones importantes en legajo de %s %s: %s", emp.Nombre, emp.Apellido, strings.Join(parts, ", "))
}

func displayValue(v interface{}) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(v)
}

func decimalEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func decimalValue(d *decimal.Decimal) interface{} {
	if d == nil {
		return nil
	}
	return d.String()
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
