package employee

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	Nombre       string           `json:"nombre" validate:"required,max=100"`
	Apellido     string           `json:"apellido" validate:"required,max=100"`
	DNI          *string          `json:"dni,omitempty"`
	Legajo       *string          `json:"legajo,omitempty" validate:"omitempty,max=50"`
	Email        string           `json:"email" validate:"omitempty,email"`
	Telefono     string           `json:"telefono" validate:"max=40"`
	Domicilio    string           `json:"domicilio"`
	Puesto       string           `json:"puesto"`
	Departamento string           `json:"departamento"`
	Sucursal     string           `json:"sucursal"`
	Salario      *decimal.Decimal `json:"salario,omitempty"`
	Activo       *bool            `json:"activo,omitempty"`
	FechaIngreso *string          `json:"fechaIngreso,omitempty" validate:"omitempty,date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)
	if r.DNI != nil {
		clean := validator.DigitsOnly(*r.DNI)
		r.DNI = &clean
	}
	if r.Salario != nil && r.Salario.IsNegative() {
		errs.Add("salario", "salario must be non-negative")
	}
	return errs.OrNil()
}

// UpdateEmployeeRequest only touches the fields present in the payload.
type UpdateEmployeeRequest struct {
	ID           string           `json:"-"`
	Nombre       *string          `json:"nombre,omitempty" validate:"omitempty,min=1,max=100"`
	Apellido     *string          `json:"apellido,omitempty" validate:"omitempty,min=1,max=100"`
	DNI          *string          `json:"dni,omitempty"`
	Legajo       *string          `json:"legajo,omitempty" validate:"omitempty,max=50"`
	Email        *string          `json:"email,omitempty" validate:"omitempty,email"`
	Telefono     *string          `json:"telefono,omitempty" validate:"omitempty,max=40"`
	Domicilio    *string          `json:"domicilio,omitempty"`
	Puesto       *string          `json:"puesto,omitempty"`
	Departamento *string          `json:"departamento,omitempty"`
	Sucursal     *string          `json:"sucursal,omitempty"`
	Salario      *decimal.Decimal `json:"salario,omitempty"`
	Activo       *bool            `json:"activo,omitempty"`
	FechaIngreso *string          `json:"fechaIngreso,omitempty" validate:"omitempty,date"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.DNI != nil {
		clean := validator.DigitsOnly(*r.DNI)
		r.DNI = &clean
	}
	if r.Salario != nil && r.Salario.IsNegative() {
		errs.Add("salario", "salario must be non-negative")
	}
	return errs.OrNil()
}

type EmployeeFilter struct {
	Query        string
	Activo       *bool
	Departamento string
	Sucursal     string
}

func (f *EmployeeFilter) Normalize() {
	f.Query = strings.TrimSpace(f.Query)
	f.Departamento = strings.TrimSpace(f.Departamento)
	f.Sucursal = strings.TrimSpace(f.Sucursal)
}

type EmployeeResponse struct {
	ID           string           `json:"id"`
	Nombre       string           `json:"nombre"`
	Apellido     string           `json:"apellido"`
	DNI          *string          `json:"dni"`
	Legajo       *string          `json:"legajo"`
	Email        string           `json:"email"`
	Telefono     string           `json:"telefono"`
	Domicilio    string           `json:"domicilio"`
	Puesto       string           `json:"puesto"`
	Departamento string           `json:"departamento"`
	Sucursal     string           `json:"sucursal"`
	Salario      *decimal.Decimal `json:"salario"`
	Activo       bool             `json:"activo"`
	FechaIngreso *string          `json:"fechaIngreso"`
	CreatedAt    string           `json:"createdAt"`
	UpdatedAt    string           `json:"updatedAt"`
}

func ToResponse(e Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:           e.ID,
		Nombre:       e.Nombre,
		Apellido:     e.Apellido,
		DNI:          e.DNI,
		Legajo:       e.Legajo,
		Email:        e.Email,
		Telefono:     e.Telefono,
		Domicilio:    e.Domicilio,
		Puesto:       e.Puesto,
		Departamento: e.Departamento,
		Sucursal:     e.Sucursal,
		Salario:      e.Salario,
		Activo:       e.Activo,
		FechaIngreso: utils.FormatOptionalDate(e.FechaIngreso),
		CreatedAt:    e.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:    e.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func (e Employee) ToRef() Ref {
	return Ref{ID: e.ID, Nombre: e.Nombre, Apellido: e.Apellido, Legajo: e.Legajo}
}
