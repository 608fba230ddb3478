package employee

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID           string
	Nombre       string
	Apellido     string
	DNI          *string
	Legajo       *string
	Email        string
	Telefono     string
	Domicilio    string
	Puesto       string
	Departamento string
	Sucursal     string
	Salario      *decimal.Decimal
	Activo       bool
	FechaIngreso *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName renders "Nombre Apellido" as used in event and notification texts.
func (e Employee) FullName() string {
	return strings.TrimSpace(e.Nombre + " " + e.Apellido)
}

func (e Employee) HasPhone() bool {
	return strings.TrimSpace(e.Telefono) != ""
}

// Ref is the employee projection embedded in attendance, disciplinary and payroll listings.
type Ref struct {
	ID       string  `json:"id"`
	Nombre   string  `json:"nombre"`
	Apellido string  `json:"apellido"`
	Legajo   *string `json:"legajo"`
}
