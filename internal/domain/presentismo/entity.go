package presentismo

import (
	"fmt"
	"strings"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
)

const (
	SourceDB  = "db"
	SourceEnv = "env"
)

type Recipient struct {
	ID        string
	Name      string
	RoleLabel string
	Phone     string
	Active    bool
	CreatedBy *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LostEmployee is an employee with at least one unjustified absence that cost the bonus in the month.
type LostEmployee struct {
	ID       string
	Nombre   string
	Apellido string
	DNI      *string
	Telefono string
}

// BuildMessage renders the monthly report text.
func BuildMessage(month time.Time, employees []LostEmployee) string {
	var b strings.Builder
	b.WriteString("Informe de Presentismo – ")
	b.WriteString(utils.MonthLabelES(month))
	b.WriteString("\nEmpleados que perdieron el presentismo por inasistencias:\n\n")
	if len(employees) == 0 {
		b.WriteString("No se registran pérdidas de presentismo por inasistencia en el período.")
		return b.String()
	}
	for i, e := range employees {
		if i > 0 {
			b.WriteString("\n")
		}
		dni := "-"
		if e.DNI != nil && *e.DNI != "" {
			dni = *e.DNI
		}
		tel := "-"
		if strings.TrimSpace(e.Telefono) != "" {
			tel = e.Telefono
		}
		fmt.Fprintf(&b, "%d. %s %s – DNI %s – Tel %s", i+1, e.Apellido, e.Nombre, dni, tel)
	}
	return b.String()
}

// Destination is one resolved report recipient.
type Destination struct {
	Phone     string
	Name      string
	RoleLabel string
}

// ResolveDestinations prefers active stored recipients and falls back to the configured list.
func ResolveDestinations(active []Recipient, fallback []string) ([]Destination, string) {
	var out []Destination
	for _, r := range active {
		phone := strings.TrimSpace(r.Phone)
		if phone == "" {
			continue
		}
		out = append(out, Destination{Phone: phone, Name: r.Name, RoleLabel: r.RoleLabel})
	}
	if len(out) > 0 {
		return out, SourceDB
	}
	for _, p := range fallback {
		if phone := strings.TrimSpace(p); phone != "" {
			out = append(out, Destination{Phone: phone})
		}
	}
	return out, SourceEnv
}
