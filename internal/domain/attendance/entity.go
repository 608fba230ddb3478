package attendance

import (
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
)

type Type string

const (
	TypeInasistencia    Type = "inasistencia"
	TypeTardanza        Type = "tardanza"
	TypeLicenciaMedica  Type = "licencia medica"
	TypeVacaciones      Type = "vacaciones"
	TypeSancionRecibida Type = "sancion recibida"
)

var Types = []string{
	string(TypeInasistencia),
	string(TypeTardanza),
	string(TypeLicenciaMedica),
	string(TypeVacaciones),
	string(TypeSancionRecibida),
}

type Attendance struct {
	ID                    string
	EmployeeID            string
	Date                  time.Time
	Type                  Type
	Justified             bool
	LostPresentismo       bool
	Comments              string
	JustificationDocument *string
	ScheduledEntry        *string
	ActualEntry           *string
	LateMinutes           int
	CertificateExpiry     *time.Time
	VacationsStart        *time.Time
	VacationsEnd          *time.Time
	SuspensionDays        *int
	ReturnToWorkDate      *time.Time
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type AttendanceWithEmployee struct {
	Attendance
	Employee employee.Ref
}

// DeriveLateMinutes sets LateMinutes to max(0, actual-scheduled) for lateness records with both times, 0 otherwise.
func (a *Attendance) DeriveLateMinutes() {
	a.LateMinutes = 0
	if a.Type != TypeTardanza || a.ScheduledEntry == nil || a.ActualEntry == nil {
		return
	}
	a.LateMinutes = utils.LateMinutes(*a.ScheduledEntry, *a.ActualEntry)
}

// DeriveReturnToWork fills ReturnToWorkDate = Date + SuspensionDays for suspensions without an explicit date.
func (a *Attendance) DeriveReturnToWork() {
	if a.Type != TypeSancionRecibida || a.ReturnToWorkDate != nil {
		return
	}
	if a.SuspensionDays == nil || *a.SuspensionDays <= 0 {
		return
	}
	ret := utils.AddDays(a.Date, *a.SuspensionDays)
	a.ReturnToWorkDate = &ret
}

// DefaultVacationStart uses the incident date when a vacation has no explicit start.
func (a *Attendance) DefaultVacationStart() {
	if a.Type == TypeVacaciones && a.VacationsStart == nil {
		start := a.Date
		a.VacationsStart = &start
	}
}

func (a Attendance) HasDocument() bool {
	return a.JustificationDocument != nil && *a.JustificationDocument != ""
}

type Stats struct {
	AbsencesThisMonth                int64 `json:"absencesThisMonth"`
	LateArrivalsThisMonth            int64 `json:"lateArrivalsThisMonth"`
	EmployeesWithoutPresentismoCount int64 `json:"employeesWithoutPresentismoCount"`
}
