package reminder

import (
	"fmt"
	"strings"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
)

type Kind string

const (
	KindCertificateExpiry  Kind = "certificate_expiry"
	KindVacationStart      Kind = "vacation_start"
	KindReturnToWork       Kind = "return_to_work"
	KindDisciplinaryReturn Kind = "disciplinary_return"
)

type RecordType string

const (
	RecordAttendance   RecordType = "attendance"
	RecordDisciplinary RecordType = "disciplinary"
)

// Dispatch is one row of the ledger; (RecordID, Kind, DueDate) is unique.
type Dispatch struct {
	ID         string
	RecordType RecordType
	RecordID   string
	Kind       Kind
	DueDate    time.Time
	EmployeeID string
	OutboxID   *string
	CreatedAt  time.Time
}

// Candidate is a record whose reminder falls due on DueDate.
type Candidate struct {
	RecordType RecordType
	RecordID   string
	Kind       Kind
	DueDate    time.Time
	Employee   employee.Employee
}

// Message renders the WhatsApp text for the candidate's kind.
func (c Candidate) Message() string {
	d := utils.FormatDateAR(c.DueDate)
	switch c.Kind {
	case KindCertificateExpiry:
		return fmt.Sprintf("Recordatorio: tu certificado médico vence %s. Enviar actualización si corresponde.", d)
	case KindVacationStart:
		return fmt.Sprintf("¡Felices vacaciones! Inicio: %s. Disfruta y recuerda tu regreso.", d)
	case KindReturnToWork:
		return fmt.Sprintf("Recordatorio: Presentarse a trabajar hoy (%s).", d)
	case KindDisciplinaryReturn:
		return fmt.Sprintf("Recordatorio: Reincorporación hoy por sanción (%s).", d)
	default:
		return fmt.Sprintf("Recordatorio (%s).", d)
	}
}

// sentFlags are the audit field names recorded in event history for each kind.
var sentFlags = map[Kind]string{
	KindCertificateExpiry:  "certificateReminderSent",
	KindVacationStart:      "vacationStartReminderSent",
	KindReturnToWork:       "returnToWorkReminderSent",
	KindDisciplinaryReturn: "returnToWorkReminderSent",
}

// ChangeField names the event change, e.g. "attendance.certificateReminderSent".
func (c Candidate) ChangeField() string {
	flag, ok := sentFlags[c.Kind]
	if !ok {
		flag = string(c.Kind)
	}
	return string(c.RecordType) + "." + flag
}

// Reference tags the outbox row with its source record.
func (c Candidate) Reference() string {
	return string(c.RecordType) + ":" + c.RecordID
}

// Filters restricts which employees receive reminders.
type Filters struct {
	OnlyActive    bool
	Departamentos []string
	Sucursales    []string
}

// Matches reports whether emp passes the filters. Empty allow-lists accept everything.
func (f Filters) Matches(emp employee.Employee) bool {
	if f.OnlyActive && !emp.Activo {
		return false
	}
	if len(f.Departamentos) > 0 && !containsTrimmed(f.Departamentos, emp.Departamento) {
		return false
	}
	if len(f.Sucursales) > 0 && !containsTrimmed(f.Sucursales, emp.Sucursal) {
		return false
	}
	return true
}

func containsTrimmed(list []string, value string) bool {
	value = strings.TrimSpace(value)
	for _, item := range list {
		if strings.TrimSpace(item) == value {
			return true
		}
	}
	return false
}

// RunResult summarises one reminder scan.
type RunResult struct {
	Date       string `json:"date"`
	Candidates int    `json:"candidates"`
	Skipped    int    `json:"skipped"`
	Duplicates int    `json:"duplicates"`
	Enqueued   int    `json:"enqueued"`
	Failed     int    `json:"failed"`
}
