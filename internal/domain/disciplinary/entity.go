package disciplinary

import (
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
)

type Type string

const (
	TypeVerbal Type = "verbal"
	TypeFormal Type = "formal"
	TypeGrave  Type = "grave"
)

var Types = []string{string(TypeVerbal), string(TypeFormal), string(TypeGrave)}

type Disciplinary struct {
	ID               string
	EmployeeID       string
	Date             time.Time
	Time             *string
	Type             Type
	Description      string
	Document         *string
	Signed           bool
	SignedDate       *time.Time
	DurationDays     *int
	ReturnToWorkDate *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type DisciplinaryWithEmployee struct {
	Disciplinary
	Employee employee.Ref
}

// DeriveReturnToWork fills ReturnToWorkDate = Date + DurationDays when no date was given.
func (d *Disciplinary) DeriveReturnToWork() {
	if d.ReturnToWorkDate != nil || d.DurationDays == nil || *d.DurationDays <= 0 {
		return
	}
	ret := utils.AddDays(d.Date, *d.DurationDays)
	d.ReturnToWorkDate = &ret
}

// ReturnIsDerived reports whether the stored return date equals Date + DurationDays.
func (d Disciplinary) ReturnIsDerived() bool {
	if d.ReturnToWorkDate == nil || d.DurationDays == nil || *d.DurationDays <= 0 {
		return false
	}
	return d.ReturnToWorkDate.Format("2006-01-02") == utils.AddDays(d.Date, *d.DurationDays).Format("2006-01-02")
}

func (d Disciplinary) HasDocument() bool {
	return d.Document != nil && *d.Document != ""
}
