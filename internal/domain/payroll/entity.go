package payroll

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
)

// Receipt is one payroll receipt per employee and period (YYYY-MM).
type Receipt struct {
	ID               string
	EmployeeID       string
	Period           string
	PaymentDate      *time.Time
	Signed           bool
	SignedDate       *time.Time
	HasPresentismo   bool
	ExtraHours       decimal.Decimal
	OtherAdditions   decimal.Decimal
	Discounts        decimal.Decimal
	AdvanceRequested bool
	AdvanceDate      *time.Time
	AdvanceAmount    decimal.Decimal
	NetAmount        *decimal.Decimal
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type ReceiptWithEmployee struct {
	Receipt
	Employee employee.Ref
}
