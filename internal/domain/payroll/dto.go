package payroll

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
)

type CreateReceiptRequest struct {
	EmployeeID       string           `json:"employeeId" validate:"required,uuid"`
	Period           string           `json:"period" validate:"required,month"`
	PaymentDate      *string          `json:"paymentDate,omitempty" validate:"omitempty,date"`
	Signed           bool             `json:"signed"`
	SignedDate       *string          `json:"signedDate,omitempty" validate:"omitempty,date"`
	HasPresentismo   *bool            `json:"hasPresentismo,omitempty"`
	ExtraHours       *decimal.Decimal `json:"extraHours,omitempty"`
	OtherAdditions   *decimal.Decimal `json:"otherAdditions,omitempty"`
	Discounts        *decimal.Decimal `json:"discounts,omitempty"`
	AdvanceRequested bool             `json:"advanceRequested"`
	AdvanceDate      *string          `json:"advanceDate,omitempty" validate:"omitempty,date"`
	AdvanceAmount    *decimal.Decimal `json:"advanceAmount,omitempty"`
	NetAmount        *decimal.Decimal `json:"netAmount,omitempty"`
	Notes            string           `json:"notes" validate:"max=2000"`
}

func (r *CreateReceiptRequest) Validate() error {
	errs := validator.Struct(r)
	r.Period = strings.TrimSpace(r.Period)
	checkNonNegative(&errs, map[string]*decimal.Decimal{
		"extraHours":     r.ExtraHours,
		"otherAdditions": r.OtherAdditions,
		"discounts":      r.Discounts,
		"advanceAmount":  r.AdvanceAmount,
		"netAmount":      r.NetAmount,
	})
	return errs.OrNil()
}

type UpdateReceiptRequest struct {
	ID               string           `json:"-"`
	Period           *string          `json:"period,omitempty" validate:"omitempty,month"`
	PaymentDate      *string          `json:"paymentDate,omitempty" validate:"omitempty,date"`
	Signed           *bool            `json:"signed,omitempty"`
	SignedDate       *string          `json:"signedDate,omitempty" validate:"omitempty,date"`
	HasPresentismo   *bool            `json:"hasPresentismo,omitempty"`
	ExtraHours       *decimal.Decimal `json:"extraHours,omitempty"`
	OtherAdditions   *decimal.Decimal `json:"otherAdditions,omitempty"`
	Discounts        *decimal.Decimal `json:"discounts,omitempty"`
	AdvanceRequested *bool            `json:"advanceRequested,omitempty"`
	AdvanceDate      *string          `json:"advanceDate,omitempty" validate:"omitempty,date"`
	AdvanceAmount    *decimal.Decimal `json:"advanceAmount,omitempty"`
	NetAmount        *decimal.Decimal `json:"netAmount,omitempty"`
	Notes            *string          `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

func (r *UpdateReceiptRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	checkNonNegative(&errs, map[string]*decimal.Decimal{
		"extraHours":     r.ExtraHours,
		"otherAdditions": r.OtherAdditions,
		"discounts":      r.Discounts,
		"advanceAmount":  r.AdvanceAmount,
		"netAmount":      r.NetAmount,
	})
	return errs.OrNil()
}

func checkNonNegative(errs *validator.ValidationErrors, fields map[string]*decimal.Decimal) {
	for name, v := range fields {
		if v != nil && v.IsNegative() {
			errs.Add(name, name+" must be non-negative")
		}
	}
}

type ReceiptFilter struct {
	EmployeeID string
	Period     string
	Signed     *bool
}

func (f *ReceiptFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.EmployeeID != "" && !validator.IsValidUUID(f.EmployeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}
	f.Period = strings.TrimSpace(f.Period)
	if f.Period != "" && !validator.IsValidMonth(f.Period) {
		errs.Add("period", "period must be a period in YYYY-MM format")
	}
	return errs.OrNil()
}

type ReceiptResponse struct {
	ID               string           `json:"id"`
	EmployeeID       string           `json:"employeeId"`
	Employee         *employee.Ref    `json:"employee,omitempty"`
	Period           string           `json:"period"`
	PaymentDate      *string          `json:"paymentDate"`
	Signed           bool             `json:"signed"`
	SignedDate       *string          `json:"signedDate"`
	HasPresentismo   bool             `json:"hasPresentismo"`
	ExtraHours       decimal.Decimal  `json:"extraHours"`
	OtherAdditions   decimal.Decimal  `json:"otherAdditions"`
	Discounts        decimal.Decimal  `json:"discounts"`
	AdvanceRequested bool             `json:"advanceRequested"`
	AdvanceDate      *string          `json:"advanceDate"`
	AdvanceAmount    decimal.Decimal  `json:"advanceAmount"`
	NetAmount        *decimal.Decimal `json:"netAmount"`
	Notes            string           `json:"notes"`
	CreatedAt        string           `json:"createdAt"`
	UpdatedAt        string           `json:"updatedAt"`
}

func ToResponse(r Receipt) ReceiptResponse {
	return ReceiptResponse{
		ID:               r.ID,
		EmployeeID:       r.EmployeeID,
		Period:           r.Period,
		PaymentDate:      utils.FormatOptionalDate(r.PaymentDate),
		Signed:           r.Signed,
		SignedDate:       utils.FormatOptionalDate(r.SignedDate),
		HasPresentismo:   r.HasPresentismo,
		ExtraHours:       r.ExtraHours,
		OtherAdditions:   r.OtherAdditions,
		Discounts:        r.Discounts,
		AdvanceRequested: r.AdvanceRequested,
		AdvanceDate:      utils.FormatOptionalDate(r.AdvanceDate),
		AdvanceAmount:    r.AdvanceAmount,
		NetAmount:        r.NetAmount,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        r.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
