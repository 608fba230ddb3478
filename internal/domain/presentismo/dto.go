package presentismo

import (
	"strings"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
)

type ReportRequest struct {
	Month string `json:"month"`
}

func (r *ReportRequest) Validate() error {
	var errs validator.ValidationErrors
	r.Month = strings.TrimSpace(r.Month)
	if r.Month != "" && !validator.IsValidMonth(r.Month) {
		errs.Add("month", "month must be a period in YYYY-MM format")
	}
	return errs.OrNil()
}

type CreateRecipientRequest struct {
	Name      string  `json:"name" validate:"max=120"`
	RoleLabel string  `json:"roleLabel" validate:"max=120"`
	Phone     string  `json:"phone"`
	Active    *bool   `json:"active,omitempty"`
	CreatedBy *string `json:"-"`
}

func (r *CreateRecipientRequest) Validate() error {
	errs := validator.Struct(r)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Name = strings.TrimSpace(r.Name)
	r.RoleLabel = strings.TrimSpace(r.RoleLabel)
	if r.Phone == "" {
		errs.Add("phone", "phone is required")
	}
	return errs.OrNil()
}

type UpdateRecipientRequest struct {
	ID        string  `json:"-"`
	Name      *string `json:"name,omitempty" validate:"omitempty,max=120"`
	RoleLabel *string `json:"roleLabel,omitempty" validate:"omitempty,max=120"`
	Phone     *string `json:"phone,omitempty"`
	Active    *bool   `json:"active,omitempty"`
}

func (r *UpdateRecipientRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Phone != nil {
		trimmed := strings.TrimSpace(*r.Phone)
		r.Phone = &trimmed
		if trimmed == "" {
			errs.Add("phone", "phone is required")
		}
	}
	return errs.OrNil()
}

type RecipientResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	RoleLabel string  `json:"roleLabel"`
	Phone     string  `json:"phone"`
	Active    bool    `json:"active"`
	CreatedBy *string `json:"createdBy"`
	CreatedAt string  `json:"createdAt"`
	UpdatedAt string  `json:"updatedAt"`
}

func ToRecipientResponse(r Recipient) RecipientResponse {
	return RecipientResponse{
		ID:        r.ID,
		Name:      r.Name,
		RoleLabel: r.RoleLabel,
		Phone:     r.Phone,
		Active:    r.Active,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
		UpdatedAt: r.UpdatedAt.Format(time.RFC3339),
	}
}

type EmployeeName struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}

type DestinationResponse struct {
	Phone     string `json:"phone"`
	Name      string `json:"name,omitempty"`
	RoleLabel string `json:"roleLabel,omitempty"`
	WaLink    string `json:"waLink"`
}

type PreviewResponse struct {
	Month          string                `json:"month"`
	TotalEmployees int                   `json:"totalEmployees"`
	Employees      []EmployeeName        `json:"employees"`
	Message        string                `json:"message"`
	Destinations   []string              `json:"destinations"`
	Recipients     []DestinationResponse `json:"recipients"`
	Source         string                `json:"source"`
}

type SendResult struct {
	To        string `json:"to"`
	MessageID string `json:"messageId,omitempty"`
	Mock      bool   `json:"mock,omitempty"`
	Error     string `json:"error,omitempty"`
	Queued    bool   `json:"queued,omitempty"`
}

type SendResponse struct {
	Month          string       `json:"month"`
	TotalEmployees int          `json:"totalEmployees"`
	Destinations   int          `json:"destinations"`
	Sent           int          `json:"sent"`
	Errors         int          `json:"errors"`
	Results        []SendResult `json:"results"`
	Source         string       `json:"source"`
}
