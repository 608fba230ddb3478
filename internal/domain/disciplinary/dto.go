package disciplinary

import (
	"mime/multipart"
	"strings"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
)

const MaxDocumentSize = 10 << 20

var DocumentExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

type CreateDisciplinaryRequest struct {
	EmployeeID       string  `json:"employeeId" validate:"required,uuid"`
	Date             string  `json:"date" validate:"required,date"`
	Time             *string `json:"time,omitempty" validate:"omitempty,clock"`
	Type             string  `json:"type" validate:"required"`
	Description      string  `json:"description" validate:"max=4000"`
	Signed           bool    `json:"signed"`
	SignedDate       *string `json:"signedDate,omitempty" validate:"omitempty,date"`
	DurationDays     *int    `json:"durationDays,omitempty" validate:"omitempty,gte=0"`
	ReturnToWorkDate *string `json:"returnToWorkDate,omitempty" validate:"omitempty,date"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CreateDisciplinaryRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Type != "" && !validator.IsInSlice(r.Type, Types) {
		errs.Add("type", "type must be one of: "+strings.Join(Types, ", "))
	}
	validateDocument(&errs, r.FileHeader)
	return errs.OrNil()
}

type UpdateDisciplinaryRequest struct {
	ID               string  `json:"-"`
	Date             *string `json:"date,omitempty" validate:"omitempty,date"`
	Time             *string `json:"time,omitempty" validate:"omitempty,clock"`
	Type             *string `json:"type,omitempty"`
	Description      *string `json:"description,omitempty" validate:"omitempty,max=4000"`
	Signed           *bool   `json:"signed,omitempty"`
	SignedDate       *string `json:"signedDate,omitempty" validate:"omitempty,date"`
	DurationDays     *int    `json:"durationDays,omitempty" validate:"omitempty,gte=0"`
	ReturnToWorkDate *string `json:"returnToWorkDate,omitempty" validate:"omitempty,date"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *UpdateDisciplinaryRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
	}
	if r.Type != nil && !validator.IsInSlice(*r.Type, Types) {
		errs.Add("type", "type must be one of: "+strings.Join(Types, ", "))
	}
	validateDocument(&errs, r.FileHeader)
	return errs.OrNil()
}

func validateDocument(errs *validator.ValidationErrors, header *multipart.FileHeader) {
	if header == nil {
		return
	}
	if !validator.HasExtension(header.Filename, DocumentExtensions) {
		errs.Add("document", "document must be a PDF, JPG or PNG file")
	}
	if header.Size > MaxDocumentSize {
		errs.Add("document", "document must not exceed 10MB")
	}
}

type DisciplinaryFilter struct {
	EmployeeID string
	Type       string
	Signed     *bool
	SortDir    string
}

func (f *DisciplinaryFilter) Validate() error {
	var errs validator.ValidationErrors
	if f.EmployeeID != "" && !validator.IsValidUUID(f.EmployeeID) {
		errs.Add("employeeId", "employeeId must be a valid UUID")
	}
	if f.Type != "" && !validator.IsInSlice(f.Type, Types) {
		errs.Add("type", "type must be one of: "+strings.Join(Types, ", "))
	}
	f.SortDir = strings.ToLower(f.SortDir)
	if f.SortDir != "asc" {
		f.SortDir = "desc"
	}
	return errs.OrNil()
}

type DisciplinaryResponse struct {
	ID               string        `json:"id"`
	EmployeeID       string        `json:"employeeId"`
	Employee         *employee.Ref `json:"employee,omitempty"`
	Date             string        `json:"date"`
	Time             *string       `json:"time"`
	Type             string        `json:"type"`
	Description      string        `json:"description"`
	Document         *string       `json:"document"`
	DocumentURL      *string       `json:"documentUrl,omitempty"`
	Signed           bool          `json:"signed"`
	SignedDate       *string       `json:"signedDate"`
	DurationDays     *int          `json:"durationDays"`
	ReturnToWorkDate *string       `json:"returnToWorkDate"`
	CreatedAt        string        `json:"createdAt"`
	UpdatedAt        string        `json:"updatedAt"`
}

func ToResponse(d Disciplinary) DisciplinaryResponse {
	return DisciplinaryResponse{
		ID:               d.ID,
		EmployeeID:       d.EmployeeID,
		Date:             utils.FormatDate(d.Date),
		Time:             d.Time,
		Type:             string(d.Type),
		Description:      d.Description,
		Document:         d.Document,
		Signed:           d.Signed,
		SignedDate:       utils.FormatOptionalDate(d.SignedDate),
		DurationDays:     d.DurationDays,
		ReturnToWorkDate: utils.FormatOptionalDate(d.ReturnToWorkDate),
		CreatedAt:        d.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:        d.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
