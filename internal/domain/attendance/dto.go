package attendance

import (
	"mime/multipart"
	"strings"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
)

const MaxDocumentSize = 10 << 20

var DocumentExtensions = []string{".pdf", ".jpg", ".jpeg", ".png"}

type CreateAttendanceRequest struct {
	EmployeeID        string  `json:"employeeId" validate:"required,uuid"`
	Date              string  `json:"date" validate:"required,date"`
	Type              string  `json:"type" validate:"required"`
	Justified         bool    `json:"justified"`
	LostPresentismo   bool    `json:"lostPresentismo"`
	Comments          string  `json:"comments" validate:"max=2000"`
	ScheduledEntry    *string `json:"scheduledEntry,omitempty" validate:"omitempty,clock"`
	ActualEntry       *string `json:"actualEntry,omitempty" validate:"omitempty,clock"`
	CertificateExpiry *string `json:"certificateExpiry,omitempty" validate:"omitempty,date"`
	VacationsStart    *string `json:"vacationsStart,omitempty" validate:"omitempty,date"`
	VacationsEnd      *string `json:"vacationsEnd,omitempty" validate:"omitempty,date"`
	SuspensionDays    *int    `json:"suspensionDays,omitempty" validate:"omitempty,gte=0"`
	ReturnToWorkDate  *string `json:"returnToWorkDate,omitempty" validate:"omitempty,date"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *CreateAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	if r.Type != "" && !validator.IsInSlice(r.Type, Types) {
		errs.Add("type", "type must be one of: "+strings.Join(Types, ", "))
	}
	validateDocument(&errs, r.FileHeader)
	return errs.OrNil()
}

type UpdateAttendanceRequest struct {
	ID                string  `json:"-"`
	Justified         *bool   `json:"justified,omitempty"`
	LostPresentismo   *bool   `json:"lostPresentismo,omitempty"`
	Comments          *string `json:"comments,omitempty" validate:"omitempty,max=2000"`
	ScheduledEntry    *string `json:"scheduledEntry,omitempty" validate:"omitempty,clock"`
	ActualEntry       *string `json:"actualEntry,omitempty" validate:"omitempty,clock"`
	CertificateExpiry *string `json:"certificateExpiry,omitempty" validate:"omitempty,date"`
	VacationsStart    *string `json:"vacationsStart,omitempty" validate:"omitempty,date"`
	VacationsEnd      *string `json:"vacationsEnd,omitempty" validate:"omitempty,date"`
	SuspensionDays    *int    `json:"suspensionDays,omitempty" validate:"omitempty,gte=0"`
	ReturnToWorkDate  *string `json:"returnToWorkDate,omitempty" validate:"omitempty,date"`

	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	errs := validator.Struct(r)
	if validator.IsEmpty(r.ID) {
		errs.Add("id", "id is required")
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

type AttendanceFilter struct {
	EmployeeID string
	Type       string
	Justified  *bool
	SortDir    string
}

func (f *AttendanceFilter) Validate() error {
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

type AttendanceResponse struct {
	ID                    string        `json:"id"`
	EmployeeID            string        `json:"employeeId"`
	Employee              *employee.Ref `json:"employee,omitempty"`
	Date                  string        `json:"date"`
	Type                  string        `json:"type"`
	Justified             bool          `json:"justified"`
	LostPresentismo       bool          `json:"lostPresentismo"`
	Comments              string        `json:"comments"`
	JustificationDocument *string       `json:"justificationDocument"`
	DocumentURL           *string       `json:"documentUrl,omitempty"`
	ScheduledEntry        *string       `json:"scheduledEntry"`
	ActualEntry           *string       `json:"actualEntry"`
	LateMinutes           int           `json:"lateMinutes"`
	CertificateExpiry     *string       `json:"certificateExpiry"`
	VacationsStart        *string       `json:"vacationsStart"`
	VacationsEnd          *string       `json:"vacationsEnd"`
	SuspensionDays        *int          `json:"suspensionDays"`
	ReturnToWorkDate      *string       `json:"returnToWorkDate"`
	CreatedAt             string        `json:"createdAt"`
	UpdatedAt             string        `json:"updatedAt"`
}

// ToResponse maps a record without its employee projection.
func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:                    a.ID,
		EmployeeID:            a.EmployeeID,
		Date:                  utils.FormatDate(a.Date),
		Type:                  string(a.Type),
		Justified:             a.Justified,
		LostPresentismo:       a.LostPresentismo,
		Comments:              a.Comments,
		JustificationDocument: a.JustificationDocument,
		ScheduledEntry:        a.ScheduledEntry,
		ActualEntry:           a.ActualEntry,
		LateMinutes:           a.LateMinutes,
		CertificateExpiry:     utils.FormatOptionalDate(a.CertificateExpiry),
		VacationsStart:        utils.FormatOptionalDate(a.VacationsStart),
		VacationsEnd:          utils.FormatOptionalDate(a.VacationsEnd),
		SuspensionDays:        a.SuspensionDays,
		ReturnToWorkDate:      utils.FormatOptionalDate(a.ReturnToWorkDate),
		CreatedAt:             a.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:             a.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}
