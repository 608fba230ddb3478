package event

import "time"

type Type string

const (
	TypeMedicalCertificateUploaded    Type = "medical_certificate_uploaded"
	TypeMedicalLeaveRegistered        Type = "medical_leave_registered"
	TypeVacationsRegistered           Type = "vacations_registered"
	TypeDisciplinaryReceived          Type = "disciplinary_received"
	TypeLateArrival                   Type = "late_arrival"
	TypeAttendanceCreated             Type = "attendance_created"
	TypeLateArrivalUpdate             Type = "late_arrival_update"
	TypeAttendanceJustificationUpdate Type = "attendance_justification_update"
	TypeMedicalCertificateExpiry      Type = "medical_certificate_expiry_update"
	TypeVacationsDatesUpdate          Type = "vacations_dates_update"
	TypeDisciplinaryReturnUpdate      Type = "disciplinary_return_update"
	TypeDisciplinaryCreated           Type = "disciplinary_created"
	TypeDisciplinarySignatureUpdate   Type = "disciplinary_signature_update"
	TypeDisciplinaryDatesUpdate       Type = "disciplinary_dates_update"
	TypeEmployeeUpdate                Type = "employee_update"
	TypeAutoWhatsAppReminder          Type = "auto_whatsapp_reminder"
	TypeManual                        Type = "manual"
)

// Change is one field-level before/after pair.
type Change struct {
	Field string      `json:"field"`
	From  interface{} `json:"from"`
	To    interface{} `json:"to"`
}

// EmployeeEvent is append-only: once stored it is never updated or deleted.
type EmployeeEvent struct {
	ID         string
	EmployeeID string
	Type       Type
	Message    string
	Changes    []Change
	CreatedAt  time.Time
}

// NewEvent is an event not yet persisted.
type NewEvent struct {
	EmployeeID string
	Type       Type
	Message    string
	Changes    []Change
}
