package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/account"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/admin"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/attendance"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/auth"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/disciplinary"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/event"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/outbox"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/payroll"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/presentismo"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/reminder"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/user"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/whatsapp"
	"github.com/sj-empleados/empleados-backend-go/internal/service/file"
)

// HandleError maps domain errors to HTTP responses. Unmapped errors are logged and hidden.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAdminRequired):
		Forbidden(w, "Admin privileges required")
	case errors.Is(err, auth.ErrPromotionDisabled):
		Forbidden(w, err.Error())
	case errors.Is(err, auth.ErrInvalidPromoteToken):
		Forbidden(w, err.Error())
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")

	// Employees
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrDNIExists):
		Conflict(w, "dni already registered")
	case errors.Is(err, employee.ErrLegajoExists):
		Conflict(w, "legajo already registered")
	case errors.Is(err, employee.ErrNoPhone):
		BadRequest(w, "Employee has no phone number", nil)

	// Records
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, disciplinary.ErrDisciplinaryNotFound):
		NotFound(w, "Disciplinary measure not found")
	case errors.Is(err, disciplinary.ErrInvalidType):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, event.ErrEventNotFound):
		NotFound(w, "Event not found")
	case errors.Is(err, payroll.ErrReceiptNotFound):
		NotFound(w, "Payroll receipt not found")
	case errors.Is(err, payroll.ErrReceiptAlreadyExists):
		Conflict(w, "Payroll receipt already exists for this period")
	case errors.Is(err, account.ErrAccountNotFound):
		NotFound(w, "Employee account not found")
	case errors.Is(err, account.ErrNothingToDeduct):
		BadRequest(w, err.Error(), nil)

	// Uploads
	case errors.Is(err, file.ErrInvalidFileType), errors.Is(err, file.ErrContentMismatch):
		BadRequest(w, err.Error(), map[string]string{"document": err.Error()})

	// Messaging
	case errors.Is(err, presentismo.ErrRecipientNotFound):
		NotFound(w, "Recipient not found")
	case errors.Is(err, presentismo.ErrNoRecipients):
		BadRequest(w, "No report recipients configured", nil)
	case errors.Is(err, outbox.ErrMessageNotFound):
		NotFound(w, "Outbox message not found")
	case errors.Is(err, outbox.ErrAlreadySent):
		Conflict(w, "Outbox message already sent")
	case errors.Is(err, whatsapp.ErrInvalidPhone), errors.Is(err, whatsapp.ErrEmptyBody):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, admin.ErrProviderFailed):
		BadRequest(w, err.Error(), nil)

	// Maintenance
	case errors.Is(err, reminder.ErrRunInProgress), errors.Is(err, admin.ErrMigrationInProgress):
		Conflict(w, err.Error())
	case errors.Is(err, admin.ErrLegacyNotConfigured):
		BadRequest(w, err.Error(), nil)

	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
