package http

import (
	"log/slog"
	"net/http"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/admin"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/legacy"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/outbox"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/reminder"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/response"
)

type AdminHandler interface {
	// WhatsApp
	TestWhatsApp(w http.ResponseWriter, r *http.Request)
	Broadcast(w http.ResponseWriter, r *http.Request)

	// Maintenance
	MigrateRawFormats(w http.ResponseWriter, r *http.Request)
	MigrateLegacy(w http.ResponseWriter, r *http.Request)

	// Reminders
	RunReminders(w http.ResponseWriter, r *http.Request)
	ListDispatches(w http.ResponseWriter, r *http.Request)

	// Outbox
	ListOutbox(w http.ResponseWriter, r *http.Request)
	RetryOutbox(w http.ResponseWriter, r *http.Request)
}

type adminHandlerImpl struct {
	adminService    admin.AdminService
	reminderService reminder.ReminderService
	outboxService   outbox.OutboxService
	legacyImporter  legacy.Importer
}

func NewAdminHandler(
	adminService admin.AdminService,
	reminderService reminder.ReminderService,
	outboxService outbox.OutboxService,
	legacyImporter legacy.Importer,
) AdminHandler {
	return &adminHandlerImpl{
		adminService:    adminService,
		reminderService: reminderService,
		outboxService:   outboxService,
		legacyImporter:  legacyImporter,
	}
}

// TestWhatsApp implements AdminHandler.
func (h *adminHandlerImpl) TestWhatsApp(w http.ResponseWriter, r *http.Request) {
	var req admin.WhatsAppTestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.adminService.TestWhatsApp(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Broadcast implements AdminHandler.
func (h *adminHandlerImpl) Broadcast(w http.ResponseWriter, r *http.Request) {
	var req admin.BroadcastRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}

	result, err := h.adminService.Broadcast(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MigrateRawFormats implements AdminHandler.
func (h *adminHandlerImpl) MigrateRawFormats(w http.ResponseWriter, r *http.Request) {
	result, err := h.adminService.MigrateRawFormats(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MigrateLegacy implements AdminHandler.
func (h *adminHandlerImpl) MigrateLegacy(w http.ResponseWriter, r *http.Request) {
	report, err := h.legacyImporter.Import(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Legacy import finished", "collections", len(report))
	response.Success(w, report)
}

// RunReminders implements AdminHandler.
func (h *adminHandlerImpl) RunReminders(w http.ResponseWriter, r *http.Request) {
	result, err := h.reminderService.RunDaily(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ListDispatches implements AdminHandler.
func (h *adminHandlerImpl) ListDispatches(w http.ResponseWriter, r *http.Request) {
	page, err := h.reminderService.ListDispatches(r.Context(), parsePagination(r, defaultPageLimit, maxPageLimit))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, page)
}

// ListOutbox implements AdminHandler.
func (h *adminHandlerImpl) ListOutbox(w http.ResponseWriter, r *http.Request) {
	filter := outbox.MessageFilter{
		Status:    r.URL.Query().Get("status"),
		Reference: r.URL.Query().Get("reference"),
	}

	page, err := h.outboxService.ListMessages(r.Context(), filter, parsePagination(r, defaultPageLimit, maxPageLimit))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, page)
}

// RetryOutbox implements AdminHandler.
func (h *adminHandlerImpl) RetryOutbox(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", outbox.ErrMessageNotFound)
	if !ok {
		return
	}
	result, err := h.outboxService.RetryMessage(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Message queued for retry", result)
}
