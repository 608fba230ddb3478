package http

import (
	"net/http"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/presentismo"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/middleware"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/response"
)

type PresentismoHandler interface {
	Preview(w http.ResponseWriter, r *http.Request)
	Send(w http.ResponseWriter, r *http.Request)
	PDF(w http.ResponseWriter, r *http.Request)

	// Recipients
	ListRecipients(w http.ResponseWriter, r *http.Request)
	CreateRecipient(w http.ResponseWriter, r *http.Request)
	UpdateRecipient(w http.ResponseWriter, r *http.Request)
	DeleteRecipient(w http.ResponseWriter, r *http.Request)
	RecipientQR(w http.ResponseWriter, r *http.Request)
}

type presentismoHandlerImpl struct {
	presentismoService presentismo.PresentismoService
}

func NewPresentismoHandler(presentismoService presentismo.PresentismoService) PresentismoHandler {
	return &presentismoHandlerImpl{
		presentismoService: presentismoService,
	}
}

// Preview implements PresentismoHandler.
func (h *presentismoHandlerImpl) Preview(w http.ResponseWriter, r *http.Request) {
	var req presentismo.ReportRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.presentismoService.PreviewReport(r.Context(), req.Month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Send implements PresentismoHandler.
func (h *presentismoHandlerImpl) Send(w http.ResponseWriter, r *http.Request) {
	var req presentismo.ReportRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.presentismoService.SendReport(r.Context(), req.Month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Presentismo report sent", result)
}

// PDF implements PresentismoHandler.
func (h *presentismoHandlerImpl) PDF(w http.ResponseWriter, r *http.Request) {
	req := presentismo.ReportRequest{Month: r.URL.Query().Get("month")}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	data, filename, err := h.presentismoService.RenderPDF(r.Context(), req.Month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, "application/pdf", filename, data)
}

// ListRecipients implements PresentismoHandler.
func (h *presentismoHandlerImpl) ListRecipients(w http.ResponseWriter, r *http.Request) {
	recipients, err := h.presentismoService.ListRecipients(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, recipients)
}

// CreateRecipient implements PresentismoHandler.
func (h *presentismoHandlerImpl) CreateRecipient(w http.ResponseWriter, r *http.Request) {
	var req presentismo.CreateRecipientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if userID := middleware.UserID(r.Context()); userID != "" {
		req.CreatedBy = &userID
	}

	result, err := h.presentismoService.CreateRecipient(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Recipient created", result)
}

// UpdateRecipient implements PresentismoHandler.
func (h *presentismoHandlerImpl) UpdateRecipient(w http.ResponseWriter, r *http.Request) {
	var req presentismo.UpdateRecipientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, ok := pathID(w, r, "id", presentismo.ErrRecipientNotFound)
	if !ok {
		return
	}
	req.ID = id

	result, err := h.presentismoService.UpdateRecipient(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Recipient updated", result)
}

// DeleteRecipient implements PresentismoHandler.
func (h *presentismoHandlerImpl) DeleteRecipient(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", presentismo.ErrRecipientNotFound)
	if !ok {
		return
	}
	if err := h.presentismoService.DeleteRecipient(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Recipient deleted", nil)
}

// RecipientQR implements PresentismoHandler.
func (h *presentismoHandlerImpl) RecipientQR(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", presentismo.ErrRecipientNotFound)
	if !ok {
		return
	}
	png, err := h.presentismoService.RecipientQR(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeFile(w, "image/png", "", png)
}
