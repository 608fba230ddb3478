package admin

import (
	"strings"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
)

const (
	DefaultTestBody      = "Prueba de WhatsApp desde SJ-Empleados"
	DefaultBroadcastBody = "Mensaje de prueba de SJ-Empleados"
)

type WhatsAppTestRequest struct {
	To   string `json:"to"`
	Body string `json:"body"`
}

func (r *WhatsAppTestRequest) Validate() error {
	var errs validator.ValidationErrors
	r.To = strings.TrimSpace(r.To)
	if r.To == "" {
		errs.Add("to", "to is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		r.Body = DefaultTestBody
	}
	return errs.OrNil()
}

type WhatsAppTestResponse struct {
	To        string `json:"to"`
	MessageID string `json:"messageId,omitempty"`
	Mock      bool   `json:"mock"`
}

type BroadcastRequest struct {
	Body string `json:"body"`
}

func (r *BroadcastRequest) Normalize() {
	if strings.TrimSpace(r.Body) == "" {
		r.Body = DefaultBroadcastBody
	}
}

type BroadcastResult struct {
	Empleado  string `json:"empleado"`
	Telefono  string `json:"telefono"`
	MessageID string `json:"messageId,omitempty"`
	Mock      bool   `json:"mock,omitempty"`
	Error     string `json:"error,omitempty"`
}

type BroadcastResponse struct {
	Total   int               `json:"total"`
	Sent    int               `json:"sent"`
	Errors  int               `json:"errors"`
	Results []BroadcastResult `json:"results"`
}

type MigrationCount struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

type RawFormatsResponse struct {
	Attendance   MigrationCount `json:"attendance"`
	Disciplinary MigrationCount `json:"disciplinary"`
}
