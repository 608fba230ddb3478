package outbox

import (
	"strings"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/validator"
)

type MessageFilter struct {
	Status    string
	Reference string
}

func (f *MessageFilter) Validate() error {
	var errs validator.ValidationErrors
	f.Status = strings.ToLower(strings.TrimSpace(f.Status))
	if f.Status != "" && !validator.IsInSlice(f.Status, Statuses) {
		errs.Add("status", "status must be one of: "+strings.Join(Statuses, ", "))
	}
	return errs.OrNil()
}

type MessageResponse struct {
	ID                string  `json:"id"`
	Channel           string  `json:"channel"`
	Recipient         string  `json:"recipient"`
	Body              string  `json:"body"`
	Status            string  `json:"status"`
	Attempts          int     `json:"attempts"`
	MaxAttempts       int     `json:"maxAttempts"`
	LastError         *string `json:"lastError"`
	NextAttemptAt     string  `json:"nextAttemptAt"`
	ProviderMessageID *string `json:"providerMessageId"`
	Reference         string  `json:"reference"`
	CreatedAt         string  `json:"createdAt"`
	SentAt            *string `json:"sentAt"`
}

func ToResponse(m Message) MessageResponse {
	var sentAt *string
	if m.SentAt != nil {
		s := m.SentAt.Format(time.RFC3339)
		sentAt = &s
	}
	return MessageResponse{
		ID:                m.ID,
		Channel:           m.Channel,
		Recipient:         m.Recipient,
		Body:              m.Body,
		Status:            string(m.Status),
		Attempts:          m.Attempts,
		MaxAttempts:       m.MaxAttempts,
		LastError:         m.LastError,
		NextAttemptAt:     m.NextAttemptAt.Format(time.RFC3339),
		ProviderMessageID: m.ProviderMessageID,
		Reference:         m.Reference,
		CreatedAt:         m.CreatedAt.Format(time.RFC3339),
		SentAt:            sentAt,
	}
}
