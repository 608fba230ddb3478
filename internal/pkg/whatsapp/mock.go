package whatsapp

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// MockSender logs messages instead of sending them.
type MockSender struct {
	defaultCountryCode string
}

func NewMockSender(defaultCountryCode string) *MockSender {
	return &MockSender{defaultCountryCode: defaultCountryCode}
}

func (m *MockSender) Provider() string { return "mock" }

func (m *MockSender) Send(ctx context.Context, to string, body string) (Result, error) {
	phone, err := prepare(to, body, m.defaultCountryCode)
	if err != nil {
		return Result{}, err
	}
	slog.InfoContext(ctx, "WhatsApp (mock) message", "to", phone, "body_length", len(body))
	return Result{MessageID: "mock-" + uuid.NewString(), Mock: true}, nil
}
