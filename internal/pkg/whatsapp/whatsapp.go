package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
)

var (
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrEmptyBody    = errors.New("message body is empty")
)

// Result describes an accepted message. Mock is set when no real provider was used.
type Result struct {
	MessageID string
	Mock      bool
}

// Sender delivers a text message to a phone number.
type Sender interface {
	Send(ctx context.Context, to string, body string) (Result, error)
	Provider() string
}

// ProviderError carries the provider's HTTP status and message.
type ProviderError struct {
	Provider   string
	StatusCode int
	Code       string
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s API error [%d] %s: %s", e.Provider, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s API error [%d]: %s", e.Provider, e.StatusCode, e.Message)
}

// Temporary reports whether retrying may succeed.
func (e *ProviderError) Temporary() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}

// New selects the provider from cfg. Missing credentials fall back to the mock sender.
func New(cfg config.WhatsAppConfig, defaultCountryCode string) Sender {
	switch cfg.Provider {
	case "twilio":
		if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" || cfg.TwilioFrom == "" {
			slog.Warn("Twilio credentials missing, using mock WhatsApp sender")
			return NewMockSender(defaultCountryCode)
		}
		return NewTwilioSender(cfg, defaultCountryCode)
	case "meta":
		if cfg.MetaAccessToken == "" || cfg.MetaPhoneNumberID == "" {
			slog.Warn("Meta WhatsApp credentials missing, using mock WhatsApp sender")
			return NewMockSender(defaultCountryCode)
		}
		return NewMetaSender(cfg, defaultCountryCode)
	default:
		return NewMockSender(defaultCountryCode)
	}
}

// NormalizePhone strips separators and returns an E.164 number.
// Numbers without a leading "+" get defaultCountryCode prepended.
func NormalizePhone(raw string, defaultCountryCode string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "whatsapp:")

	plus := strings.HasPrefix(s, "+")
	var digits strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.' || (r == '+' && digits.Len() == 0):
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
		}
	}

	number := digits.String()
	if number == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	if !plus {
		number = strings.TrimPrefix(defaultCountryCode, "+") + number
	}
	if len(number) < 8 || len(number) > 15 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return "+" + number, nil
}

// ChatLink returns the wa.me link for phone, optionally pre-filled with text.
func ChatLink(phone string, defaultCountryCode string) (string, error) {
	normalized, err := NormalizePhone(phone, defaultCountryCode)
	if err != nil {
		return "", err
	}
	return "https://wa.me/" + strings.TrimPrefix(normalized, "+"), nil
}

func prepare(to, body, defaultCountryCode string) (string, error) {
	if strings.TrimSpace(body) == "" {
		return "", ErrEmptyBody
	}
	return NormalizePhone(to, defaultCountryCode)
}
