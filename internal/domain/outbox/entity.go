package outbox

import "time"

type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
)

var Statuses = []string{string(StatusPending), string(StatusSent), string(StatusFailed)}

const ChannelWhatsApp = "whatsapp"

// MaxBackoff caps the delay between two delivery attempts.
const MaxBackoff = time.Hour

type Message struct {
	ID                string
	Channel           string
	Recipient         string
	Body              string
	Status            Status
	Attempts          int
	MaxAttempts       int
	LastError         *string
	NextAttemptAt     time.Time
	ProviderMessageID *string
	Reference         string
	CreatedAt         time.Time
	SentAt            *time.Time
}

// NewMessage is a message to enqueue. Reference is a free-form tag such as "attendance:<id>".
type NewMessage struct {
	Recipient string
	Body      string
	Reference string
}

// Backoff returns base * 2^attempts, capped at MaxBackoff. attempts counts the failures so far.
func Backoff(base time.Duration, attempts int) time.Duration {
	if attempts < 0 {
		attempts = 0
	}
	d := base
	for i := 0; i < attempts; i++ {
		d *= 2
		if d >= MaxBackoff {
			return MaxBackoff
		}
	}
	if d > MaxBackoff {
		return MaxBackoff
	}
	return d
}
