package outbox

import (
	"context"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type OutboxRepository interface {
	// Enqueue inserts a pending row; it joins the caller's transaction when there is one.
	Enqueue(ctx context.Context, msg NewMessage, maxAttempts int) (Message, error)

	// ClaimDue leases up to limit due pending rows (SKIP LOCKED) by pushing next_attempt_at forward.
	ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]Message, error)

	MarkSent(ctx context.Context, id string, providerMessageID string) error
	MarkRetry(ctx context.Context, id string, lastError string, nextAttemptAt time.Time) error
	MarkFailed(ctx context.Context, id string, lastError string) error

	GetByID(ctx context.Context, id string) (Message, error)
	List(ctx context.Context, filter MessageFilter, params pagination.Params) ([]Message, int64, error)

	// Reset puts a failed message back in the queue with a fresh attempt budget.
	Reset(ctx context.Context, id string) (Message, error)
}
