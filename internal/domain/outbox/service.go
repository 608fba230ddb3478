package outbox

import (
	"context"

	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type OutboxService interface {
	Enqueue(ctx context.Context, msg NewMessage) (Message, error)
	ListMessages(ctx context.Context, filter MessageFilter, params pagination.Params) (pagination.Page[MessageResponse], error)
	RetryMessage(ctx context.Context, id string) (MessageResponse, error)
}
