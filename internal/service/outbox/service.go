package outbox

import (
	"context"
	"fmt"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/outbox"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

type OutboxServiceImpl struct {
	outbox.OutboxRepository
	maxAttempts int
}

func NewOutboxService(outboxRepo outbox.OutboxRepository, maxAttempts int) outbox.OutboxService {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &OutboxServiceImpl{
		OutboxRepository: outboxRepo,
		maxAttempts:      maxAttempts,
	}
}

// Enqueue implements outbox.OutboxService. It joins the caller's transaction when there is one.
func (s *OutboxServiceImpl) Enqueue(ctx context.Context, msg outbox.NewMessage) (outbox.Message, error) {
	m, err := s.OutboxRepository.Enqueue(ctx, msg, s.maxAttempts)
	if err != nil {
		return outbox.Message{}, fmt.Errorf("failed to enqueue message for %s: %w", msg.Recipient, err)
	}
	return m, nil
}

// ListMessages implements outbox.OutboxService.
func (s *OutboxServiceImpl) ListMessages(ctx context.Context, filter outbox.MessageFilter, params pagination.Params) (pagination.Page[outbox.MessageResponse], error) {
	if err := filter.Validate(); err != nil {
		return pagination.Page[outbox.MessageResponse]{}, err
	}
	messages, total, err := s.OutboxRepository.List(ctx, filter, params)
	if err != nil {
		return pagination.Page[outbox.MessageResponse]{}, err
	}
	return pagination.Map(pagination.NewPage(messages, total, params), outbox.ToResponse), nil
}

// RetryMessage implements outbox.OutboxService.
func (s *OutboxServiceImpl) RetryMessage(ctx context.Context, id string) (outbox.MessageResponse, error) {
	m, err := s.OutboxRepository.Reset(ctx, id)
	if err != nil {
		return outbox.MessageResponse{}, err
	}
	return outbox.ToResponse(m), nil
}
