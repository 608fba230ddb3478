package outbox

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/outbox"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/whatsapp"
)

// claimLease is how long a claimed row stays invisible to other pollers.
const claimLease = 2 * time.Minute

// Dispatcher delivers pending outbox rows through the WhatsApp sender.
type Dispatcher struct {
	repo   outbox.OutboxRepository
	sender whatsapp.Sender
	cfg    config.OutboxConfig
	now    func() time.Time

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	jobs   chan outbox.Message
}

func NewDispatcher(repo outbox.OutboxRepository, sender whatsapp.Sender, cfg config.OutboxConfig) *Dispatcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 20
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		repo:   repo,
		sender: sender,
		cfg:    cfg,
		now:    time.Now,
		ctx:    ctx,
		cancel: cancel,
		jobs:   make(chan outbox.Message),
	}
}

// Start launches the poller and the worker pool.
func (d *Dispatcher) Start() {
	for i := 0; i < d.cfg.Workers; i++ {
		d.wg.Add(1)
		go d.worker(i)
	}

	d.wg.Add(1)
	go d.poll()

	slog.Info("Outbox dispatcher started", "workers", d.cfg.Workers, "poll_interval", d.cfg.PollInterval, "provider", d.sender.Provider())
}

// Stop waits for in-flight deliveries to finish.
func (d *Dispatcher) Stop() {
	slog.Info("Stopping outbox dispatcher...")
	d.cancel()
	d.wg.Wait()
	slog.Info("Outbox dispatcher stopped")
}

func (d *Dispatcher) poll() {
	defer d.wg.Done()
	defer close(d.jobs)

	ticker := time.NewTicker(d.cfg.PollInterval)
	defer ticker.Stop()

	for {
		messages, err := d.repo.ClaimDue(d.ctx, d.cfg.BatchSize, claimLease)
		if err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("Failed to claim outbox messages", "error", err)
		}
		for _, m := range messages {
			select {
			case d.jobs <- m:
			case <-d.ctx.Done():
				return
			}
		}

		select {
		case <-d.ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (d *Dispatcher) worker(id int) {
	defer d.wg.Done()
	for m := range d.jobs {
		d.Deliver(d.ctx, m)
	}
	slog.Debug("Outbox worker stopped", "worker", id)
}

// ProcessOnce claims one batch and delivers it synchronously.
func (d *Dispatcher) ProcessOnce(ctx context.Context) (int, error) {
	messages, err := d.repo.ClaimDue(ctx, d.cfg.BatchSize, claimLease)
	if err != nil {
		return 0, err
	}
	for _, m := range messages {
		d.Deliver(ctx, m)
	}
	return len(messages), nil
}

// Deliver sends one message and records the outcome: sent, retry with backoff, or failed.
func (d *Dispatcher) Deliver(ctx context.Context, m outbox.Message) {
	// Persist the outcome even when shutdown cancels ctx mid-send.
	writeCtx := context.WithoutCancel(ctx)

	res, err := d.sender.Send(ctx, m.Recipient, m.Body)
	if err == nil {
		if markErr := d.repo.MarkSent(writeCtx, m.ID, res.MessageID); markErr != nil {
			slog.Error("Failed to mark outbox message sent", "id", m.ID, "error", markErr)
			return
		}
		slog.Info("Outbox message sent", "id", m.ID, "reference", m.Reference, "message_id", res.MessageID, "mock", res.Mock)
		return
	}

	if !retryable(err) || m.Attempts+1 >= m.MaxAttempts {
		if markErr := d.repo.MarkFailed(writeCtx, m.ID, err.Error()); markErr != nil {
			slog.Error("Failed to mark outbox message failed", "id", m.ID, "error", markErr)
			return
		}
		slog.Warn("Outbox message failed", "id", m.ID, "reference", m.Reference, "attempts", m.Attempts+1, "error", err)
		return
	}

	next := d.now().Add(outbox.Backoff(d.cfg.BaseBackoff, m.Attempts))
	if markErr := d.repo.MarkRetry(writeCtx, m.ID, err.Error(), next); markErr != nil {
		slog.Error("Failed to schedule outbox retry", "id", m.ID, "error", markErr)
		return
	}
	slog.Warn("Outbox message will be retried", "id", m.ID, "attempts", m.Attempts+1, "next_attempt_at", next, "error", err)
}

// retryable is false for errors no later attempt can fix.
func retryable(err error) bool {
	if errors.Is(err, whatsapp.ErrInvalidPhone) || errors.Is(err, whatsapp.ErrEmptyBody) {
		return false
	}
	var perr *whatsapp.ProviderError
	if errors.As(err, &perr) {
		return perr.Temporary()
	}
	return true
}
