package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/outbox"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/database"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
)

const outboxColumns = `id, channel, recipient, body, status, attempts, max_attempts, last_error,
	next_attempt_at, provider_message_id, reference, created_at, sent_at`

type outboxRepositoryImpl struct {
	db *database.DB
}

func NewOutboxRepository(db *database.DB) outbox.OutboxRepository {
	return &outboxRepositoryImpl{db: db}
}

func scanMessage(row pgx.Row) (outbox.Message, error) {
	var m outbox.Message
	err := row.Scan(
		&m.ID, &m.Channel, &m.Recipient, &m.Body, &m.Status, &m.Attempts, &m.MaxAttempts, &m.LastError,
		&m.NextAttemptAt, &m.ProviderMessageID, &m.Reference, &m.CreatedAt, &m.SentAt,
	)
	return m, err
}

// Enqueue implements outbox.OutboxRepository.
func (r *outboxRepositoryImpl) Enqueue(ctx context.Context, msg outbox.NewMessage, maxAttempts int) (outbox.Message, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notification_outbox (channel, recipient, body, max_attempts, reference)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + outboxColumns

	m, err := scanMessage(q.QueryRow(ctx, query, outbox.ChannelWhatsApp, msg.Recipient, msg.Body, maxAttempts, msg.Reference))
	if err != nil {
		return outbox.Message{}, fmt.Errorf("failed to enqueue message: %w", err)
	}
	return m, nil
}

// ClaimDue implements outbox.OutboxRepository.
func (r *outboxRepositoryImpl) ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]outbox.Message, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notification_outbox
		SET next_attempt_at = NOW() + $2::interval
		WHERE id IN (
			SELECT id FROM notification_outbox
			WHERE status = 'pending' AND next_attempt_at <= NOW()
			ORDER BY next_attempt_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ` + outboxColumns

	rows, err := q.Query(ctx, query, limit, lease)
	if err != nil {
		return nil, fmt.Errorf("failed to claim outbox messages: %w", err)
	}
	defer rows.Close()

	var messages []outbox.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkSent implements outbox.OutboxRepository.
func (r *outboxRepositoryImpl) MarkSent(ctx context.Context, id string, providerMessageID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notification_outbox
		SET status = 'sent', attempts = attempts + 1, provider_message_id = $2, last_error = NULL, sent_at = NOW()
		WHERE id = $1`

	return r.execOne(ctx, q, query, id, providerMessageID)
}

// MarkRetry implements outbox.OutboxRepository.
func (r *outboxRepositoryImpl) MarkRetry(ctx context.Context, id string, lastError string, nextAttemptAt time.Time) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notification_outbox
		SET attempts = attempts + 1, last_error = $2, next_attempt_at = $3
		WHERE id = $1`

	return r.execOne(ctx, q, query, id, lastError, nextAttemptAt)
}

// MarkFailed implements outbox.OutboxRepository.
func (r *outboxRepositoryImpl) MarkFailed(ctx context.Context, id string, lastError string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notification_outbox
		SET status = 'failed', attempts = attempts + 1, last_error = $2
		WHERE id = $1`

	return r.execOne(ctx, q, query, id, lastError)
}

func (r *outboxRepositoryImpl) execOne(ctx context.Context, q database.Querier, query string, args ...interface{}) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update outbox message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return outbox.ErrMessageNotFound
	}
	return nil
}

// GetByID implements outbox.OutboxRepository.
func (r *outboxRepositoryImpl) GetByID(ctx context.Context, id string) (outbox.Message, error) {
	q := GetQuerier(ctx, r.db)

	m, err := scanMessage(q.QueryRow(ctx, `SELECT `+outboxColumns+` FROM notification_outbox WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return outbox.Message{}, outbox.ErrMessageNotFound
		}
		return outbox.Message{}, fmt.Errorf("failed to get outbox message %s: %w", id, err)
	}
	return m, nil
}

// List implements outbox.OutboxRepository. Newest first.
func (r *outboxRepositoryImpl) List(ctx context.Context, filter outbox.MessageFilter, params pagination.Params) ([]outbox.Message, int64, error) {
	q := GetQuerier(ctx, r.db)

	conditions := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Reference != "" {
		conditions = append(conditions, fmt.Sprintf("reference = $%d", argIdx))
		args = append(args, filter.Reference)
		argIdx++
	}

	whereClause := strings.Join(conditions, " AND ")

	var total int64
	if err := q.QueryRow(ctx, fmt.Sprintf("SELECT COUNT(*) FROM notification_outbox WHERE %s", whereClause), args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count outbox messages: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM notification_outbox
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d
	`, outboxColumns, whereClause, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset())

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list outbox messages: %w", err)
	}
	defer rows.Close()

	var messages []outbox.Message
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}

// Reset implements outbox.OutboxRepository.
func (r *outboxRepositoryImpl) Reset(ctx context.Context, id string) (outbox.Message, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE notification_outbox
		SET status = 'pending', attempts = 0, next_attempt_at = NOW()
		WHERE id = $1 AND status <> 'sent'
		RETURNING ` + outboxColumns

	m, err := scanMessage(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return outbox.Message{}, getErr
			}
			return outbox.Message{}, outbox.ErrAlreadySent
		}
		return outbox.Message{}, fmt.Errorf("failed to reset outbox message %s: %w", id, err)
	}
	return m, nil
}
