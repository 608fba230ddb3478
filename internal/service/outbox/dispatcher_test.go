package outbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/outbox"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/whatsapp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOutboxRepo struct {
	mu       sync.Mutex
	messages map[string]*outbox.Message
	order    []string
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{messages: map[string]*outbox.Message{}}
}

func (f *fakeOutboxRepo) Enqueue(ctx context.Context, msg outbox.NewMessage, maxAttempts int) (outbox.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := string(rune('a' + len(f.order)))
	m := &outbox.Message{
		ID: id, Channel: outbox.ChannelWhatsApp, Recipient: msg.Recipient, Body: msg.Body,
		Status: outbox.StatusPending, MaxAttempts: maxAttempts, Reference: msg.Reference,
		NextAttemptAt: time.Now().Add(-time.Second), CreatedAt: time.Now(),
	}
	f.messages[id] = m
	f.order = append(f.order, id)
	return *m, nil
}

func (f *fakeOutboxRepo) ClaimDue(ctx context.Context, limit int, lease time.Duration) ([]outbox.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []outbox.Message
	now := time.Now()
	for _, id := range f.order {
		m := f.messages[id]
		if m.Status == outbox.StatusPending && !m.NextAttemptAt.After(now) && len(out) < limit {
			m.NextAttemptAt = now.Add(lease)
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeOutboxRepo) MarkSent(ctx context.Context, id string, providerMessageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.messages[id]
	m.Status = outbox.StatusSent
	m.Attempts++
	m.ProviderMessageID = &providerMessageID
	return nil
}

func (f *fakeOutboxRepo) MarkRetry(ctx context.Context, id string, lastError string, next time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.messages[id]
	m.Attempts++
	m.LastError = &lastError
	m.NextAttemptAt = next
	return nil
}

func (f *fakeOutboxRepo) MarkFailed(ctx context.Context, id string, lastError string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	m := f.messages[id]
	m.Status = outbox.StatusFailed
	m.Attempts++
	m.LastError = &lastError
	return nil
}

func (f *fakeOutboxRepo) GetByID(ctx context.Context, id string) (outbox.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return outbox.Message{}, outbox.ErrMessageNotFound
	}
	return *m, nil
}

func (f *fakeOutboxRepo) List(ctx context.Context, filter outbox.MessageFilter, params pagination.Params) ([]outbox.Message, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []outbox.Message
	for _, id := range f.order {
		m := f.messages[id]
		if filter.Status == "" || string(m.Status) == filter.Status {
			out = append(out, *m)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeOutboxRepo) Reset(ctx context.Context, id string) (outbox.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.messages[id]
	if !ok {
		return outbox.Message{}, outbox.ErrMessageNotFound
	}
	if m.Status == outbox.StatusSent {
		return outbox.Message{}, outbox.ErrAlreadySent
	}
	m.Status = outbox.StatusPending
	m.Attempts = 0
	m.NextAttemptAt = time.Now().Add(-time.Second)
	return *m, nil
}

type scriptedSender struct {
	mu    sync.Mutex
	errs  []error
	calls int
}

func (s *scriptedSender) Send(ctx context.Context, to, body string) (whatsapp.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if len(s.errs) > 0 {
		err := s.errs[0]
		s.errs = s.errs[1:]
		if err != nil {
			return whatsapp.Result{}, err
		}
	}
	return whatsapp.Result{MessageID: "SM123"}, nil
}

func (s *scriptedSender) Provider() string { return "scripted" }

func testConfig() config.OutboxConfig {
	return config.OutboxConfig{Workers: 1, PollInterval: 10 * time.Millisecond, BatchSize: 10, MaxAttempts: 3, BaseBackoff: 30 * time.Second}
}

func TestDispatcher_DeliversAndMarksSent(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOutboxRepo()
	sender := &scriptedSender{}
	svc := NewOutboxService(repo, 3)

	m, err := svc.Enqueue(ctx, outbox.NewMessage{Recipient: "+5491111111111", Body: "hola", Reference: "attendance:1"})
	require.NoError(t, err)

	d := NewDispatcher(repo, sender, testConfig())
	n, err := d.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := repo.GetByID(ctx, m.ID)
	assert.Equal(t, outbox.StatusSent, got.Status)
	assert.Equal(t, 1, got.Attempts)
	require.NotNil(t, got.ProviderMessageID)
	assert.Equal(t, "SM123", *got.ProviderMessageID)

	n, err = d.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, sender.calls)
}

func TestDispatcher_RetriesWithBackoffThenFails(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOutboxRepo()
	temp := &whatsapp.ProviderError{Provider: "twilio", StatusCode: 503, Message: "unavailable"}
	sender := &scriptedSender{errs: []error{temp, temp, temp}}
	m, _ := repo.Enqueue(ctx, outbox.NewMessage{Recipient: "+5491111111111", Body: "hola"}, 3)

	fixed := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	d := NewDispatcher(repo, sender, testConfig())
	d.now = func() time.Time { return fixed }

	msg, _ := repo.GetByID(ctx, m.ID)
	d.Deliver(ctx, msg)
	msg, _ = repo.GetByID(ctx, m.ID)
	assert.Equal(t, outbox.StatusPending, msg.Status)
	assert.Equal(t, 1, msg.Attempts)
	assert.Equal(t, fixed.Add(30*time.Second), msg.NextAttemptAt)

	d.Deliver(ctx, msg)
	msg, _ = repo.GetByID(ctx, m.ID)
	assert.Equal(t, 2, msg.Attempts)
	assert.Equal(t, fixed.Add(60*time.Second), msg.NextAttemptAt)

	d.Deliver(ctx, msg)
	msg, _ = repo.GetByID(ctx, m.ID)
	assert.Equal(t, outbox.StatusFailed, msg.Status)
	assert.Equal(t, 3, msg.Attempts)
	require.NotNil(t, msg.LastError)
}

func TestDispatcher_PermanentErrorFailsImmediately(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOutboxRepo()
	sender := &scriptedSender{errs: []error{whatsapp.ErrInvalidPhone}}
	m, _ := repo.Enqueue(ctx, outbox.NewMessage{Recipient: "12", Body: "hola"}, 5)

	d := NewDispatcher(repo, sender, testConfig())
	_, err := d.ProcessOnce(ctx)
	require.NoError(t, err)

	got, _ := repo.GetByID(ctx, m.ID)
	assert.Equal(t, outbox.StatusFailed, got.Status)
}

func TestOutboxService_Retry(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOutboxRepo()
	svc := NewOutboxService(repo, 1)
	m, _ := svc.Enqueue(ctx, outbox.NewMessage{Recipient: "+5491111111111", Body: "hola"})
	require.NoError(t, repo.MarkFailed(ctx, m.ID, "boom"))

	page, err := svc.ListMessages(ctx, outbox.MessageFilter{Status: "FAILED"}, pagination.New(1, 10, 25, 200))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	resp, err := svc.RetryMessage(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, 0, resp.Attempts)

	require.NoError(t, repo.MarkSent(ctx, m.ID, "x"))
	_, err = svc.RetryMessage(ctx, m.ID)
	assert.True(t, errors.Is(err, outbox.ErrAlreadySent))
}

func TestDispatcher_StartStop(t *testing.T) {
	ctx := context.Background()
	repo := newFakeOutboxRepo()
	sender := &scriptedSender{}
	m, _ := repo.Enqueue(ctx, outbox.NewMessage{Recipient: "+5491111111111", Body: "hola"}, 3)

	d := NewDispatcher(repo, sender, testConfig())
	d.Start()
	assert.Eventually(t, func() bool {
		got, _ := repo.GetByID(ctx, m.ID)
		return got.Status == outbox.StatusSent
	}, time.Second, 10*time.Millisecond)
	d.Stop()
}
