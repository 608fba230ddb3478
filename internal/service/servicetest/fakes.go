// Package servicetest holds in-memory collaborators shared by service tests.
package servicetest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/event"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/outbox"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/sse"
)

// TxManager runs fn directly. Err, when set, is returned instead of calling fn.
type TxManager struct {
	Calls int
	Err   error
}

func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

// EventService records events in memory.
type EventService struct {
	mu        sync.Mutex
	Recorded  []event.EmployeeEvent
	Published []event.EmployeeEvent
	RecordErr error
}

func (s *EventService) Record(ctx context.Context, ev event.NewEvent) (event.EmployeeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.RecordErr != nil {
		return event.EmployeeEvent{}, s.RecordErr
	}
	stored := event.EmployeeEvent{
		ID:         uuid.NewString(),
		EmployeeID: ev.EmployeeID,
		Type:       ev.Type,
		Message:    ev.Message,
		Changes:    ev.Changes,
		CreatedAt:  time.Now(),
	}
	s.Recorded = append(s.Recorded, stored)
	return stored, nil
}

func (s *EventService) Publish(events ...event.EmployeeEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Published = append(s.Published, events...)
}

func (s *EventService) CreateEvent(ctx context.Context, req event.CreateEventRequest) (event.EventResponse, error) {
	ev, err := s.Record(ctx, event.NewEvent{EmployeeID: req.EmployeeID, Type: event.Type(req.Type), Message: req.Message, Changes: req.Changes})
	if err != nil {
		return event.EventResponse{}, err
	}
	return event.ToResponse(ev), nil
}

func (s *EventService) ListByEmployee(ctx context.Context, employeeID string, params pagination.Params) (pagination.Page[event.EventResponse], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []event.EventResponse
	for _, ev := range s.Recorded {
		if ev.EmployeeID == employeeID {
			out = append(out, event.ToResponse(ev))
		}
	}
	return pagination.NewPage(out, int64(len(out)), params), nil
}

func (s *EventService) Subscribe() (chan sse.Event, func()) {
	ch := make(chan sse.Event)
	return ch, func() {}
}

// Types returns the recorded event types in order.
func (s *EventService) Types() []event.Type {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]event.Type, 0, len(s.Recorded))
	for _, ev := range s.Recorded {
		out = append(out, ev.Type)
	}
	return out
}

// Outbox keeps enqueued messages in memory.
type Outbox struct {
	mu       sync.Mutex
	Messages []outbox.Message
	Err      error
}

func (o *Outbox) Enqueue(ctx context.Context, msg outbox.NewMessage) (outbox.Message, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.Err != nil {
		return outbox.Message{}, o.Err
	}
	m := outbox.Message{
		ID:            uuid.NewString(),
		Channel:       outbox.ChannelWhatsApp,
		Recipient:     msg.Recipient,
		Body:          msg.Body,
		Status:        outbox.StatusPending,
		MaxAttempts:   5,
		Reference:     msg.Reference,
		NextAttemptAt: time.Now(),
		CreatedAt:     time.Now(),
	}
	o.Messages = append(o.Messages, m)
	return m, nil
}

func (o *Outbox) ListMessages(ctx context.Context, filter outbox.MessageFilter, params pagination.Params) (pagination.Page[outbox.MessageResponse], error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]outbox.MessageResponse, 0, len(o.Messages))
	for _, m := range o.Messages {
		out = append(out, outbox.ToResponse(m))
	}
	return pagination.NewPage(out, int64(len(out)), params), nil
}

func (o *Outbox) RetryMessage(ctx context.Context, id string) (outbox.MessageResponse, error) {
	return outbox.MessageResponse{}, outbox.ErrMessageNotFound
}

// FileService stores uploads in memory and counts deletes per key.
type FileService struct {
	mu        sync.Mutex
	Files     map[string][]byte
	Deleted   map[string]int
	UploadErr error
	DeleteErr error
	// OnDelete observes every delete call in order.
	OnDelete func(key string)
	seq      int
}

func NewFileService() *FileService {
	return &FileService{Files: map[string][]byte{}, Deleted: map[string]int{}}
}

func (f *FileService) UploadDocument(ctx context.Context, folder string, employeeID string, file io.Reader, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.UploadErr != nil {
		return "", f.UploadErr
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	f.seq++
	key := fmt.Sprintf("%s/%s/doc-%d-%s", folder, employeeID, f.seq, filename)
	f.Files[key] = data
	return key, nil
}

// NormalizeExtension treats every extensionless key as a PDF.
func (f *FileService) NormalizeExtension(ctx context.Context, key string) (string, bool, error) {
	if path.Ext(key) != "" {
		return key, false, nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.Files[key]
	if !ok {
		return "", false, fmt.Errorf("file not found: %s", key)
	}
	f.Files[key+".pdf"] = data
	return key + ".pdf", true, nil
}

func (f *FileService) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.Files[key]
	if !ok {
		return nil, fmt.Errorf("file not found: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *FileService) DeleteFile(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted[key]++
	if f.OnDelete != nil {
		f.OnDelete(key)
	}
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	delete(f.Files, key)
	return nil
}

func (f *FileService) GetFileURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return "http://localhost:5000/uploads/" + key, nil
}

// TotalDeletes counts every delete call.
func (f *FileService) TotalDeletes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Deleted {
		n += c
	}
	return n
}
