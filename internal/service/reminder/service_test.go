package reminder

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/event"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/reminder"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReminderRepo enforces the (record, kind, due date) uniqueness of the ledger.
type fakeReminderRepo struct {
	mu         sync.Mutex
	candidates []reminder.Candidate
	ledger     map[string]reminder.Dispatch
	listDates  [2]time.Time
	entered    chan struct{}
	block      chan struct{}
}

func newFakeRepo(candidates ...reminder.Candidate) *fakeReminderRepo {
	return &fakeReminderRepo{candidates: candidates, ledger: map[string]reminder.Dispatch{}}
}

func (r *fakeReminderRepo) ListCandidates(ctx context.Context, today, tomorrow time.Time) ([]reminder.Candidate, error) {
	if r.block != nil {
		close(r.entered)
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listDates = [2]time.Time{today, tomorrow}
	return r.candidates, nil
}

func (r *fakeReminderRepo) Claim(ctx context.Context, d reminder.Dispatch) (reminder.Dispatch, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%s|%s|%s", d.RecordID, d.Kind, d.DueDate.Format("2006-01-02"))
	if _, ok := r.ledger[key]; ok {
		return reminder.Dispatch{}, false, nil
	}
	d.ID = uuid.NewString()
	r.ledger[key] = d
	return d, true, nil
}

func (r *fakeReminderRepo) AttachOutbox(ctx context.Context, dispatchID, outboxID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, d := range r.ledger {
		if d.ID == dispatchID {
			d.OutboxID = &outboxID
			r.ledger[k] = d
			return nil
		}
	}
	return errors.New("dispatch not found")
}

func (r *fakeReminderRepo) List(ctx context.Context, params pagination.Params) ([]reminder.Dispatch, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []reminder.Dispatch
	for _, d := range r.ledger {
		out = append(out, d)
	}
	return out, int64(len(out)), nil
}

var today = time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)

func candidate(id string, kind reminder.Kind, emp employee.Employee) reminder.Candidate {
	return reminder.Candidate{RecordType: reminder.RecordAttendance, RecordID: id, Kind: kind, DueDate: today, Employee: emp}
}

func newTestService(repo *fakeReminderRepo, filters reminder.Filters) (*ReminderServiceImpl, *servicetest.EventService, *servicetest.Outbox) {
	events := &servicetest.EventService{}
	ob := &servicetest.Outbox{}
	svc := NewReminderService(repo, &servicetest.TxManager{}, events, ob, filters, time.UTC).(*ReminderServiceImpl)
	svc.now = func() time.Time { return today.Add(8 * time.Hour) }
	return svc, events, ob
}

func TestRunDaily_EnqueuesOncePerRecordKindAndDate(t *testing.T) {
	ana := employee.Employee{ID: "e1", Nombre: "Ana", Telefono: "1155550000", Activo: true}
	repo := newFakeRepo(
		candidate("a1", reminder.KindCertificateExpiry, ana),
		candidate("a2", reminder.KindVacationStart, ana),
	)
	svc, events, ob := newTestService(repo, reminder.Filters{OnlyActive: true})

	first, err := svc.RunDaily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05", first.Date)
	assert.Equal(t, 2, first.Enqueued)
	assert.Equal(t, today, repo.listDates[0])
	assert.Equal(t, today.AddDate(0, 0, 1), repo.listDates[1])

	second, err := svc.RunDaily(context.Background())
	require.NoError(t, err)
	assert.Zero(t, second.Enqueued)
	assert.Equal(t, 2, second.Duplicates)

	require.Len(t, ob.Messages, 2)
	assert.Equal(t, "Recordatorio: tu certificado médico vence 5/3/2024. Enviar actualización si corresponde.", ob.Messages[0].Body)
	assert.Equal(t, "attendance:a1", ob.Messages[0].Reference)

	require.Len(t, events.Recorded, 2)
	assert.Equal(t, event.TypeAutoWhatsAppReminder, events.Recorded[0].Type)
	assert.Equal(t, []event.Change{{Field: "attendance.certificateReminderSent", From: false, To: true}}, events.Recorded[0].Changes)
	assert.Len(t, events.Published, 2)

	for _, d := range repo.ledger {
		assert.NotNil(t, d.OutboxID)
	}
}

func TestRunDaily_SkipsWithoutPhoneOrFiltered(t *testing.T) {
	repo := newFakeRepo(
		candidate("a1", reminder.KindReturnToWork, employee.Employee{ID: "e1", Activo: true}),
		candidate("a2", reminder.KindReturnToWork, employee.Employee{ID: "e2", Telefono: "1155550000", Activo: false}),
		candidate("a3", reminder.KindReturnToWork, employee.Employee{ID: "e3", Telefono: "1155550001", Activo: true, Departamento: "Logística"}),
		candidate("a4", reminder.KindReturnToWork, employee.Employee{ID: "e4", Telefono: "1155550002", Activo: true, Departamento: "Ventas"}),
	)
	svc, _, ob := newTestService(repo, reminder.Filters{OnlyActive: true, Departamentos: []string{"Ventas"}})

	result, err := svc.RunDaily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, result.Candidates)
	assert.Equal(t, 3, result.Skipped)
	assert.Equal(t, 1, result.Enqueued)
	require.Len(t, ob.Messages, 1)
	assert.Equal(t, "1155550002", ob.Messages[0].Recipient)
}

func TestRunDaily_OutboxFailureCountsAsFailed(t *testing.T) {
	repo := newFakeRepo(candidate("a1", reminder.KindReturnToWork, employee.Employee{ID: "e1", Telefono: "1155550000", Activo: true}))
	svc, events, ob := newTestService(repo, reminder.Filters{})
	ob.Err = errors.New("insert failed")

	result, err := svc.RunDaily(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, events.Published)
}

func TestRunDaily_RejectsConcurrentRun(t *testing.T) {
	repo := newFakeRepo()
	repo.entered = make(chan struct{})
	repo.block = make(chan struct{})
	svc, _, _ := newTestService(repo, reminder.Filters{})

	done := make(chan error, 1)
	go func() {
		_, err := svc.RunDaily(context.Background())
		done <- err
	}()
	<-repo.entered

	_, err := svc.RunDaily(context.Background())
	assert.ErrorIs(t, err, reminder.ErrRunInProgress)

	close(repo.block)
	require.NoError(t, <-done)
}

func TestListDispatches(t *testing.T) {
	repo := newFakeRepo(candidate("a1", reminder.KindVacationStart, employee.Employee{ID: "e1", Telefono: "1155550000"}))
	svc, _, _ := newTestService(repo, reminder.Filters{})
	_, err := svc.RunDaily(context.Background())
	require.NoError(t, err)

	page, err := svc.ListDispatches(context.Background(), pagination.New(1, 10, 25, 200))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "vacation_start", page.Items[0].Kind)
	assert.Equal(t, "2024-03-05", page.Items[0].DueDate)
}
