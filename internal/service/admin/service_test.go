package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/admin"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/attendance"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/disciplinary"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Only the document methods are exercised; the embedded interfaces stay nil.
type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	records []attendance.Attendance
	updated   map[string]string
	updateErr error
	block     chan struct{}
	entered   chan struct{}
}

func (r *fakeAttendanceRepo) ListWithDocument(ctx context.Context) ([]attendance.Attendance, error) {
	if r.block != nil {
		close(r.entered)
		<-r.block
	}
	return r.records, nil
}

func (r *fakeAttendanceRepo) UpdateDocument(ctx context.Context, id string, document string) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	r.updated[id] = document
	return nil
}

type fakeDisciplinaryRepo struct {
	disciplinary.DisciplinaryRepository
	records []disciplinary.Disciplinary
	updated map[string]string
}

func (r *fakeDisciplinaryRepo) ListWithDocument(ctx context.Context) ([]disciplinary.Disciplinary, error) {
	return r.records, nil
}

func (r *fakeDisciplinaryRepo) UpdateDocument(ctx context.Context, id string, document string) error {
	r.updated[id] = document
	return nil
}

type fixture struct {
	svc          admin.AdminService
	sender       *servicetest.Sender
	files        *servicetest.FileService
	attendances  *fakeAttendanceRepo
	disciplinary *fakeDisciplinaryRepo
}

func newFixture(emps ...employee.Employee) fixture {
	f := fixture{
		sender:       &servicetest.Sender{Fail: map[string]error{}},
		files:        servicetest.NewFileService(),
		attendances:  &fakeAttendanceRepo{updated: map[string]string{}},
		disciplinary: &fakeDisciplinaryRepo{updated: map[string]string{}},
	}
	f.svc = NewAdminService(f.sender, servicetest.NewEmployeeRepo(emps...), f.attendances, f.disciplinary, f.files)
	return f
}

func ptr[T any](v T) *T { return &v }

func TestWhatsAppTestMessage(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.TestWhatsApp(context.Background(), admin.WhatsAppTestRequest{To: " 1155550000 "})
	require.NoError(t, err)
	assert.Equal(t, "1155550000", resp.To)
	assert.NotEmpty(t, resp.MessageID)
	require.Len(t, f.sender.Sent, 1)
	assert.Equal(t, admin.DefaultTestBody, f.sender.Sent[0].Body)

	f.sender.Fail["1100000000"] = errors.New("rejected")
	_, err = f.svc.TestWhatsApp(context.Background(), admin.WhatsAppTestRequest{To: "1100000000", Body: "hola"})
	assert.ErrorIs(t, err, admin.ErrProviderFailed)

	_, err = f.svc.TestWhatsApp(context.Background(), admin.WhatsAppTestRequest{})
	assert.Error(t, err)
}

func TestBroadcast(t *testing.T) {
	f := newFixture(
		employee.Employee{ID: "e1", Nombre: "Ana", Apellido: "García", Telefono: "1155550000"},
		employee.Employee{ID: "e2", Nombre: "Bruno", Apellido: "Díaz", Telefono: "1155550001"},
		employee.Employee{ID: "e3", Nombre: "Carla", Apellido: "Sosa"},
	)
	f.sender.Fail["1155550001"] = errors.New("rejected")

	resp, err := f.svc.Broadcast(context.Background(), admin.BroadcastRequest{})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, 1, resp.Errors)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, admin.DefaultBroadcastBody, f.sender.Sent[0].Body)

	for _, r := range resp.Results {
		if r.Telefono == "1155550001" {
			assert.Equal(t, "rejected", r.Error)
		} else {
			assert.Empty(t, r.Error)
		}
	}
}

func TestMigrateRawFormats(t *testing.T) {
	f := newFixture()
	f.files.Files["attendance/e1/raw"] = []byte("%PDF-1.4")
	f.files.Files["disciplinary/e1/raw"] = []byte("%PDF-1.4")

	f.attendances.records = []attendance.Attendance{
		{ID: "a1", JustificationDocument: ptr("attendance/e1/raw")},
		{ID: "a2", JustificationDocument: ptr("attendance/e1/ok.pdf")},
		{ID: "a3", JustificationDocument: ptr("attendance/e1/missing")},
	}
	f.disciplinary.records = []disciplinary.Disciplinary{
		{ID: "d1", Document: ptr("disciplinary/e1/raw")},
	}

	resp, err := f.svc.MigrateRawFormats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, admin.MigrationCount{Scanned: 3, Updated: 1, Failed: 1}, resp.Attendance)
	assert.Equal(t, admin.MigrationCount{Scanned: 1, Updated: 1}, resp.Disciplinary)
	assert.Equal(t, map[string]string{"a1": "attendance/e1/raw.pdf"}, f.attendances.updated)
	assert.Equal(t, map[string]string{"d1": "disciplinary/e1/raw.pdf"}, f.disciplinary.updated)

	assert.NotContains(t, f.files.Files, "attendance/e1/raw")
	assert.Contains(t, f.files.Files, "attendance/e1/raw.pdf")
	assert.Equal(t, 1, f.files.Deleted["disciplinary/e1/raw"])
}

func TestMigrateRawFormats_UpdateFailureKeepsOriginal(t *testing.T) {
	f := newFixture()
	f.files.Files["attendance/e1/raw"] = []byte("%PDF-1.4")
	f.attendances.records = []attendance.Attendance{
		{ID: "a1", JustificationDocument: ptr("attendance/e1/raw")},
	}
	f.attendances.updateErr = errors.New("connection reset")

	resp, err := f.svc.MigrateRawFormats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, admin.MigrationCount{Scanned: 1, Failed: 1}, resp.Attendance)

	assert.Contains(t, f.files.Files, "attendance/e1/raw")
	assert.NotContains(t, f.files.Files, "attendance/e1/raw.pdf")
	assert.Zero(t, f.files.Deleted["attendance/e1/raw"])
	assert.Equal(t, 1, f.files.Deleted["attendance/e1/raw.pdf"])
}

func TestMigrateRawFormats_RejectsConcurrentRun(t *testing.T) {
	f := newFixture()
	f.attendances.block = make(chan struct{})
	f.attendances.entered = make(chan struct{})

	done := make(chan error, 1)
	go func() {
		_, err := f.svc.MigrateRawFormats(context.Background())
		done <- err
	}()
	<-f.attendances.entered

	_, err := f.svc.MigrateRawFormats(context.Background())
	assert.ErrorIs(t, err, admin.ErrMigrationInProgress)

	close(f.attendances.block)
	require.NoError(t, <-done)
}
