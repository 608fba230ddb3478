package attendance

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/attendance"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/employee"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/event"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/pagination"
	"github.com/sj-empleados/empleados-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	empPhoneID       = "3f6c2a9e-1b4d-4e7a-9c21-8d5e0f4b7a10"
	empNoPhoneID     = "b2d7e5c4-0a9f-4f61-8e3b-6c1d2a7f9e02"
	unknownEmployeeID = "9a0e4d3c-5b2f-4a18-b7c6-1e2d3f4a5b6c"
)

type memFile struct{ *bytes.Reader }

func (memFile) Close() error { return nil }

func upload(name string, data []byte) (multipart.File, *multipart.FileHeader) {
	return memFile{bytes.NewReader(data)}, &multipart.FileHeader{Filename: name, Size: int64(len(data))}
}

type fakeAttendanceRepo struct {
	mu       sync.Mutex
	records  map[string]attendance.Attendance
	deletes  []string
	onDelete func(id string)
}

func newFakeAttendanceRepo() *fakeAttendanceRepo {
	return &fakeAttendanceRepo{records: map[string]attendance.Attendance{}}
}

func (r *fakeAttendanceRepo) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.NewString()
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	r.records[a.ID] = a
	return a, nil
}

func (r *fakeAttendanceRepo) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *fakeAttendanceRepo) GetWithEmployee(ctx context.Context, id string) (attendance.AttendanceWithEmployee, error) {
	a, err := r.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceWithEmployee{}, err
	}
	return attendance.AttendanceWithEmployee{Attendance: a, Employee: employee.Ref{ID: a.EmployeeID}}, nil
}

func (r *fakeAttendanceRepo) Update(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[a.ID]; !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	a.UpdatedAt = time.Now()
	r.records[a.ID] = a
	return a, nil
}

func (r *fakeAttendanceRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.records, id)
	r.deletes = append(r.deletes, id)
	if r.onDelete != nil {
		r.onDelete(id)
	}
	return nil
}

func (r *fakeAttendanceRepo) List(ctx context.Context, filter attendance.AttendanceFilter, params pagination.Params) ([]attendance.AttendanceWithEmployee, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []attendance.AttendanceWithEmployee
	for _, a := range r.records {
		if filter.EmployeeID != "" && a.EmployeeID != filter.EmployeeID {
			continue
		}
		out = append(out, attendance.AttendanceWithEmployee{Attendance: a, Employee: employee.Ref{ID: a.EmployeeID}})
	}
	return out, int64(len(out)), nil
}

func (r *fakeAttendanceRepo) Stats(ctx context.Context, from, to time.Time) (attendance.Stats, error) {
	return attendance.Stats{AbsencesThisMonth: 2}, nil
}

func (r *fakeAttendanceRepo) ListWithDocument(ctx context.Context) ([]attendance.Attendance, error) {
	return nil, nil
}

func (r *fakeAttendanceRepo) UpdateDocument(ctx context.Context, id string, document string) error {
	return nil
}

type fixture struct {
	svc    attendance.AttendanceService
	repo   *fakeAttendanceRepo
	tx     *servicetest.TxManager
	events *servicetest.EventService
	outbox *servicetest.Outbox
	files  *servicetest.FileService
}

func newFixture() fixture {
	f := fixture{
		repo:   newFakeAttendanceRepo(),
		tx:     &servicetest.TxManager{},
		events: &servicetest.EventService{},
		outbox: &servicetest.Outbox{},
		files:  servicetest.NewFileService(),
	}
	employees := servicetest.NewEmployeeRepo(
		employee.Employee{ID: empPhoneID, Nombre: "Ana", Apellido: "García", Telefono: "11 5555-0000", Activo: true},
		employee.Employee{ID: empNoPhoneID, Nombre: "Luis", Apellido: "Pérez", Activo: true},
	)
	f.svc = NewAttendanceService(f.repo, employees, f.tx, f.events, f.outbox, f.files, time.UTC)
	return f
}

func ptr[T any](v T) *T { return &v }

func TestCreateAttendance_LateArrivalEnqueuesNotification(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID:     empPhoneID,
		Date:           "2024-03-10",
		Type:           "tardanza",
		ScheduledEntry: ptr("08:00"),
		ActualEntry:    ptr("08:12"),
	})
	require.NoError(t, err)
	assert.Equal(t, 12, resp.LateMinutes)
	require.NotNil(t, resp.Employee)
	assert.Equal(t, "García", resp.Employee.Apellido)

	require.Len(t, f.events.Recorded, 1)
	ev := f.events.Recorded[0]
	assert.Equal(t, event.TypeLateArrival, ev.Type)
	assert.Equal(t, "Tardanza registrada para Ana García: 12 minutos tarde (Establecida 08:00, Registrada 08:12).", ev.Message)
	require.Len(t, ev.Changes, 1)
	assert.Equal(t, "attendance", ev.Changes[0].Field)
	assert.Nil(t, ev.Changes[0].From)

	require.Len(t, f.outbox.Messages, 1)
	assert.Equal(t, "11 5555-0000", f.outbox.Messages[0].Recipient)
	assert.Equal(t, ev.Message, f.outbox.Messages[0].Body)
	assert.Equal(t, "attendance:"+resp.ID, f.outbox.Messages[0].Reference)
	assert.Len(t, f.events.Published, 1)
}

func TestCreateAttendance_NoPhoneNoNotification(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID: empNoPhoneID,
		Date:       "2024-03-10",
		Type:       "inasistencia",
	})
	require.NoError(t, err)
	require.Len(t, f.events.Recorded, 1)
	assert.Equal(t, "Nueva asistencia registrada (inasistencia) para Luis Pérez el 10/3/2024.", f.events.Recorded[0].Message)
	assert.Empty(t, f.outbox.Messages)
}

func TestCreateAttendance_SuspensionDerivesReturnDate(t *testing.T) {
	f := newFixture()

	resp, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID:     empNoPhoneID,
		Date:           "2024-03-10",
		Type:           "sancion recibida",
		SuspensionDays: ptr(3),
	})
	require.NoError(t, err)
	require.NotNil(t, resp.ReturnToWorkDate)
	assert.Equal(t, "2024-03-13", *resp.ReturnToWorkDate)
	assert.Equal(t, event.TypeDisciplinaryReceived, f.events.Recorded[0].Type)
	assert.Equal(t, "Sanción registrada en el legajo de Luis Pérez (10/3/2024). Duración: 3 día(s). Reincorporación el 13/3/2024.", f.events.Recorded[0].Message)
}

func TestCreateAttendance_MedicalWithDocument(t *testing.T) {
	f := newFixture()
	file, header := upload("cert.pdf", []byte("%PDF-1.4"))

	resp, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID:        empPhoneID,
		Date:              "2024-03-10",
		Type:              "licencia medica",
		CertificateExpiry: ptr("2024-03-15"),
		File:              file,
		FileHeader:        header,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.JustificationDocument)
	assert.Contains(t, f.files.Files, *resp.JustificationDocument)
	assert.NotNil(t, resp.DocumentURL)
	assert.Equal(t, event.TypeMedicalCertificateUploaded, f.events.Recorded[0].Type)
	assert.Equal(t, "Certificado médico cargado para Ana García (10/3/2024). Vence el 15/3/2024.", f.events.Recorded[0].Message)
}

func TestCreateAttendance_RemovesUploadWhenTransactionFails(t *testing.T) {
	f := newFixture()
	f.tx.Err = errors.New("connection reset")
	file, header := upload("cert.pdf", []byte("%PDF-1.4"))

	_, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID: empPhoneID,
		Date:       "2024-03-10",
		Type:       "licencia medica",
		File:       file,
		FileHeader: header,
	})
	require.Error(t, err)
	assert.Equal(t, 1, f.files.TotalDeletes())
	assert.Empty(t, f.files.Files)
	assert.Empty(t, f.events.Published)
}

func TestCreateAttendance_EmployeeNotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID: unknownEmployeeID,
		Date:       "2024-03-10",
		Type:       "inasistencia",
	})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.Zero(t, f.tx.Calls)
}

func TestCreateAttendance_InvalidType(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID: empPhoneID,
		Date:       "2024-03-10",
		Type:       "feriado",
	})
	require.Error(t, err)
	assert.Zero(t, f.tx.Calls)
}

func TestUpdateAttendance_ReplacesDocumentOnce(t *testing.T) {
	f := newFixture()
	file, header := upload("cert.pdf", []byte("%PDF-1.4 first"))
	created, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID: empPhoneID,
		Date:       "2024-03-10",
		Type:       "licencia medica",
		File:       file,
		FileHeader: header,
	})
	require.NoError(t, err)
	oldKey := *created.JustificationDocument

	file, header = upload("cert2.pdf", []byte("%PDF-1.4 second"))
	updated, err := f.svc.UpdateAttendance(context.Background(), attendance.UpdateAttendanceRequest{
		ID:         created.ID,
		Justified:  ptr(true),
		File:       file,
		FileHeader: header,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.JustificationDocument)
	assert.NotEqual(t, oldKey, *updated.JustificationDocument)
	assert.Equal(t, 1, f.files.Deleted[oldKey])
	assert.Equal(t, 1, f.files.TotalDeletes())

	assert.Equal(t, []event.Type{
		event.TypeMedicalCertificateUploaded,
		event.TypeAttendanceJustificationUpdate,
		event.TypeMedicalCertificateUploaded,
	}, f.events.Types())
}

func TestUpdateAttendance_RecomputesLateness(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID:     empNoPhoneID,
		Date:           "2024-03-10",
		Type:           "tardanza",
		ScheduledEntry: ptr("08:00"),
		ActualEntry:    ptr("08:12"),
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateAttendance(context.Background(), attendance.UpdateAttendanceRequest{
		ID:          created.ID,
		ActualEntry: ptr("08:30"),
	})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.LateMinutes)

	last := f.events.Recorded[len(f.events.Recorded)-1]
	assert.Equal(t, event.TypeLateArrivalUpdate, last.Type)
	assert.Equal(t, "Actualización de horarios. Establecida 08:00, Registrada 08:30, Tardanza 30 min.", last.Message)
	assert.Len(t, last.Changes, 3)
}

func TestUpdateAttendance_NoChangeNoEvents(t *testing.T) {
	f := newFixture()
	created, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID: empNoPhoneID,
		Date:       "2024-03-10",
		Type:       "inasistencia",
	})
	require.NoError(t, err)

	_, err = f.svc.UpdateAttendance(context.Background(), attendance.UpdateAttendanceRequest{
		ID:       created.ID,
		Comments: ptr("sin aviso"),
	})
	require.NoError(t, err)
	assert.Len(t, f.events.Recorded, 1)
}

func TestDeleteAttendance_DeletesDocumentExactlyOnce(t *testing.T) {
	f := newFixture()
	file, header := upload("cert.pdf", []byte("%PDF-1.4"))
	created, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID: empPhoneID,
		Date:       "2024-03-10",
		Type:       "licencia medica",
		File:       file,
		FileHeader: header,
	})
	require.NoError(t, err)

	var calls []string
	f.files.OnDelete = func(key string) { calls = append(calls, "storage:"+key) }
	f.repo.onDelete = func(id string) { calls = append(calls, "row:"+id) }

	require.NoError(t, f.svc.DeleteAttendance(context.Background(), created.ID))
	assert.Equal(t, 1, f.files.Deleted[*created.JustificationDocument])
	assert.Equal(t, 1, f.files.TotalDeletes())
	assert.Equal(t, []string{created.ID}, f.repo.deletes)
	assert.Equal(t, []string{"storage:" + *created.JustificationDocument, "row:" + created.ID}, calls)
}

func TestDeleteAttendance_StorageFailureIsSwallowed(t *testing.T) {
	f := newFixture()
	file, header := upload("cert.pdf", []byte("%PDF-1.4"))
	created, err := f.svc.CreateAttendance(context.Background(), attendance.CreateAttendanceRequest{
		EmployeeID: empPhoneID,
		Date:       "2024-03-10",
		Type:       "licencia medica",
		File:       file,
		FileHeader: header,
	})
	require.NoError(t, err)
	f.files.DeleteErr = errors.New("disk full")

	require.NoError(t, f.svc.DeleteAttendance(context.Background(), created.ID))
	assert.Equal(t, 1, f.files.TotalDeletes())
	assert.Len(t, f.repo.deletes, 1)
}

func TestDeleteAttendance_NotFound(t *testing.T) {
	f := newFixture()

	err := f.svc.DeleteAttendance(context.Background(), "missing")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
	assert.Zero(t, f.files.TotalDeletes())
}
