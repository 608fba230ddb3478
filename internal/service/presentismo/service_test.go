package presentismo

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/presentismo"
	"github.com/sj-empleados/empleados-backend-go/internal/service/servicetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRecipientRepo struct {
	recipients []presentismo.Recipient
}

func (r *fakeRecipientRepo) List(ctx context.Context) ([]presentismo.Recipient, error) {
	return r.recipients, nil
}

func (r *fakeRecipientRepo) ListActive(ctx context.Context) ([]presentismo.Recipient, error) {
	var out []presentismo.Recipient
	for _, rec := range r.recipients {
		if rec.Active {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeRecipientRepo) GetByID(ctx context.Context, id string) (presentismo.Recipient, error) {
	for _, rec := range r.recipients {
		if rec.ID == id {
			return rec, nil
		}
	}
	return presentismo.Recipient{}, presentismo.ErrRecipientNotFound
}

func (r *fakeRecipientRepo) Create(ctx context.Context, rec presentismo.Recipient) (presentismo.Recipient, error) {
	rec.ID = uuid.NewString()
	r.recipients = append(r.recipients, rec)
	return rec, nil
}

func (r *fakeRecipientRepo) Update(ctx context.Context, rec presentismo.Recipient) (presentismo.Recipient, error) {
	for i := range r.recipients {
		if r.recipients[i].ID == rec.ID {
			r.recipients[i] = rec
			return rec, nil
		}
	}
	return presentismo.Recipient{}, presentismo.ErrRecipientNotFound
}

func (r *fakeRecipientRepo) Delete(ctx context.Context, id string) error {
	for i := range r.recipients {
		if r.recipients[i].ID == id {
			r.recipients = append(r.recipients[:i], r.recipients[i+1:]...)
			return nil
		}
	}
	return presentismo.ErrRecipientNotFound
}

type fakeReportRepo struct {
	start, end time.Time
	employees  []presentismo.LostEmployee
}

func (r *fakeReportRepo) ListLostPresentismo(ctx context.Context, start, end time.Time) ([]presentismo.LostEmployee, error) {
	r.start, r.end = start, end
	return r.employees, nil
}

type fixture struct {
	svc        *PresentismoServiceImpl
	recipients *fakeRecipientRepo
	report     *fakeReportRepo
	sender     *servicetest.Sender
	outbox     *servicetest.Outbox
}

func newFixture(fallback ...string) fixture {
	f := fixture{
		recipients: &fakeRecipientRepo{},
		report: &fakeReportRepo{employees: []presentismo.LostEmployee{
			{ID: "e1", Nombre: "Ana", Apellido: "García", Telefono: "1155550000"},
		}},
		sender: &servicetest.Sender{Fail: map[string]error{}},
		outbox: &servicetest.Outbox{},
	}
	f.svc = NewPresentismoService(f.recipients, f.report, f.sender, f.outbox, fallback, "54", time.UTC).(*PresentismoServiceImpl)
	f.svc.now = func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC) }
	return f
}

func TestPreviewReport_DefaultsToCurrentMonth(t *testing.T) {
	f := newFixture("+5491111111111", "+5492222222222")

	resp, err := f.svc.PreviewReport(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "2024-03", resp.Month)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), f.report.start)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), f.report.end)
	assert.Equal(t, 1, resp.TotalEmployees)
	assert.Equal(t, presentismo.SourceEnv, resp.Source)
	assert.Len(t, resp.Destinations, 2)
	assert.Equal(t, "https://wa.me/5491111111111", resp.Recipients[0].WaLink)
	assert.Contains(t, resp.Message, "1. García Ana – DNI - – Tel 1155550000")
}

func TestPreviewReport_StoredRecipientsWin(t *testing.T) {
	f := newFixture("+5491111111111", "+5492222222222")
	f.recipients.recipients = []presentismo.Recipient{
		{ID: "r1", Name: "RRHH", Phone: "+5493333333333", Active: true},
		{ID: "r2", Name: "Inactivo", Phone: "+5494444444444", Active: false},
	}

	resp, err := f.svc.PreviewReport(context.Background(), "2024-02")
	require.NoError(t, err)
	assert.Equal(t, "2024-02", resp.Month)
	assert.Equal(t, presentismo.SourceDB, resp.Source)
	assert.Equal(t, []string{"+5493333333333"}, resp.Destinations)
}

func TestPreviewReport_InvalidMonth(t *testing.T) {
	f := newFixture()

	_, err := f.svc.PreviewReport(context.Background(), "marzo")
	assert.Error(t, err)
}

func TestSendReport_QueuesFailures(t *testing.T) {
	f := newFixture("+5491111111111", "+5492222222222")
	f.sender.Fail["+5492222222222"] = errors.New("provider down")

	resp, err := f.svc.SendReport(context.Background(), "2024-03")
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Destinations)
	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, 1, resp.Errors)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "msg-1", resp.Results[0].MessageID)
	assert.True(t, resp.Results[1].Queued)
	assert.Equal(t, "provider down", resp.Results[1].Error)

	require.Len(t, f.outbox.Messages, 1)
	assert.Equal(t, "+5492222222222", f.outbox.Messages[0].Recipient)
	assert.Equal(t, "presentismo:2024-03", f.outbox.Messages[0].Reference)
}

func TestSendReport_NoRecipients(t *testing.T) {
	f := newFixture()

	_, err := f.svc.SendReport(context.Background(), "")
	assert.ErrorIs(t, err, presentismo.ErrNoRecipients)
	assert.NoError(t, f.svc.SendMonthlyReport(context.Background()))
	assert.Empty(t, f.sender.Sent)
}

func TestRenderPDF(t *testing.T) {
	f := newFixture()

	out, name, err := f.svc.RenderPDF(context.Background(), "2024-03")
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Equal(t, "presentismo-2024-03.pdf", name)
}

func TestRecipientsCRUD(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.CreateRecipient(ctx, presentismo.CreateRecipientRequest{Name: "Sin teléfono", Phone: "  "})
	assert.Error(t, err)

	created, err := f.svc.CreateRecipient(ctx, presentismo.CreateRecipientRequest{Name: " RRHH ", Phone: " 1155550000 "})
	require.NoError(t, err)
	assert.Equal(t, "RRHH", created.Name)
	assert.Equal(t, "1155550000", created.Phone)
	assert.True(t, created.Active)

	inactive := false
	updated, err := f.svc.UpdateRecipient(ctx, presentismo.UpdateRecipientRequest{ID: created.ID, Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	qr, err := f.svc.RecipientQR(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, qr)

	list, err := f.svc.ListRecipients(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, f.svc.DeleteRecipient(ctx, created.ID))
	assert.ErrorIs(t, f.svc.DeleteRecipient(ctx, created.ID), presentismo.ErrRecipientNotFound)
}
