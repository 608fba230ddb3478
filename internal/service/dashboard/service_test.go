package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDashboardRepo struct {
	mu       sync.Mutex
	counts   []dashboard.AttendanceCount
	discFrom time.Time
	discTo   time.Time
	discType []string
	today    time.Time
	err      error
}

func (r *fakeDashboardRepo) CountActiveEmployees(ctx context.Context) (int64, error) {
	return 12, r.err
}

// CountAttendances encodes the filter into the result so the test can tell the counters apart.
func (r *fakeDashboardRepo) CountAttendances(ctx context.Context, f dashboard.AttendanceCount) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts = append(r.counts, f)
	var n int64 = 1
	if f.From != nil {
		n += 10
	}
	if f.Type != nil {
		n += int64(len(*f.Type)) * 100
	}
	if f.Justified != nil && *f.Justified {
		n += 5
	}
	if f.LostPresentismo != nil {
		n += 7
	}
	return n, nil
}

func (r *fakeDashboardRepo) CountDisciplinaries(ctx context.Context, from, to time.Time, types []string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.discFrom, r.discTo, r.discType = from, to, types
	return 3, nil
}

func (r *fakeDashboardRepo) CountActiveSuspensions(ctx context.Context, today time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.today = today
	return 2, nil
}

func (r *fakeDashboardRepo) CountUnsignedReceipts(ctx context.Context) (int64, error) {
	return 4, nil
}

func newTestService(repo *fakeDashboardRepo) *DashboardServiceImpl {
	svc := NewDashboardService(repo, time.UTC).(*DashboardServiceImpl)
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC) }
	return svc
}

func TestGetMetrics(t *testing.T) {
	repo := &fakeDashboardRepo{}
	m, err := newTestService(repo).GetMetrics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-03", m.Month)
	assert.Equal(t, int64(12), m.EmpleadosActivos)
	assert.Equal(t, int64(11), m.InasistenciasMes)
	assert.Equal(t, int64(1), m.TotalHistorico)
	assert.Equal(t, int64(1216), m.Justificadas)
	assert.Equal(t, int64(1211), m.Injustificadas)
	assert.Equal(t, int64(18), m.SinPresentismo)
	assert.Equal(t, int64(3), m.Apercibimientos)
	assert.Equal(t, int64(2), m.SancionesActivas)
	assert.Equal(t, int64(4), m.RecibosPendientes)
	assert.Len(t, repo.counts, 8)

	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), repo.discFrom)
	assert.Equal(t, time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), repo.discTo)
	assert.ElementsMatch(t, []string{"verbal", "formal"}, repo.discType)
	assert.Equal(t, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), repo.today)
}

func TestGetMetrics_PropagatesError(t *testing.T) {
	repo := &fakeDashboardRepo{err: errors.New("db down")}
	_, err := newTestService(repo).GetMetrics(context.Background())
	assert.EqualError(t, err, "db down")
}
