package dashboard

import (
	"context"
	"time"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/attendance"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/dashboard"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/disciplinary"
	"github.com/sj-empleados/empleados-backend-go/internal/pkg/utils"
	"golang.org/x/sync/errgroup"
)

type DashboardServiceImpl struct {
	dashboard.DashboardRepository
	loc *time.Location
	now func() time.Time
}

func NewDashboardService(repo dashboard.DashboardRepository, loc *time.Location) dashboard.DashboardService {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardServiceImpl{
		DashboardRepository: repo,
		loc:                 loc,
		now:                 time.Now,
	}
}

// GetMetrics implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetMetrics(ctx context.Context) (dashboard.MetricsResponse, error) {
	today := utils.Today(s.now(), s.loc)
	from, to := utils.MonthRange(today)

	var m dashboard.MetricsResponse
	m.Month = utils.FormatMonth(today)

	monthly := func(f dashboard.AttendanceCount) dashboard.AttendanceCount {
		f.From, f.To = &from, &to
		return f
	}
	typed := func(t attendance.Type) *string {
		v := string(t)
		return &v
	}
	yes, no := true, false

	g, gCtx := errgroup.WithContext(ctx)

	count := func(dst *int64, fn func(ctx context.Context) (int64, error)) {
		g.Go(func() error {
			n, err := fn(gCtx)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	attendances := func(dst *int64, f dashboard.AttendanceCount) {
		count(dst, func(ctx context.Context) (int64, error) {
			return s.DashboardRepository.CountAttendances(ctx, f)
		})
	}

	count(&m.EmpleadosActivos, s.DashboardRepository.CountActiveEmployees)
	attendances(&m.InasistenciasMes, monthly(dashboard.AttendanceCount{}))
	attendances(&m.Justificadas, monthly(dashboard.AttendanceCount{Type: typed(attendance.TypeInasistencia), Justified: &yes}))
	attendances(&m.Injustificadas, monthly(dashboard.AttendanceCount{Type: typed(attendance.TypeInasistencia), Justified: &no}))
	attendances(&m.LicenciasMedicas, monthly(dashboard.AttendanceCount{Type: typed(attendance.TypeLicenciaMedica)}))
	attendances(&m.Vacaciones, monthly(dashboard.AttendanceCount{Type: typed(attendance.TypeVacaciones)}))
	attendances(&m.Sanciones, monthly(dashboard.AttendanceCount{Type: typed(attendance.TypeSancionRecibida)}))
	attendances(&m.SinPresentismo, monthly(dashboard.AttendanceCount{LostPresentismo: &yes}))
	attendances(&m.TotalHistorico, dashboard.AttendanceCount{})

	count(&m.Apercibimientos, func(ctx context.Context) (int64, error) {
		return s.DashboardRepository.CountDisciplinaries(ctx, from, to, []string{
			string(disciplinary.TypeVerbal),
			string(disciplinary.TypeFormal),
		})
	})
	count(&m.SancionesActivas, func(ctx context.Context) (int64, error) {
		return s.DashboardRepository.CountActiveSuspensions(ctx, today)
	})
	count(&m.RecibosPendientes, s.DashboardRepository.CountUnsignedReceipts)

	if err := g.Wait(); err != nil {
		return dashboard.MetricsResponse{}, err
	}
	return m, nil
}
