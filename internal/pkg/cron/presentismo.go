package cron

import (
	"context"
	"log/slog"

	"github.com/sj-empleados/empleados-backend-go/internal/config"
	"github.com/sj-empleados/empleados-backend-go/internal/domain/presentismo"
)

// PresentismoJobs sends the monthly lost-presentismo report.
type PresentismoJobs struct {
	presentismoService presentismo.PresentismoService
	cfg                config.PresentismoConfig
}

func NewPresentismoJobs(presentismoService presentismo.PresentismoService, cfg config.PresentismoConfig) *PresentismoJobs {
	return &PresentismoJobs{
		presentismoService: presentismoService,
		cfg:                cfg,
	}
}

// RegisterJobs registers the monthly report unless it is disabled.
func (j *PresentismoJobs) RegisterJobs(scheduler *Scheduler) error {
	if !j.cfg.ReportEnabled {
		slog.Info("Cron: presentismo report disabled")
		return nil
	}
	return scheduler.AddJob("presentismo_report", j.cfg.ReportCron, j.SendMonthlyReport)
}

func (j *PresentismoJobs) SendMonthlyReport(ctx context.Context) error {
	return j.presentismoService.SendMonthlyReport(ctx)
}
