package http

import (
	"net/http"

	"github.com/sj-empleados/empleados-backend-go/internal/domain/dashboard"
	"github.com/sj-empleados/empleados-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	Metrics(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{
		dashboardService: dashboardService,
	}
}

// Metrics implements DashboardHandler.
func (h *dashboardHandlerImpl) Metrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.GetMetrics(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, metrics)
}
