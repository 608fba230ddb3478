package dashboard

import "context"

type DashboardService interface {
	// GetMetrics runs every count concurrently.
	GetMetrics(ctx context.Context) (MetricsResponse, error)
}
