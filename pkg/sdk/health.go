package searchkit

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/searchkit/internal/usecase/health"
)

// HealthStatus represents the aggregated engine health.
type HealthStatus struct {
	Status         string            // "ok", "degraded"
	ClusterHealth  string            // "green", "yellow"
	Checks         map[string]string // component → "ok"/"error"
	TotalIndexes   int
	TotalDocuments int64
	AvgQueryTimeMs float64
	Uptime         time.Duration
}

// Health checks the engine and, when configured, the shared cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:         string(report.Status),
		ClusterHealth:  string(report.ClusterHealth),
		Checks:         checks,
		TotalIndexes:   report.TotalIndexes,
		TotalDocuments: report.TotalDocuments,
		AvgQueryTimeMs: report.AvgQueryTimeMs,
		Uptime:         report.Uptime,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
