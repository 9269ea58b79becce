package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// ClusterHealth is the coarse color reported to load balancers and dashboards.
type ClusterHealth string

const (
	Green  ClusterHealth = "green"
	Yellow ClusterHealth = "yellow"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results and cluster-wide totals.
type Report struct {
	Status         Status
	Checks         map[string]CheckResult
	ClusterHealth  ClusterHealth
	TotalIndexes   int
	TotalDocuments int64
	AvgQueryTimeMs float64
	Uptime         time.Duration
}

// Service coordinates health checks.
type Service struct {
	store   TotalsReader
	cache   CachePinger
	started time.Time
	now     func() time.Time
}

// New creates a Service. cache can be nil when no shared cache is configured.
func New(store TotalsReader, cache CachePinger) *Service {
	return &Service{store: store, cache: cache, started: time.Now(), now: time.Now}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)
	r := Report{Checks: checks, Uptime: s.now().Sub(s.started)}

	totals, err := s.store.Totals(ctx)
	if err != nil {
		checks["store"] = CheckError
	} else {
		checks["store"] = CheckOK
		r.TotalIndexes = totals.Indexes
		r.TotalDocuments = totals.Documents
		r.AvgQueryTimeMs = totals.AvgQueryTimeMs()
	}

	if s.cache != nil {
		if err := s.cache.Ping(ctx); err != nil {
			checks["cache"] = CheckError
		} else {
			checks["cache"] = CheckOK
		}
	}

	r.Status = Healthy
	r.ClusterHealth = Green
	for _, v := range checks {
		if v == CheckError {
			r.Status = Degraded
			r.ClusterHealth = Yellow
			break
		}
	}
	return r
}
