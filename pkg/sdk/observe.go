package searchkit

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kailas-cloud/searchkit/internal/domain"
)

// Outcome labels of the operations counter.
const (
	outcomeOK        = "ok"
	outcomeNotFound  = "not_found"
	outcomeConflict  = "conflict"
	outcomeQuota     = "quota_exceeded"
	outcomeInvalid   = "invalid"
	outcomeInternal  = "error"
	metricsNamespace = "searchkit"
	metricsSubsystem = "sdk"
)

// scope names the tenant and index an operation ran against. Either may be
// empty (client-wide calls, tenant-wide listings).
type scope struct {
	tenant string
	index  string
}

func (sc scope) attrs() []any {
	var attrs []any
	if sc.tenant != "" {
		attrs = append(attrs, slog.String("tenant", sc.tenant))
	}
	if sc.index != "" {
		attrs = append(attrs, slog.String("index", sc.index))
	}
	return attrs
}

// outcome maps an operation error to a bounded label value.
func outcome(err error) string {
	switch {
	case err == nil:
		return outcomeOK
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrDocumentNotFound):
		return outcomeNotFound
	case errors.Is(err, domain.ErrAlreadyExists):
		return outcomeConflict
	case errors.Is(err, domain.ErrQuotaExceeded):
		return outcomeQuota
	case errors.Is(err, domain.ErrInvalidSchema):
		return outcomeInvalid
	default:
		return outcomeInternal
	}
}

// opMetrics counts SDK operations. Tenants and indexes never become labels.
type opMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

func newOpMetrics(reg prometheus.Registerer) (*opMetrics, error) {
	ops, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "operations_total",
		Help:      "Embedded client operations by name and outcome.",
	}, []string{"operation", "outcome"}))
	if err != nil {
		return nil, err
	}
	dur, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: metricsNamespace,
		Subsystem: metricsSubsystem,
		Name:      "operation_duration_seconds",
		Help:      "Embedded client operation latency.",
		Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1},
	}, []string{"operation"}))
	if err != nil {
		return nil, err
	}
	return &opMetrics{operations: ops, duration: dur}, nil
}

// Several clients may share one registerer; the first registration wins.
func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec) (*prometheus.CounterVec, error) {
	existing, err := register(reg, c)
	if err != nil || existing == nil {
		return c, err
	}
	prev, ok := existing.(*prometheus.CounterVec)
	if !ok {
		return nil, fmt.Errorf("searchkit: operations counter registered as %T", existing)
	}
	return prev, nil
}

func registerHistogramVec(reg prometheus.Registerer, h *prometheus.HistogramVec) (*prometheus.HistogramVec, error) {
	existing, err := register(reg, h)
	if err != nil || existing == nil {
		return h, err
	}
	prev, ok := existing.(*prometheus.HistogramVec)
	if !ok {
		return nil, fmt.Errorf("searchkit: duration histogram registered as %T", existing)
	}
	return prev, nil
}

// register returns the already registered collector, if any.
func register(reg prometheus.Registerer, c prometheus.Collector) (prometheus.Collector, error) {
	err := reg.Register(c)
	if err == nil {
		return nil, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		return are.ExistingCollector, nil
	}
	return nil, fmt.Errorf("searchkit: register metric: %w", err)
}

// observer logs and counts embedded client operations.
type observer struct {
	logger  *slog.Logger
	metrics *opMetrics
}

func newObserver(logger *slog.Logger, reg prometheus.Registerer) (*observer, error) {
	o := &observer{logger: logger}
	if reg != nil {
		m, err := newOpMetrics(reg)
		if err != nil {
			return nil, err
		}
		o.metrics = m
	}
	return o, nil
}

func (o *observer) observe(op string, sc scope, start time.Time, err error) {
	if o == nil {
		return
	}
	took := time.Since(start)
	res := outcome(err)

	if o.metrics != nil {
		o.metrics.operations.WithLabelValues(op, res).Inc()
		o.metrics.duration.WithLabelValues(op).Observe(took.Seconds())
	}
	if o.logger == nil {
		return
	}

	attrs := append([]any{slog.String("op", op), slog.Duration("took", took)}, sc.attrs()...)
	if err != nil {
		attrs = append(attrs, slog.String("outcome", res), slog.Any("error", err))
		o.logger.Warn("operation failed", attrs...)
		return
	}
	o.logger.Debug("operation completed", attrs...)
}
