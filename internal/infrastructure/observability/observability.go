package observability

import (
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/observability/prometrics"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"
)

type provider struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics observability.Metrics
}

// instruments resolves metric keys to registered collectors. Unknown keys
// resolve to no-op instruments so a missing registration never panics a request.
type instruments struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func (m instruments) Counter(name observability.MetricKey) observability.Counter {
	if c, ok := m.counters[name]; ok {
		return c
	}
	return observability.NopCounter()
}

func (m instruments) Histogram(name observability.MetricKey) observability.Histogram {
	if h, ok := m.histograms[name]; ok {
		return h
	}
	return observability.NopHistogram()
}

// NewMetrics registers every known metric on reg. A nil reg yields no-op metrics.
func NewMetrics(reg prometrics.Registry) observability.Metrics {
	if reg == nil {
		return observability.NopMetrics()
	}
	counters, histograms := prometrics.RegisterAll(reg)
	return instruments{counters: counters, histograms: histograms}
}

// New assembles the process-wide observability bundle. Nil parts fall back to no-ops.
func New(tracer observability.Tracer, logger observability.Logger, metrics observability.Metrics) observability.Observability {
	if tracer == nil {
		tracer = observability.NopTracer()
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	if metrics == nil {
		metrics = observability.NopMetrics()
	}
	return &provider{tracer: tracer, logger: logger, metrics: metrics}
}

func (p *provider) Tracer() observability.Tracer { return p.tracer }

func (p *provider) Logger() observability.Logger { return p.logger }

func (p *provider) Metrics() observability.Metrics { return p.metrics }
