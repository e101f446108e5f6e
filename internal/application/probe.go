package application

import (
	"context"
	"time"

	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability/logctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Probe carries the span, RED metrics and logger of one use case execution.
// Every execution ends with a single use_case_done log line.
type Probe struct {
	useCase string
	ctx     context.Context
	log     observability.Logger
	span    trace.Span
	start   time.Time

	outcome string
	status  string
	fields  []observability.Field

	reqCounter observability.Counter   // usecase_requests_total{use_case,outcome}
	durHist    observability.Histogram // usecase_duration_seconds{use_case}
}

// StartProbe opens the use case span and binds a request-scoped logger to the returned context.
func StartProbe(ctx context.Context, obs observability.Observability, base observability.Logger, useCase, spanName string, attrs ...attribute.KeyValue) (context.Context, *Probe) {
	metrics := observability.MetricsOf(obs)

	attrs = append([]attribute.KeyValue{attribute.String("use_case", useCase)}, attrs...)
	ctx, span := observability.TracerOf(obs).Start(ctx, SpanPrefix+spanName, attrs...)

	ctx, logger := logctx.Enrich(ctx, base, observability.F("use_case", useCase))

	return ctx, &Probe{
		useCase:    useCase,
		ctx:        ctx,
		log:        logger,
		span:       span,
		start:      time.Now(),
		outcome:    "success",
		status:     "OK",
		reqCounter: metrics.Counter(observability.MUsecaseRequests),
		durHist:    metrics.Histogram(observability.MUsecaseDuration),
	}
}

func (p *Probe) Logger() observability.Logger { return p.log }

func (p *Probe) Span() trace.Span { return p.span }

// Fail marks the execution as an error with a machine-readable status.
func (p *Probe) Fail(status string) {
	p.outcome, p.status = "error", status
}

// SetStatus changes the status text without changing the outcome.
func (p *Probe) SetStatus(status string) {
	p.status = status
}

// Add appends fields to the final use_case_done line.
func (p *Probe) Add(fields ...observability.Field) {
	p.fields = append(p.fields, fields...)
}

// End closes the span, records metrics and writes the use_case_done line.
func (p *Probe) End(err error) {
	lat := time.Since(p.start).Seconds()

	if p.span != nil {
		if err != nil {
			p.span.RecordError(err)
			p.span.SetStatus(codes.Error, p.status)
		} else {
			p.span.SetStatus(codes.Ok, p.status)
		}
		p.span.End()
	}

	if p.reqCounter != nil {
		p.reqCounter.Add(1,
			observability.L("use_case", p.useCase),
			observability.L("outcome", p.outcome),
		)
	}
	if p.durHist != nil {
		p.durHist.Observe(lat, observability.L("use_case", p.useCase))
	}

	fields := []observability.Field{
		observability.F("outcome", p.outcome),
		observability.F("status", p.status),
		observability.F("latency_seconds", lat),
	}
	if sc := trace.SpanContextFromContext(p.ctx); sc.IsValid() {
		fields = append(fields,
			observability.F("trace_id", sc.TraceID().String()),
			observability.F("span_id", sc.SpanID().String()),
		)
	}
	fields = append(fields, p.fields...)
	if err != nil {
		fields = append(fields, observability.F("error", err.Error()))
	}
	p.log.Info("use_case_done", fields...)
}
