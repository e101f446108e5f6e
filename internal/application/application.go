package application

import (
	"context"
	"time"

	domoutbox "github.com/Zhima-Mochi/tshirt-agent/internal/domain/outbox"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"
)

type UseCase[C any, R any] interface {
	Execute(ctx context.Context, cmd C) (R, error)
}

const (
	SpanPrefix     = "UC."
	PublishPeer    = "outbox"
	PublishTimeout = 300 * time.Millisecond
)

// Publish sends e best-effort and records it as an external call. A nil publisher is a no-op.
func Publish(ctx context.Context, pub domoutbox.Publisher, metrics observability.Metrics, e domoutbox.Event) error {
	if pub == nil || e == nil {
		return nil
	}
	pubCtx, cancel := context.WithTimeout(ctx, PublishTimeout)
	defer cancel()

	start := time.Now()
	err := pub.Publish(pubCtx, e)
	outcome := "success"
	if err != nil {
		outcome = "error"
	} else if pubCtx.Err() != nil {
		outcome = "canceled"
		err = pubCtx.Err()
	}
	ObserveExternal(metrics, PublishPeer, e.EventName(), outcome, start)
	return err
}

// ObserveExternal records external_requests_total and external_request_duration_seconds.
func ObserveExternal(metrics observability.Metrics, peer, endpoint, outcome string, start time.Time) {
	if metrics == nil {
		return
	}
	metrics.Counter(observability.MExternalRequests).Add(1,
		observability.L("peer", peer),
		observability.L("endpoint", endpoint),
		observability.L("outcome", outcome),
	)
	metrics.Histogram(observability.MExternalRequestDuration).Observe(time.Since(start).Seconds(),
		observability.L("peer", peer),
		observability.L("endpoint", endpoint),
	)
}
