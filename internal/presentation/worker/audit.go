package workerpresentation

import (
	"context"

	domorder "github.com/Zhima-Mochi/tshirt-agent/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/tshirt-agent/internal/domain/outbox"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability/logctx"
)

const componentAudit = "audit_worker"

// OrderEventNames lists every event the order lifecycle publishes.
var OrderEventNames = []string{
	domorder.DesignCreatedEvent{}.EventName(),
	domorder.OrderPaidEvent{}.EventName(),
	domorder.OrderRefundedEvent{}.EventName(),
}

// AuditWorker writes one log line per order event and counts them in order_events_total.
type AuditWorker struct {
	subscriber domoutbox.Subscriber
	tel        observability.Observability
	log        observability.Logger
	events     observability.Counter
	bound      map[string]observability.BoundCounter // event name -> counter series
}

func NewAuditWorker(subscriber domoutbox.Subscriber, tel observability.Observability) *AuditWorker {
	return &AuditWorker{
		subscriber: subscriber,
		tel:        tel,
		log:        observability.LoggerOf(tel).With(observability.F("component", componentAudit)),
		events:     observability.MetricsOf(tel).Counter(observability.MOrderEvents),
	}
}

func (w *AuditWorker) Start() {
	if w.subscriber == nil {
		return
	}
	w.bound = make(map[string]observability.BoundCounter, len(OrderEventNames))
	for _, name := range OrderEventNames {
		w.bound[name] = w.events.Bind(observability.L("event", name))
		w.subscriber.Subscribe(name, w.handle)
	}
}

func (w *AuditWorker) handle(ctx context.Context, e domoutbox.Event) error {
	ctx = WithEventContext(ctx, w.log, w.tel, map[string]string{"event": e.EventName()})
	logger := logctx.FromOr(ctx, w.log)

	if c, ok := w.bound[e.EventName()]; ok {
		c.Add(1)
	} else {
		w.events.Add(1, observability.L("event", e.EventName()))
	}

	switch evt := e.(type) {
	case domorder.DesignCreatedEvent:
		logger.Info("order_event",
			observability.F("order_id", evt.OrderID),
			observability.F("price_cents", evt.Price),
			observability.F("customer_email", evt.CustomerEmail),
		)
	case domorder.OrderPaidEvent:
		fields := []observability.Field{
			observability.F("order_id", evt.OrderID),
			observability.F("charge_id", evt.ChargeID),
			observability.F("amount_cents", evt.Amount),
			observability.F("price_cents", evt.Price),
		}
		if evt.Amount != evt.Price {
			fields = append(fields, observability.F("amount_mismatch", true))
		}
		logger.Info("order_event", fields...)
	case domorder.OrderRefundedEvent:
		logger.Info("order_event",
			observability.F("order_id", evt.OrderID),
			observability.F("amount_cents", evt.Amount),
			observability.F("reason", evt.Reason),
		)
	default:
		logger.Debug("order_event_ignored")
	}
	return nil
}
