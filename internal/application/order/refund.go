package order

import (
	"context"

	"github.com/Zhima-Mochi/tshirt-agent/internal/application"
	domain "github.com/Zhima-Mochi/tshirt-agent/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/tshirt-agent/internal/domain/outbox"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

type RefundOrderInput struct {
	OrderID string
	Reason  string
}

type RefundOrderResult struct {
	Order  *domain.Order
	Amount int64
}

// RefundOrderUseCase approves every refund request. There is no requester identity and
// no check that the order was ever paid.
type RefundOrderUseCase struct {
	repo      domain.Repository
	publisher domoutbox.Publisher
	tel       observability.Observability
	log       observability.Logger
}

var _ application.UseCase[RefundOrderInput, *RefundOrderResult] = (*RefundOrderUseCase)(nil)

func NewRefundOrderUseCase(repo domain.Repository, publisher domoutbox.Publisher, tel observability.Observability) *RefundOrderUseCase {
	return &RefundOrderUseCase{
		repo:      repo,
		publisher: publisher,
		tel:       tel,
		log:       observability.LoggerOf(tel).With(observability.F("service", orderService)),
	}
}

func (uc *RefundOrderUseCase) Execute(ctx context.Context, cmd RefundOrderInput) (_ *RefundOrderResult, err error) {
	ctx, probe := application.StartProbe(ctx, uc.tel, uc.log, useCaseOrderRefund, "RefundOrder",
		attribute.String("order.id", cmd.OrderID),
	)
	defer func() { probe.End(err) }()
	probe.Add(observability.F("order_id", cmd.OrderID))

	o, err := uc.repo.Get(ctx, cmd.OrderID)
	if err != nil {
		probe.Fail("ORDER_LOOKUP_FAILED")
		return nil, err
	}
	probe.Add(observability.F("previous_status", string(o.Status)))

	o.MarkRefunded(cmd.Reason)
	if err := uc.repo.Update(ctx, o); err != nil {
		probe.Fail("ORDER_UPDATE_FAILED")
		return nil, err
	}

	if pubErr := application.Publish(ctx, uc.publisher, observability.MetricsOf(uc.tel), domain.NewOrderRefundedEvent(o)); pubErr != nil {
		probe.SetStatus("EVENT_PUBLISH_FAILED")
		probe.Add(observability.F("event_publish_error", pubErr.Error()))
	}

	return &RefundOrderResult{Order: o, Amount: o.RefundAmount()}, nil
}
