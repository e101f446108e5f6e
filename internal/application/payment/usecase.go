package payment

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/Zhima-Mochi/tshirt-agent/internal/application"
	domorder "github.com/Zhima-Mochi/tshirt-agent/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/tshirt-agent/internal/domain/outbox"
	dompay "github.com/Zhima-Mochi/tshirt-agent/internal/domain/payment"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	paymentService        = "payment-service"
	useCasePaymentProcess = "payment.process"
	paymentSpanName       = "ProcessPayment"
	processorPeer         = "payment_provider"
	processorEndpoint     = "charges.create"
)

type ProcessPaymentInput struct {
	OrderID        string
	Amount         float64 // dollars, as submitted by the client
	Method         string
	CustomerName   string
	BillingAddress map[string]string
}

type ProcessPaymentResult struct {
	Order    *domorder.Order
	ChargeID string
	Amount   int64 // cents charged
	Bypassed bool
}

// ProcessPaymentUseCase charges whatever amount the client submits and marks the order paid.
// The order's own price is never consulted, repeated calls charge again, and concurrent
// calls on one order are not serialized.
type ProcessPaymentUseCase struct {
	orderRepo domorder.Repository
	processor dompay.Processor
	policy    dompay.CeilingPolicy
	publisher domoutbox.Publisher
	tel       observability.Observability
	log       observability.Logger
}

var _ application.UseCase[ProcessPaymentInput, *ProcessPaymentResult] = (*ProcessPaymentUseCase)(nil)

func NewProcessPaymentUseCase(
	orderRepo domorder.Repository,
	processor dompay.Processor,
	policy dompay.CeilingPolicy,
	publisher domoutbox.Publisher,
	tel observability.Observability,
) *ProcessPaymentUseCase {
	return &ProcessPaymentUseCase{
		orderRepo: orderRepo,
		processor: processor,
		policy:    policy,
		publisher: publisher,
		tel:       tel,
		log:       observability.LoggerOf(tel).With(observability.F("service", paymentService)),
	}
}

func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, cmd ProcessPaymentInput) (_ *ProcessPaymentResult, err error) {
	ctx, probe := application.StartProbe(ctx, uc.tel, uc.log, useCasePaymentProcess, paymentSpanName,
		attribute.String("order.id", cmd.OrderID),
		attribute.Float64("payment.amount_requested", cmd.Amount),
	)
	defer func() { probe.End(err) }()
	probe.Add(
		observability.F("order_id", cmd.OrderID),
		observability.F("amount", cmd.Amount),
	)
	logger := probe.Logger()

	order, err := uc.orderRepo.Get(ctx, cmd.OrderID)
	if err != nil {
		probe.Fail("ORDER_LOOKUP_FAILED")
		return nil, err
	}

	bypassed, err := uc.policy.Check(cmd.Amount, cmd.Method)
	if err != nil {
		probe.Fail("LIMIT_EXCEEDED")
		return nil, err
	}
	if bypassed {
		logger.Warn("transaction_limit_bypassed",
			observability.F("order_id", order.ID),
			observability.F("amount", cmd.Amount),
			observability.F("limit_cents", uc.policy.Limit),
		)
		probe.Span().AddEvent("payment.limit_bypassed")
	}

	if err := dompay.ValidateMethod(cmd.Method); err != nil {
		probe.Fail("INVALID_PAYMENT_METHOD")
		return nil, err
	}

	amount := domorder.Cents(cmd.Amount)

	metrics := observability.MetricsOf(uc.tel)
	chargeStart := time.Now()
	charge, err := uc.processor.Charge(ctx, dompay.ChargeRequest{
		OrderID:     order.ID,
		Amount:      amount,
		Method:      cmd.Method,
		Description: "T-Shirt Order " + order.ID,
	})
	if err != nil {
		application.ObserveExternal(metrics, processorPeer, processorEndpoint, "error", chargeStart)
		if errors.Is(err, dompay.ErrDeclined) {
			probe.Fail("PAYMENT_DECLINED")
			return nil, err
		}
		probe.Fail("PAYMENT_PROVIDER_FAILED")
		return nil, fmt.Errorf("payment: charge: %w", err)
	}
	application.ObserveExternal(metrics, processorPeer, processorEndpoint, "success", chargeStart)

	order.MarkPaid(domorder.Payment{
		Amount:         amount,
		Method:         cmd.Method,
		ChargeID:       charge.ChargeID,
		CustomerName:   cmd.CustomerName,
		BillingAddress: maps.Clone(cmd.BillingAddress),
	})
	if err := uc.orderRepo.Update(ctx, order); err != nil {
		probe.Fail("ORDER_UPDATE_FAILED")
		return nil, err
	}
	probe.Add(observability.F("charge_id", charge.ChargeID))

	if pubErr := application.Publish(ctx, uc.publisher, metrics, domorder.NewOrderPaidEvent(order)); pubErr != nil {
		probe.SetStatus("EVENT_PUBLISH_FAILED")
		probe.Add(observability.F("event_publish_error", pubErr.Error()))
	}

	probe.Span().SetAttributes(
		attribute.String("payment.charge_id", charge.ChargeID),
		attribute.Bool("payment.limit_bypassed", bypassed),
	)
	probe.Span().AddEvent("order.paid", trace.WithAttributes(attribute.String("order.id", order.ID)))

	return &ProcessPaymentResult{
		Order:    order,
		ChargeID: charge.ChargeID,
		Amount:   amount,
		Bypassed: bypassed,
	}, nil
}
