package order

import (
	"context"

	"github.com/Zhima-Mochi/tshirt-agent/internal/application"
	domain "github.com/Zhima-Mochi/tshirt-agent/internal/domain/order"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	orderService       = "order-service"
	useCaseOrderGet    = "order.get"
	useCaseOrderList   = "order.list"
	useCaseOrderRefund = "order.refund"
)

// GetOrderUseCase returns the full record of any order to any caller.
type GetOrderUseCase struct {
	repo domain.Repository
	tel  observability.Observability
	log  observability.Logger
}

var _ application.UseCase[string, *domain.Order] = (*GetOrderUseCase)(nil)

func NewGetOrderUseCase(repo domain.Repository, tel observability.Observability) *GetOrderUseCase {
	return &GetOrderUseCase{
		repo: repo,
		tel:  tel,
		log:  observability.LoggerOf(tel).With(observability.F("service", orderService)),
	}
}

func (uc *GetOrderUseCase) Execute(ctx context.Context, orderID string) (_ *domain.Order, err error) {
	ctx, probe := application.StartProbe(ctx, uc.tel, uc.log, useCaseOrderGet, "GetOrder",
		attribute.String("order.id", orderID),
	)
	defer func() { probe.End(err) }()
	probe.Add(observability.F("order_id", orderID))

	o, err := uc.repo.Get(ctx, orderID)
	if err != nil {
		probe.Fail("ORDER_LOOKUP_FAILED")
		return nil, err
	}
	return o, nil
}

// ListOrdersUseCase returns every order in the store, customer and payment fields included.
type ListOrdersUseCase struct {
	repo domain.Repository
	tel  observability.Observability
	log  observability.Logger
}

var _ application.UseCase[struct{}, []*domain.Order] = (*ListOrdersUseCase)(nil)

func NewListOrdersUseCase(repo domain.Repository, tel observability.Observability) *ListOrdersUseCase {
	return &ListOrdersUseCase{
		repo: repo,
		tel:  tel,
		log:  observability.LoggerOf(tel).With(observability.F("service", orderService)),
	}
}

func (uc *ListOrdersUseCase) Execute(ctx context.Context, _ struct{}) (_ []*domain.Order, err error) {
	ctx, probe := application.StartProbe(ctx, uc.tel, uc.log, useCaseOrderList, "ListOrders")
	defer func() { probe.End(err) }()

	orders, err := uc.repo.List(ctx)
	if err != nil {
		probe.Fail("ORDER_LIST_FAILED")
		return nil, err
	}
	probe.Add(observability.F("total_orders", len(orders)))
	probe.Span().SetAttributes(attribute.Int("order.count", len(orders)))
	return orders, nil
}
