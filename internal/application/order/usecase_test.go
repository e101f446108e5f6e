package order

import (
	"context"
	"testing"

	domain "github.com/Zhima-Mochi/tshirt-agent/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/tshirt-agent/internal/domain/outbox"
	"github.com/Zhima-Mochi/tshirt-agent/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturePublisher struct{ events []domoutbox.Event }

func (p *capturePublisher) Publish(_ context.Context, e domoutbox.Event) error {
	p.events = append(p.events, e)
	return nil
}

func seed(t *testing.T, ids ...string) *memory.OrderRepository {
	t.Helper()
	repo := memory.NewOrderRepository()
	for _, id := range ids {
		require.NoError(t, repo.Insert(context.Background(), domain.New(id, "a dragon", "", "x@example.com", "https://img", "")))
	}
	return repo
}

func TestGetOrder(t *testing.T) {
	uc := NewGetOrderUseCase(seed(t, "order-1"), nil)

	o, err := uc.Execute(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, "order-1", o.ID)
	assert.Equal(t, "x@example.com", o.CustomerEmail)

	_, err = uc.Execute(context.Background(), "order-nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrders(t *testing.T) {
	uc := NewListOrdersUseCase(seed(t, "order-1", "order-2", "order-3"), nil)

	orders, err := uc.Execute(context.Background(), struct{}{})
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	empty, err := NewListOrdersUseCase(memory.NewOrderRepository(), nil).Execute(context.Background(), struct{}{})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRefundOrder_UnpaidOrder(t *testing.T) {
	repo := seed(t, "order-1")
	pub := &capturePublisher{}
	uc := NewRefundOrderUseCase(repo, pub, nil)

	res, err := uc.Execute(context.Background(), RefundOrderInput{OrderID: "order-1", Reason: "no reason"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, res.Order.Status)
	assert.Equal(t, domain.PriceCents, res.Amount)

	stored, err := repo.Get(context.Background(), "order-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, stored.Status)
	assert.Equal(t, "no reason", stored.RefundReason)

	require.Len(t, pub.events, 1)
	assert.Equal(t, "order.refunded", pub.events[0].EventName())
}

func TestRefundOrder_PaidOrderRefundsAmountPaid(t *testing.T) {
	repo := seed(t, "order-1")
	o, err := repo.Get(context.Background(), "order-1")
	require.NoError(t, err)
	o.MarkPaid(domain.Payment{Amount: 1, Method: "tok_visa", ChargeID: "ch_1"})
	require.NoError(t, repo.Update(context.Background(), o))

	uc := NewRefundOrderUseCase(repo, nil, nil)
	res, err := uc.Execute(context.Background(), RefundOrderInput{OrderID: "order-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Amount)

	again, err := uc.Execute(context.Background(), RefundOrderInput{OrderID: "order-1", Reason: "twice"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRefunded, again.Order.Status)
}

func TestRefundOrder_NotFound(t *testing.T) {
	_, err := NewRefundOrderUseCase(memory.NewOrderRepository(), nil, nil).Execute(context.Background(), RefundOrderInput{OrderID: "order-x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
