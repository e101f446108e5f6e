package order

import "time"

// DesignCreatedEvent is emitted when a design has been generated and its order stored.
type DesignCreatedEvent struct {
	OrderID       string    `json:"order_id"`
	DesignURL     string    `json:"design_url"`
	Price         int64     `json:"price_cents"`
	CustomerEmail string    `json:"customer_email,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (DesignCreatedEvent) EventName() string { return "design.created" }

func NewDesignCreatedEvent(o *Order) DesignCreatedEvent {
	return DesignCreatedEvent{
		OrderID:       o.ID,
		DesignURL:     o.DesignURL,
		Price:         o.Price,
		CustomerEmail: o.CustomerEmail,
		OccurredAt:    time.Now().UTC(),
	}
}

// OrderPaidEvent is emitted after every successful charge, including repeated ones.
type OrderPaidEvent struct {
	OrderID    string    `json:"order_id"`
	ChargeID   string    `json:"charge_id"`
	Amount     int64     `json:"amount_cents"`
	Price      int64     `json:"price_cents"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (OrderPaidEvent) EventName() string { return "order.paid" }

func NewOrderPaidEvent(o *Order) OrderPaidEvent {
	return OrderPaidEvent{
		OrderID:    o.ID,
		ChargeID:   o.PaymentID,
		Amount:     o.PaymentAmount,
		Price:      o.Price,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderRefundedEvent is emitted when an order is marked refunded.
type OrderRefundedEvent struct {
	OrderID    string    `json:"order_id"`
	Amount     int64     `json:"amount_cents"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

func (OrderRefundedEvent) EventName() string { return "order.refunded" }

func NewOrderRefundedEvent(o *Order) OrderRefundedEvent {
	return OrderRefundedEvent{
		OrderID:    o.ID,
		Amount:     o.RefundAmount(),
		Reason:     o.RefundReason,
		OccurredAt: time.Now().UTC(),
	}
}
