package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domoutbox "github.com/Zhima-Mochi/tshirt-agent/internal/domain/outbox"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability"
	"github.com/Zhima-Mochi/tshirt-agent/internal/observability/logctx"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	DefaultExchange = "tshirt_orders"
	exchangeType    = "topic"
	dialAttempts    = 5
	dialBackoff     = 2 * time.Second
)

// Connect dials the broker and declares the topic exchange events are relayed to.
func Connect(url, exchange string) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		time.Sleep(dialBackoff)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("rabbitmq: connect: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,     // name
		exchangeType, // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, nil, fmt.Errorf("rabbitmq: declare exchange: %w", err)
	}

	return conn, ch, nil
}

// Channel is the part of *amqp.Channel the relay needs.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Relay forwards bus events to a topic exchange, using the event name as routing key.
type Relay struct {
	ch       Channel
	exchange string
	log      observability.Logger
}

func NewRelay(ch Channel, exchange string, logger observability.Logger) *Relay {
	if exchange == "" {
		exchange = DefaultExchange
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Relay{
		ch:       ch,
		exchange: exchange,
		log:      logger.With(observability.F("component", "rabbitmq_relay")),
	}
}

// Attach subscribes the relay to each named event on sub.
func (r *Relay) Attach(sub domoutbox.Subscriber, eventNames ...string) {
	for _, name := range eventNames {
		sub.Subscribe(name, r.Handle)
	}
}

func (r *Relay) Handle(ctx context.Context, e domoutbox.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("rabbitmq: marshal %s: %w", e.EventName(), err)
	}

	err = r.ch.PublishWithContext(ctx,
		r.exchange,    // exchange
		e.EventName(), // routing key
		false,         // mandatory
		false,         // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Timestamp:   time.Now().UTC(),
			Type:        e.EventName(),
			Body:        body,
		},
	)
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", e.EventName(), err)
	}

	logctx.FromOr(ctx, r.log).Debug("event_relayed",
		observability.F("exchange", r.exchange),
		observability.F("routing_key", e.EventName()),
	)
	return nil
}
