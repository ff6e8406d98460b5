package events

import (
	"context"
	"log/slog"
	"time"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/vietcart/ordercore/internal/order/domain"
	"github.com/vietcart/ordercore/pkg/kafka"
)

// OrderEvent is the envelope published to the order-events topic after a
// lifecycle transition has been persisted. Downstream consumers (email
// notifications, analytics) key off Event.
type OrderEvent struct {
	Event       string    `json:"event"`
	OrderID     string    `json:"order_id"`
	TotalAmount int64     `json:"total_amount"`
	Currency    string    `json:"currency"`
	At          time.Time `json:"at"`
}

// Publisher emits lifecycle events to kafka. Publishing is best-effort: a
// broker failure is logged, never surfaced to the transition that caused it.
type Publisher struct {
	writer *segkafka.Writer
	log    *slog.Logger
}

func NewPublisher(writer *segkafka.Writer, log *slog.Logger) *Publisher {
	return &Publisher{writer: writer, log: log}
}

func (p *Publisher) OrderCreated(ctx context.Context, order domain.Order) {
	p.publish(ctx, "order.created", order)
}

func (p *Publisher) OrderPaid(ctx context.Context, order domain.Order) {
	p.publish(ctx, "order.paid", order)
}

func (p *Publisher) OrderFailed(ctx context.Context, order domain.Order) {
	p.publish(ctx, "order.payment_failed", order)
}

func (p *Publisher) OrderDelivered(ctx context.Context, order domain.Order) {
	p.publish(ctx, "order.delivered", order)
}

func (p *Publisher) publish(ctx context.Context, event string, order domain.Order) {
	payload := OrderEvent{
		Event:       event,
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		Currency:    order.Currency,
		At:          time.Now().UTC(),
	}
	if err := kafka.PublishJSON(ctx, p.writer, order.ID, payload); err != nil {
		p.log.Error("order event publish failed",
			slog.String("event", event),
			slog.String("order_id", order.ID),
			slog.Any("err", err),
		)
	}
}
