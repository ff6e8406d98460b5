package events

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	segkafka "github.com/segmentio/kafka-go"
	"github.com/vietcart/ordercore/internal/order/app"
	"github.com/vietcart/ordercore/internal/order/domain"
)

// PaymentConfirmation is the message shape on the payment-confirmations
// topic. Authenticity is established upstream: by the time a message lands
// here it is trusted.
type PaymentConfirmation struct {
	OrderID      string `json:"order_id"`
	PaymentID    string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

// PaymentConsumer reads payment confirmations and drives the pending->paid
// (or pending->failed) transition.
type PaymentConsumer struct {
	reader *segkafka.Reader
	svc    *app.Service
	log    *slog.Logger
}

func NewPaymentConsumer(reader *segkafka.Reader, svc *app.Service, log *slog.Logger) *PaymentConsumer {
	return &PaymentConsumer{reader: reader, svc: svc, log: log}
}

// Run blocks until ctx is cancelled. Redelivered confirmations for an
// already-settled order are dropped as benign: MarkPaid is idempotent at the
// store, so a duplicate never decrements stock again.
func (c *PaymentConsumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		var conf PaymentConfirmation
		if err := json.Unmarshal(msg.Value, &conf); err != nil {
			c.log.Error("malformed payment confirmation", slog.Any("err", err))
			continue
		}
		if conf.OrderID == "" {
			c.log.Error("payment confirmation without order_id")
			continue
		}

		c.apply(ctx, conf)
	}
}

func (c *PaymentConsumer) apply(ctx context.Context, conf PaymentConfirmation) {
	result := domain.PaymentResult{
		ID:         conf.PaymentID,
		Status:     conf.Status,
		UpdateTime: conf.UpdateTime,
		PayerEmail: conf.EmailAddress,
	}

	var err error
	if failedStatus(conf.Status) {
		_, err = c.svc.MarkFailed(ctx, conf.OrderID, result)
	} else {
		_, err = c.svc.MarkPaid(ctx, conf.OrderID, result)
	}

	switch {
	case err == nil:
		c.log.Info("payment confirmation applied",
			slog.String("order_id", conf.OrderID),
			slog.String("status", conf.Status),
		)
	case errors.Is(err, app.ErrAlreadyPaid), errors.Is(err, app.ErrNotPayable):
		c.log.Info("duplicate payment confirmation dropped",
			slog.String("order_id", conf.OrderID),
		)
	case errors.Is(err, app.ErrReconcileStock):
		c.log.Error("payment confirmation left stock inconsistent, manual reconciliation required",
			slog.String("order_id", conf.OrderID),
			slog.Any("err", err),
		)
	default:
		c.log.Error("payment confirmation failed",
			slog.String("order_id", conf.OrderID),
			slog.Any("err", err),
		)
	}
}

func failedStatus(status string) bool {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "failed", "denied", "voided":
		return true
	}
	return false
}
