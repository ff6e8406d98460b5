package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

// Client builds readers and writers over a shared broker list. An empty
// broker list means eventing is switched off and callers fall back to
// in-process behavior.
type Client struct {
	brokers []string
}

func NewClient(brokersCSV string) *Client {
	c := &Client{}
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			c.brokers = append(c.brokers, b)
		}
	}
	return c
}

func (c *Client) Enabled() bool {
	return len(c.brokers) > 0
}

// NewWriter returns a writer for low-volume lifecycle events. Messages are
// keyed by order ID, so hash balancing keeps every event of one order on
// one partition and consumers see its transitions in order. The short batch
// timeout trades throughput for latency; order events are sparse.
func (c *Client) NewWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(c.brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		WriteTimeout: 5 * time.Second,
	}
}

// NewReader returns a group reader for payment confirmations. MaxWait is
// kept short so a canceled context is noticed quickly during shutdown, and
// MinBytes stays at 1 because confirmations are tiny and must not sit in
// the broker waiting for a batch to fill.
func (c *Client) NewReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:        c.brokers,
		Topic:          topic,
		GroupID:        groupID,
		MinBytes:       1,
		MaxBytes:       1e6,
		MaxWait:        time.Second,
		CommitInterval: time.Second,
	})
}

func PublishJSON(ctx context.Context, writer *kafka.Writer, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: data,
		Time:  time.Now().UTC(),
	})
}
