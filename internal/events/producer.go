package events

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/IBM/sarama"
	"github.com/mbeoliero/kit/log"
	"github.com/mluqi/km-support/internal/config"
)

// OrderEvent is the payload published to the order event stream. Downstream
// consumers (fulfilment, notifications) key on the order id.
type OrderEvent struct {
	Type       string `json:"type"`
	OrderId    int64  `json:"order_id"`
	UserId     string `json:"user_id"`
	Status     string `json:"status"`
	PrevStatus string `json:"prev_status,omitempty"`
	Awb        string `json:"awb,omitempty"`
	OccurredAt int64  `json:"occurred_at"`
}

// Producer publishes order lifecycle events to Kafka. A nil Producer is
// valid and drops everything, so callers never need to branch on whether
// the stream is configured.
type Producer struct {
	producer sarama.SyncProducer
	topic    string
}

// NewProducer connects to the configured brokers. Returns (nil, nil) when no
// brokers are configured, which disables publishing.
func NewProducer(cfg *config.KafkaConfig) (*Producer, error) {
	if len(cfg.Brokers) == 0 {
		return nil, nil
	}

	saramaCfg := sarama.NewConfig()
	saramaCfg.Producer.RequiredAcks = sarama.WaitForAll
	saramaCfg.Producer.Retry.Max = 3
	saramaCfg.Producer.Return.Successes = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaCfg)
	if err != nil {
		return nil, err
	}

	return &Producer{producer: producer, topic: cfg.Topic}, nil
}

// Publish sends an order event, keyed by order id. Failures are logged, not
// returned: the order write already committed and must not be rolled back
// because the stream hiccupped.
func (p *Producer) Publish(ctx context.Context, event *OrderEvent) {
	if p == nil {
		return
	}

	value, err := json.Marshal(event)
	if err != nil {
		log.CtxError(ctx, "marshal order event failed: %v", err)
		return
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(strconv.FormatInt(event.OrderId, 10)),
		Value: sarama.ByteEncoder(value),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		log.CtxError(ctx, "publish order event failed: type=%s, order_id=%d, err=%v", event.Type, event.OrderId, err)
		return
	}

	log.CtxDebug(ctx, "order event published: type=%s, order_id=%d, partition=%d, offset=%d", event.Type, event.OrderId, partition, offset)
}

// Close shuts down the underlying producer
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
