package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"repairshop/internal/model"
)

// Config contains configuration for the notification producer
type Config struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
	RequiredAcks kafka.RequiredAcks
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes every notification to a topic so other systems (SMS,
// e-mail gateways) can react. Messages are keyed by work order, which keeps
// one order's events on one partition.
type KafkaSink struct {
	writer messageWriter
}

func NewKafkaSink(cfg Config) (*KafkaSink, error) {
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka sink: no brokers configured")
	}
	if cfg.Topic == "" {
		return nil, fmt.Errorf("kafka sink: topic is required")
	}
	batchTimeout := cfg.BatchTimeout
	if batchTimeout <= 0 {
		batchTimeout = 50 * time.Millisecond
	}
	return &KafkaSink{writer: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: batchTimeout,
		RequiredAcks: cfg.RequiredAcks,
	}}, nil
}

type event struct {
	Type         string             `json:"type"`
	Notification model.Notification `json:"notification"`
}

func (s *KafkaSink) Send(ctx context.Context, n model.Notification) error {
	value, err := json.Marshal(event{Type: "notification.created", Notification: n})
	if err != nil {
		return fmt.Errorf("encode notification %s: %w", n.ID, err)
	}
	key := n.ID.String()
	if n.WorkOrderID != nil {
		key = n.WorkOrderID.String()
	}
	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  n.CreatedAt,
		Headers: []kafka.Header{
			{Key: "audience", Value: []byte(n.Audience)},
		},
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish notification %s: %w", n.ID, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
