package sink

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/tradierkit/tradier/stream"
)

type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Kafka writes each event to topic, keyed so that one symbol or account
// always lands on the same partition.
type Kafka struct {
	w kafkaWriter
}

func NewKafka(brokers []string, topic string) *Kafka {
	return &Kafka{w: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}}
}

func (s *Kafka) Publish(ctx context.Context, ev stream.Event) error {
	b, err := Encode(ev)
	if err != nil {
		return err
	}
	err = s.w.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key(ev)),
		Value: b,
		Headers: []kafka.Header{
			{Key: "kind", Value: []byte(ev.Kind())},
		},
	})
	observe("kafka", err)
	return errors.Wrap(err, "failed to write to kafka")
}

func (s *Kafka) Close() error {
	return s.w.Close()
}
