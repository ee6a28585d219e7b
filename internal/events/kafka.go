package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink публикует события в топик Kafka.
// Ключ сообщения это идентификатор запроса, общий для событий запроса, ответа и ошибки.
type KafkaSink struct {
	writer messageWriter
}

// NewKafkaSink создаёт приёмник, пишущий в topic на указанных брокерах.
func NewKafkaSink(topic string, brokers ...string) *KafkaSink {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaSink{writer: w}
}

// Publish отправляет событие в Kafka.
func (k *KafkaSink) Publish(ctx context.Context, ev Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(CallID(ev.ID)),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(ev.Type)},
			{Key: "direction", Value: []byte(ev.Direction)},
		},
	}

	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka write event: %w", err)
	}
	return nil
}

// Close закрывает writer.
func (k *KafkaSink) Close() error {
	return k.writer.Close()
}
