package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"ms-booking/internal/logger"
)

// Sink is the publish surface the rest of the service depends on. The real
// producer and the mock used when Kafka is unavailable both satisfy it.
type Sink interface {
	Publish(topic string, key string, value []byte) error
	Close() error
}

type Producer struct {
	Writer *kafka.Writer
	Logger *logger.Logger
}

func NewProducer(brokers []string, log *logger.Logger) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &Producer{Writer: writer, Logger: log}
}

func (p *Producer) Publish(topic string, key string, value []byte) error {
	err := p.Writer.WriteMessages(context.Background(),
		kafka.Message{
			Topic: topic,
			Key:   []byte(key),
			Value: value,
		},
	)
	if err != nil {
		return fmt.Errorf("kafka publish to %s: %w", topic, err)
	}
	if p.Logger != nil {
		p.Logger.LogKafka("PUBLISH", topic, key)
	}
	return nil
}

func (p *Producer) Close() error {
	return p.Writer.Close()
}

// MockProducer logs instead of publishing. Used when KAFKA_ENABLED is false
// or KAFKA_MOCK_MODE is set, so the service runs without a broker.
type MockProducer struct {
	Logger *logger.Logger
}

func (p *MockProducer) Publish(topic string, key string, value []byte) error {
	if p.Logger != nil {
		p.Logger.LogKafka("MOCK", topic, fmt.Sprintf("%s: %s", key, string(value)))
	}
	return nil
}

func (p *MockProducer) Close() error {
	return nil
}
