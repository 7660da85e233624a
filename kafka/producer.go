package kafka

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
)

// ProducerAPI is the minimal publishing interface consumed by services,
// so tests can swap in a fake.
type ProducerAPI interface {
	Publish(key string, event interface{}) error
	Close()
}

type Producer struct {
	writer *kafka.Writer
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(brokers...),
		Topic:    topic,
		Balancer: &kafka.LeastBytes{},
	}

	return &Producer{
		writer: writer,
		topic:  topic,
	}
}

// Publish marshals the event and writes it keyed by the given id.
func (p *Producer) Publish(key string, event interface{}) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(key),
		Value: data,
	}

	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		log.Printf("failed to send Kafka message: %v", err)
		return err
	}
	return nil
}

func (p *Producer) Close() {
	_ = p.writer.Close()
}
