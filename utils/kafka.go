package utils

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/mbriggs/band-management-backend/config"
)

// KafkaProducer publishes band activity messages. A producer built
// without brokers is a no-op so the service runs fine without Kafka.
type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(cfg *config.Config) *KafkaProducer {
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("ℹ️ Kafka not configured, activity fan-out runs in-process")
		return &KafkaProducer{}
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafka.LeastBytes{},
		WriteTimeout: 10 * time.Second,
		RequiredAcks: kafka.RequireOne,
	}

	log.Printf("✅ Kafka producer ready (topic %s)", cfg.KafkaTopic)
	return &KafkaProducer{writer: writer}
}

// Enabled reports whether messages actually go to Kafka
func (p *KafkaProducer) Enabled() bool {
	return p != nil && p.writer != nil
}

// Publish marshals the payload as JSON and writes it keyed by key
func (p *KafkaProducer) Publish(ctx context.Context, key string, payload interface{}) error {
	if !p.Enabled() {
		return nil
	}

	value, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *KafkaProducer) Close() error {
	if !p.Enabled() {
		return nil
	}
	return p.writer.Close()
}
