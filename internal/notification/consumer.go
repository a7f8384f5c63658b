package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"

	"github.com/mbriggs/band-management-backend/config"
)

// ===========================
// 🎯 Kafka consumer for band activity
// ===========================

// StartKafkaConsumer reads the activity topic and fans each message out to
// member notifications. Runs until ctx is cancelled. Call in a goroutine.
func StartKafkaConsumer(ctx context.Context, cfg *config.Config, svc Service) {
	if len(cfg.KafkaBrokers) == 0 {
		log.Println("ℹ️ Kafka not configured; activity is handled in-process")
		return
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaTopic,
		GroupID: cfg.KafkaGroupID,
	})
	defer reader.Close()

	log.Printf("✅ Kafka consumer started on topic %s", cfg.KafkaTopic)

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Println("ℹ️ Kafka consumer stopped")
				return
			}
			log.Printf("❌ Kafka read error: %v", err)
			continue
		}

		var activity Activity
		if err := json.Unmarshal(msg.Value, &activity); err != nil {
			log.Printf("⚠️ Skipping malformed activity message at offset %d: %v", msg.Offset, err)
			continue
		}

		if err := svc.HandleActivity(ctx, activity); err != nil {
			log.Printf("❌ Failed to handle activity %s for band %s: %v", activity.Action, activity.BandID, err)
		}
	}
}
