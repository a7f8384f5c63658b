package utils

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mbriggs/band-management-backend/config"
)

// NewRedisClient connects to Redis when REDIS_ADDR is configured. Returns
// nil when it is not; callers fall back to in-process stores.
func NewRedisClient(cfg *config.Config) *redis.Client {
	if cfg.RedisAddr == "" {
		log.Println("ℹ️ Redis not configured, rate limits are per-process")
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Printf("⚠️ Redis ping failed, continuing without Redis: %v", err)
		return nil
	}

	log.Println("✅ Connected to Redis at", cfg.RedisAddr)
	return client
}
