package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	libredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	ginlimiter "github.com/ulule/limiter/v3/drivers/middleware/gin"
	memory "github.com/ulule/limiter/v3/drivers/store/memory"
	sredis "github.com/ulule/limiter/v3/drivers/store/redis"
)

// RateLimiter returns a Gin middleware that limits requests per IP
func RateLimiter() gin.HandlerFunc {
	store := memory.NewStore()
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  100,
	}

	// 🚦 Gin-compatible middleware
	instance := limiter.New(store, rate)
	return ginlimiter.NewMiddleware(instance)
}

// JoinRateLimiter returns a much stricter per-IP limit for the join
// endpoint, so join codes cannot be brute-forced. Counters live in Redis
// when a client is provided so the limit holds across replicas; otherwise
// the in-memory store is used.
func JoinRateLimiter(client *libredis.Client) gin.HandlerFunc {
	rate := limiter.Rate{
		Period: 1 * time.Minute,
		Limit:  10,
	}

	var store limiter.Store
	if client != nil {
		redisStore, err := sredis.NewStoreWithOptions(client, limiter.StoreOptions{
			Prefix:   "limiter:join",
			MaxRetry: 3,
		})
		if err != nil {
			log.Printf("⚠️ Redis limiter store unavailable, falling back to memory: %v", err)
			store = memory.NewStore()
		} else {
			store = redisStore
		}
	} else {
		store = memory.NewStore()
	}

	instance := limiter.New(store, rate)
	return ginlimiter.NewMiddleware(instance)
}
