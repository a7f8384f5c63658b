package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mbriggs/band-management-backend/config"
	"github.com/mbriggs/band-management-backend/database"
	"github.com/mbriggs/band-management-backend/internal/auditlog"
	"github.com/mbriggs/band-management-backend/internal/band"
	"github.com/mbriggs/band-management-backend/internal/event"
	"github.com/mbriggs/band-management-backend/internal/notification"
	"github.com/mbriggs/band-management-backend/internal/profile"
	"github.com/mbriggs/band-management-backend/internal/venue"
	"github.com/mbriggs/band-management-backend/routes"
	"github.com/mbriggs/band-management-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&profile.Profile{},
		&band.Band{},
		&band.Membership{},
		&venue.Venue{},
		&event.Event{},
		&auditlog.AuditLog{},
		&notification.InAppNotification{},
	); err != nil {
		panic(fmt.Sprintf("❌ DB AutoMigrate failed: %v", err))
	}
	log.Println("✅ Database migrations completed")

	// Redis for the join rate limiter; nil means in-memory fallback
	redisClient := utils.NewRedisClient(cfg)

	producer := utils.NewKafkaProducer(cfg)
	defer producer.Close()

	mailer := utils.NewMailer(cfg)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Content-Length", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	notifSvc := routes.Setup(router, cfg, db, redisClient, producer, mailer)

	// Fan band activity out to member notifications
	go notification.StartKafkaConsumer(context.Background(), cfg, notifSvc)

	log.Printf("🚀 Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
