package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	libredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/mbriggs/band-management-backend/config"
	"github.com/mbriggs/band-management-backend/internal/auditlog"
	"github.com/mbriggs/band-management-backend/internal/band"
	"github.com/mbriggs/band-management-backend/internal/event"
	"github.com/mbriggs/band-management-backend/internal/notification"
	"github.com/mbriggs/band-management-backend/internal/profile"
	"github.com/mbriggs/band-management-backend/internal/reports"
	"github.com/mbriggs/band-management-backend/internal/venue"
	"github.com/mbriggs/band-management-backend/middleware"
	"github.com/mbriggs/band-management-backend/utils"
)

// Setup wires repositories, services and handlers onto the engine and
// returns the notification service so the caller can start the
// activity consumer.
func Setup(r *gin.Engine, cfg *config.Config, db *gorm.DB, redisClient *libredis.Client, producer *utils.KafkaProducer, mailer *utils.Mailer) notification.Service {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"service": "band-management-backend"})
	})
	healthz := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	}
	r.GET("/health", healthz)
	r.GET("/healthz", healthz)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimiter())     // Global rate limit per IP
	api.Use(middleware.AuditMiddleware()) // Capture client IP for audit entries

	// ========== Audit Log Module ==========
	auditRepo := auditlog.NewRepository(db)
	auditSvc := auditlog.NewService(auditRepo)

	// ========== Notifications ==========
	notifRepo := notification.NewRepository(db)
	notifSvc := notification.NewService(notifRepo, producer, mailer)
	notifHandler := notification.NewHandler(notifSvc)

	// ========== Profiles ==========
	profileRepo := profile.NewRepository(db)
	profileSvc := profile.NewService(profileRepo, auditSvc)
	profileHandler := profile.NewHandler(profileSvc)

	// ========== Bands & Memberships ==========
	bandRepo := band.NewRepository(db)
	bandSvc := band.NewService(bandRepo, auditSvc, notifSvc)
	bandHandler := band.NewHandler(bandSvc)
	bandAuditHandler := band.NewAuditLogHandler(bandSvc, auditSvc)

	// ========== Venues ==========
	venueRepo := venue.NewRepository(db)
	venueSvc := venue.NewService(venueRepo, bandSvc, auditSvc)
	venueHandler := venue.NewHandler(venueSvc)

	// ========== Events ==========
	eventRepo := event.NewRepository(db)
	eventSvc := event.NewService(eventRepo, bandSvc, venueRepo, auditSvc, notifSvc)
	eventHandler := event.NewHandler(eventSvc)

	// ========== Reports ==========
	reportsRepo := reports.NewRepository(db)
	reportsSvc := reports.NewService(reportsRepo, bandSvc, reports.NewExporter())
	reportsHandler := reports.NewHandler(reportsSvc)

	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg))
	{
		authed.GET("/auth/me", profileHandler.GetMe)
		authed.PUT("/auth/me", profileHandler.UpdateMe)

		authed.POST("/profiles", profileHandler.Create)
		authed.GET("/profiles/:id", profileHandler.GetByID)
		authed.GET("/profiles/:id/bands", bandHandler.ListForProfile)

		authed.POST("/bands", bandHandler.Create)
		authed.GET("/bands/:id", bandHandler.Get)
		authed.PATCH("/bands/:id", bandHandler.Update)
		authed.DELETE("/bands/:id", bandHandler.Delete)
		authed.GET("/my/bands", bandHandler.ListMine)

		// Joining is rate limited harder than the rest of the API to
		// make join codes useless to brute force.
		authed.POST("/bands/join/:code", middleware.JoinRateLimiter(redisClient), bandHandler.Join)
		authed.POST("/bands/:id/leave", bandHandler.Leave)
		authed.GET("/bands/:id/members", bandHandler.Members)
		authed.PATCH("/bands/:id/members/:userId", bandHandler.UpdateMemberRole)
		authed.DELETE("/bands/:id/members/:userId", bandHandler.RemoveMember)

		authed.POST("/bands/:id/venues", venueHandler.Create)
		authed.GET("/bands/:id/venues", venueHandler.ListByBand)
		authed.GET("/venues/:id", venueHandler.Get)
		authed.PATCH("/venues/:id", venueHandler.Update)
		authed.DELETE("/venues/:id", venueHandler.Delete)

		authed.POST("/bands/:id/events", eventHandler.Create)
		authed.GET("/bands/:id/events", eventHandler.ListByBand)
		authed.GET("/events/:id", eventHandler.Get)
		authed.PATCH("/events/:id", eventHandler.Update)
		authed.DELETE("/events/:id", eventHandler.Delete)

		authed.GET("/bands/:id/reports/schedule", reportsHandler.ExportSchedule)
		authed.GET("/bands/:id/audit-logs", bandAuditHandler.List)

		authed.GET("/my/notifications", notifHandler.ListMine)
		authed.PATCH("/notifications/:id/read", notifHandler.MarkRead)
	}

	return notifSvc
}
