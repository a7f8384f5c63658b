package notification

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mbriggs/band-management-backend/middleware"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// ===========================
// 📄 GET /my/notifications
func (h *Handler) ListMine(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	notifications, err := h.svc.ListForUser(c.Request.Context(), identity.UserID, limit)
	if err != nil {
		log.Printf("❌ Failed to list notifications for %s: %v", identity.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}
	c.JSON(http.StatusOK, notifications)
}

// ===========================
// ✅ PATCH /notifications/:id/read
func (h *Handler) MarkRead(c *gin.Context) {
	identity := middleware.MustGetIdentity(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}

	ok, err := h.svc.MarkAsRead(c.Request.Context(), uint(id), identity.UserID)
	if err != nil {
		log.Printf("❌ Failed to mark notification %d read: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification"})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}
