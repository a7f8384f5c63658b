package event

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mbriggs/band-management-backend/internal/band"
	"github.com/mbriggs/band-management-backend/internal/venue"
	"github.com/mbriggs/band-management-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// POST /bands/:id/events
func (h *Handler) Create(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.service.Create(c.Request.Context(), ident, bandID, req, middleware.GetIPFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// GET /bands/:id/events?type=&status=&from=&to=
func (h *Handler) ListByBand(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}

	filter := ListFilter{
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}
	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC 3339"})
			return
		}
		filter.From = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC 3339"})
			return
		}
		filter.To = t
	}

	events, err := h.service.ListByBand(c.Request.Context(), bandID, ident.UserID, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GET /events/:id
func (h *Handler) Get(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	e, err := h.service.Get(c.Request.Context(), eventID, ident.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// PATCH /events/:id
func (h *Handler) Update(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	e, err := h.service.Update(c.Request.Context(), ident, eventID, req, middleware.GetIPFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// DELETE /events/:id
func (h *Handler) Delete(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), ident, eventID, middleware.GetIPFromContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, band.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Band not found"})
	case errors.Is(err, band.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: You are not a member of this band"})
	case errors.Is(err, ErrEndNotAfterStart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Event must end after it starts"})
	case errors.Is(err, ErrVenueMismatch):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Venue belongs to a different band"})
	case errors.Is(err, venue.ErrNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Venue not found"})
	case errors.Is(err, ErrInvalidTransition):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status transition"})
	default:
		log.Printf("❌ Event operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
