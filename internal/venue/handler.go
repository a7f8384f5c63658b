package venue

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mbriggs/band-management-backend/internal/band"
	"github.com/mbriggs/band-management-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// POST /bands/:id/venues
func (h *Handler) Create(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}

	var req CreateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.service.Create(c.Request.Context(), ident, bandID, req, middleware.GetIPFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

// GET /bands/:id/venues
func (h *Handler) ListByBand(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}

	venues, err := h.service.ListByBand(c.Request.Context(), bandID, ident.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, venues)
}

// GET /venues/:id
func (h *Handler) Get(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue id"})
		return
	}

	v, err := h.service.Get(c.Request.Context(), venueID, ident.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// PATCH /venues/:id
func (h *Handler) Update(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue id"})
		return
	}

	var req UpdateVenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	v, err := h.service.Update(c.Request.Context(), ident, venueID, req, middleware.GetIPFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// DELETE /venues/:id
func (h *Handler) Delete(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	venueID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid venue id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), ident, venueID, middleware.GetIPFromContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Venue deleted successfully"})
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Venue not found"})
	case errors.Is(err, band.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Band not found"})
	case errors.Is(err, band.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: You are not a member of this band"})
	default:
		log.Printf("❌ Venue operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
