package reports

import (
	"errors"
	"fmt"
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

// GET /bands/:id/reports/schedule?format=csv|xlsx|pdf
func (h *Handler) ExportSchedule(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}

	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "xlsx" && format != "pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv, xlsx or pdf"})
		return
	}

	data, filename, contentType, err := h.service.ExportSchedule(c.Request.Context(), bandID, ident.UserID, format)
	if err != nil {
		switch {
		case errors.Is(err, band.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Band not found"})
		case errors.Is(err, band.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: You are not a member of this band"})
		default:
			log.Printf("❌ Schedule export failed for band %s: %v", bandID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export schedule"})
		}
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}
