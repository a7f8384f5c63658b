package band

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mbriggs/band-management-backend/internal/auditlog"
	"github.com/mbriggs/band-management-backend/middleware"
)

// AuditLogHandler serves a band's audit trail to its leaders.
type AuditLogHandler struct {
	bands    Service
	auditSvc auditlog.Service
}

func NewAuditLogHandler(bands Service, auditSvc auditlog.Service) *AuditLogHandler {
	return &AuditLogHandler{bands: bands, auditSvc: auditSvc}
}

// GET /bands/:id/audit-logs?action=&status=&page=&limit=
func (h *AuditLogHandler) List(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}

	// Only leaders may read the audit trail
	if _, err := h.bands.Get(c.Request.Context(), bandID, ident.UserID); err != nil {
		h.respondError(c, err)
		return
	}
	if err := h.bands.RequireLeader(c.Request.Context(), bandID, ident.UserID); err != nil {
		h.respondError(c, err)
		return
	}

	filter := auditlog.AuditLogFilter{
		BandID: &bandID,
		Action: c.Query("action"),
		Status: c.Query("status"),
	}
	if raw := c.Query("page"); raw != "" {
		filter.Page, _ = strconv.Atoi(raw)
	}
	if raw := c.Query("limit"); raw != "" {
		filter.Limit, _ = strconv.Atoi(raw)
	}

	logs, err := h.auditSvc.GetAuditLogs(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

func (h *AuditLogHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Band not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: You are not a member of this band"})
	case errors.Is(err, ErrLeaderRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: Leader role required"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
