package band

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mbriggs/band-management-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(s Service) *Handler {
	return &Handler{service: s}
}

// ===========================
// 🔹 BAND ENDPOINTS
// ===========================

// POST /bands
func (h *Handler) Create(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	var req CreateBandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), ident, req, middleware.GetIPFromContext(c))
	if err != nil {
		log.Printf("❌ Failed to create band: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create band"})
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GET /bands/:id
func (h *Handler) Get(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}

	b, err := h.service.Get(c.Request.Context(), bandID, ident.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// PATCH /bands/:id
func (h *Handler) Update(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}

	var req UpdateBandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	b, err := h.service.Update(c.Request.Context(), ident, bandID, req, middleware.GetIPFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// DELETE /bands/:id
func (h *Handler) Delete(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), ident, bandID, middleware.GetIPFromContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Band deleted successfully"})
}

// GET /my/bands
func (h *Handler) ListMine(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bands, err := h.service.ListForUser(c.Request.Context(), ident.UserID)
	if err != nil {
		log.Printf("❌ Failed to list bands for %s: %v", ident.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bands"})
		return
	}
	c.JSON(http.StatusOK, bands)
}

// GET /profiles/:id/bands
func (h *Handler) ListForProfile(c *gin.Context) {
	profileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid profile id"})
		return
	}

	bands, err := h.service.ListForUser(c.Request.Context(), profileID)
	if err != nil {
		log.Printf("❌ Failed to list bands for profile %s: %v", profileID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bands"})
		return
	}
	c.JSON(http.StatusOK, bands)
}

// ===========================
// 🔹 MEMBERSHIP ENDPOINTS
// ===========================

// POST /bands/join/:code
func (h *Handler) Join(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	m, err := h.service.Join(c.Request.Context(), ident, c.Param("code"), middleware.GetIPFromContext(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, m)
}

// POST /bands/:id/leave
func (h *Handler) Leave(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}

	if err := h.service.Leave(c.Request.Context(), ident, bandID, middleware.GetIPFromContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Left the band"})
}

// GET /bands/:id/members
func (h *Handler) Members(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}

	members, err := h.service.Members(c.Request.Context(), bandID, ident.UserID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// PATCH /bands/:id/members/:userId
func (h *Handler) UpdateMemberRole(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var req UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.UpdateMemberRole(c.Request.Context(), ident, bandID, memberID, req.Role, middleware.GetIPFromContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member role updated"})
}

// DELETE /bands/:id/members/:userId
func (h *Handler) RemoveMember(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	bandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid band id"})
		return
	}
	memberID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), ident, bandID, memberID, middleware.GetIPFromContext(c)); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member removed"})
}

// ===========================
// ❌ Error mapping
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Band not found"})
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: You are not a member of this band"})
	case errors.Is(err, ErrLeaderRequired):
		c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: Leader role required"})
	case errors.Is(err, ErrInvalidJoinCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid join code"})
	case errors.Is(err, ErrAlreadyMember):
		c.JSON(http.StatusBadRequest, gin.H{"error": "You are already a member of this band"})
	case errors.Is(err, ErrNotAMember):
		c.JSON(http.StatusNotFound, gin.H{"error": "Membership not found"})
	case errors.Is(err, ErrLastLeader):
		c.JSON(http.StatusBadRequest, gin.H{"error": "A band must keep at least one leader"})
	default:
		log.Printf("❌ Band operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
