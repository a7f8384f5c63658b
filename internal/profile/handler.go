package profile

import (
	"errors"
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
// 🔹 PROFILE ENDPOINTS
// ===========================

// GET /auth/me
func (h *Handler) GetMe(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	// Provision the profile from identity claims on first contact
	p, err := h.service.EnsureExists(c.Request.Context(), ident.UserID, ident.Email, ident.DisplayName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// PUT /auth/me
func (h *Handler) UpdateMe(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	p, err := h.service.Update(c.Request.Context(), ident.UserID, &req)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, p)
}

// POST /profiles
func (h *Handler) Create(c *gin.Context) {
	ident := middleware.MustGetIdentity(c)

	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	p, err := h.service.Create(c.Request.Context(), &req, ident.UserID, ident.Email, middleware.GetIPFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyExists), errors.Is(err, ErrEmailTaken), errors.Is(err, ErrEmailMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create profile"})
		}
		return
	}

	c.JSON(http.StatusCreated, p)
}

// GET /profiles/:id
func (h *Handler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid profile id"})
		return
	}

	p, err := h.service.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load profile"})
		return
	}

	c.JSON(http.StatusOK, p)
}
