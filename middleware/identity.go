package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Band role constants to avoid string typos
const (
	RoleLeader = "leader"
	RoleMember = "member"
)

// Identity stores the verified claims of the calling user
type Identity struct {
	UserID      uuid.UUID
	Email       string
	Role        string
	Audience    string
	IssuedAt    time.Time
	ExpiresAt   time.Time
	DisplayName string
}

// GetIdentity returns the authenticated identity from gin context
func GetIdentity(c *gin.Context) (Identity, bool) {
	val, exists := c.Get("identity")
	if !exists {
		return Identity{}, false
	}
	ident, ok := val.(Identity)
	return ident, ok
}

// MustGetIdentity is for handlers behind AuthMiddleware where the
// identity is guaranteed to be present
func MustGetIdentity(c *gin.Context) Identity {
	ident, _ := GetIdentity(c)
	return ident
}
