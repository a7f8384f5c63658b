package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mbriggs/band-management-backend/config"
)

// AuthMiddleware verifies the bearer token issued by the identity provider
// and sets the caller's Identity in the request context
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		ident, err := VerifyToken(parts[1], cfg)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("identity", ident)
		c.Next()
	}
}

// VerifyToken validates an HS256 token against the pre-shared secret and
// extracts the claims the service cares about. There is no decode-without-
// verification path.
func VerifyToken(tokenStr string, cfg *config.Config) (Identity, error) {
	token, err := jwt.Parse(tokenStr,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithAudience(cfg.JWTAudience),
	)
	if err != nil {
		return Identity{}, err
	}
	if !token.Valid {
		return Identity{}, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}

	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return Identity{}, errors.New("missing or invalid user id in token")
	}

	email, _ := claims["email"].(string)
	if email == "" {
		return Identity{}, errors.New("email missing in token")
	}

	ident := Identity{
		UserID:   userID,
		Email:    email,
		Role:     "authenticated",
		Audience: cfg.JWTAudience,
	}
	if role, ok := claims["role"].(string); ok && role != "" {
		ident.Role = role
	}
	if aud, ok := claims["aud"].(string); ok {
		ident.Audience = aud
	}
	if exp, ok := claims["exp"].(float64); ok {
		ident.ExpiresAt = time.Unix(int64(exp), 0)
	}
	if iat, ok := claims["iat"].(float64); ok {
		ident.IssuedAt = time.Unix(int64(iat), 0)
	}

	// The identity provider keeps the display name in user_metadata
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		if name, ok := meta["display_name"].(string); ok {
			ident.DisplayName = name
		}
	}

	return ident, nil
}
