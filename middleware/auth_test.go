package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mbriggs/band-management-backend/config"
)

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:   "test-secret",
		JWTAudience: "authenticated",
	}
}

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return signed
}

func defaultClaims(userID uuid.UUID) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":   userID.String(),
		"email": "alice@example.com",
		"aud":   "authenticated",
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
		"user_metadata": map[string]interface{}{
			"display_name": "Alice",
		},
	}
}

func setupAuthRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/probe", AuthMiddleware(cfg), func(c *gin.Context) {
		ident := MustGetIdentity(c)
		c.JSON(http.StatusOK, gin.H{"user_id": ident.UserID.String(), "email": ident.Email})
	})
	return r
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	cfg := testConfig()
	router := setupAuthRouter(cfg)
	userID := uuid.New()

	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.JWTSecret, defaultClaims(userID)))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !strings.Contains(resp.Body.String(), userID.String()) {
		t.Errorf("Expected response to carry the subject id, got %s", resp.Body.String())
	}
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	router := setupAuthRouter(testConfig())

	req, _ := http.NewRequest("GET", "/probe", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}

func TestAuthMiddlewareWrongSecret(t *testing.T) {
	router := setupAuthRouter(testConfig())

	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", defaultClaims(uuid.New())))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}

func TestAuthMiddlewareExpiredToken(t *testing.T) {
	cfg := testConfig()
	router := setupAuthRouter(cfg)

	claims := defaultClaims(uuid.New())
	claims["exp"] = time.Now().Add(-time.Hour).Unix()

	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.JWTSecret, claims))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), "expired") {
		t.Errorf("Expected expiry message, got %s", resp.Body.String())
	}
}

func TestAuthMiddlewareWrongAudience(t *testing.T) {
	cfg := testConfig()
	router := setupAuthRouter(cfg)

	claims := defaultClaims(uuid.New())
	claims["aud"] = "something-else"

	req, _ := http.NewRequest("GET", "/probe", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, cfg.JWTSecret, claims))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}

func TestVerifyTokenExtractsDisplayName(t *testing.T) {
	cfg := testConfig()
	userID := uuid.New()

	ident, err := VerifyToken(signToken(t, cfg.JWTSecret, defaultClaims(userID)), cfg)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if ident.UserID != userID {
		t.Errorf("Expected user id %s, got %s", userID, ident.UserID)
	}
	if ident.DisplayName != "Alice" {
		t.Errorf("Expected display name Alice, got %q", ident.DisplayName)
	}
	if ident.Email != "alice@example.com" {
		t.Errorf("Expected email alice@example.com, got %q", ident.Email)
	}
}

func TestVerifyTokenRejectsMissingEmail(t *testing.T) {
	cfg := testConfig()
	claims := defaultClaims(uuid.New())
	delete(claims, "email")

	if _, err := VerifyToken(signToken(t, cfg.JWTSecret, claims), cfg); err == nil {
		t.Error("Expected error for token without email")
	}
}
