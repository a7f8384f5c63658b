package profile

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/mbriggs/band-management-backend/config"
	"github.com/mbriggs/band-management-backend/internal/auditlog"
	"github.com/mbriggs/band-management-backend/middleware"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&Profile{}, &auditlog.AuditLog{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func testConfig() *config.Config {
	return &config.Config{JWTSecret: "test-secret", JWTAudience: "authenticated"}
}

func setupTestRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	auditSvc := auditlog.NewService(auditlog.NewRepository(db))
	handler := NewHandler(NewService(NewRepository(db), auditSvc))

	authed := r.Group("/api/v1")
	authed.Use(middleware.AuditMiddleware())
	authed.Use(middleware.AuthMiddleware(cfg))
	{
		authed.GET("/auth/me", handler.GetMe)
		authed.PUT("/auth/me", handler.UpdateMe)
		authed.POST("/profiles", handler.Create)
		authed.GET("/profiles/:id", handler.GetByID)
	}
	return r
}

func authHeader(t *testing.T, cfg *config.Config, userID uuid.UUID, email, displayName string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"aud":   cfg.JWTAudience,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	if displayName != "" {
		claims["user_metadata"] = map[string]interface{}{"display_name": displayName}
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return "Bearer " + token
}

func TestGetMeProvisionsProfile(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	userID := uuid.New()

	req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
	req.Header.Set("Authorization", authHeader(t, cfg, userID, "carol@example.com", ""))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var p Profile
	json.Unmarshal(resp.Body.Bytes(), &p)
	if p.UserID != userID {
		t.Errorf("Expected user id %s, got %s", userID, p.UserID)
	}
	// Without a display name claim the local part of the email is used
	if p.DisplayName != "carol" {
		t.Errorf("Expected display name carol, got %q", p.DisplayName)
	}
}

func TestGetMeIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	userID := uuid.New()
	header := authHeader(t, cfg, userID, "carol@example.com", "Carol")

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest("GET", "/api/v1/auth/me", nil)
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("Request %d: expected status 200, got %d", i, resp.Code)
		}
	}

	var count int64
	db.Model(&Profile{}).Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly one profile, got %d", count)
	}
}

func TestCreateProfile(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	userID := uuid.New()

	body, _ := json.Marshal(CreateProfileRequest{DisplayName: "Dave", Email: "dave@example.com"})
	req, _ := http.NewRequest("POST", "/api/v1/profiles", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, cfg, userID, "dave@example.com", ""))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var p Profile
	json.Unmarshal(resp.Body.Bytes(), &p)
	if p.DisplayName != "Dave" {
		t.Errorf("Expected display name Dave, got %q", p.DisplayName)
	}
}

func TestCreateProfileEmailMismatch(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)

	body, _ := json.Marshal(CreateProfileRequest{DisplayName: "Mallory", Email: "other@example.com"})
	req, _ := http.NewRequest("POST", "/api/v1/profiles", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, cfg, uuid.New(), "mallory@example.com", ""))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateProfileTwice(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	userID := uuid.New()
	header := authHeader(t, cfg, userID, "dave@example.com", "")

	body, _ := json.Marshal(CreateProfileRequest{DisplayName: "Dave", Email: "dave@example.com"})
	for i, want := range []int{http.StatusCreated, http.StatusBadRequest} {
		req, _ := http.NewRequest("POST", "/api/v1/profiles", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", header)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != want {
			t.Errorf("Request %d: expected status %d, got %d", i, want, resp.Code)
		}
	}
}

func TestCreateProfileDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)

	first := uuid.New()
	second := uuid.New()
	body, _ := json.Marshal(CreateProfileRequest{DisplayName: "Dave", Email: "dave@example.com"})

	req, _ := http.NewRequest("POST", "/api/v1/profiles", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, cfg, first, "dave@example.com", ""))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	// A different subject whose token bears the same email must be
	// rejected, not silently given a second profile.
	req, _ = http.NewRequest("POST", "/api/v1/profiles", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, cfg, second, "dave@example.com", ""))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for duplicate email, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&Profile{}).Where("email = ?", "dave@example.com").Count(&count)
	if count != 1 {
		t.Errorf("Expected exactly one profile for the email, got %d", count)
	}
}

func TestUpdateMePartial(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	userID := uuid.New()

	db.Create(&Profile{UserID: userID, DisplayName: "Old Name", Email: "erin@example.com"})

	body := []byte(`{"display_name":"New Name"}`)
	req, _ := http.NewRequest("PUT", "/api/v1/auth/me", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", authHeader(t, cfg, userID, "erin@example.com", ""))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var p Profile
	db.First(&p, "user_id = ?", userID)
	if p.DisplayName != "New Name" {
		t.Errorf("Expected display name updated, got %q", p.DisplayName)
	}
	if p.Email != "erin@example.com" {
		t.Errorf("Email must not change on update, got %q", p.Email)
	}
}

func TestGetProfileByID(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)

	other := uuid.New()
	db.Create(&Profile{UserID: other, DisplayName: "Frank", Email: "frank@example.com"})

	// Any authenticated subject may read any profile
	req, _ := http.NewRequest("GET", "/api/v1/profiles/"+other.String(), nil)
	req.Header.Set("Authorization", authHeader(t, cfg, uuid.New(), "viewer@example.com", ""))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetProfileByIDNotFound(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)

	req, _ := http.NewRequest("GET", "/api/v1/profiles/"+uuid.NewString(), nil)
	req.Header.Set("Authorization", authHeader(t, cfg, uuid.New(), "viewer@example.com", ""))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}
