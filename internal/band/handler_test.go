package band_test

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
	"github.com/mbriggs/band-management-backend/internal/band"
	"github.com/mbriggs/band-management-backend/internal/event"
	"github.com/mbriggs/band-management-backend/internal/notification"
	"github.com/mbriggs/band-management-backend/internal/profile"
	"github.com/mbriggs/band-management-backend/internal/venue"
	"github.com/mbriggs/band-management-backend/middleware"
	"github.com/mbriggs/band-management-backend/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	err = db.AutoMigrate(
		&profile.Profile{},
		&band.Band{},
		&band.Membership{},
		&venue.Venue{},
		&event.Event{},
		&auditlog.AuditLog{},
		&notification.InAppNotification{},
	)
	if err != nil {
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
	notifSvc := notification.NewService(notification.NewRepository(db), utils.NewKafkaProducer(cfg), nil)
	bandSvc := band.NewService(band.NewRepository(db), auditSvc, notifSvc)
	handler := band.NewHandler(bandSvc)

	authed := r.Group("/api/v1")
	authed.Use(middleware.AuditMiddleware())
	authed.Use(middleware.AuthMiddleware(cfg))
	{
		authed.POST("/bands", handler.Create)
		authed.GET("/bands/:id", handler.Get)
		authed.PATCH("/bands/:id", handler.Update)
		authed.DELETE("/bands/:id", handler.Delete)
		authed.GET("/my/bands", handler.ListMine)
		authed.POST("/bands/join/:code", handler.Join)
		authed.POST("/bands/:id/leave", handler.Leave)
		authed.GET("/bands/:id/members", handler.Members)
		authed.PATCH("/bands/:id/members/:userId", handler.UpdateMemberRole)
		authed.DELETE("/bands/:id/members/:userId", handler.RemoveMember)
	}
	return r
}

func createTestProfile(t *testing.T, db *gorm.DB, email, name string) uuid.UUID {
	t.Helper()
	p := profile.Profile{UserID: uuid.New(), DisplayName: name, Email: email}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("Failed to create test profile: %v", err)
	}
	return p.UserID
}

func authHeader(t *testing.T, cfg *config.Config, userID uuid.UUID, email string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":   userID.String(),
		"email": email,
		"aud":   cfg.JWTAudience,
		"exp":   time.Now().Add(time.Hour).Unix(),
		"iat":   time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	return "Bearer " + token
}

func doJSON(t *testing.T, router *gin.Engine, method, path, header string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		raw, _ := json.Marshal(payload)
		body = bytes.NewBuffer(raw)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", header)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func createTestBand(t *testing.T, router *gin.Engine, header, name string) band.Band {
	t.Helper()
	resp := doJSON(t, router, "POST", "/api/v1/bands", header, band.CreateBandRequest{Name: name})
	if resp.Code != http.StatusCreated {
		t.Fatalf("Failed to create band: status %d: %s", resp.Code, resp.Body.String())
	}
	var b band.Band
	json.Unmarshal(resp.Body.Bytes(), &b)
	return b
}

func TestCreateBandMakesCallerLeader(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")

	b := createTestBand(t, router, authHeader(t, cfg, alice, "alice@example.com"), "The Sessions")

	if b.JoinCode == "" {
		t.Error("Expected a join code on the new band")
	}
	if b.Timezone != "America/New_York" {
		t.Errorf("Expected default timezone, got %q", b.Timezone)
	}

	var m band.Membership
	if err := db.First(&m, "band_id = ? AND user_id = ?", b.ID, alice).Error; err != nil {
		t.Fatalf("Expected a membership for the creator: %v", err)
	}
	if m.Role != middleware.RoleLeader {
		t.Errorf("Expected creator to be leader, got %q", m.Role)
	}
}

func TestGetBandNonMemberForbidden(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")
	bob := createTestProfile(t, db, "bob@example.com", "Bob")

	b := createTestBand(t, router, authHeader(t, cfg, alice, "alice@example.com"), "The Sessions")

	resp := doJSON(t, router, "GET", "/api/v1/bands/"+b.ID.String(), authHeader(t, cfg, bob, "bob@example.com"), nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for non-member, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestGetBandNotFound(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")

	resp := doJSON(t, router, "GET", "/api/v1/bands/"+uuid.NewString(), authHeader(t, cfg, alice, "alice@example.com"), nil)
	if resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.Code)
	}
}

func TestJoinByCode(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")
	bob := createTestProfile(t, db, "bob@example.com", "Bob")
	bobHeader := authHeader(t, cfg, bob, "bob@example.com")

	b := createTestBand(t, router, authHeader(t, cfg, alice, "alice@example.com"), "The Sessions")

	resp := doJSON(t, router, "POST", "/api/v1/bands/join/"+b.JoinCode, bobHeader, nil)
	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	// The response is the created membership row, not the band
	var created band.Membership
	json.Unmarshal(resp.Body.Bytes(), &created)
	if created.BandID != b.ID || created.UserID != bob {
		t.Errorf("Expected membership for band %s and user %s, got %+v", b.ID, bob, created)
	}
	if created.Role != middleware.RoleMember {
		t.Errorf("Expected joiner role member, got %q", created.Role)
	}

	var m band.Membership
	if err := db.First(&m, "band_id = ? AND user_id = ?", b.ID, bob).Error; err != nil {
		t.Fatalf("Expected a membership after joining: %v", err)
	}
	if m.Role != middleware.RoleMember {
		t.Errorf("Expected joiner role member, got %q", m.Role)
	}

	// Joining twice is rejected
	resp = doJSON(t, router, "POST", "/api/v1/bands/join/"+b.JoinCode, bobHeader, nil)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 on duplicate join, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestJoinInvalidCode(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")

	resp := doJSON(t, router, "POST", "/api/v1/bands/join/not-a-code", authHeader(t, cfg, alice, "alice@example.com"), nil)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestMyBands(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")
	bob := createTestProfile(t, db, "bob@example.com", "Bob")
	bobHeader := authHeader(t, cfg, bob, "bob@example.com")

	b1 := createTestBand(t, router, authHeader(t, cfg, alice, "alice@example.com"), "The Sessions")
	createTestBand(t, router, bobHeader, "Bob's Own")
	doJSON(t, router, "POST", "/api/v1/bands/join/"+b1.JoinCode, bobHeader, nil)

	resp := doJSON(t, router, "GET", "/api/v1/my/bands", bobHeader, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.Code)
	}

	var bands []band.Band
	json.Unmarshal(resp.Body.Bytes(), &bands)
	if len(bands) != 2 {
		t.Errorf("Expected 2 bands, got %d", len(bands))
	}
}

func TestMembersRoster(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")
	bob := createTestProfile(t, db, "bob@example.com", "Bob")
	aliceHeader := authHeader(t, cfg, alice, "alice@example.com")

	b := createTestBand(t, router, aliceHeader, "The Sessions")
	doJSON(t, router, "POST", "/api/v1/bands/join/"+b.JoinCode, authHeader(t, cfg, bob, "bob@example.com"), nil)

	resp := doJSON(t, router, "GET", "/api/v1/bands/"+b.ID.String()+"/members", aliceHeader, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var members []band.Member
	json.Unmarshal(resp.Body.Bytes(), &members)
	if len(members) != 2 {
		t.Fatalf("Expected 2 members, got %d", len(members))
	}
	names := map[string]string{}
	for _, m := range members {
		names[m.DisplayName] = m.Role
	}
	if names["Alice"] != middleware.RoleLeader {
		t.Errorf("Expected Alice to be leader, got %q", names["Alice"])
	}
	if names["Bob"] != middleware.RoleMember {
		t.Errorf("Expected Bob to be member, got %q", names["Bob"])
	}
}

func TestUpdateBandLeaderOnly(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")
	bob := createTestProfile(t, db, "bob@example.com", "Bob")
	aliceHeader := authHeader(t, cfg, alice, "alice@example.com")
	bobHeader := authHeader(t, cfg, bob, "bob@example.com")

	b := createTestBand(t, router, aliceHeader, "The Sessions")
	doJSON(t, router, "POST", "/api/v1/bands/join/"+b.JoinCode, bobHeader, nil)

	newName := "The Late Sessions"
	resp := doJSON(t, router, "PATCH", "/api/v1/bands/"+b.ID.String(), bobHeader, band.UpdateBandRequest{Name: &newName})
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for member, got %d", resp.Code)
	}

	resp = doJSON(t, router, "PATCH", "/api/v1/bands/"+b.ID.String(), aliceHeader, band.UpdateBandRequest{Name: &newName})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200 for leader, got %d: %s", resp.Code, resp.Body.String())
	}

	var got band.Band
	db.First(&got, "id = ?", b.ID)
	if got.Name != newName {
		t.Errorf("Expected name updated, got %q", got.Name)
	}
	if got.Timezone != b.Timezone {
		t.Errorf("Timezone must be untouched by a name-only patch, got %q", got.Timezone)
	}
}

func TestDeleteBandCascades(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")
	bob := createTestProfile(t, db, "bob@example.com", "Bob")
	aliceHeader := authHeader(t, cfg, alice, "alice@example.com")
	bobHeader := authHeader(t, cfg, bob, "bob@example.com")

	b := createTestBand(t, router, aliceHeader, "The Sessions")
	doJSON(t, router, "POST", "/api/v1/bands/join/"+b.JoinCode, bobHeader, nil)

	v := venue.Venue{ID: uuid.New(), BandID: b.ID, Name: "The Basement"}
	db.Create(&v)
	e := event.Event{
		ID: uuid.New(), BandID: b.ID, VenueID: &v.ID,
		Type: event.TypeRehearsal, Status: event.StatusPlanned, Title: "Tuesday run-through",
		StartsAt: time.Now().Add(24 * time.Hour), EndsAt: time.Now().Add(26 * time.Hour),
		CreatedBy: alice,
	}
	db.Create(&e)

	// A plain member may not delete the band
	resp := doJSON(t, router, "DELETE", "/api/v1/bands/"+b.ID.String(), bobHeader, nil)
	if resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for member delete, got %d", resp.Code)
	}

	resp = doJSON(t, router, "DELETE", "/api/v1/bands/"+b.ID.String(), aliceHeader, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	for table, want := range map[string]int64{"bands": 0, "memberships": 0, "venues": 0, "events": 0} {
		var count int64
		db.Table(table).Count(&count)
		if count != want {
			t.Errorf("Expected %s emptied by cascade, found %d rows", table, count)
		}
	}
}

func TestLeaveBand(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")
	bob := createTestProfile(t, db, "bob@example.com", "Bob")
	aliceHeader := authHeader(t, cfg, alice, "alice@example.com")
	bobHeader := authHeader(t, cfg, bob, "bob@example.com")

	b := createTestBand(t, router, aliceHeader, "The Sessions")
	doJSON(t, router, "POST", "/api/v1/bands/join/"+b.JoinCode, bobHeader, nil)

	// The only leader cannot leave
	resp := doJSON(t, router, "POST", "/api/v1/bands/"+b.ID.String()+"/leave", aliceHeader, nil)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for last leader leaving, got %d: %s", resp.Code, resp.Body.String())
	}

	// Promote Bob, then Alice can leave
	resp = doJSON(t, router, "PATCH", "/api/v1/bands/"+b.ID.String()+"/members/"+bob.String(), aliceHeader,
		band.UpdateMemberRoleRequest{Role: middleware.RoleLeader})
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200 promoting Bob, got %d: %s", resp.Code, resp.Body.String())
	}
	resp = doJSON(t, router, "POST", "/api/v1/bands/"+b.ID.String()+"/leave", aliceHeader, nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var count int64
	db.Model(&band.Membership{}).Where("band_id = ?", b.ID).Count(&count)
	if count != 1 {
		t.Errorf("Expected 1 remaining membership, got %d", count)
	}
}

func TestDemoteLastLeaderRejected(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")
	aliceHeader := authHeader(t, cfg, alice, "alice@example.com")

	b := createTestBand(t, router, aliceHeader, "The Sessions")

	resp := doJSON(t, router, "PATCH", "/api/v1/bands/"+b.ID.String()+"/members/"+alice.String(), aliceHeader,
		band.UpdateMemberRoleRequest{Role: middleware.RoleMember})
	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 demoting the only leader, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestJoinFansOutNotifications(t *testing.T) {
	db := setupTestDB(t)
	cfg := testConfig()
	router := setupTestRouter(db, cfg)
	alice := createTestProfile(t, db, "alice@example.com", "Alice")
	bob := createTestProfile(t, db, "bob@example.com", "Bob")
	aliceHeader := authHeader(t, cfg, alice, "alice@example.com")

	b := createTestBand(t, router, aliceHeader, "The Sessions")
	doJSON(t, router, "POST", "/api/v1/bands/join/"+b.JoinCode, authHeader(t, cfg, bob, "bob@example.com"), nil)

	// Without Kafka the fan-out runs inline: Alice gets notified, Bob
	// (the actor) does not.
	var notifications []notification.InAppNotification
	db.Find(&notifications)
	if len(notifications) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(notifications))
	}
	if notifications[0].UserID != alice {
		t.Errorf("Expected the leader to be notified, got user %s", notifications[0].UserID)
	}
}
