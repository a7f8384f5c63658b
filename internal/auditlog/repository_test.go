package auditlog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := db.AutoMigrate(&AuditLog{}); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

func TestLogActionAndFilter(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))
	ctx := context.Background()

	userID := uuid.New()
	bandID := uuid.New()
	otherBand := uuid.New()

	if err := svc.LogAction(ctx, &userID, &bandID, "BAND_CREATED", map[string]interface{}{"name": "The Sessions"}, "10.0.0.1", "success"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}
	if err := svc.LogAction(ctx, &userID, &bandID, "BAND_JOIN_FAILED", nil, "10.0.0.2", "failure"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}
	if err := svc.LogAction(ctx, &userID, &otherBand, "BAND_CREATED", nil, "10.0.0.1", "success"); err != nil {
		t.Fatalf("LogAction failed: %v", err)
	}

	got, err := svc.GetAuditLogs(ctx, AuditLogFilter{BandID: &bandID})
	if err != nil {
		t.Fatalf("GetAuditLogs failed: %v", err)
	}
	if got.Total != 2 {
		t.Errorf("Expected 2 entries for the band, got %d", got.Total)
	}

	got, err = svc.GetAuditLogs(ctx, AuditLogFilter{BandID: &bandID, Status: "failure"})
	if err != nil {
		t.Fatalf("GetAuditLogs failed: %v", err)
	}
	if got.Total != 1 || got.Data[0].Action != "BAND_JOIN_FAILED" {
		t.Errorf("Expected the single failure entry, got %+v", got.Data)
	}
}

func TestGetAuditLogsPagination(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(NewRepository(db))
	ctx := context.Background()

	bandID := uuid.New()
	for i := 0; i < 25; i++ {
		userID := uuid.New()
		if err := svc.LogAction(ctx, &userID, &bandID, "EVENT_CREATED", nil, "10.0.0.1", "success"); err != nil {
			t.Fatalf("LogAction failed: %v", err)
		}
	}

	got, err := svc.GetAuditLogs(ctx, AuditLogFilter{BandID: &bandID, Page: 2, Limit: 10})
	if err != nil {
		t.Fatalf("GetAuditLogs failed: %v", err)
	}
	if got.Total != 25 || len(got.Data) != 10 || got.TotalPages != 3 {
		t.Errorf("Unexpected page shape: total=%d len=%d pages=%d", got.Total, len(got.Data), got.TotalPages)
	}
}
