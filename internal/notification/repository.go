package notification

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	CreateBatch(ctx context.Context, notifications []InAppNotification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]InAppNotification, error)
	MarkAsRead(ctx context.Context, id uint, userID uuid.UUID) (bool, error)
	BandMemberIDs(ctx context.Context, bandID uuid.UUID) ([]uuid.UUID, error)
	BandMemberEmails(ctx context.Context, bandID uuid.UUID) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ===========================
// 🎯 Create notifications in one insert
func (r *repository) CreateBatch(ctx context.Context, notifications []InAppNotification) error {
	if len(notifications) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&notifications).Error
}

// ===========================
// 📄 List a user's notifications, newest first
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]InAppNotification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var out []InAppNotification
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ===========================
// ✅ Mark read, scoped to the owning user
func (r *repository) MarkAsRead(ctx context.Context, id uint, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	return res.RowsAffected > 0, res.Error
}

// ===========================
// 🔍 Member user ids of a band
func (r *repository) BandMemberIDs(ctx context.Context, bandID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table("memberships").
		Where("band_id = ?", bandID).
		Pluck("user_id", &ids).Error
	return ids, err
}

// ===========================
// 🔍 Member emails of a band (for confirmation mails)
func (r *repository) BandMemberEmails(ctx context.Context, bandID uuid.UUID) ([]string, error) {
	var emails []string
	err := r.db.WithContext(ctx).
		Table("memberships m").
		Joins("JOIN profiles p ON p.user_id = m.user_id").
		Where("m.band_id = ?", bandID).
		Pluck("p.email", &emails).Error
	return emails, err
}
