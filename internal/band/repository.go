package band

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mbriggs/band-management-backend/middleware"
)

type Repository interface {
	CreateWithLeader(ctx context.Context, b *Band, leaderID uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Band, error)
	GetByJoinCode(ctx context.Context, code string) (*Band, error)
	Update(ctx context.Context, b *Band) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]Band, error)
	IsMember(ctx context.Context, bandID, userID uuid.UUID) (bool, error)
	GetRole(ctx context.Context, bandID, userID uuid.UUID) (string, error)
	AddMember(ctx context.Context, bandID, userID uuid.UUID, role string) (*Membership, error)
	Members(ctx context.Context, bandID uuid.UUID) ([]Member, error)
	CountLeaders(ctx context.Context, bandID uuid.UUID) (int64, error)
	UpdateMemberRole(ctx context.Context, bandID, userID uuid.UUID, role string) error
	RemoveMember(ctx context.Context, bandID, userID uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ===========================
// 🎯 Create a band and its leader membership in one transaction
// Either both rows exist afterwards or neither does.
func (r *repository) CreateWithLeader(ctx context.Context, b *Band, leaderID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return err
		}
		return tx.Create(&Membership{
			BandID: b.ID,
			UserID: leaderID,
			Role:   middleware.RoleLeader,
		}).Error
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Band, error) {
	var b Band
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetByJoinCode(ctx context.Context, code string) (*Band, error) {
	var b Band
	if err := r.db.WithContext(ctx).First(&b, "join_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidJoinCode
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) Update(ctx context.Context, b *Band) error {
	return r.db.WithContext(ctx).Save(b).Error
}

// ===========================
// ❌ Delete a band and everything hanging off it
// Events, venues and memberships go in the same transaction so a
// half-deleted band can never be observed.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM events WHERE band_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM venues WHERE band_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("band_id = ?", id).Delete(&Membership{}).Error; err != nil {
			return err
		}
		return tx.Delete(&Band{}, "id = ?", id).Error
	})
}

// ===========================
// 📄 Bands a user belongs to, newest membership first
func (r *repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]Band, error) {
	var bands []Band
	err := r.db.WithContext(ctx).
		Select("bands.*").
		Joins("JOIN memberships m ON m.band_id = bands.id").
		Where("m.user_id = ?", userID).
		Order("m.created_at DESC").
		Find(&bands).Error
	return bands, err
}

func (r *repository) IsMember(ctx context.Context, bandID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Membership{}).
		Where("band_id = ? AND user_id = ?", bandID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) GetRole(ctx context.Context, bandID, userID uuid.UUID) (string, error) {
	var m Membership
	err := r.db.WithContext(ctx).
		First(&m, "band_id = ? AND user_id = ?", bandID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrNotAMember
		}
		return "", err
	}
	return m.Role, nil
}

// AddMember relies on the (band_id, user_id) unique index: a concurrent
// double join surfaces as gorm.ErrDuplicatedKey.
func (r *repository) AddMember(ctx context.Context, bandID, userID uuid.UUID, role string) (*Membership, error) {
	m := &Membership{
		BandID: bandID,
		UserID: userID,
		Role:   role,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyMember
		}
		return nil, err
	}
	return m, nil
}

// ===========================
// 🔍 Member roster with profile details
func (r *repository) Members(ctx context.Context, bandID uuid.UUID) ([]Member, error) {
	var members []Member
	err := r.db.WithContext(ctx).
		Table("memberships m").
		Select("m.user_id, p.display_name, p.email, m.role, m.created_at AS joined_at").
		Joins("JOIN profiles p ON p.user_id = m.user_id").
		Where("m.band_id = ?", bandID).
		Order("m.created_at ASC").
		Scan(&members).Error
	return members, err
}

func (r *repository) CountLeaders(ctx context.Context, bandID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Membership{}).
		Where("band_id = ? AND role = ?", bandID, middleware.RoleLeader).
		Count(&count).Error
	return count, err
}

func (r *repository) UpdateMemberRole(ctx context.Context, bandID, userID uuid.UUID, role string) error {
	res := r.db.WithContext(ctx).
		Model(&Membership{}).
		Where("band_id = ? AND user_id = ?", bandID, userID).
		Update("role", role)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotAMember
	}
	return nil
}

func (r *repository) RemoveMember(ctx context.Context, bandID, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("band_id = ? AND user_id = ?", bandID, userID).
		Delete(&Membership{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotAMember
	}
	return nil
}
