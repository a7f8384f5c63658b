package venue

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, v *Venue) error
	GetByID(ctx context.Context, id uuid.UUID) (*Venue, error)
	ListByBand(ctx context.Context, bandID uuid.UUID) ([]Venue, error)
	Update(ctx context.Context, v *Venue) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, v *Venue) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Venue, error) {
	var v Venue
	if err := r.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) ListByBand(ctx context.Context, bandID uuid.UUID) ([]Venue, error) {
	var venues []Venue
	err := r.db.WithContext(ctx).
		Where("band_id = ?", bandID).
		Order("name ASC").
		Find(&venues).Error
	return venues, err
}

func (r *repository) Update(ctx context.Context, v *Venue) error {
	return r.db.WithContext(ctx).Save(v).Error
}

// ===========================
// ❌ Delete a venue
// Events keep existing with their venue detached, in the same
// transaction as the delete.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("UPDATE events SET venue_id = NULL WHERE venue_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Venue{}, "id = ?", id).Error
	})
}
