package event

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	ListByBand(ctx context.Context, bandID uuid.UUID, filter ListFilter) ([]Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ListFilter narrows a band's schedule listing. Zero values mean no
// constraint.
type ListFilter struct {
	Type   string
	Status string
	From   time.Time
	To     time.Time
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	var e Event
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// ===========================
// 📄 Band schedule, chronological
func (r *repository) ListByBand(ctx context.Context, bandID uuid.UUID, filter ListFilter) ([]Event, error) {
	q := r.db.WithContext(ctx).Where("band_id = ?", bandID)
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if !filter.From.IsZero() {
		q = q.Where("starts_at >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("starts_at < ?", filter.To)
	}

	var events []Event
	err := q.Order("starts_at ASC").Find(&events).Error
	return events, err
}

func (r *repository) Update(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Event{}, "id = ?", id).Error
}
