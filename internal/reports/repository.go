package reports

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ScheduleRows(ctx context.Context, bandID uuid.UUID) ([]ScheduleRow, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// ===========================
// 📄 Full schedule of a band with venue names, chronological
func (r *repository) ScheduleRows(ctx context.Context, bandID uuid.UUID) ([]ScheduleRow, error) {
	var rows []ScheduleRow
	err := r.db.WithContext(ctx).
		Table("events e").
		Select("e.title, e.type, e.status, e.starts_at, e.ends_at, COALESCE(v.name, '') AS venue_name, e.notes").
		Joins("LEFT JOIN venues v ON v.id = e.venue_id").
		Where("e.band_id = ?", bandID).
		Order("e.starts_at ASC").
		Scan(&rows).Error
	return rows, err
}
