package venue

import (
	"time"

	"github.com/google/uuid"
)

// Venue - a place a band rehearses or performs
type Venue struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	BandID    uuid.UUID `gorm:"type:uuid;not null;index" json:"band_id"`
	Name      string    `gorm:"size:120;not null" json:"name"`
	Address   string    `gorm:"size:255" json:"address"`
	Notes     string    `gorm:"type:text" json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides table name for Venue
func (Venue) TableName() string {
	return "venues"
}

type CreateVenueRequest struct {
	Name    string `json:"name" binding:"required,min=2,max=120"`
	Address string `json:"address" binding:"omitempty,max=255"`
	Notes   string `json:"notes"`
}

type UpdateVenueRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=120"`
	Address *string `json:"address" binding:"omitempty,max=255"`
	Notes   *string `json:"notes"`
}
