package event

import (
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	TypeRehearsal = "rehearsal"
	TypeGig       = "gig"
)

// Event statuses. Transitions only move forward: planned can become
// confirmed or cancelled, confirmed can become cancelled, cancelled is
// terminal.
const (
	StatusPlanned   = "planned"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Event - a rehearsal or gig on a band's schedule
type Event struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	BandID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"band_id"`
	VenueID   *uuid.UUID `gorm:"type:uuid;index" json:"venue_id"`
	Type      string     `gorm:"size:16;not null" json:"type"`
	Status    string     `gorm:"size:16;not null;default:planned" json:"status"`
	Title     string     `gorm:"size:120;not null" json:"title"`
	StartsAt  time.Time  `gorm:"not null" json:"starts_at"`
	EndsAt    time.Time  `gorm:"not null" json:"ends_at"`
	Notes     string     `gorm:"type:text" json:"notes"`
	CreatedBy uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName overrides table name for Event
func (Event) TableName() string {
	return "events"
}

type CreateEventRequest struct {
	Type     string     `json:"type" binding:"required,oneof=rehearsal gig"`
	Title    string     `json:"title" binding:"required,min=2,max=120"`
	StartsAt time.Time  `json:"starts_at" binding:"required"`
	EndsAt   time.Time  `json:"ends_at" binding:"required"`
	VenueID  *uuid.UUID `json:"venue_id"`
	Notes    string     `json:"notes"`
}

// UpdateEventRequest carries partial updates. Absent fields are left
// untouched. Passing the zero UUID as venue_id detaches the venue.
type UpdateEventRequest struct {
	Type     *string    `json:"type" binding:"omitempty,oneof=rehearsal gig"`
	Status   *string    `json:"status" binding:"omitempty,oneof=planned confirmed cancelled"`
	Title    *string    `json:"title" binding:"omitempty,min=2,max=120"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	VenueID  *uuid.UUID `json:"venue_id"`
	Notes    *string    `json:"notes"`
}
