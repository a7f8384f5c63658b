package notification

import (
	"time"

	"github.com/google/uuid"
)

// InAppNotification - per-user, in-app bell notifications
type InAppNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	BandID    uuid.UUID `gorm:"type:uuid;not null;index" json:"band_id"`
	Title     string    `gorm:"size:150;not null" json:"title"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Category  string    `gorm:"size:30;not null" json:"category"` // membership, event, band
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides table name for InAppNotification
func (InAppNotification) TableName() string {
	return "in_app_notifications"
}

// Activity is the message published to the band-activity topic whenever
// something happens in a band. The consumer fans it out to member
// notifications.
type Activity struct {
	BandID   uuid.UUID `json:"band_id"`
	BandName string    `json:"band_name"`
	ActorID  uuid.UUID `json:"actor_id"`
	Action   string    `json:"action"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Category string    `json:"category"`
}

// Actions carried on the activity topic
const (
	ActionMemberJoined   = "MEMBER_JOINED"
	ActionMemberLeft     = "MEMBER_LEFT"
	ActionEventCreated   = "EVENT_CREATED"
	ActionEventUpdated   = "EVENT_UPDATED"
	ActionEventConfirmed = "EVENT_CONFIRMED"
	ActionEventCancelled = "EVENT_CANCELLED"
	ActionEventDeleted   = "EVENT_DELETED"
)
