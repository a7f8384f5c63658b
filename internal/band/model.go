package band

import (
	"time"

	"github.com/google/uuid"
)

// Band - a group of musicians sharing a schedule
type Band struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string    `gorm:"size:64;not null" json:"name"`
	Timezone  string    `gorm:"size:64;not null;default:America/New_York" json:"timezone"`
	JoinCode  string    `gorm:"size:16;not null;uniqueIndex" json:"join_code"`
	CreatedBy uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides table name for Band
func (Band) TableName() string {
	return "bands"
}

// Membership links a profile to a band with a role
type Membership struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	BandID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_band_user" json:"band_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_band_user" json:"user_id"`
	Role      string    `gorm:"size:16;not null" json:"role"` // leader, member
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides table name for Membership
func (Membership) TableName() string {
	return "memberships"
}

// Member is a membership row joined with the member's profile
type Member struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	JoinedAt    time.Time `json:"joined_at"`
}

type CreateBandRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=64"`
	Timezone string `json:"timezone" binding:"omitempty,max=64"`
}

type UpdateBandRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=2,max=64"`
	Timezone *string `json:"timezone" binding:"omitempty,max=64"`
}

type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=leader member"`
}
