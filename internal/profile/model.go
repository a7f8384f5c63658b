package profile

import (
	"time"

	"github.com/google/uuid"
)

// ============================
// 🔷 GORM Profile Model
//
// The primary key is the subject id assigned by the identity provider,
// not a key we mint ourselves.
type Profile struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	DisplayName string    `gorm:"size:100;not null" json:"display_name"`
	Email       string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName overrides table name for Profile
func (Profile) TableName() string {
	return "profiles"
}

// ============================
// 🟡 Create Profile Request
type CreateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,min=1,max=100"`
	Email       string `json:"email" binding:"required,email"`
}

// ============================
// 🟠 Update Profile Request (PATCH semantics: nil fields untouched)
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,min=1,max=100"`
}
