package user

import (
	"time"

	"github.com/google/uuid"
)

// UserToken is a persisted refresh token. Access tokens are stateless JWTs,
// refresh tokens are opaque and revocable by row deletion.
type UserToken struct {
	ID           uint      `gorm:"primaryKey" json:"-"`
	UserUID      uuid.UUID `gorm:"type:uuid;index;not null" json:"user_uid"`
	RefreshToken string    `gorm:"size:255;uniqueIndex;not null" json:"-"`
	ExpiresAt    time.Time `gorm:"not null" json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (UserToken) TableName() string { return "user_tokens" }
