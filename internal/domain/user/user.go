package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser   = "user"
	RoleArtist = "artist"
	RoleAdmin  = "admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uid"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	AvatarURL string    `gorm:"type:text" json:"avatar_url"`
	Role      string    `gorm:"size:16;not null;default:user" json:"role"`

	PasswordResetToken   string     `gorm:"size:255" json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }
