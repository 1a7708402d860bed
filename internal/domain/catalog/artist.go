package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Artist names are case-preserving but unique. The same artist row can be
// attached to a song as a performer, a music director, or both.
type Artist struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uid"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Artist) TableName() string { return "artists" }
