package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Mood names are normalized to lowercase at write time, same as genres.
type Mood struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uid"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Mood) TableName() string { return "moods" }
