package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Genre names are normalized to lowercase at write time so "Bollywood" and
// "bollywood" resolve to one row.
type Genre struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	UID       uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"uid"`
	Name      string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Genre) TableName() string { return "genres" }
