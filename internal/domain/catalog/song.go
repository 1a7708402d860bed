package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Song is the central catalog record. UID is the public identifier; ID is
// the surrogate key the join tables reference.
//
// ParentUID links a translation/alternate-language rendition back to its
// canonical song. UploaderUID is a weak reference: deleting the uploader
// nulls it out but keeps the song.
type Song struct {
	ID         uint       `gorm:"primaryKey" json:"-"`
	UID        uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"uid"`
	Title      string     `gorm:"size:255;not null" json:"title"`
	Album      string     `gorm:"size:255;index" json:"album,omitempty"`
	URL        string     `gorm:"type:text;not null" json:"url"`
	Duration   *float64   `json:"duration,omitempty"`
	CoverImage string     `gorm:"type:text" json:"cover_image,omitempty"`
	Year       *int       `json:"year,omitempty"`
	Language   string     `gorm:"size:50;not null;index" json:"language"`
	ParentUID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_uid,omitempty"`

	UploaderUID *uuid.UUID `gorm:"type:uuid;index" json:"uploader_uid,omitempty"`

	Artists   []*Artist `gorm:"many2many:song_artists" json:"artists,omitempty"`
	Directors []*Artist `gorm:"many2many:song_directors" json:"directors,omitempty"`
	Genres    []*Genre  `gorm:"many2many:song_genres" json:"genres,omitempty"`
	Moods     []*Mood   `gorm:"many2many:song_moods" json:"moods,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Song) TableName() string { return "songs" }
