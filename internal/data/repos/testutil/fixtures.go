package testutil

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/soniq-music/soniq-webapp-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, role string) *types.User {
	tb.Helper()
	u := &types.User{
		UID:      uuid.New(),
		Name:     "Seed User",
		Email:    email,
		Password: "pw",
		Role:     role,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

// SongSpec drives SeedSong. Relation names are resolved get-or-create style
// against the tx so fixtures compose without preexisting rows.
type SongSpec struct {
	Title     string
	Album     string
	Language  string
	Year      *int
	ParentUID *uuid.UUID
	Uploader  *uuid.UUID
	CreatedAt time.Time

	Artists   []string
	Directors []string
	Genres    []string
	Moods     []string
}

func SeedSong(tb testing.TB, ctx context.Context, tx *gorm.DB, spec SongSpec) *types.Song {
	tb.Helper()

	s := &types.Song{
		UID:         uuid.New(),
		Title:       spec.Title,
		Album:       spec.Album,
		URL:         "https://media.example/" + strings.ReplaceAll(strings.ToLower(spec.Title), " ", "-") + ".mp3",
		Language:    spec.Language,
		Year:        spec.Year,
		ParentUID:   spec.ParentUID,
		UploaderUID: spec.Uploader,
	}
	for _, name := range spec.Artists {
		s.Artists = append(s.Artists, seedArtist(tb, ctx, tx, name))
	}
	for _, name := range spec.Directors {
		s.Directors = append(s.Directors, seedArtist(tb, ctx, tx, name))
	}
	for _, name := range spec.Genres {
		s.Genres = append(s.Genres, seedGenre(tb, ctx, tx, name))
	}
	for _, name := range spec.Moods {
		s.Moods = append(s.Moods, seedMood(tb, ctx, tx, name))
	}

	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed song %q: %v", spec.Title, err)
	}
	if !spec.CreatedAt.IsZero() {
		if err := tx.WithContext(ctx).
			Model(&types.Song{}).
			Where("id = ?", s.ID).
			Update("created_at", spec.CreatedAt).Error; err != nil {
			tb.Fatalf("backdate song %q: %v", spec.Title, err)
		}
		s.CreatedAt = spec.CreatedAt
	}
	return s
}

func seedArtist(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Artist {
	tb.Helper()
	var row types.Artist
	if err := tx.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&row).Error; err != nil {
		tb.Fatalf("seed artist lookup %q: %v", name, err)
	}
	if row.ID != 0 {
		return &row
	}
	row = types.Artist{UID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
		tb.Fatalf("seed artist %q: %v", name, err)
	}
	return &row
}

func seedGenre(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Genre {
	tb.Helper()
	name = strings.ToLower(name)
	var row types.Genre
	if err := tx.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&row).Error; err != nil {
		tb.Fatalf("seed genre lookup %q: %v", name, err)
	}
	if row.ID != 0 {
		return &row
	}
	row = types.Genre{UID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
		tb.Fatalf("seed genre %q: %v", name, err)
	}
	return &row
}

func seedMood(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Mood {
	tb.Helper()
	name = strings.ToLower(name)
	var row types.Mood
	if err := tx.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&row).Error; err != nil {
		tb.Fatalf("seed mood lookup %q: %v", name, err)
	}
	if row.ID != 0 {
		return &row
	}
	row = types.Mood{UID: uuid.New(), Name: name}
	if err := tx.WithContext(ctx).Create(&row).Error; err != nil {
		tb.Fatalf("seed mood %q: %v", name, err)
	}
	return &row
}
