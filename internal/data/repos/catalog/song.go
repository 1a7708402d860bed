package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/soniq-music/soniq-webapp-backend/internal/domain"
	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
	"github.com/soniq-music/soniq-webapp-backend/internal/search"
)

// RelationKind selects which of the four song join relations a query runs
// against, so callers never touch join-table names directly.
type RelationKind string

const (
	RelationPerformer RelationKind = "performer"
	RelationDirector  RelationKind = "director"
	RelationGenre     RelationKind = "genre"
	RelationMood      RelationKind = "mood"
)

// AlbumHit is one album facet result: an album string plus how many catalog
// songs carry it. Albums are not modeled as their own entity; this is the
// grouped view over songs.album.
type AlbumHit struct {
	Album     string `json:"album"`
	SongCount int64  `json:"song_count"`
}

type SongRepo interface {
	Create(ctx context.Context, tx *gorm.DB, song *types.Song) error
	GetByUID(ctx context.Context, tx *gorm.DB, uid uuid.UUID) (*types.Song, error)
	UpdateScalars(ctx context.Context, tx *gorm.DB, uid uuid.UUID, fields map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, song *types.Song) error

	List(ctx context.Context, tx *gorm.DB, filter search.SongFilter, page search.PageRequest) ([]*types.Song, int64, error)
	Suggestions(ctx context.Context, tx *gorm.DB, src *types.Song, limit int) ([]*types.Song, error)
	Translations(ctx context.Context, tx *gorm.DB, uid uuid.UUID) ([]*types.Song, error)
	SearchAlbums(ctx context.Context, tx *gorm.DB, tf search.TextFilter, page search.PageRequest) ([]AlbumHit, int64, error)
	Languages(ctx context.Context, tx *gorm.DB) ([]string, error)
	SongsForRelatedEntity(ctx context.Context, tx *gorm.DB, kind RelationKind, name string, page search.PageRequest) ([]*types.Song, int64, error)

	ReplaceArtists(ctx context.Context, tx *gorm.DB, song *types.Song, artists []*types.Artist) error
	ReplaceDirectors(ctx context.Context, tx *gorm.DB, song *types.Song, directors []*types.Artist) error
	ReplaceGenres(ctx context.Context, tx *gorm.DB, song *types.Song, genres []*types.Genre) error
	ReplaceMoods(ctx context.Context, tx *gorm.DB, song *types.Song, moods []*types.Mood) error
}

type songRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSongRepo(db *gorm.DB, baseLog *logger.Logger) SongRepo {
	return &songRepo{db: db, log: baseLog.With("repo", "SongRepo")}
}

func (sr *songRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return sr.db
}

func (sr *songRepo) Create(ctx context.Context, tx *gorm.DB, song *types.Song) error {
	return sr.resolve(tx).WithContext(ctx).Create(song).Error
}

func (sr *songRepo) GetByUID(ctx context.Context, tx *gorm.DB, uid uuid.UUID) (*types.Song, error) {
	var row types.Song
	if err := sr.resolve(tx).WithContext(ctx).
		Preload("Artists").
		Preload("Directors").
		Preload("Genres").
		Preload("Moods").
		Where("uid = ?", uid).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, fmt.Errorf("%w: song %s", apperrors.ErrNotFound, uid)
	}
	return &row, nil
}

func (sr *songRepo) UpdateScalars(ctx context.Context, tx *gorm.DB, uid uuid.UUID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return sr.resolve(tx).WithContext(ctx).
		Model(&types.Song{}).
		Where("uid = ?", uid).
		Updates(fields).Error
}

// Delete removes the join rows for all four relations before the record so
// a mid-delete crash cannot leave orphaned association rows. Callers wrap it
// in a transaction together with any media cleanup bookkeeping.
func (sr *songRepo) Delete(ctx context.Context, tx *gorm.DB, song *types.Song) error {
	transaction := sr.resolve(tx).WithContext(ctx)
	for _, assoc := range []string{"Artists", "Directors", "Genres", "Moods"} {
		if err := transaction.Model(song).Association(assoc).Clear(); err != nil {
			return fmt.Errorf("clear %s for song %s: %w", assoc, song.UID, err)
		}
	}
	return transaction.Delete(song).Error
}

// List applies the faceted filter, counts distinct matches, and returns one
// page ordered newest-first with a fixed id tie-break. The filter is applied
// to fresh queries for the count and the rows so both see identical
// predicates; counting collapses join-expanded duplicates.
func (sr *songRepo) List(ctx context.Context, tx *gorm.DB, filter search.SongFilter, page search.PageRequest) ([]*types.Song, int64, error) {
	transaction := sr.resolve(tx)

	base := func() *gorm.DB {
		return filter.Apply(transaction.WithContext(ctx).Model(&types.Song{}))
	}

	// Relation filters join across one-to-many rows, so both queries must
	// deduplicate. Plain column filters stay one row per song.
	countQ, rowsQ := base(), base()
	if filter.HasRelationJoins() {
		countQ = countQ.Distinct("songs.id")
		rowsQ = rowsQ.Distinct("songs.*")
	}

	var total int64
	if err := countQ.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*types.Song
	if err := rowsQ.
		Order("songs.created_at DESC, songs.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Preload("Artists").
		Preload("Directors").
		Preload("Genres").
		Preload("Moods").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// Suggestions finds up to limit other songs in the exact same language that
// share at least one mood name or genre name with the source. Language is a
// hard filter; the mood/genre overlap is OR-combined. No scoring beyond the
// boolean filter, ties broken by recency.
func (sr *songRepo) Suggestions(ctx context.Context, tx *gorm.DB, src *types.Song, limit int) ([]*types.Song, error) {
	moodNames := make([]string, 0, len(src.Moods))
	for _, m := range src.Moods {
		moodNames = append(moodNames, m.Name)
	}
	genreNames := make([]string, 0, len(src.Genres))
	for _, g := range src.Genres {
		genreNames = append(genreNames, g.Name)
	}
	if len(moodNames) == 0 && len(genreNames) == 0 {
		return []*types.Song{}, nil
	}

	q := sr.resolve(tx).WithContext(ctx).
		Model(&types.Song{}).
		Joins("LEFT JOIN song_genres ON song_genres.song_id = songs.id").
		Joins("LEFT JOIN genres ON genres.id = song_genres.genre_id").
		Joins("LEFT JOIN song_moods ON song_moods.song_id = songs.id").
		Joins("LEFT JOIN moods ON moods.id = song_moods.mood_id").
		Where("songs.language = ? AND songs.uid <> ?", src.Language, src.UID)

	switch {
	case len(moodNames) == 0:
		q = q.Where("genres.name IN ?", genreNames)
	case len(genreNames) == 0:
		q = q.Where("moods.name IN ?", moodNames)
	default:
		q = q.Where("genres.name IN ? OR moods.name IN ?", genreNames, moodNames)
	}

	var rows []*types.Song
	if err := q.
		Distinct("songs.*").
		Order("songs.created_at DESC, songs.id DESC").
		Limit(limit).
		Preload("Artists").
		Preload("Genres").
		Preload("Moods").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Translations returns the song itself plus every song declaring it as
// parent, ordered by language ascending. NotFound when the uid does not
// resolve.
func (sr *songRepo) Translations(ctx context.Context, tx *gorm.DB, uid uuid.UUID) ([]*types.Song, error) {
	transaction := sr.resolve(tx)

	var exists int64
	if err := transaction.WithContext(ctx).
		Model(&types.Song{}).
		Where("uid = ?", uid).
		Count(&exists).Error; err != nil {
		return nil, err
	}
	if exists == 0 {
		return nil, fmt.Errorf("%w: song %s", apperrors.ErrNotFound, uid)
	}

	var rows []*types.Song
	if err := transaction.WithContext(ctx).
		Where("uid = ? OR parent_uid = ?", uid, uid).
		Order("language ASC, id ASC").
		Preload("Artists").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SearchAlbums runs the album facet of free-text search over the distinct
// album strings carried by songs.
func (sr *songRepo) SearchAlbums(ctx context.Context, tx *gorm.DB, tf search.TextFilter, page search.PageRequest) ([]AlbumHit, int64, error) {
	transaction := sr.resolve(tx)

	base := func() *gorm.DB {
		q := transaction.WithContext(ctx).
			Model(&types.Song{}).
			Where("songs.album <> ''")
		return search.ApplyColumnFilter(q, "songs.album", tf)
	}

	var total int64
	if err := base().Distinct("songs.album").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var hits []AlbumHit
	if err := base().
		Select("songs.album AS album, COUNT(*) AS song_count").
		Group("songs.album").
		Order("songs.album ASC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Scan(&hits).Error; err != nil {
		return nil, 0, err
	}
	return hits, total, nil
}

// Languages lists every distinct language in the catalog, used for the
// trailing-language detection in album lookups.
func (sr *songRepo) Languages(ctx context.Context, tx *gorm.DB) ([]string, error) {
	var langs []string
	if err := sr.resolve(tx).WithContext(ctx).
		Model(&types.Song{}).
		Distinct().
		Order("language ASC").
		Pluck("language", &langs).Error; err != nil {
		return nil, err
	}
	return langs, nil
}

// SongsForRelatedEntity is the single entry point for "songs attached to
// this artist/director/genre/mood", parameterized by relation kind so entity
// types stay decoupled from join-table layout. Name matching is exact but
// case-insensitive.
func (sr *songRepo) SongsForRelatedEntity(ctx context.Context, tx *gorm.DB, kind RelationKind, name string, page search.PageRequest) ([]*types.Song, int64, error) {
	transaction := sr.resolve(tx)

	base := func() (*gorm.DB, error) {
		q := transaction.WithContext(ctx).Model(&types.Song{})
		switch kind {
		case RelationPerformer:
			q = q.Joins("JOIN song_artists ON song_artists.song_id = songs.id").
				Joins("JOIN artists ON artists.id = song_artists.artist_id").
				Where("lower(artists.name) = lower(?)", name)
		case RelationDirector:
			q = q.Joins("JOIN song_directors ON song_directors.song_id = songs.id").
				Joins("JOIN artists ON artists.id = song_directors.artist_id").
				Where("lower(artists.name) = lower(?)", name)
		case RelationGenre:
			q = q.Joins("JOIN song_genres ON song_genres.song_id = songs.id").
				Joins("JOIN genres ON genres.id = song_genres.genre_id").
				Where("lower(genres.name) = lower(?)", name)
		case RelationMood:
			q = q.Joins("JOIN song_moods ON song_moods.song_id = songs.id").
				Joins("JOIN moods ON moods.id = song_moods.mood_id").
				Where("lower(moods.name) = lower(?)", name)
		default:
			return nil, fmt.Errorf("%w: unknown relation kind %q", apperrors.ErrInvalidArgument, kind)
		}
		return q, nil
	}

	q, err := base()
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := q.Distinct("songs.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q, _ = base()
	var rows []*types.Song
	if err := q.
		Distinct("songs.*").
		Order("songs.created_at DESC, songs.id DESC").
		Offset(page.Offset()).
		Limit(page.Limit).
		Preload("Artists").
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// The Replace* methods are transactional replace-set operations: the prior
// association rows are fully swapped for the new set inside the caller's
// transaction, never left as a partial mixture.

func (sr *songRepo) ReplaceArtists(ctx context.Context, tx *gorm.DB, song *types.Song, artists []*types.Artist) error {
	return sr.resolve(tx).WithContext(ctx).Model(song).Association("Artists").Replace(artists)
}

func (sr *songRepo) ReplaceDirectors(ctx context.Context, tx *gorm.DB, song *types.Song, directors []*types.Artist) error {
	return sr.resolve(tx).WithContext(ctx).Model(song).Association("Directors").Replace(directors)
}

func (sr *songRepo) ReplaceGenres(ctx context.Context, tx *gorm.DB, song *types.Song, genres []*types.Genre) error {
	return sr.resolve(tx).WithContext(ctx).Model(song).Association("Genres").Replace(genres)
}

func (sr *songRepo) ReplaceMoods(ctx context.Context, tx *gorm.DB, song *types.Song, moods []*types.Mood) error {
	return sr.resolve(tx).WithContext(ctx).Model(song).Association("Moods").Replace(moods)
}
