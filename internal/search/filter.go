package search

import (
	"strings"

	"gorm.io/gorm"
)

// SongFilter is the full faceted filter over the catalog. Zero-valued fields
// impose no constraint. Text fields match when any keyword is a
// case-insensitive substring of the column; all supplied fields must match
// (AND across fields, OR within a field). Relation fields use inner joins,
// so a song with no matching related row is excluded.
type SongFilter struct {
	Title    TextFilter
	Album    TextFilter
	Language TextFilter
	Artist   TextFilter
	Genre    TextFilter
	Mood     TextFilter
	Director TextFilter

	Year  *int       // exact match
	Years *YearRange // inclusive range, from decade parsing

	UploaderUID string // exact match on the owning user, for my-songs listings
}

// Apply composes the filter onto a query already scoped to the songs model.
// The same filter applied twice to fresh queries yields identical SQL, which
// is what lets the paginator count and fetch consistently.
func (f SongFilter) Apply(q *gorm.DB) *gorm.DB {
	q = ApplyColumnFilter(q, "songs.title", f.Title)
	q = ApplyColumnFilter(q, "songs.album", f.Album)
	q = ApplyColumnFilter(q, "songs.language", f.Language)

	if f.Year != nil {
		q = q.Where("songs.year = ?", *f.Year)
	}
	if f.Years != nil {
		q = q.Where("songs.year BETWEEN ? AND ?", f.Years.From, f.Years.To)
	}
	if f.UploaderUID != "" {
		q = q.Where("songs.uploader_uid = ?", f.UploaderUID)
	}

	if !f.Artist.IsZero() {
		q = q.Joins("JOIN song_artists ON song_artists.song_id = songs.id").
			Joins("JOIN artists ON artists.id = song_artists.artist_id")
		q = ApplyColumnFilter(q, "artists.name", f.Artist)
	}
	if !f.Director.IsZero() {
		q = q.Joins("JOIN song_directors ON song_directors.song_id = songs.id").
			Joins("JOIN artists AS directors ON directors.id = song_directors.artist_id")
		q = ApplyColumnFilter(q, "directors.name", f.Director)
	}
	if !f.Genre.IsZero() {
		q = q.Joins("JOIN song_genres ON song_genres.song_id = songs.id").
			Joins("JOIN genres ON genres.id = song_genres.genre_id")
		q = ApplyColumnFilter(q, "genres.name", f.Genre)
	}
	if !f.Mood.IsZero() {
		q = q.Joins("JOIN song_moods ON song_moods.song_id = songs.id").
			Joins("JOIN moods ON moods.id = song_moods.mood_id")
		q = ApplyColumnFilter(q, "moods.name", f.Mood)
	}
	return q
}

// HasRelationJoins reports whether applying the filter expands songs across
// one-to-many join rows, in which case result counting must deduplicate.
func (f SongFilter) HasRelationJoins() bool {
	return !f.Artist.IsZero() || !f.Director.IsZero() || !f.Genre.IsZero() || !f.Mood.IsZero()
}

// ApplyColumnFilter ORs substring matches for every keyword onto a single
// column. Exposed so repos can reuse the predicate outside SongFilter.
func ApplyColumnFilter(q *gorm.DB, column string, tf TextFilter) *gorm.DB {
	expr, args := substringAnyExpr(column, tf.Keywords())
	if expr == "" {
		return q
	}
	return q.Where(expr, args...)
}

// substringAnyExpr builds "(lower(col) LIKE ? OR lower(col) LIKE ?)" for the
// keyword list. lower() rather than ILIKE keeps the predicate portable
// between postgres and the sqlite test store.
func substringAnyExpr(column string, keywords []string) (string, []interface{}) {
	if len(keywords) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(keywords))
	args := make([]interface{}, 0, len(keywords))
	for _, kw := range keywords {
		parts = append(parts, "lower("+column+") LIKE ?")
		args = append(args, "%"+strings.ToLower(kw)+"%")
	}
	return "(" + strings.Join(parts, " OR ") + ")", args
}
