package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/soniq-music/soniq-webapp-backend/internal/data/repos/testutil"
	types "github.com/soniq-music/soniq-webapp-backend/internal/domain"
	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
	"github.com/soniq-music/soniq-webapp-backend/internal/search"
)

func intPtr(n int) *int { return &n }

func TestFilterEndToEnd(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSongRepo(db, testutil.Logger(t))

	song := testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Chikni Chameli",
		Language: "Hindi",
		Artists:  []string{"Ajay-Atul", "Shreya Ghoshal"},
		Genres:   []string{"Bollywood"},
		Moods:    []string{"dance", "party"},
	})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Other Track",
		Language: "Hindi",
		Artists:  []string{"Someone Else"},
		Genres:   []string{"pop"},
		Moods:    []string{"sad"},
	})

	filter := search.SongFilter{
		Artist: search.NewTextFilter("atul"),
		Genre:  search.NewTextFilter("bolly"),
		Mood:   search.NewTextFilter("dance"),
	}
	rows, total, err := repo.List(ctx, tx, filter, search.PageRequest{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].UID != song.UID {
		t.Fatalf("List: expected only %q, got total=%d rows=%d", song.Title, total, len(rows))
	}

	filter.Mood = search.NewTextFilter("sad")
	rows, total, err = repo.List(ctx, tx, filter, search.PageRequest{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List with mood=sad: %v", err)
	}
	if total != 0 || len(rows) != 0 {
		t.Fatalf("List with mood=sad: expected empty, got total=%d rows=%d", total, len(rows))
	}
}

func TestFilterFieldSemantics(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSongRepo(db, testutil.Logger(t))

	hit := testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Tum Hi Ho",
		Album:    "Aashiqui 2",
		Language: "Hindi",
		Year:     intPtr(2013),
		Artists:  []string{"Arijit Singh"},
	})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Channa Mereya",
		Album:    "Ae Dil Hai Mushkil",
		Language: "Hindi",
		Year:     intPtr(2016),
		Artists:  []string{"Arijit Singh"},
	})

	// OR within a field: either keyword may match.
	rows, total, err := repo.List(ctx, tx, search.SongFilter{
		Title: search.NewTextFilter("nosuchword ho"),
	}, search.PageRequest{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || rows[0].UID != hit.UID {
		t.Fatalf("keyword OR: expected only %q, got total=%d", hit.Title, total)
	}

	// AND across fields: artist matches both songs, year narrows to one.
	rows, total, err = repo.List(ctx, tx, search.SongFilter{
		Artist: search.NewTextFilter("arijit"),
		Year:   intPtr(2013),
	}, search.PageRequest{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || rows[0].UID != hit.UID {
		t.Fatalf("field AND: expected only %q, got total=%d", hit.Title, total)
	}

	// No filters at all matches everything.
	_, total, err = repo.List(ctx, tx, search.SongFilter{}, search.PageRequest{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Fatalf("empty filter: expected 2, got %d", total)
	}

	// Whitespace-only filter text is equivalent to absence.
	_, total, err = repo.List(ctx, tx, search.SongFilter{
		Title: search.NewTextFilter("   "),
	}, search.PageRequest{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Fatalf("blank filter: expected 2, got %d", total)
	}
}

func TestCountDeduplicatesJoinExpansion(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSongRepo(db, testutil.Logger(t))

	// Both attached artists match the keyword; the song must count once.
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Duet",
		Language: "Hindi",
		Artists:  []string{"Asha Bhosle", "Asha Puthli"},
	})

	rows, total, err := repo.List(ctx, tx, search.SongFilter{
		Artist: search.NewTextFilter("asha"),
	}, search.PageRequest{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("join expansion: expected 1 distinct song, got total=%d rows=%d", total, len(rows))
	}
}

func TestPaginationProperty(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSongRepo(db, testutil.Logger(t))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	const n = 25
	for i := 0; i < n; i++ {
		testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
			Title:     fmt.Sprintf("Track %02d", i),
			Language:  "Tamil",
			Genres:    []string{"film"},
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}

	filter := search.SongFilter{Language: search.NewTextFilter("tamil")}
	page := search.PageRequest{Page: 1, Limit: 10}

	seen := make(map[uuid.UUID]struct{})
	var lastCreated *time.Time
	var total int64
	for {
		rows, gotTotal, err := repo.List(ctx, tx, filter, page)
		if err != nil {
			t.Fatalf("List page %d: %v", page.Page, err)
		}
		total = gotTotal
		if len(rows) == 0 {
			break
		}
		for _, s := range rows {
			if _, dup := seen[s.UID]; dup {
				t.Fatalf("page %d: duplicate song %s across pages", page.Page, s.UID)
			}
			seen[s.UID] = struct{}{}
			if lastCreated != nil && s.CreatedAt.After(*lastCreated) {
				t.Fatalf("page %d: ordering not newest-first", page.Page)
			}
			created := s.CreatedAt
			lastCreated = &created
		}
		page.Page++
	}

	if total != n {
		t.Fatalf("total = %d, want %d", total, n)
	}
	if len(seen) != n {
		t.Fatalf("concatenated pages yielded %d distinct songs, want %d", len(seen), n)
	}
	if info := search.NewPageInfo(search.PageRequest{Page: 1, Limit: 10}, total); info.TotalPages != 3 {
		t.Fatalf("total pages = %d, want 3", info.TotalPages)
	}
}

func TestDeleteRemovesJoinRows(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSongRepo(db, testutil.Logger(t))

	song := testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:     "Ephemeral",
		Language:  "English",
		Artists:   []string{"Delete Artist"},
		Directors: []string{"Delete Director"},
		Genres:    []string{"indie"},
		Moods:     []string{"calm"},
	})

	loaded, err := repo.GetByUID(ctx, tx, song.UID)
	if err != nil {
		t.Fatalf("GetByUID: %v", err)
	}
	if err := repo.Delete(ctx, tx, loaded); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	if _, err := repo.GetByUID(ctx, tx, song.UID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("GetByUID after delete: want ErrNotFound, got %v", err)
	}

	checks := []struct {
		kind RelationKind
		name string
	}{
		{RelationPerformer, "Delete Artist"},
		{RelationDirector, "Delete Director"},
		{RelationGenre, "indie"},
		{RelationMood, "calm"},
	}
	for _, c := range checks {
		rows, total, err := repo.SongsForRelatedEntity(ctx, tx, c.kind, c.name, search.PageRequest{Page: 1, Limit: 10})
		if err != nil {
			t.Fatalf("SongsForRelatedEntity(%s): %v", c.kind, err)
		}
		if total != 0 || len(rows) != 0 {
			t.Fatalf("SongsForRelatedEntity(%s): expected nothing after delete, got %d", c.kind, total)
		}
	}

	for _, table := range []string{"song_artists", "song_directors", "song_genres", "song_moods"} {
		var count int64
		if err := tx.Table(table).Where("song_id = ?", loaded.ID).Count(&count).Error; err != nil {
			t.Fatalf("count %s: %v", table, err)
		}
		if count != 0 {
			t.Fatalf("%s still has %d rows for deleted song", table, count)
		}
	}
}

func TestGetOrCreateIdempotent(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)

	artists := NewArtistRepo(db, log)
	first, err := artists.GetOrCreate(ctx, tx, "A. R. Rahman")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	second, err := artists.GetOrCreate(ctx, tx, "A. R. Rahman")
	if err != nil {
		t.Fatalf("GetOrCreate (repeat): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("artist get-or-create created two rows: %d vs %d", first.ID, second.ID)
	}

	genres := NewGenreRepo(db, log)
	g1, err := genres.GetOrCreate(ctx, tx, "Bollywood")
	if err != nil {
		t.Fatalf("genre GetOrCreate: %v", err)
	}
	g2, err := genres.GetOrCreate(ctx, tx, "bollywood")
	if err != nil {
		t.Fatalf("genre GetOrCreate (lowercase): %v", err)
	}
	if g1.ID != g2.ID {
		t.Fatalf("genre casing variants created two rows")
	}
	if g1.Name != "bollywood" {
		t.Fatalf("genre name not normalized: %q", g1.Name)
	}

	moods := NewMoodRepo(db, log)
	m1, err := moods.GetOrCreate(ctx, tx, " Dance ")
	if err != nil {
		t.Fatalf("mood GetOrCreate: %v", err)
	}
	m2, err := moods.GetOrCreate(ctx, tx, "dance")
	if err != nil {
		t.Fatalf("mood GetOrCreate (repeat): %v", err)
	}
	if m1.ID != m2.ID {
		t.Fatalf("mood get-or-create created two rows")
	}

	if _, err := artists.GetOrCreate(ctx, tx, "   "); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("blank artist name: want ErrInvalidArgument, got %v", err)
	}
}

func TestSuggestions(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSongRepo(db, testutil.Logger(t))

	src := testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Source",
		Language: "Hindi",
		Genres:   []string{"bollywood"},
		Moods:    []string{"dance"},
	})
	sharedGenre := testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Shares Genre",
		Language: "Hindi",
		Genres:   []string{"bollywood"},
		Moods:    []string{"sad"},
	})
	sharedMood := testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Shares Mood",
		Language: "Hindi",
		Genres:   []string{"pop"},
		Moods:    []string{"dance"},
	})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Wrong Language",
		Language: "Tamil",
		Genres:   []string{"bollywood"},
		Moods:    []string{"dance"},
	})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "No Overlap",
		Language: "Hindi",
		Genres:   []string{"rock"},
		Moods:    []string{"angry"},
	})

	loaded, err := repo.GetByUID(ctx, tx, src.UID)
	if err != nil {
		t.Fatalf("GetByUID: %v", err)
	}
	got, err := repo.Suggestions(ctx, tx, loaded, 10)
	if err != nil {
		t.Fatalf("Suggestions: %v", err)
	}

	want := map[uuid.UUID]bool{sharedGenre.UID: true, sharedMood.UID: true}
	if len(got) != len(want) {
		t.Fatalf("Suggestions: got %d songs, want %d", len(got), len(want))
	}
	for _, s := range got {
		if s.UID == src.UID {
			t.Fatalf("Suggestions returned the source song")
		}
		if s.Language != "Hindi" {
			t.Fatalf("Suggestions returned wrong language %q", s.Language)
		}
		if !want[s.UID] {
			t.Fatalf("Suggestions returned unexpected song %q", s.Title)
		}
	}
}

func TestTranslations(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSongRepo(db, testutil.Logger(t))

	parent := testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Canonical",
		Language: "Hindi",
	})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:     "Canonical (Tamil)",
		Language:  "Tamil",
		ParentUID: &parent.UID,
	})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:     "Canonical (Bengali)",
		Language:  "Bengali",
		ParentUID: &parent.UID,
	})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Unrelated",
		Language: "Hindi",
	})

	got, err := repo.Translations(ctx, tx, parent.UID)
	if err != nil {
		t.Fatalf("Translations: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Translations: got %d songs, want 3", len(got))
	}
	wantLangs := []string{"Bengali", "Hindi", "Tamil"}
	for i, s := range got {
		if s.Language != wantLangs[i] {
			t.Fatalf("Translations order: index %d is %q, want %q", i, s.Language, wantLangs[i])
		}
	}

	if _, err := repo.Translations(ctx, tx, uuid.New()); !errors.Is(err, apperrors.ErrNotFound) {
		t.Fatalf("Translations for unknown uid: want ErrNotFound, got %v", err)
	}
}

func TestSearchAlbumsAndLanguages(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	repo := NewSongRepo(db, testutil.Logger(t))

	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{Title: "S1", Album: "Agneepath", Language: "Hindi"})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{Title: "S2", Album: "Agneepath", Language: "Hindi"})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{Title: "S3", Album: "Rockstar", Language: "Hindi"})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{Title: "S4", Language: "Tamil"})

	hits, total, err := repo.SearchAlbums(ctx, tx, search.NewTextFilter("agnee"), search.PageRequest{Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("SearchAlbums: %v", err)
	}
	if total != 1 || len(hits) != 1 || hits[0].Album != "Agneepath" || hits[0].SongCount != 2 {
		t.Fatalf("SearchAlbums: got total=%d hits=%+v", total, hits)
	}

	langs, err := repo.Languages(ctx, tx)
	if err != nil {
		t.Fatalf("Languages: %v", err)
	}
	if len(langs) != 2 || langs[0] != "Hindi" || langs[1] != "Tamil" {
		t.Fatalf("Languages: got %v", langs)
	}
}

func TestReplaceAssociations(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	log := testutil.Logger(t)
	repo := NewSongRepo(db, log)
	artists := NewArtistRepo(db, log)

	song := testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title:    "Mutable",
		Language: "Hindi",
		Artists:  []string{"Old One", "Old Two"},
	})

	newArtist, err := artists.GetOrCreate(ctx, tx, "New One")
	if err != nil {
		t.Fatalf("GetOrCreate: %v", err)
	}
	loaded, err := repo.GetByUID(ctx, tx, song.UID)
	if err != nil {
		t.Fatalf("GetByUID: %v", err)
	}
	if err := repo.ReplaceArtists(ctx, tx, loaded, []*types.Artist{newArtist}); err != nil {
		t.Fatalf("ReplaceArtists: %v", err)
	}

	reloaded, err := repo.GetByUID(ctx, tx, song.UID)
	if err != nil {
		t.Fatalf("GetByUID after replace: %v", err)
	}
	if len(reloaded.Artists) != 1 || reloaded.Artists[0].Name != "New One" {
		t.Fatalf("ReplaceArtists left %+v", reloaded.Artists)
	}
}
