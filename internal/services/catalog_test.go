package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	catalogrepo "github.com/soniq-music/soniq-webapp-backend/internal/data/repos/catalog"
	"github.com/soniq-music/soniq-webapp-backend/internal/data/repos/testutil"
	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
)

func newCatalogService(t *testing.T) (CatalogService, context.Context, *gorm.DB) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)
	svc := NewCatalogService(tx, log, catalogrepo.NewSongRepo(tx, log), catalogrepo.NewArtistRepo(tx, log))
	return svc, context.Background(), tx
}

func TestListRejectsNonNumericYear(t *testing.T) {
	svc, ctx, _ := newCatalogService(t)
	_, _, err := svc.List(ctx, FilterParams{Year: "nineties"})
	if !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestListByArtistFacet(t *testing.T) {
	svc, ctx, tx := newCatalogService(t)
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{Title: "Gerua", Language: "Hindi", Artists: []string{"Arijit Singh"}})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{Title: "Vaathi Coming", Language: "Tamil", Artists: []string{"Anirudh"}})

	songs, info, err := svc.List(ctx, FilterParams{Artist: []string{"arijit"}})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Gerua" {
		t.Fatalf("got %d songs, want only Gerua", len(songs))
	}
	if info.Total != 1 {
		t.Fatalf("total = %d, want 1", info.Total)
	}
}

func TestFreeTextCombinesFacets(t *testing.T) {
	svc, ctx, tx := newCatalogService(t)
	y1995, y2015 := 1995, 2015
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title: "Pehla Nasha", Album: "Jo Jeeta Wohi Sikandar", Language: "Hindi",
		Year: &y1995, Artists: []string{"Udit Narayan"},
	})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title: "Nasha Remix", Album: "Club Hits", Language: "Hindi",
		Year: &y2015, Artists: []string{"DJ Nasha"},
	})

	results, err := svc.FreeText(ctx, FreeTextParams{Query: "nasha"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results.Songs) != 2 {
		t.Fatalf("songs = %d, want 2", len(results.Songs))
	}
	if len(results.Artists) != 1 || results.Artists[0].Name != "DJ Nasha" {
		t.Fatalf("artists = %+v, want DJ Nasha", results.Artists)
	}

	// An artist refinement narrows the song facet only.
	results, err = svc.FreeText(ctx, FreeTextParams{Query: "nasha", Artist: "udit"})
	if err != nil {
		t.Fatalf("refined search: %v", err)
	}
	if len(results.Songs) != 1 || results.Songs[0].Title != "Pehla Nasha" {
		t.Fatalf("artist-refined songs = %d, want only Pehla Nasha", len(results.Songs))
	}

	// A decade phrase inside the query narrows songs by year.
	results, err = svc.FreeText(ctx, FreeTextParams{Query: "nasha 1990s"})
	if err != nil {
		t.Fatalf("decade search: %v", err)
	}
	if len(results.Songs) != 1 || results.Songs[0].Title != "Pehla Nasha" {
		t.Fatalf("decade-narrowed songs = %d, want only Pehla Nasha", len(results.Songs))
	}

	if _, err := svc.FreeText(ctx, FreeTextParams{Query: "   "}); !errors.Is(err, apperrors.ErrInvalidArgument) {
		t.Fatalf("blank query: err = %v, want ErrInvalidArgument", err)
	}
}

func TestAlbumSongsStripsTrailingLanguage(t *testing.T) {
	svc, ctx, tx := newCatalogService(t)
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{Title: "Track A", Album: "Greatest Hits", Language: "Hindi"})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{Title: "Track B", Album: "Greatest Hits", Language: "Tamil"})

	songs, _, err := svc.AlbumSongs(ctx, "Greatest Hits Tamil", "", "")
	if err != nil {
		t.Fatalf("album lookup: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Track B" {
		t.Fatalf("got %d songs, want only the Tamil track", len(songs))
	}

	// Without a language suffix both land.
	songs, _, err = svc.AlbumSongs(ctx, "Greatest Hits", "", "")
	if err != nil {
		t.Fatalf("album lookup: %v", err)
	}
	if len(songs) != 2 {
		t.Fatalf("got %d songs, want 2", len(songs))
	}
}

func TestSuggestionsRequireSourceSong(t *testing.T) {
	svc, ctx, tx := newCatalogService(t)
	src := testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title: "Source", Language: "Hindi", Genres: []string{"pop"},
	})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{
		Title: "Kindred", Language: "Hindi", Genres: []string{"pop"},
	})

	songs, err := svc.Suggestions(ctx, src.UID)
	if err != nil {
		t.Fatalf("suggestions: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Kindred" {
		t.Fatalf("suggestions = %d, want only Kindred", len(songs))
	}
}

func TestRelatedSongsByGenre(t *testing.T) {
	svc, ctx, tx := newCatalogService(t)
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{Title: "Metal Track", Language: "English", Genres: []string{"metal"}})
	testutil.SeedSong(t, ctx, tx, testutil.SongSpec{Title: "Pop Track", Language: "English", Genres: []string{"pop"}})

	songs, info, err := svc.RelatedSongs(ctx, catalogrepo.RelationGenre, "Metal", "", "")
	if err != nil {
		t.Fatalf("related: %v", err)
	}
	if len(songs) != 1 || songs[0].Title != "Metal Track" {
		t.Fatalf("got %d songs, want only Metal Track", len(songs))
	}
	if info.Total != 1 {
		t.Fatalf("total = %d, want 1", info.Total)
	}
}
