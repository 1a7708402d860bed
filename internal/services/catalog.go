package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	catalogrepo "github.com/soniq-music/soniq-webapp-backend/internal/data/repos/catalog"
	types "github.com/soniq-music/soniq-webapp-backend/internal/domain"
	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
	"github.com/soniq-music/soniq-webapp-backend/internal/search"
)

const suggestionLimit = 10

// FilterParams is the raw query-string shape of a faceted song listing.
// Repeated params land as extra slice entries, every field is optional.
type FilterParams struct {
	Title    []string
	Album    []string
	Language []string
	Artist   []string
	Genre    []string
	Mood     []string
	Director []string
	Year     string
	Page     string
	Limit    string
}

// FreeTextParams drives the global search across songs, albums and artists.
// Mood, genre and artist narrow the song facet only.
type FreeTextParams struct {
	Query  string
	Mood   string
	Genre  string
	Artist string
	Decade string
	Page   string
	Limit  string
}

type SearchResults struct {
	Songs      []*types.Song          `json:"songs"`
	Albums     []catalogrepo.AlbumHit `json:"albums"`
	Artists    []*types.Artist        `json:"artists"`
	Pagination search.PageInfo        `json:"pagination"`
}

type CatalogService interface {
	List(ctx context.Context, params FilterParams) ([]*types.Song, search.PageInfo, error)
	FreeText(ctx context.Context, params FreeTextParams) (*SearchResults, error)
	Suggestions(ctx context.Context, uid uuid.UUID) ([]*types.Song, error)
	Translations(ctx context.Context, uid uuid.UUID) ([]*types.Song, error)
	AlbumSongs(ctx context.Context, albumName, pageStr, limitStr string) ([]*types.Song, search.PageInfo, error)
	RelatedSongs(ctx context.Context, kind catalogrepo.RelationKind, name, pageStr, limitStr string) ([]*types.Song, search.PageInfo, error)
}

type catalogService struct {
	db      *gorm.DB
	log     *logger.Logger
	songs   catalogrepo.SongRepo
	artists catalogrepo.ArtistRepo
}

func NewCatalogService(db *gorm.DB, log *logger.Logger, songs catalogrepo.SongRepo, artists catalogrepo.ArtistRepo) CatalogService {
	return &catalogService{
		db:      db,
		log:     log.With("service", "CatalogService"),
		songs:   songs,
		artists: artists,
	}
}

func (s *catalogService) List(ctx context.Context, params FilterParams) ([]*types.Song, search.PageInfo, error) {
	filter := search.SongFilter{
		Title:    search.NewTextFilter(params.Title...),
		Album:    search.NewTextFilter(params.Album...),
		Language: search.NewTextFilter(params.Language...),
		Artist:   search.NewTextFilter(params.Artist...),
		Genre:    search.NewTextFilter(params.Genre...),
		Mood:     search.NewTextFilter(params.Mood...),
		Director: search.NewTextFilter(params.Director...),
	}
	if yearStr := strings.TrimSpace(params.Year); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return nil, search.PageInfo{}, fmt.Errorf("%w: year must be numeric, got %q", apperrors.ErrInvalidArgument, params.Year)
		}
		filter.Year = &year
	}

	page := search.ParsePage(params.Page, params.Limit, search.DefaultFilterLimit)
	songs, total, err := s.songs.List(ctx, nil, filter, page)
	if err != nil {
		return nil, search.PageInfo{}, err
	}
	return songs, search.NewPageInfo(page, total), nil
}

// FreeText fans one query out to songs by title, album names and artist
// names. The three result sets page independently under the same page and
// limit, and a decade phrase in the query narrows songs by year.
func (s *catalogService) FreeText(ctx context.Context, params FreeTextParams) (*SearchResults, error) {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", apperrors.ErrInvalidArgument)
	}
	page := search.ParsePage(params.Page, params.Limit, search.DefaultSearchLimit)

	years := search.ParseDecade(params.Decade)
	if years == nil {
		years = search.ParseDecade(query)
	}

	songFilter := search.SongFilter{
		Title:  search.NewTextFilter(query),
		Mood:   search.NewTextFilter(params.Mood),
		Genre:  search.NewTextFilter(params.Genre),
		Artist: search.NewTextFilter(params.Artist),
		Years:  years,
	}
	songs, songTotal, err := s.songs.List(ctx, nil, songFilter, page)
	if err != nil {
		return nil, err
	}
	albums, _, err := s.songs.SearchAlbums(ctx, nil, search.NewTextFilter(query), page)
	if err != nil {
		return nil, err
	}
	artists, _, err := s.artists.SearchByName(ctx, nil, search.NewTextFilter(query), page)
	if err != nil {
		return nil, err
	}
	return &SearchResults{
		Songs:      songs,
		Albums:     albums,
		Artists:    artists,
		Pagination: search.NewPageInfo(page, songTotal),
	}, nil
}

func (s *catalogService) Suggestions(ctx context.Context, uid uuid.UUID) ([]*types.Song, error) {
	src, err := s.songs.GetByUID(ctx, nil, uid)
	if err != nil {
		return nil, err
	}
	return s.songs.Suggestions(ctx, nil, src, suggestionLimit)
}

func (s *catalogService) Translations(ctx context.Context, uid uuid.UUID) ([]*types.Song, error) {
	return s.songs.Translations(ctx, nil, uid)
}

// AlbumSongs lists an album's songs. Album links on the frontend carry the
// song language as a trailing path token, so a last token matching a known
// catalog language is stripped off and applied as a language filter.
func (s *catalogService) AlbumSongs(ctx context.Context, albumName, pageStr, limitStr string) ([]*types.Song, search.PageInfo, error) {
	albumName = strings.TrimSpace(albumName)
	if albumName == "" {
		return nil, search.PageInfo{}, fmt.Errorf("%w: album name is required", apperrors.ErrInvalidArgument)
	}

	filter := search.SongFilter{}
	tokens := strings.Fields(albumName)
	if len(tokens) > 1 {
		last := tokens[len(tokens)-1]
		known, err := s.songs.Languages(ctx, nil)
		if err != nil {
			return nil, search.PageInfo{}, err
		}
		for _, lang := range known {
			if strings.EqualFold(lang, last) {
				filter.Language = search.NewTextFilter(lang)
				tokens = tokens[:len(tokens)-1]
				break
			}
		}
	}
	filter.Album = search.NewTextFilter(strings.Join(tokens, " "))

	page := search.ParsePage(pageStr, limitStr, search.DefaultFilterLimit)
	songs, total, err := s.songs.List(ctx, nil, filter, page)
	if err != nil {
		return nil, search.PageInfo{}, err
	}
	return songs, search.NewPageInfo(page, total), nil
}

func (s *catalogService) RelatedSongs(ctx context.Context, kind catalogrepo.RelationKind, name, pageStr, limitStr string) ([]*types.Song, search.PageInfo, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, search.PageInfo{}, fmt.Errorf("%w: name is required", apperrors.ErrInvalidArgument)
	}
	page := search.ParsePage(pageStr, limitStr, search.DefaultFilterLimit)
	songs, total, err := s.songs.SongsForRelatedEntity(ctx, nil, kind, name, page)
	if err != nil {
		return nil, search.PageInfo{}, err
	}
	return songs, search.NewPageInfo(page, total), nil
}
