package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/soniq-music/soniq-webapp-backend/internal/clients/cloudinary"
	"github.com/soniq-music/soniq-webapp-backend/internal/clients/openai"
	catalogrepo "github.com/soniq-music/soniq-webapp-backend/internal/data/repos/catalog"
	types "github.com/soniq-music/soniq-webapp-backend/internal/domain"
	"github.com/soniq-music/soniq-webapp-backend/internal/media"
	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
	"github.com/soniq-music/soniq-webapp-backend/internal/search"
)

const minSongYear = 1900

// UploadInput carries one song's metadata plus its media, either as raw
// bytes from a multipart form or as already-hosted URLs.
type UploadInput struct {
	Title     string
	Album     string
	Language  string
	Year      *int
	Duration  *float64
	ParentUID *uuid.UUID

	Artists   []string
	Directors []string
	Genres    []string
	Moods     []string

	AudioBytes []byte
	AudioName  string
	AudioURL   string

	ImageBytes []byte
	ImageName  string
	CoverURL   string
}

type UpdateInput struct {
	Title    *string
	Album    *string
	Language *string
	Year     *int
	Duration *float64

	Artists   []string
	Directors []string
	Genres    []string
	Moods     []string

	AudioBytes []byte
	AudioName  string
	ImageBytes []byte
	ImageName  string
}

type BatchFailure struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Error string `json:"error"`
}

type BatchResult struct {
	Uploaded []*types.Song  `json:"uploaded"`
	Failed   []BatchFailure `json:"failed"`
}

type SongService interface {
	Upload(ctx context.Context, uploaderUID uuid.UUID, in UploadInput) (*types.Song, error)
	BatchUpload(ctx context.Context, uploaderUID uuid.UUID, items []UploadInput) (*BatchResult, error)
	GetByUID(ctx context.Context, uid uuid.UUID) (*types.Song, error)
	Update(ctx context.Context, callerUID uuid.UUID, callerRole string, uid uuid.UUID, in UpdateInput) (*types.Song, error)
	Delete(ctx context.Context, callerUID uuid.UUID, callerRole string, uid uuid.UUID) error
	ListMine(ctx context.Context, uploaderUID uuid.UUID, page search.PageRequest) ([]*types.Song, search.PageInfo, error)
	ListAll(ctx context.Context, page search.PageRequest) ([]*types.Song, search.PageInfo, error)
}

type songService struct {
	db      *gorm.DB
	log     *logger.Logger
	songs   catalogrepo.SongRepo
	artists catalogrepo.ArtistRepo
	genres  catalogrepo.GenreRepo
	moods   catalogrepo.MoodRepo
	store   cloudinary.MediaStore
	images  openai.ImageClient
}

func NewSongService(
	db *gorm.DB,
	log *logger.Logger,
	songs catalogrepo.SongRepo,
	artists catalogrepo.ArtistRepo,
	genres catalogrepo.GenreRepo,
	moods catalogrepo.MoodRepo,
	store cloudinary.MediaStore,
	images openai.ImageClient,
) SongService {
	return &songService{
		db:      db,
		log:     log.With("service", "SongService"),
		songs:   songs,
		artists: artists,
		genres:  genres,
		moods:   moods,
		store:   store,
		images:  images,
	}
}

func (s *songService) Upload(ctx context.Context, uploaderUID uuid.UUID, in UploadInput) (*types.Song, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Album = strings.TrimSpace(in.Album)
	in.Language = strings.TrimSpace(in.Language)
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrInvalidArgument)
	}
	if in.Language == "" {
		return nil, fmt.Errorf("%w: language is required", apperrors.ErrInvalidArgument)
	}
	if in.Year != nil && (*in.Year < minSongYear || *in.Year > time.Now().Year()) {
		return nil, fmt.Errorf("%w: year %d out of range", apperrors.ErrInvalidArgument, *in.Year)
	}
	if in.Duration != nil && *in.Duration < 0 {
		return nil, fmt.Errorf("%w: duration cannot be negative", apperrors.ErrInvalidArgument)
	}
	if len(in.AudioBytes) == 0 && in.AudioURL == "" {
		return nil, fmt.Errorf("%w: audio file is required", apperrors.ErrInvalidArgument)
	}
	if in.ParentUID != nil {
		if _, err := s.songs.GetByUID(ctx, nil, *in.ParentUID); err != nil {
			return nil, fmt.Errorf("resolve parent song: %w", err)
		}
	}

	assoc, err := s.resolveAssociations(ctx, in.Artists, in.Directors, in.Genres, in.Moods)
	if err != nil {
		return nil, err
	}

	audioURL := in.AudioURL
	var uploaded []string
	if len(in.AudioBytes) > 0 {
		audioURL, err = s.store.UploadAudio(ctx, in.AudioName, bytes.NewReader(in.AudioBytes))
		if err != nil {
			return nil, err
		}
		uploaded = append(uploaded, audioURL)
	}

	duration := in.Duration
	if duration == nil && len(in.AudioBytes) > 0 {
		if seconds, probeErr := media.DurationSeconds(in.AudioBytes); probeErr != nil {
			s.log.Warn("could not probe audio duration", "title", in.Title, "error", probeErr)
		} else {
			duration = &seconds
		}
	}

	coverURL, err := s.resolveCover(ctx, in, assoc)
	if err != nil {
		s.cleanupMedia(ctx, uploaded)
		return nil, err
	}
	if coverURL != in.CoverURL {
		uploaded = append(uploaded, coverURL)
	}

	song := &types.Song{
		UID:         uuid.New(),
		Title:       in.Title,
		Album:       in.Album,
		URL:         audioURL,
		Duration:    duration,
		CoverImage:  coverURL,
		Year:        in.Year,
		Language:    in.Language,
		ParentUID:   in.ParentUID,
		UploaderUID: &uploaderUID,
		Artists:     assoc.artists,
		Directors:   assoc.directors,
		Genres:      assoc.genres,
		Moods:       assoc.moods,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.songs.Create(ctx, tx, song)
	})
	if err != nil {
		s.cleanupMedia(ctx, uploaded)
		return nil, err
	}
	s.log.Info("song uploaded", "uid", song.UID, "title", song.Title, "uploader", uploaderUID)
	return s.songs.GetByUID(ctx, nil, song.UID)
}

// BatchUpload processes each item independently. One bad row never rolls
// back its siblings.
func (s *songService) BatchUpload(ctx context.Context, uploaderUID uuid.UUID, items []UploadInput) (*BatchResult, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no songs to upload", apperrors.ErrInvalidArgument)
	}
	result := &BatchResult{}
	for i, item := range items {
		song, err := s.Upload(ctx, uploaderUID, item)
		if err != nil {
			s.log.Warn("batch item failed", "index", i, "title", item.Title, "error", err)
			result.Failed = append(result.Failed, BatchFailure{Index: i, Title: item.Title, Error: err.Error()})
			continue
		}
		result.Uploaded = append(result.Uploaded, song)
	}
	return result, nil
}

func (s *songService) GetByUID(ctx context.Context, uid uuid.UUID) (*types.Song, error) {
	return s.songs.GetByUID(ctx, nil, uid)
}

func (s *songService) Update(ctx context.Context, callerUID uuid.UUID, callerRole string, uid uuid.UUID, in UpdateInput) (*types.Song, error) {
	song, err := s.songs.GetByUID(ctx, nil, uid)
	if err != nil {
		return nil, err
	}
	if err := authorizeOwner(song, callerUID, callerRole); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title cannot be empty", apperrors.ErrInvalidArgument)
		}
		fields["title"] = title
	}
	if in.Album != nil {
		fields["album"] = strings.TrimSpace(*in.Album)
	}
	if in.Language != nil {
		lang := strings.TrimSpace(*in.Language)
		if lang == "" {
			return nil, fmt.Errorf("%w: language cannot be empty", apperrors.ErrInvalidArgument)
		}
		fields["language"] = lang
	}
	if in.Year != nil {
		if *in.Year < minSongYear || *in.Year > time.Now().Year() {
			return nil, fmt.Errorf("%w: year %d out of range", apperrors.ErrInvalidArgument, *in.Year)
		}
		fields["year"] = *in.Year
	}
	if in.Duration != nil {
		if *in.Duration < 0 {
			return nil, fmt.Errorf("%w: duration cannot be negative", apperrors.ErrInvalidArgument)
		}
		fields["duration"] = *in.Duration
	}

	var assoc *resolvedAssociations
	if in.Artists != nil || in.Directors != nil || in.Genres != nil || in.Moods != nil {
		assoc, err = s.resolveAssociations(ctx, in.Artists, in.Directors, in.Genres, in.Moods)
		if err != nil {
			return nil, err
		}
	}

	// Replaced media is uploaded before the transaction. The old files are
	// removed only after it commits; the fresh ones are removed if any step
	// after their upload fails.
	var staleMedia, freshMedia []string
	if len(in.AudioBytes) > 0 {
		audioURL, upErr := s.store.UploadAudio(ctx, in.AudioName, bytes.NewReader(in.AudioBytes))
		if upErr != nil {
			return nil, upErr
		}
		freshMedia = append(freshMedia, audioURL)
		if song.URL != "" {
			staleMedia = append(staleMedia, song.URL)
		}
		fields["url"] = audioURL
		if in.Duration == nil {
			if seconds, probeErr := media.DurationSeconds(in.AudioBytes); probeErr == nil {
				fields["duration"] = seconds
			}
		}
	}
	if len(in.ImageBytes) > 0 {
		coverURL, upErr := s.store.UploadImage(ctx, in.ImageName, bytes.NewReader(in.ImageBytes))
		if upErr != nil {
			s.cleanupMedia(ctx, freshMedia)
			return nil, upErr
		}
		freshMedia = append(freshMedia, coverURL)
		if song.CoverImage != "" {
			staleMedia = append(staleMedia, song.CoverImage)
		}
		fields["cover_image"] = coverURL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(fields) > 0 {
			if err := s.songs.UpdateScalars(ctx, tx, uid, fields); err != nil {
				return err
			}
		}
		if assoc == nil {
			return nil
		}
		if in.Artists != nil {
			if err := s.songs.ReplaceArtists(ctx, tx, song, assoc.artists); err != nil {
				return err
			}
		}
		if in.Directors != nil {
			if err := s.songs.ReplaceDirectors(ctx, tx, song, assoc.directors); err != nil {
				return err
			}
		}
		if in.Genres != nil {
			if err := s.songs.ReplaceGenres(ctx, tx, song, assoc.genres); err != nil {
				return err
			}
		}
		if in.Moods != nil {
			if err := s.songs.ReplaceMoods(ctx, tx, song, assoc.moods); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		s.cleanupMedia(ctx, freshMedia)
		return nil, err
	}
	s.cleanupMedia(ctx, staleMedia)
	return s.songs.GetByUID(ctx, nil, uid)
}

func (s *songService) Delete(ctx context.Context, callerUID uuid.UUID, callerRole string, uid uuid.UUID) error {
	song, err := s.songs.GetByUID(ctx, nil, uid)
	if err != nil {
		return err
	}
	if err := authorizeOwner(song, callerUID, callerRole); err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.songs.Delete(ctx, tx, song)
	})
	if err != nil {
		return err
	}
	var urls []string
	if song.URL != "" {
		urls = append(urls, song.URL)
	}
	if song.CoverImage != "" {
		urls = append(urls, song.CoverImage)
	}
	s.cleanupMedia(ctx, urls)
	s.log.Info("song deleted", "uid", uid, "caller", callerUID)
	return nil
}

func (s *songService) ListMine(ctx context.Context, uploaderUID uuid.UUID, page search.PageRequest) ([]*types.Song, search.PageInfo, error) {
	filter := search.SongFilter{UploaderUID: uploaderUID.String()}
	songs, total, err := s.songs.List(ctx, nil, filter, page)
	if err != nil {
		return nil, search.PageInfo{}, err
	}
	return songs, search.NewPageInfo(page, total), nil
}

func (s *songService) ListAll(ctx context.Context, page search.PageRequest) ([]*types.Song, search.PageInfo, error) {
	songs, total, err := s.songs.List(ctx, nil, search.SongFilter{}, page)
	if err != nil {
		return nil, search.PageInfo{}, err
	}
	return songs, search.NewPageInfo(page, total), nil
}

type resolvedAssociations struct {
	artists   []*types.Artist
	directors []*types.Artist
	genres    []*types.Genre
	moods     []*types.Mood
}

// resolveAssociations runs the get-or-create lookups outside any song
// transaction so a unique-constraint retry never hits an aborted tx.
func (s *songService) resolveAssociations(ctx context.Context, artists, directors, genres, moods []string) (*resolvedAssociations, error) {
	out := &resolvedAssociations{}
	for _, name := range artists {
		if strings.TrimSpace(name) == "" {
			continue
		}
		artist, err := s.artists.GetOrCreate(ctx, nil, name)
		if err != nil {
			return nil, err
		}
		out.artists = append(out.artists, artist)
	}
	for _, name := range directors {
		if strings.TrimSpace(name) == "" {
			continue
		}
		director, err := s.artists.GetOrCreate(ctx, nil, name)
		if err != nil {
			return nil, err
		}
		out.directors = append(out.directors, director)
	}
	for _, name := range genres {
		if strings.TrimSpace(name) == "" {
			continue
		}
		genre, err := s.genres.GetOrCreate(ctx, nil, name)
		if err != nil {
			return nil, err
		}
		out.genres = append(out.genres, genre)
	}
	for _, name := range moods {
		if strings.TrimSpace(name) == "" {
			continue
		}
		mood, err := s.moods.GetOrCreate(ctx, nil, name)
		if err != nil {
			return nil, err
		}
		out.moods = append(out.moods, mood)
	}
	return out, nil
}

// resolveCover picks the cover in priority order: uploaded image, caller
// supplied URL, then a generated fallback. A failed fallback fails the
// whole upload rather than persisting a song without art.
func (s *songService) resolveCover(ctx context.Context, in UploadInput, assoc *resolvedAssociations) (string, error) {
	if len(in.ImageBytes) > 0 {
		return s.store.UploadImage(ctx, in.ImageName, bytes.NewReader(in.ImageBytes))
	}
	if in.CoverURL != "" {
		return in.CoverURL, nil
	}

	promptParts := []string{in.Title}
	for _, a := range assoc.artists {
		promptParts = append(promptParts, a.Name)
	}
	if in.Album != "" {
		promptParts = append(promptParts, in.Album)
	}
	raw, err := s.images.GenerateCoverArt(ctx, strings.Join(promptParts, " "))
	if err != nil {
		return "", fmt.Errorf("generate cover art: %w", err)
	}
	return s.store.UploadImage(ctx, sanitizeCoverName(in.Title), bytes.NewReader(raw))
}

func (s *songService) cleanupMedia(ctx context.Context, urls []string) {
	for _, url := range urls {
		if url == "" {
			continue
		}
		if err := s.store.Delete(ctx, url); err != nil {
			s.log.Warn("could not delete media", "url", url, "error", err)
		}
	}
}

func authorizeOwner(song *types.Song, callerUID uuid.UUID, callerRole string) error {
	if callerRole == types.RoleAdmin {
		return nil
	}
	if song.UploaderUID != nil && *song.UploaderUID == callerUID {
		return nil
	}
	return fmt.Errorf("%w: not the uploader of this song", apperrors.ErrUnauthorized)
}

func sanitizeCoverName(title string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(title)), " ", "-") + "-cover.png"
}
