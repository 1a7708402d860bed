package handlers

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soniq-music/soniq-webapp-backend/internal/http/response"
	"github.com/soniq-music/soniq-webapp-backend/internal/requestdata"
	"github.com/soniq-music/soniq-webapp-backend/internal/search"
	"github.com/soniq-music/soniq-webapp-backend/internal/services"
)

type SongHandler struct {
	songService services.SongService
}

func NewSongHandler(songService services.SongService) *SongHandler {
	return &SongHandler{songService: songService}
}

// Upload accepts a multipart form: metadata fields plus an "audio" file and
// an optional "image" cover.
func (sh *SongHandler) Upload(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	in, err := uploadInputFromForm(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	song, err := sh.songService.Upload(c.Request.Context(), rd.UserUID, *in)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"song": song})
}

// BatchUpload takes a JSON array of song metadata whose media is already
// hosted. Failures are reported per item, the rest go through.
func (sh *SongHandler) BatchUpload(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req struct {
		Songs []struct {
			Title     string   `json:"title"`
			Album     string   `json:"album"`
			Language  string   `json:"language"`
			Year      *int     `json:"year"`
			Duration  *float64 `json:"duration"`
			URL       string   `json:"url"`
			CoverURL  string   `json:"cover_url"`
			ParentUID string   `json:"parent_uid"`
			Artists   []string `json:"artists"`
			Directors []string `json:"directors"`
			Genres    []string `json:"genres"`
			Moods     []string `json:"moods"`
		} `json:"songs"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	items := make([]services.UploadInput, 0, len(req.Songs))
	for _, s := range req.Songs {
		item := services.UploadInput{
			Title:     s.Title,
			Album:     s.Album,
			Language:  s.Language,
			Year:      s.Year,
			Duration:  s.Duration,
			AudioURL:  s.URL,
			CoverURL:  s.CoverURL,
			Artists:   s.Artists,
			Directors: s.Directors,
			Genres:    s.Genres,
			Moods:     s.Moods,
		}
		if s.ParentUID != "" {
			if parent, err := uuid.Parse(s.ParentUID); err == nil {
				item.ParentUID = &parent
			}
		}
		items = append(items, item)
	}

	result, err := sh.songService.BatchUpload(c.Request.Context(), rd.UserUID, items)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	status := http.StatusCreated
	if len(result.Uploaded) == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, result)
}

func (sh *SongHandler) Get(c *gin.Context) {
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_uid", err)
		return
	}
	song, err := sh.songService.GetByUID(c.Request.Context(), uid)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"song": song})
}

func (sh *SongHandler) Update(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_uid", err)
		return
	}
	in, err := updateInputFromForm(c)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	song, err := sh.songService.Update(c.Request.Context(), rd.UserUID, rd.Role, uid, *in)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"song": song})
}

func (sh *SongHandler) Delete(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	uid, err := uuid.Parse(c.Param("uid"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_uid", err)
		return
	}
	if err := sh.songService.Delete(c.Request.Context(), rd.UserUID, rd.Role, uid); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (sh *SongHandler) MySongs(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	page := search.ParsePage(c.Query("page"), c.Query("limit"), search.DefaultFilterLimit)
	songs, info, err := sh.songService.ListMine(c.Request.Context(), rd.UserUID, page)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"songs": songs, "pagination": info})
}

func (sh *SongHandler) AllSongs(c *gin.Context) {
	page := search.ParsePage(c.Query("page"), c.Query("limit"), search.DefaultFilterLimit)
	songs, info, err := sh.songService.ListAll(c.Request.Context(), page)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"songs": songs, "pagination": info})
}

func uploadInputFromForm(c *gin.Context) (*services.UploadInput, error) {
	in := &services.UploadInput{
		Title:     c.PostForm("title"),
		Album:     c.PostForm("album"),
		Language:  c.PostForm("language"),
		AudioURL:  c.PostForm("audio_url"),
		CoverURL:  c.PostForm("cover_url"),
		Artists:   splitList(c.PostForm("artist")),
		Directors: splitList(c.PostForm("director")),
		Genres:    splitList(c.PostForm("genre")),
		Moods:     splitList(c.PostForm("mood")),
	}
	var err error
	if in.Year, err = optionalInt(c.PostForm("year")); err != nil {
		return nil, err
	}
	if in.Duration, err = optionalFloat(c.PostForm("duration")); err != nil {
		return nil, err
	}
	if raw := c.PostForm("parent_uid"); raw != "" {
		parent, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid parent_uid: %w", err)
		}
		in.ParentUID = &parent
	}
	if in.AudioBytes, in.AudioName, err = readFormFile(c, "audio"); err != nil {
		return nil, err
	}
	if in.ImageBytes, in.ImageName, err = readFormFile(c, "image"); err != nil {
		return nil, err
	}
	return in, nil
}

func updateInputFromForm(c *gin.Context) (*services.UpdateInput, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("expected multipart form: %w", err)
	}

	in := &services.UpdateInput{}
	value := func(key string) (string, bool) {
		vals, ok := form.Value[key]
		if !ok || len(vals) == 0 {
			return "", false
		}
		return vals[0], true
	}

	if v, ok := value("title"); ok {
		in.Title = &v
	}
	if v, ok := value("album"); ok {
		in.Album = &v
	}
	if v, ok := value("language"); ok {
		in.Language = &v
	}
	if v, ok := value("year"); ok {
		if in.Year, err = optionalInt(v); err != nil {
			return nil, err
		}
	}
	if v, ok := value("duration"); ok {
		if in.Duration, err = optionalFloat(v); err != nil {
			return nil, err
		}
	}
	// A present-but-empty list field clears that relation.
	if v, ok := value("artist"); ok {
		in.Artists = splitList(v)
		if in.Artists == nil {
			in.Artists = []string{}
		}
	}
	if v, ok := value("director"); ok {
		in.Directors = splitList(v)
		if in.Directors == nil {
			in.Directors = []string{}
		}
	}
	if v, ok := value("genre"); ok {
		in.Genres = splitList(v)
		if in.Genres == nil {
			in.Genres = []string{}
		}
	}
	if v, ok := value("mood"); ok {
		in.Moods = splitList(v)
		if in.Moods == nil {
			in.Moods = []string{}
		}
	}
	if in.AudioBytes, in.AudioName, err = readFormFile(c, "audio"); err != nil {
		return nil, err
	}
	if in.ImageBytes, in.ImageName, err = readFormFile(c, "image"); err != nil {
		return nil, err
	}
	return in, nil
}

func readFormFile(c *gin.Context, field string) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		// Covers http.ErrMissingFile and non-multipart bodies, both of
		// which just mean no file was sent for this field.
		return nil, "", nil
	}
	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open %s file: %w", field, err)
	}
	defer file.Close()
	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, "", fmt.Errorf("read %s file: %w", field, err)
	}
	return raw, header.Filename, nil
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func optionalInt(raw string) (*int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("expected a number, got %q", raw)
	}
	return &v, nil
}

func optionalFloat(raw string) (*float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("expected a number, got %q", raw)
	}
	return &v, nil
}
