package cloudinary

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	apperrors "github.com/soniq-music/soniq-webapp-backend/internal/pkg/errors"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
	"github.com/soniq-music/soniq-webapp-backend/internal/utils"
)

const (
	AudioFolder = "songs"
	CoverFolder = "covers"
)

// MediaStore is the object-store collaborator: bytes in, stable URL out,
// deletion by an identifier extracted from that URL.
type MediaStore interface {
	UploadAudio(ctx context.Context, name string, data io.Reader) (string, error)
	UploadImage(ctx context.Context, name string, data io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}

type mediaStore struct {
	log *logger.Logger
	cld *cloudinary.Cloudinary
}

func NewMediaStore(log *logger.Logger) (MediaStore, error) {
	serviceLog := log.With("client", "Cloudinary")
	cldURL := utils.GetEnv("CLOUDINARY_URL", "", serviceLog)
	if cldURL == "" {
		return nil, fmt.Errorf("missing env var CLOUDINARY_URL")
	}
	cld, err := cloudinary.NewFromURL(cldURL)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary client: %w", err)
	}
	return &mediaStore{log: serviceLog, cld: cld}, nil
}

// UploadAudio streams audio bytes into the songs folder. Cloudinary files
// audio under the "video" resource type.
func (ms *mediaStore) UploadAudio(ctx context.Context, name string, data io.Reader) (string, error) {
	return ms.upload(ctx, AudioFolder, "video", name, data)
}

func (ms *mediaStore) UploadImage(ctx context.Context, name string, data io.Reader) (string, error) {
	return ms.upload(ctx, CoverFolder, "image", name, data)
}

func (ms *mediaStore) upload(ctx context.Context, folder, resourceType, name string, data io.Reader) (string, error) {
	publicID := fmt.Sprintf("%s-%d-%s", resourceType, time.Now().UnixMilli(), sanitizeName(name))
	res, err := ms.cld.Upload.Upload(ctx, data, uploader.UploadParams{
		Folder:       folder,
		ResourceType: resourceType,
		PublicID:     publicID,
	})
	if err != nil {
		return "", fmt.Errorf("%w: cloudinary upload: %v", apperrors.ErrExternalService, err)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("%w: cloudinary upload returned no URL", apperrors.ErrExternalService)
	}
	ms.log.Debug("uploaded media", "folder", folder, "public_id", publicID)
	return res.SecureURL, nil
}

func (ms *mediaStore) Delete(ctx context.Context, url string) error {
	publicID, resourceType, err := publicIDFromURL(url)
	if err != nil {
		return err
	}
	_, err = ms.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
	})
	if err != nil {
		return fmt.Errorf("%w: cloudinary destroy %q: %v", apperrors.ErrExternalService, publicID, err)
	}
	return nil
}

// publicIDFromURL recovers the public id (folder/name without extension) and
// resource type from a delivery URL like
// https://res.cloudinary.com/demo/video/upload/v12345/songs/audio-1-track.mp3.
func publicIDFromURL(url string) (string, string, error) {
	parts := strings.Split(url, "/upload/")
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: not a cloudinary delivery URL: %s", apperrors.ErrInvalidArgument, url)
	}

	resourceType := "image"
	if strings.Contains(parts[0], "/video") {
		resourceType = "video"
	}

	rest := parts[1]
	if seg, remainder, found := strings.Cut(rest, "/"); found && strings.HasPrefix(seg, "v") {
		rest = remainder
	}
	publicID := strings.TrimSuffix(rest, path.Ext(rest))
	if publicID == "" {
		return "", "", fmt.Errorf("%w: empty public id in URL: %s", apperrors.ErrInvalidArgument, url)
	}
	return publicID, resourceType, nil
}

func sanitizeName(name string) string {
	name = strings.TrimSuffix(name, path.Ext(name))
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.ReplaceAll(name, " ", "-")
}
