package app

import (
	"gorm.io/gorm"

	"github.com/soniq-music/soniq-webapp-backend/internal/clients/cloudinary"
	"github.com/soniq-music/soniq-webapp-backend/internal/clients/openai"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
	"github.com/soniq-music/soniq-webapp-backend/internal/services"
)

type Services struct {
	Auth    services.AuthService
	Song    services.SongService
	Catalog services.CatalogService
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	mediaStore, err := cloudinary.NewMediaStore(log)
	if err != nil {
		return Services{}, err
	}
	imageClient, err := openai.NewImageClient(log)
	if err != nil {
		return Services{}, err
	}
	mailer := services.NewMailer(log)

	auth := services.NewAuthService(
		db,
		log,
		repos.User,
		repos.UserToken,
		mailer,
		cfg.JWTSecretKey,
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
		cfg.FrontendURL,
	)
	song := services.NewSongService(db, log, repos.Song, repos.Artist, repos.Genre, repos.Mood, mediaStore, imageClient)
	catalog := services.NewCatalogService(db, log, repos.Song, repos.Artist)

	return Services{
		Auth:    auth,
		Song:    song,
		Catalog: catalog,
	}, nil
}
