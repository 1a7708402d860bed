package app

import (
	"gorm.io/gorm"

	catalogrepo "github.com/soniq-music/soniq-webapp-backend/internal/data/repos/catalog"
	userrepo "github.com/soniq-music/soniq-webapp-backend/internal/data/repos/user"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
)

type Repos struct {
	User      userrepo.UserRepo
	UserToken userrepo.UserTokenRepo
	Song      catalogrepo.SongRepo
	Artist    catalogrepo.ArtistRepo
	Genre     catalogrepo.GenreRepo
	Mood      catalogrepo.MoodRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:      userrepo.NewUserRepo(db, log),
		UserToken: userrepo.NewUserTokenRepo(db, log),
		Song:      catalogrepo.NewSongRepo(db, log),
		Artist:    catalogrepo.NewArtistRepo(db, log),
		Genre:     catalogrepo.NewGenreRepo(db, log),
		Mood:      catalogrepo.NewMoodRepo(db, log),
	}
}
