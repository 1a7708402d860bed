// Package domain re-exports the entity types so callers can import a single
// types package.
package domain

import (
	"github.com/soniq-music/soniq-webapp-backend/internal/domain/catalog"
	"github.com/soniq-music/soniq-webapp-backend/internal/domain/user"
)

type (
	User      = user.User
	UserToken = user.UserToken

	Song   = catalog.Song
	Artist = catalog.Artist
	Genre  = catalog.Genre
	Mood   = catalog.Mood
)

const (
	RoleUser   = user.RoleUser
	RoleArtist = user.RoleArtist
	RoleAdmin  = user.RoleAdmin
)
