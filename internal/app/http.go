package app

import (
	"github.com/soniq-music/soniq-webapp-backend/internal/http"
	httpH "github.com/soniq-music/soniq-webapp-backend/internal/http/handlers"
	httpMW "github.com/soniq-music/soniq-webapp-backend/internal/http/middleware"
	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
)

type Middleware struct {
	Auth *httpMW.AuthMiddleware
}

type Handlers struct {
	Health  *httpH.HealthHandler
	Auth    *httpH.AuthHandler
	Song    *httpH.SongHandler
	Catalog *httpH.CatalogHandler
}

func wireHandlers(log *logger.Logger, cfg Config, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:  httpH.NewHealthHandler(),
		Auth:    httpH.NewAuthHandler(services.Auth, cfg.CookieSecure),
		Song:    httpH.NewSongHandler(services.Song),
		Catalog: httpH.NewCatalogHandler(services.Catalog),
	}
}

func wireMiddleware(log *logger.Logger, services Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: httpMW.NewAuthMiddleware(log, services.Auth),
	}
}

func wireServer(cfg Config, handlers Handlers, middleware Middleware) *http.Server {
	return http.NewServer(http.RouterConfig{
		HealthHandler:  handlers.Health,
		AuthHandler:    handlers.Auth,
		AuthMiddleware: middleware.Auth,
		SongHandler:    handlers.Song,
		CatalogHandler: handlers.Catalog,
		AllowedOrigins: cfg.AllowedOrigins,
	})
}
