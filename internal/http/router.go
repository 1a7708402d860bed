package http

import (
	"github.com/gin-gonic/gin"

	types "github.com/soniq-music/soniq-webapp-backend/internal/domain"
	httpH "github.com/soniq-music/soniq-webapp-backend/internal/http/handlers"
	httpMW "github.com/soniq-music/soniq-webapp-backend/internal/http/middleware"
)

type RouterConfig struct {
	AuthHandler    *httpH.AuthHandler
	AuthMiddleware *httpMW.AuthMiddleware

	SongHandler    *httpH.SongHandler
	CatalogHandler *httpH.CatalogHandler
	HealthHandler  *httpH.HealthHandler

	AllowedOrigins string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.Default()
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Auth (public)
		if cfg.AuthHandler != nil {
			api.POST("/auth/register", cfg.AuthHandler.Register)
			api.POST("/auth/login", cfg.AuthHandler.Login)
			api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
			api.POST("/auth/logout", cfg.AuthHandler.Logout)
			api.POST("/auth/forgot-password", cfg.AuthHandler.ForgotPassword)
			api.POST("/auth/reset-password", cfg.AuthHandler.ResetPassword)
			api.POST("/auth/reset-password/:token", cfg.AuthHandler.ResetPassword)
		}

		// Catalog (public browsing)
		if cfg.CatalogHandler != nil {
			api.GET("/songs", cfg.CatalogHandler.List)
			api.GET("/songs/search", cfg.CatalogHandler.Search)
			api.GET("/songs/album/:albumName", cfg.CatalogHandler.AlbumSongs)
			api.GET("/songs/related/:kind/:name", cfg.CatalogHandler.RelatedSongs)
			api.GET("/songs/:uid/suggestions", cfg.CatalogHandler.Suggestions)
			api.GET("/songs/:uid/translations", cfg.CatalogHandler.Translations)
		}
		if cfg.SongHandler != nil {
			api.GET("/songs/:uid", cfg.SongHandler.Get)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AuthHandler != nil {
			protected.GET("/me", cfg.AuthHandler.Me)
		}

		if cfg.SongHandler != nil && cfg.AuthMiddleware != nil {
			canUpload := cfg.AuthMiddleware.RequireRoles(types.RoleArtist, types.RoleAdmin)
			protected.POST("/songs/upload", canUpload, cfg.SongHandler.Upload)
			protected.POST("/songs/upload/batch", canUpload, cfg.SongHandler.BatchUpload)
			protected.PUT("/songs/:uid", canUpload, cfg.SongHandler.Update)
			protected.DELETE("/songs/:uid", canUpload, cfg.SongHandler.Delete)
			protected.GET("/songs/my-songs", canUpload, cfg.SongHandler.MySongs)

			adminOnly := cfg.AuthMiddleware.RequireRoles(types.RoleAdmin)
			protected.GET("/songs/admin/all-songs", adminOnly, cfg.SongHandler.AllSongs)
		}
	}

	return r
}
