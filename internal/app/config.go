package app

import (
	"time"

	"github.com/soniq-music/soniq-webapp-backend/internal/pkg/logger"
	"github.com/soniq-music/soniq-webapp-backend/internal/utils"
)

type Config struct {
	JWTSecretKey    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	FrontendURL     string
	AllowedOrigins  string
	CookieSecure    bool
	Port            string
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
	accessTokenTTLSeconds := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 900, log)
	refreshTokenTTLSeconds := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 604800, log)
	frontendURL := utils.GetEnv("FRONTEND_URL", "http://localhost:3000", log)
	allowedOrigins := utils.GetEnv("ALLOWED_ORIGINS", frontendURL, log)
	cookieSecure := utils.GetEnv("COOKIE_SECURE", "false", log) == "true"
	port := utils.GetEnv("PORT", "8080", log)
	return Config{
		JWTSecretKey:    jwtSecretKey,
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		RefreshTokenTTL: time.Duration(refreshTokenTTLSeconds) * time.Second,
		FrontendURL:     frontendURL,
		AllowedOrigins:  allowedOrigins,
		CookieSecure:    cookieSecure,
		Port:            port,
	}
}
