package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soniq-music/soniq-webapp-backend/internal/http/response"
	"github.com/soniq-music/soniq-webapp-backend/internal/requestdata"
	"github.com/soniq-music/soniq-webapp-backend/internal/services"
)

const refreshCookieName = "refresh_token"

type AuthHandler struct {
	authService  services.AuthService
	cookieSecure bool
}

func NewAuthHandler(authService services.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{authService: authService, cookieSecure: cookieSecure}
}

func (ah *AuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ah.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	ah.setRefreshCookie(c, result.RefreshToken)
	response.RespondCreated(c, gin.H{
		"user":         result.User,
		"access_token": result.AccessToken,
	})
}

func (ah *AuthHandler) Login(c *gin.Context) {
	var req services.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	result, err := ah.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	ah.setRefreshCookie(c, result.RefreshToken)
	response.RespondOK(c, gin.H{
		"user":         result.User,
		"access_token": result.AccessToken,
	})
}

func (ah *AuthHandler) Refresh(c *gin.Context) {
	result, err := ah.authService.Refresh(c.Request.Context(), ah.refreshToken(c))
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	ah.setRefreshCookie(c, result.RefreshToken)
	response.RespondOK(c, gin.H{"access_token": result.AccessToken})
}

func (ah *AuthHandler) Logout(c *gin.Context) {
	if err := ah.authService.Logout(c.Request.Context(), ah.refreshToken(c)); err != nil {
		response.RespondFromError(c, err)
		return
	}
	ah.clearRefreshCookie(c)
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AuthHandler) Me(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	user, err := ah.authService.GetUser(c.Request.Context(), rd.UserUID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}

func (ah *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	if err := ah.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	token := c.Param("token")
	if token == "" {
		token = req.Token
	}
	if err := ah.authService.ResetPassword(c.Request.Context(), token, req.Password); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

func (ah *AuthHandler) refreshToken(c *gin.Context) string {
	if cookie, err := c.Cookie(refreshCookieName); err == nil && cookie != "" {
		return cookie
	}
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.ShouldBindJSON(&req); err == nil {
		return req.RefreshToken
	}
	return ""
}

func (ah *AuthHandler) setRefreshCookie(c *gin.Context, token string) {
	maxAge := int(ah.authService.RefreshTTL().Seconds())
	c.SetCookie(refreshCookieName, token, maxAge, "/", "", ah.cookieSecure, true)
}

func (ah *AuthHandler) clearRefreshCookie(c *gin.Context) {
	c.SetCookie(refreshCookieName, "", -1, "/", "", ah.cookieSecure, true)
}
