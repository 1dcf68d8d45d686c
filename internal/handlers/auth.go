package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskhive/taskhive/internal/middleware"
	"github.com/taskhive/taskhive/internal/services"
	"github.com/taskhive/taskhive/pkg/logger"
	"github.com/taskhive/taskhive/pkg/response"
)

type AuthHandler struct {
	sessions    *services.SessionService
	ldapEnabled bool
}

func NewAuthHandler(sessions *services.SessionService, ldapEnabled bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, ldapEnabled: ldapEnabled}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login handles user login
// POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	pair, err := h.sessions.Login(req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, services.ErrInvalidCredentials) {
			logger.Error().Err(err).Msg("login failed")
		}
		// One payload for every rejection; the response must not reveal
		// whether the user exists.
		response.Unauthorized(c, "invalid credentials")
		return
	}

	response.Success(c, pair)
}

// Refresh exchanges a refresh token for a new token pair
// POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		response.BadRequest(c, "refreshToken required")
		return
	}

	pair, err := h.sessions.Refresh(req.RefreshToken)
	switch {
	case err == nil:
		response.Success(c, pair)
	case errors.Is(err, services.ErrRefreshTokenMismatch):
		response.Unauthorized(c, "refresh token mismatch")
	case errors.Is(err, services.ErrInvalidRefreshToken):
		response.Unauthorized(c, "invalid or expired refresh token")
	default:
		logger.Error().Err(err).Msg("refresh failed")
		response.ServerError(c, "could not refresh session")
	}
}

// Logout revokes the presented tokens, best-effort. Both the bearer access
// token and the body refresh token are optional.
// POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	// Body is optional; ignore bind errors from an empty body.
	_ = c.ShouldBindJSON(&req)

	err := h.sessions.Logout(bearerToken(c), req.RefreshToken)
	if errors.Is(err, services.ErrRefreshTokenMismatch) {
		response.Unauthorized(c, "refresh token mismatch")
		return
	}

	response.Success(c, gin.H{"status": "logged out"})
}

// GetCurrentUser returns the authenticated principal
// GET /auth/me
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	response.Success(c, gin.H{"username": middleware.Principal(c)})
}

// GetAuthConfig returns authentication configuration
// GET /auth/config
func (h *AuthHandler) GetAuthConfig(c *gin.Context) {
	response.Success(c, gin.H{"ldap_enabled": h.ldapEnabled})
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}
