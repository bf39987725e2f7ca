package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/herdbook/internal/config"
	"github.com/mamadbah2/herdbook/internal/server/middleware"
	"github.com/mamadbah2/herdbook/internal/service/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthHandler serves /api/auth.
type AuthHandler struct {
	svc    *auth.Service
	cookie config.AuthConfig
	logger *zap.Logger
}

func NewAuthHandler(svc *auth.Service, cookie config.AuthConfig, logger *zap.Logger) *AuthHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthHandler{svc: svc, cookie: cookie, logger: logger}
}

// Login opens a session and sets it as an HttpOnly cookie. The token is also
// returned for clients that send it in the session header.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	token, user, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, internalError)
		return
	}

	h.setCookie(c, token, int(h.svc.TTL().Seconds()))
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user, "token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context(), middleware.Token(c, h.cookie.CookieName)); err != nil {
		respondError(c, h.logger, err, "Failed to logout")
		return
	}
	h.setCookie(c, "", -1)
	success(c)
}

func (h *AuthHandler) Me(c *gin.Context) {
	p, ok := auth.PrincipalFrom(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": p})
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, value, maxAge, "/", "", h.cookie.CookieSecure, true)
}
