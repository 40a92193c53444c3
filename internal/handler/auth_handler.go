package handler

import (
	"net"
	"net/http"

	"deuda_tracker/internal/middleware"
	"deuda_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=40"`
		Password string `json:"password" binding:"required,min=6,max=200"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, session, err := h.service.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setSessionCookie(c, session.ID, int(service.SessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": user.ID, "username": user.Username, "role": user.Role},
	})
}

// Logout destroys the current session best-effort and always clears the
// cookie, even when no session existed.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(middleware.SessionCookieName); err == nil && sessionID != "" {
		if err := h.service.Logout(c.Request.Context(), sessionID); err != nil {
			logrus.WithError(err).Warn("failed to destroy session on logout")
		}
	}
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := getAuthUser(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{"id": user.ID, "username": user.Username, "role": user.Role},
	})
}

// setSessionCookie writes the session cookie: HttpOnly, SameSite=Lax, scoped
// to the whole application, Secure except on local hosts, Max-Age matching
// the session TTL.
func setSessionCookie(c *gin.Context, sessionID string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, sessionID, maxAge, "/", "", secureCookie(c), true)
}

// clearSessionCookie expires the cookie immediately (Max-Age=0 on the wire).
func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", secureCookie(c), true)
}

func secureCookie(c *gin.Context) bool {
	host := c.Request.Host
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return host != "localhost" && host != "127.0.0.1"
}

// RegisterAuthRoutes registers auth routes. Logout stays outside the session
// middleware so it can clear the cookie even without a valid session.
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
		authGroup.GET("/me", authMW, h.Me)
	}
}
