package middleware

import (
	"net/http"

	"deuda_tracker/internal/model"
	"deuda_tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	// SessionCookieName is the cookie carrying the opaque session id.
	SessionCookieName = "session"
	// AuthUserKey is the gin context key holding the resolved *model.AuthUser.
	AuthUserKey = "authUser"
)

// SessionAuthMiddleware resolves the request's session cookie to an active
// user and aborts with 401 otherwise. The resolved identity lands in the
// gin context under AuthUserKey.
func SessionAuthMiddleware(auth service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, _ := c.Cookie(SessionCookieName)
		user, err := auth.Resolve(c.Request.Context(), sessionID)
		if err != nil {
			logrus.WithError(err).Error("session resolution failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		c.Set(AuthUserKey, user)
		c.Next()
	}
}

// AuthUserFrom returns the identity stored by SessionAuthMiddleware, or nil
// when the request is anonymous.
func AuthUserFrom(c *gin.Context) *model.AuthUser {
	if v, ok := c.Get(AuthUserKey); ok {
		if u, ok := v.(*model.AuthUser); ok {
			return u
		}
	}
	return nil
}
