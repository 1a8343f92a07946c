package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/foodshare/foodshare/internal/models"
	"github.com/foodshare/foodshare/internal/service"
)

const (
	// SessionCookie holds the signed session token.
	SessionCookie = "foodshare_session"

	userKey = "user"
)

// SessionResolver turns a cookie value into the signed-in user
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.SessionUser, error)
}

// LoadSession resolves the session cookie, if any, and stores the user in
// the context. Requests without a valid session continue anonymously and a
// stale cookie is cleared.
func LoadSession(sessions SessionResolver, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Next()
			return
		}

		user, err := sessions.Resolve(c.Request.Context(), token)
		switch {
		case err == nil:
			SetCurrentUser(c, user)
		case errors.Is(err, service.ErrUnauthorized):
			ClearSessionCookie(c)
		default:
			logger.WithError(err).Warn("failed to resolve session")
		}
		c.Next()
	}
}

// CurrentUser returns the signed-in user or nil.
func CurrentUser(c *gin.Context) *models.SessionUser {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.SessionUser)
	return user
}

func SetCurrentUser(c *gin.Context, user *models.SessionUser) {
	c.Set(userKey, user)
}

// SetSessionCookie stores token in an HttpOnly, SameSite=Lax cookie.
func SetSessionCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, token, maxAge, "/", "", secure, true)
}

func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
}
