package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/brew-catalog-api/internal/domain/entity"
	"github.com/oksasatya/brew-catalog-api/internal/domain/repository"
	"github.com/oksasatya/brew-catalog-api/pkg/helpers"
	"github.com/oksasatya/brew-catalog-api/pkg/response"
)

const SessionKey = "session"

// Session loads the record named by the session cookie into the context.
// Unknown or expired ids yield a fresh anonymous session; a store failure
// aborts with 500.
func Session(store repository.SessionStore, cookies *helpers.SessionCookies, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := &entity.Session{}
		if id := cookies.Read(c); id != "" {
			loaded, err := store.Get(c.Request.Context(), id)
			switch {
			case err == nil:
				sess = loaded
			case errors.Is(err, repository.ErrSessionNotFound):
			default:
				helpers.LogError(logger, "load session", err, logrus.Fields{"request_id": c.GetString(RequestIDKey)})
				response.Internal(c)
				return
			}
		}
		c.Set(SessionKey, sess)
		c.Next()
	}
}

// CurrentSession returns the request's session, anonymous when none was loaded.
func CurrentSession(c *gin.Context) *entity.Session {
	if v, ok := c.Get(SessionKey); ok {
		if s, ok := v.(*entity.Session); ok && s != nil {
			return s
		}
	}
	s := &entity.Session{}
	c.Set(SessionKey, s)
	return s
}
