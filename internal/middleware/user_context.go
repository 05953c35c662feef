package middleware

import (
	"fieldcrm/internal/logger"
	"fieldcrm/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const (
	SessionUserID  = "user_id"
	currentUserKey = "CurrentUser"
)

// SessionSource is the authoritative session holder.
type SessionSource interface {
	CurrentUser() (models.AuthenticatedUser, bool)
}

// InjectUser resolves the signed-in user. The cookie only counts while it
// names the store's current session user; a stale cookie is cleared.
func InjectUser(src SessionSource, logg *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		uid, _ := sess.Get(SessionUserID).(string)
		if uid == "" {
			c.Next()
			return
		}

		user, ok := src.CurrentUser()
		if !ok || user.ID != uid {
			sess.Delete(SessionUserID)
			_ = sess.Save()
			c.Next()
			return
		}

		c.Set(currentUserKey, user)
		if logg != nil {
			ctx := logg.WithUserID(c.Request.Context(), user.ID)
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

// CurrentUser returns the user set by InjectUser.
func CurrentUser(c *gin.Context) (models.AuthenticatedUser, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return models.AuthenticatedUser{}, false
	}
	user, ok := v.(models.AuthenticatedUser)
	return user, ok
}
