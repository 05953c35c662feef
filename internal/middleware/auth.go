package middleware

import (
	"net/http"

	"fieldcrm/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	EntryPath     = "/"
	DashboardPath = "/dashboard"
)

// RequireAuth sends unauthenticated requests to the entry page.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.Redirect(http.StatusFound, EntryPath)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole sends authenticated users without one of roles to the
// dashboard, and unauthenticated ones to the entry page.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := map[models.UserRole]struct{}{}
	for _, r := range roles {
		roleSet[r] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.Redirect(http.StatusFound, EntryPath)
			c.Abort()
			return
		}
		if _, ok := roleSet[user.Role]; !ok {
			c.Redirect(http.StatusFound, DashboardPath)
			c.Abort()
			return
		}
		c.Next()
	}
}
