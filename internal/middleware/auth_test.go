package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fieldcrm/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newGatedRouter(user *models.AuthenticatedUser, gate gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Set(currentUserKey, *user)
		}
		c.Next()
	})
	r.GET("/gated", gate, func(c *gin.Context) { c.String(http.StatusOK, "in") })
	return r
}

func serve(r *gin.Engine) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gated", nil))
	return w
}

func TestRequireAuth(t *testing.T) {
	w := serve(newGatedRouter(nil, RequireAuth()))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, EntryPath, w.Header().Get("Location"))

	agent := &models.AuthenticatedUser{ID: "user-2", Role: models.RoleAgent}
	w = serve(newGatedRouter(agent, RequireAuth()))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole(t *testing.T) {
	gate := RequireRole(models.RoleAdmin)

	w := serve(newGatedRouter(nil, gate))
	assert.Equal(t, EntryPath, w.Header().Get("Location"))

	agent := &models.AuthenticatedUser{ID: "user-2", Role: models.RoleAgent}
	w = serve(newGatedRouter(agent, gate))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, DashboardPath, w.Header().Get("Location"))

	admin := &models.AuthenticatedUser{ID: "user-1", Role: models.RoleAdmin}
	w = serve(newGatedRouter(admin, gate))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "in", w.Body.String())
}

func TestRequestIDEchoesOrGenerates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(nil))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "req-1")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-1", w.Header().Get(requestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(requestIDHeader), 36)
}
