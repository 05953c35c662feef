package handlers

import (
	"net/http"
	"strings"

	"fieldcrm/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const invalidCredentials = "Invalid User ID or Password."

// ShowLogin is the entry page. Signed-in users go straight to the dashboard.
func (h *Handler) ShowLogin(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		c.Redirect(http.StatusFound, middleware.DashboardPath)
		return
	}
	render(c, http.StatusOK, "login.html", gin.H{"error": ""})
}

type loginForm struct {
	LoginID  string `form:"userId"`
	Password string `form:"password"`
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": invalidCredentials})
		return
	}
	form.LoginID = strings.TrimSpace(form.LoginID)

	ctx := c.Request.Context()
	user, ok := h.store.Login(ctx, form.LoginID, form.Password)
	h.metrics.Login(ok)
	if !ok {
		h.log.Info(h.log.WithField(ctx, "login_id", form.LoginID), "auth.login_failed")
		render(c, http.StatusUnauthorized, "login.html", gin.H{
			"error":  invalidCredentials,
			"userId": form.LoginID,
		})
		return
	}

	sess := sessions.Default(c)
	sess.Set(middleware.SessionUserID, user.ID)
	if err := sess.Save(); err != nil {
		h.log.Error(ctx, "auth.session_save_failed", err)
	}
	c.Redirect(http.StatusFound, middleware.DashboardPath)
}

func (h *Handler) Logout(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); ok {
		h.store.Logout(c.Request.Context())
	}

	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Redirect(http.StatusFound, middleware.EntryPath)
}
