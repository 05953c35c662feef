package handlers

import (
	"net/http"

	"fieldcrm/internal/middleware"

	"github.com/gin-gonic/gin"
)

type action struct {
	Path        string
	Icon        string
	Title       string
	Description string
}

var (
	adminActions = []action{
		{"/users", "fa-users-cog", "User Management", "Create, edit, and manage users"},
		{"/create-data", "fa-plus-circle", "Create Data", "Add new customer information"},
		{"/report", "fa-chart-bar", "Report", "View and filter all data"},
		{"/attendance", "fa-user-clock", "Attendance Register", "Mark your daily attendance"},
		{"/attendance-report", "fa-calendar-check", "Attendance Report", "Generate staff attendance reports"},
	}
	agentActions = []action{
		{"/create-data", "fa-plus-circle", "Create Data", "Add new customer information"},
		{"/report", "fa-chart-bar", "Report", "View your submitted data"},
		{"/attendance", "fa-user-clock", "Attendance Register", "Mark your daily attendance"},
	}
)

func (h *Handler) Dashboard(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	actions := agentActions
	if user.IsAdmin() {
		actions = adminActions
	}
	render(c, http.StatusOK, "dashboard.html", gin.H{"actions": actions})
}

// NotFound sends unknown routes to the entry page.
func (h *Handler) NotFound(c *gin.Context) {
	c.Redirect(http.StatusFound, middleware.EntryPath)
}
