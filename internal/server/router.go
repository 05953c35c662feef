package server

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"fieldcrm/internal/config"
	"fieldcrm/internal/crm"
	"fieldcrm/internal/handlers"
	"fieldcrm/internal/logger"
	"fieldcrm/internal/metrics"
	"fieldcrm/internal/middleware"
	"fieldcrm/internal/models"
	"fieldcrm/internal/report"
	"fieldcrm/web"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const sessionName = "crm_session"

type Deps struct {
	Config  *config.Config
	Store   *crm.Store
	Logger  *logger.Logger
	Metrics *metrics.Recorder
	// Gatherer backs /metrics. Nil serves the default registry.
	Gatherer prometheus.Gatherer
}

func maskPhone(phone string) string {
	runes := []rune(phone)
	n := len(runes)
	if n <= 4 {
		return "***"
	}
	masked := make([]rune, n)
	for i := range runes {
		if i >= n-4 {
			masked[i] = runes[i]
		} else {
			masked[i] = '*'
		}
	}
	return string(masked)
}

func templateFuncs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"maskPhone": maskPhone,
		"coord":     func(v float64) string { return fmt.Sprintf("%.4f", v) },
		"money":     func(d decimal.Decimal) string { return d.StringFixed(2) },
		"date": func(t time.Time) string {
			return t.In(loc).Format(models.DateLayout)
		},
		"clock": func(t *time.Time) string {
			if t == nil {
				return "-"
			}
			return t.In(loc).Format("15:04:05")
		},
		"datetime": func(t time.Time) string {
			return t.In(loc).Format("2006-01-02 15:04:05")
		},
	}
}

// LoadTemplates parses the embedded page templates.
func LoadTemplates(loc *time.Location) (*template.Template, error) {
	tmpl, err := template.New("").Funcs(templateFuncs(loc)).ParseFS(web.Templates, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}
	return tmpl, nil
}

func NewRouter(deps Deps) (*gin.Engine, error) {
	if deps.Config == nil || deps.Store == nil {
		return nil, errors.New("server: config and store are required")
	}
	cfg := deps.Config
	logg := deps.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	loc := deps.Store.Location()

	attendance, err := report.ParseOptions(cfg.Attendance.ReportRange, cfg.Attendance.LateAfter, cfg.Attendance.EarlyBefore, loc)
	if err != nil {
		return nil, err
	}
	h := handlers.New(deps.Store, logg, deps.Metrics, handlers.Options{
		Attendance:     attendance,
		GeoTimeout:     cfg.App.GeoTimeout,
		MaxUploadBytes: cfg.App.MaxUploadBytes,
	})

	tmpl, err := LoadTemplates(loc)
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(middleware.Recoverer(logg), middleware.RequestID(logg), middleware.Logging(logg))
	r.SetHTMLTemplate(tmpl)
	if cfg.App.MaxUploadBytes > 0 {
		r.MaxMultipartMemory = cfg.App.MaxUploadBytes
	}

	store := cookie.NewStore([]byte(cfg.App.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   int((7 * 24 * time.Hour).Seconds()),
		HttpOnly: true,
		Secure:   cfg.App.IsProd(),
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions(sessionName, store))
	r.Use(middleware.InjectUser(deps.Store, logg))

	// entry
	r.GET("/", h.ShowLogin)
	r.POST("/login", h.Login)
	r.GET("/logout", h.Logout)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	auth.GET("/dashboard", h.Dashboard)

	// leads and reports, both roles
	auth.GET("/create-data", h.ShowCreateData)
	auth.POST("/create-data", h.CreateData)
	auth.GET("/report", h.CustomerReport)

	auth.GET("/attendance", h.ShowAttendance)
	auth.POST("/attendance/check-in", h.CheckIn)
	auth.POST("/attendance/check-out", h.CheckOut)

	// admin only
	admin := auth.Group("/")
	admin.Use(middleware.RequireRole(models.RoleAdmin))

	admin.GET("/users", h.ListUsers)
	admin.GET("/users/new", h.ShowNewUser)
	admin.POST("/users/new", h.CreateUser)
	admin.GET("/users/:id/edit", h.ShowEditUser)
	admin.POST("/users/:id/edit", h.UpdateUser)
	admin.GET("/users/:id/delete", h.ShowDeleteUser)
	admin.POST("/users/:id/delete", h.DeleteUser)

	admin.GET("/attendance-report", h.AttendanceReport)

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	r.NoRoute(h.NotFound)

	return r, nil
}
