package handlers

import (
	"net/http"
	"strconv"

	"fieldcrm/internal/middleware"
	"fieldcrm/internal/models"

	"github.com/gin-gonic/gin"
)

const (
	attendancePath  = "/attendance"
	locationMissing = "User or location data is missing."
)

type locationForm struct {
	Latitude  string `form:"latitude" validate:"required,latitude"`
	Longitude string `form:"longitude" validate:"required,longitude"`
}

func (f locationForm) point() models.GeoPoint {
	lat, _ := strconv.ParseFloat(f.Latitude, 64)
	lon, _ := strconv.ParseFloat(f.Longitude, 64)
	return models.GeoPoint{Lat: lat, Lon: lon}
}

func (h *Handler) attendancePage(c *gin.Context, status int, form locationForm, problem string) {
	user, _ := middleware.CurrentUser(c)
	data := gin.H{
		"now":          h.store.Now(),
		"form":         form,
		"error":        problem,
		"geoTimeoutMs": h.opts.GeoTimeout.Milliseconds(),
	}
	if rec, ok := h.store.TodayAttendance(user.ID); ok {
		data["record"] = rec
	}
	render(c, status, "attendance.html", data)
}

func (h *Handler) ShowAttendance(c *gin.Context) {
	h.attendancePage(c, http.StatusOK, locationForm{}, "")
}

func (h *Handler) CheckIn(c *gin.Context) {
	h.recordAttendance(c, func(at models.GeoPoint) models.AttendanceEvent {
		return models.CheckIn{At: h.store.Now(), Location: at}
	}, "Successfully checked in!")
}

func (h *Handler) CheckOut(c *gin.Context) {
	h.recordAttendance(c, func(at models.GeoPoint) models.AttendanceEvent {
		return models.CheckOut{At: h.store.Now(), Location: at}
	}, "Successfully checked out!")
}

func (h *Handler) recordAttendance(c *gin.Context, event func(models.GeoPoint) models.AttendanceEvent, done string) {
	user, _ := middleware.CurrentUser(c)

	var form locationForm
	_ = c.ShouldBind(&form)
	trimAll(&form.Latitude, &form.Longitude)
	if errs := check(form); len(errs) > 0 {
		h.attendancePage(c, http.StatusBadRequest, form, locationMissing)
		return
	}

	ev := event(form.point())
	h.store.RecordAttendance(c.Request.Context(), user, ev)
	h.metrics.AttendanceRecorded(ev.Kind())

	flash(c, done)
	c.Redirect(http.StatusFound, attendancePath)
}
