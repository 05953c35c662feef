package handlers

import (
	"time"

	"fieldcrm/internal/crm"
	"fieldcrm/internal/logger"
	"fieldcrm/internal/metrics"
	"fieldcrm/internal/report"
)

type Options struct {
	Attendance     report.AttendanceOptions
	GeoTimeout     time.Duration
	MaxUploadBytes int64
}

// Handler serves the web pages over one Store.
type Handler struct {
	store   *crm.Store
	log     *logger.Logger
	metrics *metrics.Recorder
	opts    Options
}

func New(store *crm.Store, logg *logger.Logger, rec *metrics.Recorder, opts Options) *Handler {
	if logg == nil {
		logg = logger.Nop()
	}
	if opts.Attendance.Location == nil {
		opts.Attendance.Location = store.Location()
	}
	if opts.Attendance.LateAfter == 0 {
		opts.Attendance.LateAfter = report.DefaultLateAfter
	}
	if opts.Attendance.EarlyBefore == 0 {
		opts.Attendance.EarlyBefore = report.DefaultEarlyBefore
	}
	if opts.GeoTimeout <= 0 {
		opts.GeoTimeout = 10 * time.Second
	}
	return &Handler{store: store, log: logg, metrics: rec, opts: opts}
}
