package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the CRM's domain counters. A nil *Recorder, or one built
// without a registerer, records nothing.
type Recorder struct {
	logins        *prometheus.CounterVec
	leads         prometheus.Counter
	attendance    *prometheus.CounterVec
	exports       *prometheus.CounterVec
	writeFailures *prometheus.CounterVec
}

// New registers the CRM metrics on the provided registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		return &Recorder{}
	}
	r := &Recorder{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		leads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crm_leads_created_total",
			Help: "Customer leads captured.",
		}),
		attendance: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_attendance_events_total",
			Help: "Attendance check-ins and check-outs.",
		}, []string{"kind"}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_report_exports_total",
			Help: "Report exports by report and format.",
		}, []string{"report", "format"}),
		writeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crm_storage_write_failures_total",
			Help: "Failed writes of a persisted slot.",
		}, []string{"slot"}),
	}
	reg.MustRegister(r.logins, r.leads, r.attendance, r.exports, r.writeFailures)
	return r
}

func (r *Recorder) Login(success bool) {
	if r == nil || r.logins == nil {
		return
	}
	result := "failure"
	if success {
		result = "success"
	}
	r.logins.WithLabelValues(result).Inc()
}

func (r *Recorder) LeadCreated() {
	if r == nil || r.leads == nil {
		return
	}
	r.leads.Inc()
}

func (r *Recorder) AttendanceRecorded(kind string) {
	if r == nil || r.attendance == nil {
		return
	}
	r.attendance.WithLabelValues(kind).Inc()
}

func (r *Recorder) ReportExported(report, format string) {
	if r == nil || r.exports == nil {
		return
	}
	r.exports.WithLabelValues(report, format).Inc()
}

func (r *Recorder) StorageWriteFailed(slot string) {
	if r == nil || r.writeFailures == nil {
		return
	}
	r.writeFailures.WithLabelValues(slot).Inc()
}
