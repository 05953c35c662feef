package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecorderCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.Login(true)
	r.Login(false)
	r.Login(false)
	r.LeadCreated()
	r.AttendanceRecorded("check_in")
	r.ReportExported("attendance", "xlsx")
	r.StorageWriteFailed("users")

	if got := testutil.ToFloat64(r.logins.WithLabelValues("failure")); got != 2 {
		t.Fatalf("expected 2 failed logins, got %v", got)
	}
	if got := testutil.ToFloat64(r.logins.WithLabelValues("success")); got != 1 {
		t.Fatalf("expected 1 successful login, got %v", got)
	}
	if got := testutil.ToFloat64(r.leads); got != 1 {
		t.Fatalf("expected 1 lead, got %v", got)
	}
	if got := testutil.ToFloat64(r.exports.WithLabelValues("attendance", "xlsx")); got != 1 {
		t.Fatalf("expected 1 export, got %v", got)
	}
	if got := testutil.ToFloat64(r.writeFailures.WithLabelValues("users")); got != 1 {
		t.Fatalf("expected 1 write failure, got %v", got)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.Login(true)
	r.LeadCreated()
	r.AttendanceRecorded("check_out")
	r.ReportExported("customers", "pdf")
	r.StorageWriteFailed("users")

	New(nil).Login(false)
}
