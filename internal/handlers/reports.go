package handlers

import (
	"bytes"
	"net/http"
	"net/url"
	"strings"

	"fieldcrm/internal/export"
	"fieldcrm/internal/middleware"
	"fieldcrm/internal/report"

	"github.com/gin-gonic/gin"
)

const invalidDate = "Enter dates as YYYY-MM-DD"

type reportQuery struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
	UserID    string `form:"userId"`
	Format    string `form:"format"`
}

// dateRange parses the query dates. Unparseable sides are left open and
// reported back to the page.
func (h *Handler) dateRange(q reportQuery) (report.DateRange, string) {
	loc := h.store.Location()
	var (
		r       report.DateRange
		problem string
	)
	start, err := report.ParseDay(q.StartDate, loc)
	if err != nil {
		problem = invalidDate
	} else {
		r.Start = start
	}
	end, err := report.ParseDay(q.EndDate, loc)
	if err != nil {
		problem = invalidDate
	} else {
		r.End = end
	}
	return r, problem
}

// exportLinks returns the current report URL with each export format set.
func exportLinks(c *gin.Context) map[string]string {
	links := map[string]string{}
	for _, format := range []string{export.FormatXLSX, export.FormatPDF, export.FormatPrint} {
		q := url.Values{}
		for k, v := range c.Request.URL.Query() {
			if k != "format" {
				q[k] = v
			}
		}
		q.Set("format", format)
		links[format] = c.Request.URL.Path + "?" + q.Encode()
	}
	return links
}

func (h *Handler) CustomerReport(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var q reportQuery
	_ = c.ShouldBindQuery(&q)
	if q.UserID == "" {
		q.UserID = report.AllUsers
	}
	r, problem := h.dateRange(q)

	rows := report.Customers(h.store.CustomerData(), user, report.CustomerFilter{
		Range:     r,
		CreatedBy: q.UserID,
	}, h.store.Location())

	if q.Format != "" {
		h.export(c, "customers", export.CustomerTable(rows, h.store.Location()), q.Format)
		return
	}

	render(c, http.StatusOK, "report.html", gin.H{
		"rows":    rows,
		"query":   q,
		"error":   problem,
		"agents":  report.Agents(h.store.Users()),
		"exports": exportLinks(c),
	})
}

func (h *Handler) AttendanceReport(c *gin.Context) {
	var q reportQuery
	_ = c.ShouldBindQuery(&q)

	opts := h.opts.Attendance
	var problem string
	if opts.Filtered() {
		opts.Range, problem = h.dateRange(q)
	}

	rows := report.Attendance(h.store.Users(), h.store.AttendanceRecords(), opts)

	if q.Format != "" {
		h.export(c, "attendance", export.AttendanceTable(rows), q.Format)
		return
	}

	render(c, http.StatusOK, "attendance_report.html", gin.H{
		"rows":     rows,
		"query":    q,
		"error":    problem,
		"filtered": opts.Filtered(),
		"exports":  exportLinks(c),
	})
}

// export writes t in format. Unknown formats are a bad request.
func (h *Handler) export(c *gin.Context, name string, t export.Table, format string) {
	format = strings.ToLower(format)

	var (
		buf         bytes.Buffer
		err         error
		contentType string
		disposition string
	)
	switch format {
	case export.FormatXLSX:
		err = export.WriteXLSX(&buf, t)
		contentType = export.ContentTypeXLSX
		disposition = `attachment; filename="` + t.Filename(format) + `"`
	case export.FormatPDF:
		err = export.WritePDF(&buf, t)
		contentType = export.ContentTypePDF
		disposition = `attachment; filename="` + t.Filename(format) + `"`
	case export.FormatPrint:
		err = export.WritePrintHTML(&buf, t)
		contentType = export.ContentTypeHTML
	default:
		c.String(http.StatusBadRequest, "unknown export format")
		return
	}

	ctx := h.log.WithFields(c.Request.Context(), map[string]any{"report": name, "format": format})
	if err != nil {
		h.log.Error(ctx, "reports.export_failed", err)
		c.String(http.StatusInternalServerError, "export failed")
		return
	}
	h.metrics.ReportExported(name, format)
	h.log.Info(ctx, "reports.exported")

	if disposition != "" {
		c.Header("Content-Disposition", disposition)
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
