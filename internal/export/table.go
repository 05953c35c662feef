// Package export renders computed report rows as xlsx, PDF or a printable
// HTML page. It never filters or aggregates.
package export

import (
	"fmt"
	"strconv"
	"time"

	"fieldcrm/internal/models"
	"fieldcrm/internal/report"
)

const (
	FormatXLSX  = "xlsx"
	FormatPDF   = "pdf"
	FormatPrint = "print"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
	ContentTypeHTML = "text/html; charset=utf-8"
)

// Table is a titled grid. Cells hold strings, ints or float64s so the
// spreadsheet keeps numeric columns numeric.
type Table struct {
	Title    string
	FileBase string
	Headers  []string
	Rows     [][]any
	// Empty is shown instead of the rows when there are none.
	Empty string
}

// Text formats a cell for the text renderings.
func Text(cell any) string {
	switch v := cell.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// Filename is the download name for format.
func (t Table) Filename(format string) string {
	return t.FileBase + "." + format
}

func CustomerTable(rows []models.CustomerData, loc *time.Location) Table {
	if loc == nil {
		loc = time.Local
	}
	t := Table{
		Title:    "Customer Data Report",
		FileBase: "CustomerReport",
		Headers:  []string{"Date", "Customer Name", "Mobile", "Status", "Created By", "Location"},
		Empty:    "No data found for the selected filters.",
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.Date.In(loc).Format(models.DateLayout),
			r.CustomerName,
			r.Mobile,
			string(r.Status),
			r.CreatedBy,
			fmt.Sprintf("%.4f, %.4f", r.Latitude, r.Longitude),
		})
	}
	return t
}

func AttendanceTable(rows []report.AttendanceRow) Table {
	t := Table{
		Title:    "Attendance Report",
		FileBase: "AttendanceReport",
		Headers:  []string{"Staff Name", "Emp ID", "Salary", "Present Days", "Late Check-ins", "Early Check-outs"},
		Empty:    "No attendance data found for agents.",
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []any{
			r.StaffName,
			r.EmpID,
			r.Salary.InexactFloat64(),
			r.PresentDays,
			r.LateCheckIns,
			r.EarlyCheckOuts,
		})
	}
	return t
}
