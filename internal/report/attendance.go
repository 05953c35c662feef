package report

import (
	"fmt"
	"time"

	"fieldcrm/internal/models"

	"github.com/shopspring/decimal"
)

// ClockTime is a wall-clock time of day in minutes after midnight.
type ClockTime int

// ParseClock parses "HH:MM".
func ParseClock(value string) (ClockTime, error) {
	t, err := time.Parse("15:04", value)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q: %w", value, err)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

func clockOf(t time.Time, loc *time.Location) ClockTime {
	t = t.In(loc)
	return ClockTime(t.Hour()*60 + t.Minute())
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

var (
	DefaultLateAfter   = ClockTime(9 * 60)
	DefaultEarlyBefore = ClockTime(17 * 60)
)

// Attendance report range modes.
const (
	RangeAllTime  = "all-time"
	RangeFiltered = "filtered"
)

type AttendanceOptions struct {
	// Mode is RangeAllTime or RangeFiltered. Range is only applied in
	// filtered mode.
	Mode        string
	Range       DateRange
	LateAfter   ClockTime
	EarlyBefore ClockTime
	Location    *time.Location
}

// ParseOptions builds options from a range mode and "HH:MM" thresholds.
func ParseOptions(mode, lateAfter, earlyBefore string, loc *time.Location) (AttendanceOptions, error) {
	late, err := ParseClock(lateAfter)
	if err != nil {
		return AttendanceOptions{}, err
	}
	early, err := ParseClock(earlyBefore)
	if err != nil {
		return AttendanceOptions{}, err
	}
	return AttendanceOptions{
		Mode:        mode,
		LateAfter:   late,
		EarlyBefore: early,
		Location:    loc,
	}, nil
}

// Filtered reports whether the date range applies.
func (o AttendanceOptions) Filtered() bool {
	return o.Mode == RangeFiltered
}

type AttendanceRow struct {
	StaffName      string
	EmpID          string
	Salary         decimal.Decimal
	PresentDays    int
	LateCheckIns   int
	EarlyCheckOuts int
}

// Attendance aggregates records per Agent, in user order. A check-in is late
// when its minute of day is strictly after LateAfter; a check-out is early
// when strictly before EarlyBefore.
func Attendance(users []models.User, records []models.AttendanceRecord, opts AttendanceOptions) []AttendanceRow {
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}

	byUser := make(map[string][]models.AttendanceRecord)
	for _, rec := range records {
		if opts.Filtered() && !opts.Range.ContainsDay(rec.Date, loc) {
			continue
		}
		byUser[rec.UserID] = append(byUser[rec.UserID], rec)
	}

	rows := make([]AttendanceRow, 0, len(users))
	for _, u := range users {
		if u.Role != models.RoleAgent {
			continue
		}
		row := AttendanceRow{
			StaffName: u.StaffName,
			EmpID:     u.EmpID,
			Salary:    u.Salary,
		}

		days := make(map[string]struct{})
		for _, rec := range byUser[u.ID] {
			days[rec.Date] = struct{}{}
			if rec.CheckInTime != nil && clockOf(*rec.CheckInTime, loc) > opts.LateAfter {
				row.LateCheckIns++
			}
			if rec.CheckOutTime != nil && clockOf(*rec.CheckOutTime, loc) < opts.EarlyBefore {
				row.EarlyCheckOuts++
			}
		}
		row.PresentDays = len(days)
		rows = append(rows, row)
	}
	return rows
}

// Agents returns the Agent users, used to populate the creator filter.
func Agents(users []models.User) []models.User {
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.Role == models.RoleAgent {
			out = append(out, u)
		}
	}
	return out
}
