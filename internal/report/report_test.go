package report

import (
	"testing"
	"time"

	"fieldcrm/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = models.AuthenticatedUser{ID: "user-1", LoginID: "Admin", Role: models.RoleAdmin}
	agent = models.AuthenticatedUser{ID: "user-2", LoginID: "Agent", Role: models.RoleAgent}
)

func at(day, hour, minute int) time.Time {
	return time.Date(2024, 5, day, hour, minute, 0, 0, time.UTC)
}

func lead(id, createdBy string, date time.Time) models.CustomerData {
	return models.CustomerData{ID: id, CreatedBy: createdBy, Date: date}
}

func ids(records []models.CustomerData) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestParseDay(t *testing.T) {
	day, err := ParseDay("2024-05-02", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, at(2, 0, 0), day)

	day, err = ParseDay("  ", time.UTC)
	require.NoError(t, err)
	assert.True(t, day.IsZero())

	_, err = ParseDay("02/05/2024", time.UTC)
	assert.Error(t, err)
}

func TestDateRangeBoundariesAreInclusive(t *testing.T) {
	r := DateRange{Start: at(2, 0, 0), End: at(3, 0, 0)}

	assert.False(t, r.Contains(at(1, 23, 59), time.UTC))
	assert.True(t, r.Contains(at(2, 0, 0), time.UTC))
	assert.True(t, r.Contains(time.Date(2024, 5, 3, 23, 59, 59, int(999*time.Millisecond), time.UTC), time.UTC))
	assert.False(t, r.Contains(at(4, 0, 0), time.UTC))
}

func TestDateRangeKeepsLastInstantOfDay(t *testing.T) {
	may3 := DateRange{Start: at(3, 0, 0), End: at(3, 0, 0)}
	may4 := DateRange{Start: at(4, 0, 0), End: at(4, 0, 0)}
	last := time.Date(2024, 5, 3, 23, 59, 59, 999_500_000, time.UTC)

	assert.True(t, may3.Contains(last, time.UTC))
	assert.False(t, may4.Contains(last, time.UTC))
	assert.False(t, may3.Contains(at(4, 0, 0), time.UTC))

	got := Customers([]models.CustomerData{lead("a", "Agent", last)}, admin, CustomerFilter{Range: may3}, time.UTC)
	assert.Len(t, got, 1)
}

func TestDateRangeOpenSides(t *testing.T) {
	onlyStart := DateRange{Start: at(2, 0, 0)}
	assert.True(t, onlyStart.Contains(at(30, 12, 0), time.UTC))
	assert.False(t, onlyStart.Contains(at(1, 12, 0), time.UTC))

	onlyEnd := DateRange{End: at(2, 0, 0)}
	assert.True(t, onlyEnd.Contains(time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), time.UTC))
	assert.False(t, onlyEnd.Contains(at(3, 0, 0), time.UTC))
}

func TestCustomersAdminFilters(t *testing.T) {
	records := []models.CustomerData{
		lead("a", "Agent", at(1, 10, 0)),
		lead("b", "Other", at(2, 10, 0)),
		lead("c", "Agent", at(3, 18, 0)),
		lead("d", "Agent", at(4, 8, 0)),
	}
	r := DateRange{Start: at(2, 0, 0), End: at(3, 0, 0)}

	got := Customers(records, admin, CustomerFilter{Range: r, CreatedBy: AllUsers}, time.UTC)
	assert.Equal(t, []string{"b", "c"}, ids(got))

	got = Customers(records, admin, CustomerFilter{CreatedBy: "Agent"}, time.UTC)
	assert.Equal(t, []string{"a", "c", "d"}, ids(got))

	got = Customers(records, admin, CustomerFilter{}, time.UTC)
	assert.Len(t, got, 4)
}

func TestCustomersAgentSeesOnlyOwn(t *testing.T) {
	records := []models.CustomerData{
		lead("a", "Agent", at(1, 10, 0)),
		lead("b", "Other", at(2, 10, 0)),
	}

	for _, creator := range []string{"", AllUsers, "Other"} {
		got := Customers(records, agent, CustomerFilter{CreatedBy: creator}, time.UTC)
		assert.Equal(t, []string{"a"}, ids(got), "creator filter %q", creator)
	}
}

func TestCustomersRangeUsesLocation(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 2024-05-02 20:00 UTC is already 2024-05-03 in IST.
	records := []models.CustomerData{lead("a", "Agent", at(2, 20, 0))}
	day, err := ParseDay("2024-05-03", ist)
	require.NoError(t, err)

	got := Customers(records, admin, CustomerFilter{Range: DateRange{Start: day, End: day}}, ist)
	assert.Len(t, got, 1)
	got = Customers(records, admin, CustomerFilter{Range: DateRange{Start: day, End: day}}, time.UTC)
	assert.Empty(t, got)
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, ClockTime(570), c)
	assert.Equal(t, "09:30", c.String())

	_, err = ParseClock("9.30")
	assert.Error(t, err)
}

func ptr(t time.Time) *time.Time { return &t }

func defaultOptions() AttendanceOptions {
	return AttendanceOptions{
		Mode:        RangeAllTime,
		LateAfter:   DefaultLateAfter,
		EarlyBefore: DefaultEarlyBefore,
		Location:    time.UTC,
	}
}

func TestAttendanceThresholdsAreStrict(t *testing.T) {
	users := []models.User{{ID: "user-2", StaffName: "Agent Smith", EmpID: "E-002", Role: models.RoleAgent, Salary: decimal.NewFromInt(50000)}}
	records := []models.AttendanceRecord{
		{UserID: "user-2", Date: "2024-05-01", CheckInTime: ptr(at(1, 9, 1)), CheckOutTime: ptr(at(1, 16, 59))},
		{UserID: "user-2", Date: "2024-05-02", CheckInTime: ptr(at(2, 9, 0)), CheckOutTime: ptr(at(2, 17, 0))},
	}

	rows := Attendance(users, records, defaultOptions())
	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "Agent Smith", row.StaffName)
	assert.Equal(t, "E-002", row.EmpID)
	assert.True(t, row.Salary.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, 2, row.PresentDays)
	assert.Equal(t, 1, row.LateCheckIns)
	assert.Equal(t, 1, row.EarlyCheckOuts)
}

func TestAttendanceAgentsOnlyInUserOrder(t *testing.T) {
	users := []models.User{
		{ID: "user-3", StaffName: "Zed", Role: models.RoleAgent},
		{ID: "user-1", StaffName: "Boss", Role: models.RoleAdmin},
		{ID: "user-2", StaffName: "Amy", Role: models.RoleAgent},
	}
	records := []models.AttendanceRecord{
		{UserID: "user-1", Date: "2024-05-01", CheckInTime: ptr(at(1, 11, 0))},
		{UserID: "user-2", Date: "2024-05-01"},
		{UserID: "user-2", Date: "2024-05-01"},
		{UserID: "user-2", Date: "2024-05-02", CheckOutTime: ptr(at(2, 18, 0))},
		{UserID: "user-deleted", Date: "2024-05-01"},
	}

	rows := Attendance(users, records, defaultOptions())
	require.Len(t, rows, 2)
	assert.Equal(t, "Zed", rows[0].StaffName)
	assert.Zero(t, rows[0].PresentDays)
	assert.Equal(t, "Amy", rows[1].StaffName)
	assert.Equal(t, 2, rows[1].PresentDays, "distinct dates")
	assert.Zero(t, rows[1].LateCheckIns)
	assert.Zero(t, rows[1].EarlyCheckOuts)
}

func TestAttendanceUsesLocalClock(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	users := []models.User{{ID: "user-2", Role: models.RoleAgent}}
	// 03:40 UTC is 09:10 IST.
	records := []models.AttendanceRecord{{UserID: "user-2", Date: "2024-05-01", CheckInTime: ptr(at(1, 3, 40))}}

	opts := defaultOptions()
	assert.Zero(t, Attendance(users, records, opts)[0].LateCheckIns)

	opts.Location = ist
	assert.Equal(t, 1, Attendance(users, records, opts)[0].LateCheckIns)
}

func TestAttendanceFilteredMode(t *testing.T) {
	users := []models.User{{ID: "user-2", Role: models.RoleAgent}}
	records := []models.AttendanceRecord{
		{UserID: "user-2", Date: "2024-05-01"},
		{UserID: "user-2", Date: "2024-05-02"},
		{UserID: "user-2", Date: "2024-05-03"},
	}

	opts := defaultOptions()
	opts.Range = DateRange{Start: at(2, 0, 0), End: at(2, 0, 0)}
	assert.Equal(t, 3, Attendance(users, records, opts)[0].PresentDays, "all-time ignores the range")

	opts.Mode = RangeFiltered
	assert.Equal(t, 1, Attendance(users, records, opts)[0].PresentDays)
}

func TestParseOptions(t *testing.T) {
	opts, err := ParseOptions(RangeFiltered, "09:15", "18:00", time.UTC)
	require.NoError(t, err)
	assert.True(t, opts.Filtered())
	assert.Equal(t, ClockTime(555), opts.LateAfter)
	assert.Equal(t, ClockTime(1080), opts.EarlyBefore)

	_, err = ParseOptions(RangeAllTime, "late", "17:00", time.UTC)
	assert.Error(t, err)
}

func TestAgents(t *testing.T) {
	users := []models.User{
		{ID: "1", Role: models.RoleAdmin},
		{ID: "2", Role: models.RoleAgent},
	}
	got := Agents(users)
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}
