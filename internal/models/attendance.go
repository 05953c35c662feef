package models

import "time"

// DateLayout is the calendar-day format used for attendance dates and form
// date inputs.
const DateLayout = "2006-01-02"

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// AttendanceRecord is one user's attendance for one calendar day.
type AttendanceRecord struct {
	ID               string     `json:"id"`
	UserID           string     `json:"userId"`
	EmpID            string     `json:"empId"`
	StaffName        string     `json:"staffName"`
	Date             string     `json:"date"`
	CheckInTime      *time.Time `json:"checkInTime,omitempty"`
	CheckInLocation  *GeoPoint  `json:"checkInLocation,omitempty"`
	CheckOutTime     *time.Time `json:"checkOutTime,omitempty"`
	CheckOutLocation *GeoPoint  `json:"checkOutLocation,omitempty"`
}

// AttendanceEvent is a single check-in or check-out. Apply writes only the
// fields the event owns, so applying events to the same record merges them.
type AttendanceEvent interface {
	Apply(rec *AttendanceRecord)
	Kind() string
}

type CheckIn struct {
	At       time.Time
	Location GeoPoint
}

func (e CheckIn) Apply(rec *AttendanceRecord) {
	at, loc := e.At, e.Location
	rec.CheckInTime = &at
	rec.CheckInLocation = &loc
}

func (CheckIn) Kind() string { return "check_in" }

type CheckOut struct {
	At       time.Time
	Location GeoPoint
}

func (e CheckOut) Apply(rec *AttendanceRecord) {
	at, loc := e.At, e.Location
	rec.CheckOutTime = &at
	rec.CheckOutLocation = &loc
}

func (CheckOut) Kind() string { return "check_out" }
