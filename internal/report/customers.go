// Package report computes the read-only projections shown on the report
// pages. Nothing here mutates state; callers pass copies from the store.
package report

import (
	"fmt"
	"strings"
	"time"

	"fieldcrm/internal/models"
)

// AllUsers is the creator filter value that disables creator filtering.
const AllUsers = "all"

// ParseDay parses a YYYY-MM-DD form value in loc. An empty value yields the
// zero time and no error.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	day, err := time.ParseInLocation(models.DateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return day, nil
}

// DateRange is an inclusive day range. A zero side is open.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls on or after the start of Start's day and
// before the midnight that ends End's day, both evaluated in loc.
func (r DateRange) Contains(t time.Time, loc *time.Location) bool {
	if !r.Start.IsZero() {
		if t.Before(startOfDay(r.Start, loc)) {
			return false
		}
	}
	if !r.End.IsZero() {
		if !t.Before(nextDay(r.End, loc)) {
			return false
		}
	}
	return true
}

// ContainsDay is Contains for a YYYY-MM-DD calendar date. Unparseable dates
// are excluded from a bounded range.
func (r DateRange) ContainsDay(date string, loc *time.Location) bool {
	if r.Start.IsZero() && r.End.IsZero() {
		return true
	}
	day, err := time.ParseInLocation(models.DateLayout, date, loc)
	if err != nil {
		return false
	}
	return r.Contains(day, loc)
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func nextDay(t time.Time, loc *time.Location) time.Time {
	return startOfDay(t, loc).AddDate(0, 0, 1)
}

type CustomerFilter struct {
	Range DateRange
	// CreatedBy is a login id, or AllUsers / empty for no creator filter.
	// It is ignored for non-Admin viewers.
	CreatedBy string
}

// Customers returns the leads visible to viewer that match filter, in their
// original order. Non-Admin viewers only ever see their own leads.
func Customers(records []models.CustomerData, viewer models.AuthenticatedUser, filter CustomerFilter, loc *time.Location) []models.CustomerData {
	if loc == nil {
		loc = time.Local
	}

	creator := filter.CreatedBy
	if !viewer.IsAdmin() {
		creator = viewer.LoginID
	} else if creator == AllUsers {
		creator = ""
	}

	out := make([]models.CustomerData, 0, len(records))
	for _, rec := range records {
		if !filter.Range.Contains(rec.Date, loc) {
			continue
		}
		if creator != "" && rec.CreatedBy != creator {
			continue
		}
		out = append(out, rec)
	}
	return out
}
