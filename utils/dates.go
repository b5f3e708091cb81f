// utils/dates.go
package utils

import (
	"strings"
	"time"

	"gestion-peluqueria-backend/apperr"
	"gestion-peluqueria-backend/billing"
)

// Location is the business timezone; days start and end in Santiago
var Location = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation("America/Santiago")
	if err != nil {
		return time.UTC
	}
	return loc
}

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return BeginningOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func BeginningOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}

// BeginningOfWeek is the Monday of t's week
func BeginningOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return BeginningOfDay(t).AddDate(0, 0, -offset)
}

// DayRange covers the whole calendar day of t
func DayRange(t time.Time) billing.DateRange {
	from, to := BeginningOfDay(t), EndOfDay(t)
	return billing.DateRange{From: &from, To: &to}
}

// ParseDay reads a YYYY-MM-DD query value in Location
func ParseDay(s string) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), Location)
	if err != nil {
		return time.Time{}, apperr.Validationf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// ParseRange builds an inclusive range from optional from/to days. to covers its whole day.
func ParseRange(from, to string) (*billing.DateRange, error) {
	dr := &billing.DateRange{}
	if strings.TrimSpace(from) != "" {
		d, err := ParseDay(from)
		if err != nil {
			return nil, err
		}
		dr.From = &d
	}
	if strings.TrimSpace(to) != "" {
		d, err := ParseDay(to)
		if err != nil {
			return nil, err
		}
		end := EndOfDay(d)
		dr.To = &end
	}
	if dr.From != nil && dr.To != nil && dr.To.Before(*dr.From) {
		return nil, apperr.Validationf("end date is before start date")
	}
	return dr, nil
}
