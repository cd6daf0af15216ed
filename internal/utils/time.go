package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/hogar/internal/constants"
	"github.com/julianstephens/hogar/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// TodayInTimezone returns today's calendar date in the specified timezone.
// "Today" follows the user's configured zone, not the host's.
func TodayInTimezone(timezone string) (models.Date, error) {
	now, err := NowInTimezone(timezone)
	if err != nil {
		return models.Date{}, err
	}
	return models.DateOf(now), nil
}

// ParseTime parses a time string in the standard format (HH:MM).
func ParseTime(timeStr string) (time.Time, error) {
	return time.Parse(constants.TimeFormat, strings.TrimSpace(timeStr))
}

// NormalizeClock zero-pads a parseable HH:MM string ("9:05" -> "09:05").
// Unparseable input is returned trimmed but otherwise unchanged.
func NormalizeClock(timeStr string) string {
	t, err := ParseTime(timeStr)
	if err != nil {
		return strings.TrimSpace(timeStr)
	}
	return t.Format(constants.TimeFormat)
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := ParseTime(timeStr)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}
