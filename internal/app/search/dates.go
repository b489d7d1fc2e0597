package search

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const isoDate = "2006-01-02"

// NormalizeDate turns what a user typed into an ISO date. It accepts
// YYYY-MM-DD, DD/MM/YYYY and DD/MM. A DD/MM date is the next one that is not
// in the past relative to now.
func NormalizeDate(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(isoDate, s); err == nil {
		return t.Format(isoDate), nil
	}

	parts := strings.Split(s, "/")
	if len(parts) != 2 && len(parts) != 3 {
		return "", fmt.Errorf("unrecognized date %q", s)
	}

	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil {
		return "", fmt.Errorf("unrecognized date %q", s)
	}

	year := now.Year()
	explicitYear := len(parts) == 3
	if explicitYear {
		y, err := strconv.Atoi(strings.TrimSpace(parts[2]))
		if err != nil {
			return "", fmt.Errorf("unrecognized date %q", s)
		}
		if y < 100 {
			y += 2000
		}
		year = y
	}

	t, err := civilDate(year, month, day)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, s)
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !explicitYear && t.Before(today) {
		if t, err = civilDate(year+1, month, day); err != nil {
			return "", fmt.Errorf("%w: %q", err, s)
		}
	}
	return t.Format(isoDate), nil
}

// NormalizeTripDates normalizes departure and return. A return that would fall
// before the departure is moved to the following year.
func NormalizeTripDates(departure, ret string, now time.Time) (string, string, error) {
	dep, err := NormalizeDate(departure, now)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(ret) == "" {
		return dep, "", nil
	}

	depTime, _ := time.Parse(isoDate, dep)
	r, err := NormalizeDate(ret, depTime)
	if err != nil {
		return "", "", err
	}
	return dep, r, nil
}

// civilDate rejects dates time.Date would silently roll over, like 31/02.
func civilDate(year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid date")
	}
	return t, nil
}
