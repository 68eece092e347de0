package source

// convert.go holds the strict value parsers shared by validators and
// transformers. Unlike a lenient import, seed data must use exactly one
// spelling per type so that a validated file transforms without surprises.

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// JST is the fixed UTC+9 zone all seed dates and times are authored in.
var JST = time.FixedZone("JST", 9*60*60)

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

// ParseBool accepts the literals "true" and "false" only.
func ParseBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean: %q", s)
}

// Clock is a time of day in minutes since midnight.
type Clock int

// ParseClock parses a zero-padded 24h "HH:MM" value between 00:00 and 23:59.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, fmt.Errorf("invalid time: %q", s)
	}
	h, err1 := strconv.Atoi(s[:2])
	m, err2 := strconv.Atoi(s[3:])
	if err1 != nil || err2 != nil || !isDigits(s[:2]) || !isDigits(s[3:]) {
		return 0, fmt.Errorf("invalid time: %q", s)
	}
	if h > 23 || m > 59 {
		return 0, fmt.Errorf("invalid time: %q", s)
	}
	return Clock(h*60 + m), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// ParseDate parses a "YYYY-MM-DD" calendar date as midnight in JST.
func ParseDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, JST)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return d, nil
}

// FormatDate renders t as "YYYY-MM-DD" in JST.
func FormatDate(t time.Time) string {
	return t.In(JST).Format(DateLayout)
}

// WeekStartOf returns midnight JST of the Monday of the week containing t.
func WeekStartOf(t time.Time) time.Time {
	t = t.In(JST)
	offset := (int(t.Weekday()) + 6) % 7
	y, m, d := t.AddDate(0, 0, -offset).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, JST)
}

// ParsePositiveInt parses a base-10 integer greater than zero.
func ParsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid positive integer: %q", s)
	}
	return n, nil
}

// ParseInt parses a base-10 integer.
func ParseInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid integer: %q", s)
	}
	return n, nil
}

// ParseFloat parses a finite decimal number.
func ParseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid number: %q", s)
	}
	return f, nil
}

// SplitList splits a comma-separated cell, trimming items and dropping empties.
func SplitList(s string) []string {
	out := []string{}
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Coordinates returns the lat/lng columns of rec when both are set and
// numeric.
func Coordinates(rec Record) (lat, lng float64, ok bool) {
	latStr, lngStr := rec.Get("lat"), rec.Get("lng")
	if latStr == "" || lngStr == "" {
		return 0, 0, false
	}
	lat, err := ParseFloat(latStr)
	if err != nil {
		return 0, 0, false
	}
	lng, err = ParseFloat(lngStr)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
