package validate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bluelane/frontdesk/agent/domain"
)

const dateLayout = "2006-01-02"

// NormalizeDate resolves a free-form date expression relative to today.
// It returns the resolved day and its canonical YYYY-MM-DD form; an
// unparseable expression returns the zero time and an empty string.
func NormalizeDate(raw string, today time.Time) (time.Time, string) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return time.Time{}, ""
	}
	today = today.UTC().Truncate(24 * time.Hour)

	switch v {
	case "today":
		return today, today.Format(dateLayout)
	case "tomorrow":
		d := today.AddDate(0, 0, 1)
		return d, d.Format(dateLayout)
	case "yesterday":
		d := today.AddDate(0, 0, -1)
		return d, d.Format(dateLayout)
	}

	next := strings.HasPrefix(v, "next ")
	v = strings.TrimPrefix(v, "next ")
	v = strings.TrimPrefix(v, "this ")

	if wd, ok := normalizeWeekday(v); ok {
		d := nextWeekday(today, wd)
		if next {
			d = d.AddDate(0, 0, 7)
		}
		return d, d.Format(dateLayout)
	}

	for _, layout := range []string{dateLayout, "02/01/2006", "2/1/2006"} {
		if d, err := time.Parse(layout, v); err == nil {
			return d, d.Format(dateLayout)
		}
	}
	// Day/month without a year resolves within the current year.
	for _, layout := range []string{"02/01", "2/1"} {
		if d, err := time.Parse(layout, v); err == nil {
			d = time.Date(today.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
			return d, d.Format(dateLayout)
		}
	}
	return time.Time{}, ""
}

// nextWeekday returns the next occurrence of the weekday strictly after
// today; a bare weekday never means today itself.
func nextWeekday(today time.Time, weekday string) time.Time {
	target := weekdayIndex(weekday)
	current := (int(today.Weekday()) + 6) % 7 // Monday = 0
	delta := (target - current + 7) % 7
	if delta == 0 {
		delta = 7
	}
	return today.AddDate(0, 0, delta)
}

func weekdayIndex(weekday string) int {
	for i, d := range domain.Weekdays {
		if strings.EqualFold(d, weekday) {
			return i
		}
	}
	return 0
}

// normalizeWeekday maps "mon"/"monday" style tokens onto the canonical
// weekday names.
func normalizeWeekday(raw string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if len(v) < 3 {
		return "", false
	}
	for _, d := range domain.Weekdays {
		if strings.HasPrefix(strings.ToLower(d), v) || v == strings.ToLower(d) {
			return d, true
		}
	}
	return "", false
}

// weekdayName returns the canonical weekday name for a date.
func weekdayName(d time.Time) string {
	return d.Weekday().String()
}

// NormalizeTime resolves a free-form time expression into HH:MM. Day-part
// words map onto fixed representative times; anything else must already
// be a valid clock time.
func NormalizeTime(raw string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch v {
	case "":
		return "", false
	case "morning":
		return "10:00", true
	case "afternoon":
		return "14:30", true
	case "evening":
		return "19:30", true
	}

	v = strings.TrimSuffix(v, " o'clock")
	if t, err := time.Parse("15:04", v); err == nil {
		return t.Format("15:04"), true
	}
	if t, err := time.Parse("3:04pm", strings.ReplaceAll(v, " ", "")); err == nil {
		return t.Format("15:04"), true
	}
	if t, err := time.Parse("3pm", strings.ReplaceAll(v, " ", "")); err == nil {
		return t.Format("15:04"), true
	}
	if n, err := strconv.Atoi(v); err == nil && n >= 0 && n <= 23 {
		return fmt.Sprintf("%02d:00", n), true
	}
	return raw, false
}

// clockBetween reports whether hhmm falls inside [open, close).
func clockBetween(hhmm, open, close string) bool {
	return hhmm >= open && hhmm < close
}

var numberWords = map[string]int{
	"one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10,
}

// parseCount reads a small cardinal, digits or words.
func parseCount(raw string) (int, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.TrimSuffix(v, " people")
	v = strings.TrimSuffix(v, " persons")
	v = strings.TrimSuffix(v, " person")
	if n, err := strconv.Atoi(v); err == nil {
		return n, true
	}
	if n, ok := numberWords[v]; ok {
		return n, true
	}
	return 0, false
}

// parseYesNo canonicalizes an affirmation slot value.
func parseYesNo(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "yeah", "yep", "sure", "true", "i do", "of course":
		return "yes", true
	case "no", "n", "nope", "false", "not yet", "i don't", "i do not":
		return "no", true
	}
	return "", false
}
