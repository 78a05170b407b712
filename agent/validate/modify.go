package validate

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	"github.com/bluelane/frontdesk/agent/domain"
	"github.com/bluelane/frontdesk/agent/records"
)

// confirmOldResult echoes the single matched booking back for the user's
// confirmation before any change is applied.
func confirmOldResult(info string, matching map[string]string) contractx.ValidationResult {
	return contractx.ValidationResult{
		Status:   contractx.StatusSuccess,
		Keyword:  contractx.KeywordConfirmOld,
		Info:     info,
		Matching: matching,
	}
}

// bookedListResult reports an ambiguous match, one descriptor per
// candidate booking.
func bookedListResult(info string, options []string) contractx.ValidationResult {
	return contractx.ValidationResult{
		Status:  contractx.StatusSuccess,
		Keyword: contractx.KeywordBookedList,
		Info:    info,
		Options: options,
	}
}

// missingChangeResult asks what the user actually wants changed once the
// target booking is pinned down.
func missingChangeResult() contractx.ValidationResult {
	return contractx.ValidationResult{
		Status:  contractx.StatusSuccess,
		Keyword: contractx.KeywordMissing,
		Slot:    "new_values",
		Info:    "which value should change, and to what?",
	}
}

var courseModifyFields = []string{"course_activity", "target_age", "level", "day_preference"}

func courseDescriptor(b records.CourseBooking) string {
	return fmt.Sprintf("%s for %s, %s level, on %s", b.Activity, b.TargetAge, b.Level, b.Day)
}

func courseMatching(b records.CourseBooking) map[string]string {
	return map[string]string{
		"course_activity": b.Activity,
		"target_age":      b.TargetAge,
		"level":           b.Level,
		"day_preference":  b.Day,
	}
}

func (e *Engine) modifyCourse(ctx context.Context, req contractx.ValidationRequest) (contractx.ValidationResult, error) {
	key := userKey(req)
	if key == "" {
		return missingUserResult(), nil
	}

	oldVals, fail := courseFields(suffixSlots(req.Slots, courseModifyFields, "_old"))
	if fail != nil {
		resuffix(fail, "_old")
		return *fail, nil
	}
	newVals, fail := courseFields(suffixSlots(req.Slots, courseModifyFields, "_new"))
	if fail != nil {
		resuffix(fail, "_new")
		return *fail, nil
	}

	bookings, err := e.records.CourseBookings(ctx, key)
	if err != nil {
		return contractx.ValidationResult{}, fmt.Errorf("%w: load course bookings: %v", contractx.ErrValidation, err)
	}
	if len(bookings) == 0 {
		return notFoundResult("you have no course bookings to change"), nil
	}

	var matches []records.CourseBooking
	for _, b := range bookings {
		if matchesCourse(b, oldVals) {
			matches = append(matches, b)
		}
	}
	switch {
	case len(matches) == 0:
		return notFoundResult("none of your course bookings matches that description"), nil
	case len(matches) > 1:
		options := make([]string, 0, len(matches))
		for _, b := range matches {
			options = append(options, courseDescriptor(b))
		}
		return bookedListResult("you have more than one booking like that; which one?", options), nil
	}

	match := matches[0]
	if len(oldVals) < len(courseModifyFields) {
		return confirmOldResult(
			fmt.Sprintf("found your booking: %s", courseDescriptor(match)),
			courseMatching(match)), nil
	}

	if len(newVals) == 0 {
		return missingChangeResult(), nil
	}

	// A new day must fit the (possibly new) activity's schedule.
	activity := match.Activity
	if v := newVals["course_activity"]; v != "" {
		activity = v
	}
	if day := newVals["day_preference"]; day != "" {
		days, _ := domain.CourseDays(activity)
		if !containsFold(days, day) {
			return notValidResult("day_preference_new",
				fmt.Sprintf("%s runs only on %s", activity, strings.Join(days, ", ")), days), nil
		}
	}

	updated := match
	if v := newVals["course_activity"]; v != "" {
		updated.Activity = v
	}
	if v := newVals["target_age"]; v != "" {
		updated.TargetAge = v
	}
	if v := newVals["level"]; v != "" {
		updated.Level = v
	}
	if v := newVals["day_preference"]; v != "" {
		updated.Day = v
	}

	for _, b := range bookings {
		if b.ID != match.ID && b.Day == updated.Day {
			return conflictResult(fmt.Sprintf("you already have %s booked on %s", b.Activity, b.Day)), nil
		}
	}

	summary := fmt.Sprintf("change %s to %s", courseDescriptor(match), courseDescriptor(updated))
	if !req.Commit {
		return completeResult(summary, newVals, true), nil
	}
	if err := e.records.UpdateCourseBooking(ctx, &updated); err != nil {
		return contractx.ValidationResult{}, fmt.Errorf("%w: update course booking: %v", contractx.ErrValidation, err)
	}
	return completeResult("updated: "+courseDescriptor(updated), newVals, false), nil
}

func matchesCourse(b records.CourseBooking, oldVals map[string]string) bool {
	if v := oldVals["course_activity"]; v != "" && !strings.EqualFold(v, b.Activity) {
		return false
	}
	if v := oldVals["target_age"]; v != "" && !strings.EqualFold(v, b.TargetAge) {
		return false
	}
	if v := oldVals["level"]; v != "" && !strings.EqualFold(v, b.Level) {
		return false
	}
	if v := oldVals["day_preference"]; v != "" && !strings.EqualFold(v, b.Day) {
		return false
	}
	return true
}

var spaModifyFields = []string{"date", "time", "people_count"}

func spaDescriptor(b records.SpaBooking) string {
	return fmt.Sprintf("spa on %s at %s for %d", b.Date, b.Time, b.People)
}

func spaMatching(b records.SpaBooking) map[string]string {
	return map[string]string{
		"date":         b.Date,
		"time":         b.Time,
		"people_count": strconv.Itoa(b.People),
	}
}

func (e *Engine) modifySpa(ctx context.Context, req contractx.ValidationRequest, today time.Time) (contractx.ValidationResult, error) {
	key := userKey(req)
	if key == "" {
		return missingUserResult(), nil
	}

	// Old values only need to parse; the booking they describe may lie in
	// the past relative to the turn.
	oldVals, fail := spaOldFields(req.Slots, today)
	if fail != nil {
		return *fail, nil
	}
	newVals, fail := spaFields(suffixSlots(req.Slots, spaModifyFields, "_new"), today)
	if fail != nil {
		resuffix(fail, "_new")
		return *fail, nil
	}

	bookings, err := e.records.SpaBookings(ctx, key)
	if err != nil {
		return contractx.ValidationResult{}, fmt.Errorf("%w: load spa bookings: %v", contractx.ErrValidation, err)
	}
	if len(bookings) == 0 {
		return notFoundResult("you have no spa bookings to change"), nil
	}

	var matches []records.SpaBooking
	for _, b := range bookings {
		if matchesSpa(b, oldVals) {
			matches = append(matches, b)
		}
	}
	switch {
	case len(matches) == 0:
		return notFoundResult("none of your spa bookings matches that description"), nil
	case len(matches) > 1:
		options := make([]string, 0, len(matches))
		for _, b := range matches {
			options = append(options, spaDescriptor(b))
		}
		return bookedListResult("you have more than one spa booking like that; which one?", options), nil
	}

	match := matches[0]
	if len(oldVals) < len(spaModifyFields) {
		return confirmOldResult(
			fmt.Sprintf("found your booking: %s", spaDescriptor(match)),
			spaMatching(match)), nil
	}

	if len(newVals) == 0 {
		return missingChangeResult(), nil
	}

	updated := match
	if v := newVals["date"]; v != "" {
		updated.Date = v
	}
	if v := newVals["time"]; v != "" {
		updated.Time = v
	}
	if v := newVals["people_count"]; v != "" {
		updated.People, _ = strconv.Atoi(v)
	}

	for _, b := range bookings {
		if b.ID != match.ID && b.Date == updated.Date {
			return conflictResult(fmt.Sprintf("you already have a spa booking on %s at %s", b.Date, b.Time)), nil
		}
	}

	summary := fmt.Sprintf("change %s to %s", spaDescriptor(match), spaDescriptor(updated))
	if !req.Commit {
		return completeResult(summary, newVals, true), nil
	}
	if err := e.records.UpdateSpaBooking(ctx, &updated); err != nil {
		return contractx.ValidationResult{}, fmt.Errorf("%w: update spa booking: %v", contractx.ErrValidation, err)
	}
	return completeResult("updated: "+spaDescriptor(updated), newVals, false), nil
}

// spaOldFields normalizes the _old spa slots without the future-date and
// Sunday constraints that apply to new bookings.
func spaOldFields(slots map[string]string, today time.Time) (map[string]string, *contractx.ValidationResult) {
	normalized := map[string]string{}

	if raw, ok := slots["date_old"]; ok && strings.TrimSpace(raw) != "" {
		_, canonical := NormalizeDate(raw, today)
		if canonical == "" {
			r := notUnderstandResult("date_old", fmt.Sprintf("could not understand the date %q", raw))
			return nil, &r
		}
		normalized["date"] = canonical
	}
	if raw, ok := slots["time_old"]; ok && strings.TrimSpace(raw) != "" {
		hhmm, ok := NormalizeTime(raw)
		if !ok {
			r := notUnderstandResult("time_old", fmt.Sprintf("could not understand the time %q", raw))
			return nil, &r
		}
		normalized["time"] = hhmm
	}
	if raw, ok := slots["people_count_old"]; ok && strings.TrimSpace(raw) != "" {
		n, ok := parseCount(raw)
		if !ok {
			r := notUnderstandResult("people_count_old", fmt.Sprintf("could not understand the group size %q", raw))
			return nil, &r
		}
		normalized["people_count"] = strconv.Itoa(n)
	}
	return normalized, nil
}

func matchesSpa(b records.SpaBooking, oldVals map[string]string) bool {
	if v := oldVals["date"]; v != "" && v != b.Date {
		return false
	}
	if v := oldVals["time"]; v != "" && v != b.Time {
		return false
	}
	if v := oldVals["people_count"]; v != "" && v != strconv.Itoa(b.People) {
		return false
	}
	return true
}

// resuffix restores the _old/_new suffix on a failure raised by a
// plain-field validator. Conflicts carry no slot name and stay as-is.
func resuffix(fail *contractx.ValidationResult, suffix string) {
	if fail.Slot != "" {
		fail.Slot += suffix
	}
}

// suffixSlots projects "<field><suffix>" slots down to their base field
// names so the plain-field validators can run on them.
func suffixSlots(slots map[string]string, fields []string, suffix string) map[string]string {
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		if v, ok := slots[f+suffix]; ok && strings.TrimSpace(v) != "" {
			out[f] = v
		}
	}
	return out
}
