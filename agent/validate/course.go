package validate

import (
	"context"
	"fmt"
	"strings"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	"github.com/bluelane/frontdesk/agent/domain"
	"github.com/bluelane/frontdesk/agent/records"
)

// courseFields validates the four course slots that were supplied,
// returning the normalized values and the first failure, if any.
func courseFields(slots map[string]string) (map[string]string, *contractx.ValidationResult) {
	normalized := map[string]string{}

	activity := ""
	if raw, ok := slots["course_activity"]; ok && strings.TrimSpace(raw) != "" {
		resolved, ok := domain.ResolveKey(raw, domain.Courses())
		if !ok {
			r := notValidResult("course_activity",
				fmt.Sprintf("we do not offer a %q course", raw), domain.Courses())
			return nil, &r
		}
		activity = resolved
		normalized["course_activity"] = resolved
	}

	if raw, ok := slots["target_age"]; ok && strings.TrimSpace(raw) != "" {
		resolved, ok := domain.ResolveKey(raw, domain.TargetAges())
		if !ok {
			r := notValidResult("target_age",
				fmt.Sprintf("%q is not an age group we run courses for", raw), domain.TargetAges())
			return nil, &r
		}
		normalized["target_age"] = resolved
	}

	if raw, ok := slots["level"]; ok && strings.TrimSpace(raw) != "" {
		resolved, ok := domain.ResolveKey(raw, domain.Levels())
		if !ok {
			r := notValidResult("level",
				fmt.Sprintf("%q is not a course level", raw), domain.Levels())
			return nil, &r
		}
		normalized["level"] = resolved
	}

	if raw, ok := slots["day_preference"]; ok && strings.TrimSpace(raw) != "" {
		weekday, ok := normalizeWeekday(raw)
		if !ok {
			r := notUnderstandResult("day_preference",
				fmt.Sprintf("could not understand the day %q", raw))
			return nil, &r
		}
		if activity != "" {
			days, _ := domain.CourseDays(activity)
			if !containsFold(days, weekday) {
				r := notValidResult("day_preference",
					fmt.Sprintf("%s runs only on %s", activity, strings.Join(days, ", ")), days)
				return nil, &r
			}
		}
		normalized["day_preference"] = weekday
	}

	return normalized, nil
}

func (e *Engine) bookCourse(ctx context.Context, req contractx.ValidationRequest) (contractx.ValidationResult, error) {
	normalized, fail := courseFields(req.Slots)
	if fail != nil {
		return *fail, nil
	}

	for _, slot := range contractx.RequiredSlots(contractx.IntentBookCourse) {
		if normalized[slot] != "" {
			continue
		}
		switch slot {
		case "course_activity":
			return missingResult(slot, domain.Courses()...), nil
		case "target_age":
			return missingResult(slot, domain.TargetAges()...), nil
		case "level":
			return missingResult(slot, domain.Levels()...), nil
		case "day_preference":
			days, _ := domain.CourseDays(normalized["course_activity"])
			return missingResult(slot, days...), nil
		}
	}

	activity := normalized["course_activity"]
	if activity == "neonatal" && normalized["target_age"] != "kids" {
		return conflictResult("neonatal courses are only for kids"), nil
	}

	key := userKey(req)
	if key == "" {
		return missingUserResult(), nil
	}

	booked, err := e.records.CourseBookings(ctx, key)
	if err != nil {
		return contractx.ValidationResult{}, fmt.Errorf("%w: load course bookings: %v", contractx.ErrValidation, err)
	}
	for _, b := range booked {
		if b.Activity == activity {
			return conflictResult(fmt.Sprintf("you already have a %s booking on %s", b.Activity, b.Day)), nil
		}
		if b.Day == normalized["day_preference"] {
			return conflictResult(fmt.Sprintf("you already have %s booked on %s", b.Activity, b.Day)), nil
		}
		// Bookings belong to one person; the age category is fixed across
		// them.
		if b.TargetAge != "" && b.TargetAge != normalized["target_age"] {
			return conflictResult(fmt.Sprintf("your %s booking is in the %s category, which does not match %s",
				b.Activity, b.TargetAge, normalized["target_age"])), nil
		}
	}

	summary := fmt.Sprintf("%s course for %s, %s level, on %s",
		activity, normalized["target_age"], normalized["level"], normalized["day_preference"])

	if !req.Commit {
		return completeResult(summary, normalized, true), nil
	}

	booking := records.CourseBooking{
		UserID:    key,
		Activity:  activity,
		TargetAge: normalized["target_age"],
		Level:     normalized["level"],
		Day:       normalized["day_preference"],
	}
	if err := e.records.AddCourseBooking(ctx, &booking); err != nil {
		return contractx.ValidationResult{}, fmt.Errorf("%w: write course booking: %v", contractx.ErrValidation, err)
	}
	return completeResult("booked: "+summary, normalized, false), nil
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}
