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

const (
	spaFacility  = "spa"
	spaMinPeople = 1
	spaMaxPeople = 6
)

// spaFields validates the supplied spa slots against the spa constraints:
// a future non-Sunday date, a time inside spa hours, a small group size
// and an explicit yes/no on knowing the rules.
func spaFields(slots map[string]string, today time.Time) (map[string]string, *contractx.ValidationResult) {
	normalized := map[string]string{}

	if raw, ok := slots["date"]; ok && strings.TrimSpace(raw) != "" {
		day, canonical := NormalizeDate(raw, today)
		if canonical == "" {
			r := notUnderstandResult("date", fmt.Sprintf("could not understand the date %q", raw))
			return nil, &r
		}
		if day.Before(today.Truncate(24 * time.Hour)) {
			r := notValidResult("date", fmt.Sprintf("%s is in the past", canonical), nil)
			return nil, &r
		}
		if weekdayName(day) == "Sunday" {
			r := conflictResult("the spa is fully booked on Sundays")
			return nil, &r
		}
		normalized["date"] = canonical
	}

	if raw, ok := slots["time"]; ok && strings.TrimSpace(raw) != "" {
		hhmm, ok := NormalizeTime(raw)
		if !ok {
			r := notUnderstandResult("time", fmt.Sprintf("could not understand the time %q", raw))
			return nil, &r
		}
		hours, _ := domain.HoursFor(spaFacility, "Monday")
		if !clockBetween(hhmm, hours.Open, hours.Close) {
			r := notValidResult("time",
				fmt.Sprintf("the spa is open from %s to %s", hours.Open, hours.Close), nil)
			return nil, &r
		}
		normalized["time"] = hhmm
	}

	if raw, ok := slots["people_count"]; ok && strings.TrimSpace(raw) != "" {
		n, ok := parseCount(raw)
		if !ok {
			r := notUnderstandResult("people_count", fmt.Sprintf("could not understand the group size %q", raw))
			return nil, &r
		}
		if n < spaMinPeople || n > spaMaxPeople {
			r := notValidResult("people_count",
				fmt.Sprintf("spa entries are for %d to %d people", spaMinPeople, spaMaxPeople), nil)
			return nil, &r
		}
		normalized["people_count"] = strconv.Itoa(n)
	}

	if raw, ok := slots["know_rules"]; ok && strings.TrimSpace(raw) != "" {
		answer, ok := parseYesNo(raw)
		if !ok {
			r := notUnderstandResult("know_rules", "please answer yes or no about knowing the spa rules")
			return nil, &r
		}
		normalized["know_rules"] = answer
	}

	return normalized, nil
}

func (e *Engine) bookSpa(ctx context.Context, req contractx.ValidationRequest, today time.Time) (contractx.ValidationResult, error) {
	normalized, fail := spaFields(req.Slots, today)
	if fail != nil {
		return *fail, nil
	}

	for _, slot := range contractx.RequiredSlots(contractx.IntentBookSpa) {
		if normalized[slot] == "" {
			return missingResult(slot), nil
		}
	}

	key := userKey(req)
	if key == "" {
		return missingUserResult(), nil
	}

	booked, err := e.records.SpaBookings(ctx, key)
	if err != nil {
		return contractx.ValidationResult{}, fmt.Errorf("%w: load spa bookings: %v", contractx.ErrValidation, err)
	}
	for _, b := range booked {
		if b.Date == normalized["date"] {
			return conflictResult(fmt.Sprintf("you already have a spa booking on %s at %s", b.Date, b.Time)), nil
		}
	}

	summary := fmt.Sprintf("spa entry on %s at %s for %s",
		normalized["date"], normalized["time"], normalized["people_count"])
	if normalized["know_rules"] == "no" {
		rule, _ := domain.RuleFor("towel")
		summary = fmt.Sprintf("%s (note: %s)", summary, rule)
	}

	if !req.Commit {
		return completeResult(summary, normalized, true), nil
	}

	people, _ := strconv.Atoi(normalized["people_count"])
	booking := records.SpaBooking{
		UserID: key,
		Date:   normalized["date"],
		Time:   normalized["time"],
		People: people,
	}
	if err := e.records.AddSpaBooking(ctx, &booking); err != nil {
		return contractx.ValidationResult{}, fmt.Errorf("%w: write spa booking: %v", contractx.ErrValidation, err)
	}
	return completeResult("booked: "+summary, normalized, false), nil
}
