package validate

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	"github.com/bluelane/frontdesk/agent/domain"
)

// openingHours answers ask_opening_hours. The date and time slots are
// optional refinements: with a date the answer narrows to that weekday,
// with both it becomes an open/closed verdict.
func (e *Engine) openingHours(req contractx.ValidationRequest, today time.Time) contractx.ValidationResult {
	raw, ok := req.Slots["facility_type"]
	if !ok || strings.TrimSpace(raw) == "" {
		return missingResult("facility_type", domain.Facilities()...)
	}
	facility, ok := domain.ResolveKey(raw, domain.Facilities())
	if !ok {
		return notValidResult("facility_type",
			fmt.Sprintf("%q is not a facility we have", raw), domain.Facilities())
	}

	normalized := map[string]string{"facility_type": facility}

	if rawDate, ok := req.Slots["date"]; ok && strings.TrimSpace(rawDate) != "" {
		day, canonical := NormalizeDate(rawDate, today)
		if canonical == "" {
			return notUnderstandResult("date", fmt.Sprintf("could not understand the date %q", rawDate))
		}
		normalized["date"] = canonical
		weekday := weekdayName(day)

		hours, open := domain.HoursFor(facility, weekday)
		if !open {
			return completeResult(
				fmt.Sprintf("%s is closed on %s", displayName(facility), weekday),
				normalized, false)
		}

		if rawTime, ok := req.Slots["time"]; ok && strings.TrimSpace(rawTime) != "" {
			hhmm, ok := NormalizeTime(rawTime)
			if !ok {
				return notUnderstandResult("time", fmt.Sprintf("could not understand the time %q", rawTime))
			}
			normalized["time"] = hhmm
			verdict := "closed"
			if clockBetween(hhmm, hours.Open, hours.Close) {
				verdict = "open"
			}
			return completeResult(
				fmt.Sprintf("%s is %s at %s on %s (hours %s-%s)",
					displayName(facility), verdict, hhmm, weekday, hours.Open, hours.Close),
				normalized, false)
		}

		return completeResult(
			fmt.Sprintf("%s is open on %s from %s to %s",
				displayName(facility), weekday, hours.Open, hours.Close),
			normalized, false)
	}

	ranges, _ := domain.OpeningHours(facility)
	parts := make([]string, 0, len(ranges))
	for _, r := range ranges {
		parts = append(parts, fmt.Sprintf("%s %s-%s", r.Days, r.Open, r.Close))
	}
	return completeResult(
		fmt.Sprintf("%s opening hours: %s", displayName(facility), strings.Join(parts, ", ")),
		normalized, false)
}

// pricing answers ask_pricing. The user category defaults to the full
// adult rate when unspecified.
func (e *Engine) pricing(req contractx.ValidationRequest) contractx.ValidationResult {
	raw, ok := req.Slots["facility_type"]
	if !ok || strings.TrimSpace(raw) == "" {
		return missingResult("facility_type", domain.PricedFacilities()...)
	}
	facility, ok := domain.ResolveKey(raw, domain.PricedFacilities())
	if !ok {
		return notValidResult("facility_type",
			fmt.Sprintf("%q has no price list", raw), domain.PricedFacilities())
	}

	subs := domain.SubscriptionTypes(facility)
	rawSub, ok := req.Slots["subscription_type"]
	if !ok || strings.TrimSpace(rawSub) == "" {
		return missingResult("subscription_type", subs...)
	}
	sub, ok := domain.ResolveKey(rawSub, subs)
	if !ok {
		return notValidResult("subscription_type",
			fmt.Sprintf("%q is not offered for %s", rawSub, displayName(facility)), subs)
	}

	category := "adult"
	if rawCat, ok := req.Slots["user_category"]; ok && strings.TrimSpace(rawCat) != "" {
		category, ok = domain.ResolveKey(rawCat, domain.UserCategories())
		if !ok {
			return notValidResult("user_category",
				fmt.Sprintf("%q is not a discount category", rawCat), domain.UserCategories())
		}
	}

	prices, _ := domain.PriceList(facility)
	multiplier, _ := domain.Discount(category)
	price := prices[sub] * multiplier

	normalized := map[string]string{
		"facility_type":     facility,
		"subscription_type": sub,
		"user_category":     category,
	}
	info := fmt.Sprintf("%s %s for %s costs €%.2f",
		displayName(facility), displayName(sub), category, price)
	if category != "adult" {
		info = fmt.Sprintf("%s (%d%% of the full rate)", info, int(multiplier*100))
	}
	return completeResult(info, normalized, false)
}

// rules answers ask_rules. Unknown topics fall back to the full rule
// summary rather than an error.
func (e *Engine) rules(req contractx.ValidationRequest) contractx.ValidationResult {
	topic, ok := req.Slots["topic"]
	if !ok || strings.TrimSpace(topic) == "" {
		return missingResult("topic")
	}
	if rule, ok := domain.RuleFor(topic); ok {
		return completeResult(rule, map[string]string{"topic": strings.TrimSpace(topic)}, false)
	}
	return completeResult(
		fmt.Sprintf("no specific rule about %q; the house rules cover: swimming cap, medical certificate, slippers, towel, padlock", strings.TrimSpace(topic)),
		map[string]string{"topic": strings.TrimSpace(topic)}, false)
}

// displayName renders a table key for humans.
func displayName(key string) string {
	return strings.ReplaceAll(key, "_", " ")
}
