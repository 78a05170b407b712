package validate

import (
	"context"
	"fmt"
	"strings"
	"time"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	"github.com/bluelane/frontdesk/agent/records"
)

// reportLostItem files a lost-item report. Item, color and location are
// free-form; the date must resolve and cannot lie in the future.
func (e *Engine) reportLostItem(ctx context.Context, req contractx.ValidationRequest, today time.Time) (contractx.ValidationResult, error) {
	normalized := map[string]string{}
	for _, slot := range []string{"item", "item_color", "location"} {
		if v, ok := req.Slots[slot]; ok && strings.TrimSpace(v) != "" {
			normalized[slot] = strings.ToLower(strings.TrimSpace(v))
		}
	}

	if raw, ok := req.Slots["date_lost"]; ok && strings.TrimSpace(raw) != "" {
		day, canonical := NormalizeDate(raw, today)
		if canonical == "" {
			return notUnderstandResult("date_lost", fmt.Sprintf("could not understand the date %q", raw)), nil
		}
		if day.After(today.Truncate(24 * time.Hour)) {
			return notValidResult("date_lost",
				fmt.Sprintf("%s is in the future; when did you actually lose it?", canonical), nil), nil
		}
		normalized["date_lost"] = canonical
	}

	for _, slot := range contractx.RequiredSlots(contractx.IntentReportLostItem) {
		if normalized[slot] == "" {
			return missingResult(slot), nil
		}
	}

	key := userKey(req)
	if key == "" {
		return missingUserResult(), nil
	}

	reports, err := e.records.LostReports(ctx, key)
	if err != nil {
		return contractx.ValidationResult{}, fmt.Errorf("%w: load lost reports: %v", contractx.ErrValidation, err)
	}
	for _, r := range reports {
		if r.Item == normalized["item"] &&
			r.Color == normalized["item_color"] &&
			r.Location == normalized["location"] &&
			r.Date == normalized["date_lost"] {
			return conflictResult(fmt.Sprintf("you already reported a %s %s lost at the %s on %s",
				r.Color, r.Item, r.Location, r.Date)), nil
		}
	}

	summary := fmt.Sprintf("lost %s %s at the %s on %s",
		normalized["item_color"], normalized["item"], normalized["location"], normalized["date_lost"])

	if !req.Commit {
		return completeResult(summary, normalized, true), nil
	}

	report := records.LostReport{
		UserID:   key,
		Item:     normalized["item"],
		Color:    normalized["item_color"],
		Location: normalized["location"],
		Date:     normalized["date_lost"],
	}
	if err := e.records.AddLostReport(ctx, &report); err != nil {
		return contractx.ValidationResult{}, fmt.Errorf("%w: write lost report: %v", contractx.ErrValidation, err)
	}
	return completeResult("report filed: "+summary, normalized, false), nil
}
