package state

import (
	"fmt"
	"sort"

	contractx "github.com/bluelane/frontdesk/agent/contract"
)

// Turn report detail markers the decision engine matches on.
const (
	DetailOutOfScope            = "out_of_scope intent"
	DetailConsecutiveOutOfScope = "consecutive out_of_scope intents"
	DetailUserIdentification    = "user identification turn"
	DetailConfirmationResponse  = "confirmation response turn"
)

// DialogueState is the tracker-owned, conversation-scoped memory of the
// current task intent and its slots. Only Update mutates it.
type DialogueState struct {
	Intent contractx.Intent  `json:"intent,omitempty"`
	Slots  map[string]string `json:"slots,omitempty"`

	// OutOfScopeStreak counts consecutive out_of_scope turns so a single
	// occurrence stays distinguishable from repeated confusion downstream.
	OutOfScopeStreak int `json:"out_of_scope_streak,omitempty"`
}

// Update reconciles one understanding result against the dialogue state
// and reports what changed. Special intents (out_of_scope,
// user_identification, confirmation_response) leave task state untouched;
// the decision engine interprets them against its own session memory.
func (d *DialogueState) Update(nlu contractx.NLUResult) contractx.TurnReport {
	report := contractx.TurnReport{EventType: contractx.EventNoChange, NewValues: []string{}}

	switch nlu.Intent {
	case contractx.IntentOutOfScope:
		d.OutOfScopeStreak++
		if d.OutOfScopeStreak >= 2 {
			report.Details = DetailConsecutiveOutOfScope
		} else {
			report.Details = DetailOutOfScope
		}
		return report
	case contractx.IntentUserIdentification:
		d.OutOfScopeStreak = 0
		report.Details = DetailUserIdentification
		return report
	case contractx.IntentConfirmationResponse:
		d.OutOfScopeStreak = 0
		report.Details = DetailConfirmationResponse
		return report
	}
	d.OutOfScopeStreak = 0

	if nlu.Intent != d.Intent {
		if d.Intent.Informational() && nlu.Intent.Informational() {
			d.correlatedSwitch(nlu, "facility_type", &report)
			return report
		}
		if d.Intent == contractx.IntentReportLostItem && nlu.Intent == contractx.IntentBuyEquipment {
			d.correlatedSwitch(nlu, "item", &report)
			return report
		}

		old := d.Slots
		d.Intent = nlu.Intent
		d.Slots = copySlots(nlu.Slots)
		report.EventType = contractx.EventIntentSwitch
		report.Details = fmt.Sprintf("switched to %s", nlu.Intent)
		report.NewValues = changedKeys(nlu.Intent, nlu.Slots, old)
		return report
	}

	// Same intent: fill or overwrite changed slots only.
	if d.Slots == nil {
		d.Slots = map[string]string{}
	}
	report.NewValues = changedKeys(nlu.Intent, nlu.Slots, d.Slots)
	for _, key := range report.NewValues {
		d.Slots[key] = nlu.Slots[key]
	}
	if len(report.NewValues) > 0 {
		report.EventType = contractx.EventSlotUpdate
		report.Details = "updated slots"
	} else {
		report.Details = "no new slot values provided"
	}
	return report
}

// correlatedSwitch replaces intent and slots but carries over the shared
// slot when the new turn did not supply it. The carried value never
// counts as newly provided.
func (d *DialogueState) correlatedSwitch(nlu contractx.NLUResult, carry string, report *contractx.TurnReport) {
	old := d.Slots
	d.Intent = nlu.Intent
	d.Slots = copySlots(nlu.Slots)
	report.EventType = contractx.EventCorrelatedIntentSwitch
	report.Details = fmt.Sprintf("changed intent to %s keeping %s context", nlu.Intent, carry)
	report.NewValues = changedKeys(nlu.Intent, nlu.Slots, old)

	if d.Slots[carry] == "" && old[carry] != "" {
		d.Slots[carry] = old[carry]
	}
}

// changedKeys lists the supplied slot names whose value differs from the
// previous map, in schema order, then any off-schema extras sorted.
func changedKeys(intent contractx.Intent, supplied, previous map[string]string) []string {
	changed := []string{}
	seen := map[string]bool{}
	for _, key := range contractx.SlotOrder(intent) {
		seen[key] = true
		v, ok := supplied[key]
		if ok && v != "" && v != previous[key] {
			changed = append(changed, key)
		}
	}
	extras := []string{}
	for key, v := range supplied {
		if !seen[key] && v != "" && v != previous[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	return append(changed, extras...)
}

func copySlots(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		if v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
