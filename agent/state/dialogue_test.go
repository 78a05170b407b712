package state

import (
	"reflect"
	"testing"

	contractx "github.com/bluelane/frontdesk/agent/contract"
)

func TestUpdateFirstIntent(t *testing.T) {
	t.Parallel()

	var d DialogueState
	report := d.Update(contractx.NLUResult{
		Intent: contractx.IntentBookCourse,
		Slots:  map[string]string{"course_activity": "aquagym"},
	})

	if report.EventType != contractx.EventIntentSwitch {
		t.Fatalf("event type = %s, want %s", report.EventType, contractx.EventIntentSwitch)
	}
	if d.Intent != contractx.IntentBookCourse {
		t.Fatalf("intent = %s, want book_course", d.Intent)
	}
	if !reflect.DeepEqual(report.NewValues, []string{"course_activity"}) {
		t.Fatalf("new values = %v", report.NewValues)
	}
}

func TestUpdateSlotFillSameIntent(t *testing.T) {
	t.Parallel()

	d := DialogueState{
		Intent: contractx.IntentBookCourse,
		Slots:  map[string]string{"course_activity": "aquagym"},
	}
	report := d.Update(contractx.NLUResult{
		Intent: contractx.IntentBookCourse,
		Slots:  map[string]string{"course_activity": "aquagym", "target_age": "adults"},
	})

	if report.EventType != contractx.EventSlotUpdate {
		t.Fatalf("event type = %s, want %s", report.EventType, contractx.EventSlotUpdate)
	}
	if !reflect.DeepEqual(report.NewValues, []string{"target_age"}) {
		t.Fatalf("new values = %v, want only target_age", report.NewValues)
	}
	if d.Slots["course_activity"] != "aquagym" || d.Slots["target_age"] != "adults" {
		t.Fatalf("slots after fill = %v", d.Slots)
	}
}

func TestUpdateSameValuesIsNoChange(t *testing.T) {
	t.Parallel()

	d := DialogueState{
		Intent: contractx.IntentAskPricing,
		Slots:  map[string]string{"facility_type": "gym"},
	}
	report := d.Update(contractx.NLUResult{
		Intent: contractx.IntentAskPricing,
		Slots:  map[string]string{"facility_type": "gym"},
	})

	if report.EventType != contractx.EventNoChange {
		t.Fatalf("event type = %s, want no_change", report.EventType)
	}
	if len(report.NewValues) != 0 {
		t.Fatalf("new values = %v, want none", report.NewValues)
	}
}

func TestUpdateOverwriteReportsChangedSlot(t *testing.T) {
	t.Parallel()

	d := DialogueState{
		Intent: contractx.IntentBookCourse,
		Slots:  map[string]string{"course_activity": "aquagym", "day_preference": "Monday"},
	}
	report := d.Update(contractx.NLUResult{
		Intent: contractx.IntentBookCourse,
		Slots:  map[string]string{"day_preference": "Friday"},
	})

	if !reflect.DeepEqual(report.NewValues, []string{"day_preference"}) {
		t.Fatalf("new values = %v", report.NewValues)
	}
	if d.Slots["day_preference"] != "Friday" {
		t.Fatalf("day_preference = %s, want Friday", d.Slots["day_preference"])
	}
	if d.Slots["course_activity"] != "aquagym" {
		t.Fatalf("course_activity lost on overwrite: %v", d.Slots)
	}
}

func TestUpdateIntentSwitchDiscardsSlots(t *testing.T) {
	t.Parallel()

	d := DialogueState{
		Intent: contractx.IntentBookCourse,
		Slots:  map[string]string{"course_activity": "aquagym", "target_age": "adults"},
	}
	report := d.Update(contractx.NLUResult{
		Intent: contractx.IntentBuyEquipment,
		Slots:  map[string]string{"item": "goggles"},
	})

	if report.EventType != contractx.EventIntentSwitch {
		t.Fatalf("event type = %s, want intent_switch", report.EventType)
	}
	if _, ok := d.Slots["course_activity"]; ok {
		t.Fatalf("old slots survived a classic switch: %v", d.Slots)
	}
	if d.Slots["item"] != "goggles" {
		t.Fatalf("slots = %v", d.Slots)
	}
}

func TestUpdateCorrelatedSwitchCarriesFacility(t *testing.T) {
	t.Parallel()

	d := DialogueState{
		Intent: contractx.IntentAskOpeningHours,
		Slots:  map[string]string{"facility_type": "swimming_pool"},
	}
	report := d.Update(contractx.NLUResult{
		Intent: contractx.IntentAskPricing,
		Slots:  map[string]string{},
	})

	if report.EventType != contractx.EventCorrelatedIntentSwitch {
		t.Fatalf("event type = %s, want correlated_intent_switch", report.EventType)
	}
	if d.Slots["facility_type"] != "swimming_pool" {
		t.Fatalf("facility_type not carried: %v", d.Slots)
	}
	for _, k := range report.NewValues {
		if k == "facility_type" {
			t.Fatal("carried value must not count as newly provided")
		}
	}
}

func TestUpdateCorrelatedSwitchPrefersNewValue(t *testing.T) {
	t.Parallel()

	d := DialogueState{
		Intent: contractx.IntentAskOpeningHours,
		Slots:  map[string]string{"facility_type": "swimming_pool"},
	}
	d.Update(contractx.NLUResult{
		Intent: contractx.IntentAskPricing,
		Slots:  map[string]string{"facility_type": "gym"},
	})

	if d.Slots["facility_type"] != "gym" {
		t.Fatalf("facility_type = %s, want gym", d.Slots["facility_type"])
	}
}

func TestUpdateLostItemToShopCarriesItem(t *testing.T) {
	t.Parallel()

	d := DialogueState{
		Intent: contractx.IntentReportLostItem,
		Slots:  map[string]string{"item": "goggles", "location": "locker room"},
	}
	report := d.Update(contractx.NLUResult{
		Intent: contractx.IntentBuyEquipment,
		Slots:  map[string]string{},
	})

	if report.EventType != contractx.EventCorrelatedIntentSwitch {
		t.Fatalf("event type = %s", report.EventType)
	}
	if d.Slots["item"] != "goggles" {
		t.Fatalf("item not carried: %v", d.Slots)
	}
	if _, ok := d.Slots["location"]; ok {
		t.Fatalf("unrelated slot carried: %v", d.Slots)
	}
}

func TestUpdateOutOfScopeLeavesStateAlone(t *testing.T) {
	t.Parallel()

	d := DialogueState{
		Intent: contractx.IntentBookSpa,
		Slots:  map[string]string{"date": "2026-09-05"},
	}

	report := d.Update(contractx.OutOfScopeResult())
	if report.EventType != contractx.EventNoChange {
		t.Fatalf("event type = %s, want no_change", report.EventType)
	}
	if report.Details != DetailOutOfScope {
		t.Fatalf("details = %q", report.Details)
	}
	if d.Intent != contractx.IntentBookSpa || d.Slots["date"] != "2026-09-05" {
		t.Fatalf("out_of_scope mutated state: %s %v", d.Intent, d.Slots)
	}

	report = d.Update(contractx.OutOfScopeResult())
	if report.Details != DetailConsecutiveOutOfScope {
		t.Fatalf("second consecutive details = %q", report.Details)
	}

	// Any in-scope turn resets the streak.
	d.Update(contractx.NLUResult{Intent: contractx.IntentAskPricing, Slots: map[string]string{"facility_type": "gym"}})
	report = d.Update(contractx.OutOfScopeResult())
	if report.Details != DetailOutOfScope {
		t.Fatalf("streak not reset, details = %q", report.Details)
	}
}

func TestUpdateSpecialIntentsLeaveTaskState(t *testing.T) {
	t.Parallel()

	d := DialogueState{
		Intent: contractx.IntentBookCourse,
		Slots:  map[string]string{"course_activity": "hydrobike"},
	}

	for _, intent := range []contractx.Intent{
		contractx.IntentUserIdentification,
		contractx.IntentConfirmationResponse,
	} {
		report := d.Update(contractx.NLUResult{Intent: intent, Slots: map[string]string{"name": "Mario"}})
		if report.EventType != contractx.EventNoChange {
			t.Fatalf("%s: event type = %s", intent, report.EventType)
		}
		if d.Intent != contractx.IntentBookCourse {
			t.Fatalf("%s mutated tracked intent to %s", intent, d.Intent)
		}
	}
}
