package dialogue

import (
	"context"
	"fmt"
	"testing"
	"time"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	"github.com/bluelane/frontdesk/agent/records"
	statex "github.com/bluelane/frontdesk/agent/state"
	"github.com/bluelane/frontdesk/agent/validate"
)

// Tuesday.
var testNow = time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)

// scriptedUnderstander returns pre-decided NLU results turn by turn,
// standing in for the language model.
type scriptedUnderstander struct {
	results []contractx.NLUResult
	idx     int
}

func (s *scriptedUnderstander) Understand(_ context.Context, _ string) (contractx.NLUResult, error) {
	if s.idx >= len(s.results) {
		return contractx.OutOfScopeResult(), nil
	}
	res := s.results[s.idx]
	s.idx++
	return res, nil
}

// echoGenerator phrases actions mechanically so tests can assert on the
// decided action rather than model prose.
type echoGenerator struct{}

func (echoGenerator) Generate(_ context.Context, action contractx.UnifiedAction, _ string) (string, error) {
	return fmt.Sprintf("[%s] %s", action.Action, action.Info), nil
}

func newTestService(t *testing.T, turns []contractx.NLUResult) (*Service, *records.MemoryStore) {
	t.Helper()

	bookings := records.NewMemoryStore()
	validator, err := validate.New(bookings, validate.WithClock(func() time.Time { return testNow }))
	if err != nil {
		t.Fatalf("validate.New: %v", err)
	}

	svc, err := New(
		statex.NewMemoryStore(),
		&scriptedUnderstander{results: turns},
		echoGenerator{},
		validator,
		WithClock(func() time.Time { return testNow }),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return svc, bookings
}

func turn(t *testing.T, svc *Service, sessionID string) TurnResult {
	t.Helper()
	res, err := svc.HandleTurn(context.Background(), sessionID, "user says something")
	if err != nil {
		t.Fatalf("HandleTurn: %v", err)
	}
	return res
}

func TestBookCourseEndToEnd(t *testing.T) {
	t.Parallel()

	svc, bookings := newTestService(t, []contractx.NLUResult{
		{Intent: contractx.IntentBookCourse, Slots: map[string]string{"course_activity": "aquagym"}},
		{Intent: contractx.IntentBookCourse, Slots: map[string]string{
			"target_age": "adults", "level": "beginner", "day_preference": "Monday",
		}},
		{Intent: contractx.IntentUserIdentification, Slots: map[string]string{"name": "Mario", "surname": "Rossi"}},
		{Intent: contractx.IntentConfirmationResponse, Slots: map[string]string{"response": "yes"}},
	})

	res := turn(t, svc, "e2e-1")
	if res.Action.Action != contractx.ActionRequestSlot || res.Action.TargetSlot != "target_age" {
		t.Fatalf("turn 1 action = %+v", res.Action)
	}

	res = turn(t, svc, "e2e-1")
	if res.Action.Action != contractx.ActionRequestIdentity {
		t.Fatalf("turn 2 action = %+v", res.Action)
	}

	res = turn(t, svc, "e2e-1")
	if res.Action.Action != contractx.ActionConfirmTransaction {
		t.Fatalf("turn 3 action = %+v", res.Action)
	}

	res = turn(t, svc, "e2e-1")
	if res.Action.Action != contractx.ActionInformAnswer {
		t.Fatalf("turn 4 action = %+v", res.Action)
	}
	if !res.Committed || res.Intent != contractx.IntentBookCourse {
		t.Fatalf("turn 4 result = %+v", res)
	}

	booked, _ := bookings.CourseBookings(context.Background(), "mario_rossi")
	if len(booked) != 1 || booked[0].Activity != "aquagym" || booked[0].Day != "Monday" {
		t.Fatalf("bookings = %+v", booked)
	}
}

func TestDigressionSurvivesTask(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, []contractx.NLUResult{
		{Intent: contractx.IntentBookSpa, Slots: map[string]string{"date": "friday"}},
		{Intent: contractx.IntentAskOpeningHours, Slots: map[string]string{"facility_type": "spa"}},
		{Intent: contractx.IntentBookSpa, Slots: map[string]string{"time": "afternoon"}},
	})

	res := turn(t, svc, "e2e-2")
	if res.Action.Action != contractx.ActionRequestSlot || res.Action.TargetSlot != "time" {
		t.Fatalf("turn 1 action = %+v", res.Action)
	}

	res = turn(t, svc, "e2e-2")
	if res.Action.Action != contractx.ActionInformAnswer {
		t.Fatalf("digression action = %+v", res.Action)
	}

	res = turn(t, svc, "e2e-2")
	if res.Action.Action != contractx.ActionRequestSlot || res.Action.TargetSlot != "people_count" {
		t.Fatalf("resume action = %+v, task lost across digression", res.Action)
	}
}

func TestInvalidValueIsRejectedWithAlternatives(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, []contractx.NLUResult{
		{Intent: contractx.IntentBuyEquipment, Slots: map[string]string{"item": "goggles", "color": "purple"}},
	})

	res := turn(t, svc, "e2e-3")
	if res.Action.Action != contractx.ActionRejectValue || res.Action.TargetSlot != "color" {
		t.Fatalf("action = %+v", res.Action)
	}
	if len(res.Action.Alternatives) == 0 {
		t.Fatal("rejection must carry the valid colors")
	}
}

func TestConsecutiveOutOfScopeOffersTopics(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, []contractx.NLUResult{
		contractx.OutOfScopeResult(),
		contractx.OutOfScopeResult(),
	})

	res := turn(t, svc, "e2e-4")
	if res.Action.Action != contractx.ActionReportConflict {
		t.Fatalf("turn 1 action = %+v", res.Action)
	}

	res = turn(t, svc, "e2e-4")
	if res.Action.Action != contractx.ActionOfferDisambiguation {
		t.Fatalf("turn 2 action = %+v", res.Action)
	}
}

func TestEmptyMessageFailsTurn(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, nil)
	if _, err := svc.HandleTurn(context.Background(), "s", "   "); err == nil {
		t.Fatal("expected an error for an empty message")
	}
}

func TestModifySpaOldValuesHandshake(t *testing.T) {
	t.Parallel()

	svc, bookings := newTestService(t, []contractx.NLUResult{
		{Intent: contractx.IntentUserIdentification, Slots: map[string]string{"name": "Mario", "surname": "Rossi"}},
		{Intent: contractx.IntentModifyBookedSpa, Slots: map[string]string{"date_old": "2026-09-04"}},
		{Intent: contractx.IntentConfirmationResponse, Slots: map[string]string{"response": "yes"}},
		{Intent: contractx.IntentModifyBookedSpa, Slots: map[string]string{"time_new": "evening"}},
		{Intent: contractx.IntentConfirmationResponse, Slots: map[string]string{"response": "yes"}},
	})
	bookings.SeedSpaBooking(records.SpaBooking{
		UserID: "mario_rossi", Date: "2026-09-04", Time: "14:30", People: 2,
	})

	turn(t, svc, "e2e-5") // identify

	res := turn(t, svc, "e2e-5")
	if res.Action.Action != contractx.ActionConfirmOldValues {
		t.Fatalf("match action = %+v", res.Action)
	}

	res = turn(t, svc, "e2e-5")
	if res.Action.Action != contractx.ActionRequestSlot {
		t.Fatalf("after agree on match: %+v", res.Action)
	}

	res = turn(t, svc, "e2e-5")
	if res.Action.Action != contractx.ActionConfirmTransaction {
		t.Fatalf("change proposal: %+v", res.Action)
	}

	res = turn(t, svc, "e2e-5")
	if res.Action.Action != contractx.ActionInformAnswer || !res.Committed {
		t.Fatalf("commit result = %+v", res)
	}

	got, _ := bookings.SpaBookings(context.Background(), "mario_rossi")
	if len(got) != 1 || got[0].Time != "19:30" {
		t.Fatalf("bookings = %+v", got)
	}
}
