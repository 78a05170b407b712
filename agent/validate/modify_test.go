package validate

import (
	"context"
	"testing"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	"github.com/bluelane/frontdesk/agent/records"
)

func seedCourses(store *records.MemoryStore) {
	store.SeedCourseBooking(records.CourseBooking{
		UserID: "mario_rossi", Activity: "aquagym", TargetAge: "adults", Level: "beginner", Day: "Monday",
	})
	store.SeedCourseBooking(records.CourseBooking{
		UserID: "mario_rossi", Activity: "hydrobike", TargetAge: "adults", Level: "advanced", Day: "Tuesday",
	})
}

func TestModifyCourseNeedsIdentityFirst(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	res := query(t, e, contractx.ValidationRequest{
		Intent: contractx.IntentModifyBookedCourse,
		Slots:  map[string]string{"course_activity_old": "aquagym"},
	})

	if res.Keyword != contractx.KeywordMissing || res.Slot != contractx.SlotUser {
		t.Fatalf("result = %+v", res)
	}
}

func TestModifyCourseNoBookings(t *testing.T) {
	t.Parallel()

	e, _ := newTestEngine(t)
	res := query(t, e, contractx.ValidationRequest{
		Intent: contractx.IntentModifyBookedCourse,
		Slots:  map[string]string{"course_activity_old": "aquagym"},
		User:   testUser,
	})

	if res.Keyword != contractx.KeywordNotFound {
		t.Fatalf("result = %+v", res)
	}
}

func TestModifyCoursePartialOldAsksConfirmation(t *testing.T) {
	t.Parallel()

	e, store := newTestEngine(t)
	seedCourses(store)

	res := query(t, e, contractx.ValidationRequest{
		Intent: contractx.IntentModifyBookedCourse,
		Slots:  map[string]string{"course_activity_old": "aquagym"},
		User:   testUser,
	})

	if res.Keyword != contractx.KeywordConfirmOld {
		t.Fatalf("result = %+v", res)
	}
	if res.Matching["day_preference"] != "Monday" || res.Matching["level"] != "beginner" {
		t.Fatalf("matching = %v", res.Matching)
	}
}

func TestModifyCourseAmbiguousListsBookings(t *testing.T) {
	t.Parallel()

	e, store := newTestEngine(t)
	seedCourses(store)

	res := query(t, e, contractx.ValidationRequest{
		Intent: contractx.IntentModifyBookedCourse,
		Slots:  map[string]string{"target_age_old": "adults"},
		User:   testUser,
	})

	if res.Status != contractx.StatusSuccess || res.Keyword != contractx.KeywordBookedList {
		t.Fatalf("result = %+v", res)
	}
	if len(res.Options) != 2 {
		t.Fatalf("options = %v", res.Options)
	}
}

func TestModifyCourseCommitUpdatesDay(t *testing.T) {
	t.Parallel()

	e, store := newTestEngine(t)
	seedCourses(store)

	req := contractx.ValidationRequest{
		Intent: contractx.IntentModifyBookedCourse,
		Slots: map[string]string{
			"course_activity_old": "aquagym",
			"target_age_old":      "adults",
			"level_old":           "beginner",
			"day_preference_old":  "Monday",
			"day_preference_new":  "Friday",
		},
		User: testUser,
	}

	res := query(t, e, req)
	if res.Keyword != contractx.KeywordComplete || !res.Confirm {
		t.Fatalf("pre-commit result = %+v", res)
	}

	req.Commit = true
	res = query(t, e, req)
	if res.Keyword != contractx.KeywordComplete || res.Confirm {
		t.Fatalf("commit result = %+v", res)
	}

	got, _ := store.CourseBookings(context.Background(), "mario_rossi")
	for _, b := range got {
		if b.Activity == "aquagym" && b.Day != "Friday" {
			t.Fatalf("day not updated: %+v", b)
		}
	}
}

func TestModifyCourseNewDayOutsideSchedule(t *testing.T) {
	t.Parallel()

	e, store := newTestEngine(t)
	seedCourses(store)

	res := query(t, e, contractx.ValidationRequest{
		Intent: contractx.IntentModifyBookedCourse,
		Slots: map[string]string{
			"course_activity_old": "aquagym",
			"target_age_old":      "adults",
			"level_old":           "beginner",
			"day_preference_old":  "Monday",
			"day_preference_new":  "Thursday",
		},
		User: testUser,
	})

	if res.Keyword != contractx.KeywordNotValid || res.Slot != "day_preference_new" {
		t.Fatalf("result = %+v", res)
	}
}

func TestModifyCourseWithoutNewValues(t *testing.T) {
	t.Parallel()

	e, store := newTestEngine(t)
	seedCourses(store)

	res := query(t, e, contractx.ValidationRequest{
		Intent: contractx.IntentModifyBookedCourse,
		Slots: map[string]string{
			"course_activity_old": "hydrobike",
			"target_age_old":      "adults",
			"level_old":           "advanced",
			"day_preference_old":  "Tuesday",
		},
		User: testUser,
	})

	if res.Keyword != contractx.KeywordMissing || res.Slot != "new_values" {
		t.Fatalf("result = %+v", res)
	}
}

func TestModifySpaCommitMovesDate(t *testing.T) {
	t.Parallel()

	e, store := newTestEngine(t)
	store.SeedSpaBooking(records.SpaBooking{
		UserID: "mario_rossi", Date: "2026-09-04", Time: "14:30", People: 2,
	})

	req := contractx.ValidationRequest{
		Intent: contractx.IntentModifyBookedSpa,
		Slots: map[string]string{
			"date_old":         "2026-09-04",
			"time_old":         "14:30",
			"people_count_old": "2",
			"date_new":         "2026-09-05",
		},
		User:   testUser,
		Commit: true,
	}

	res := query(t, e, req)
	if res.Keyword != contractx.KeywordComplete {
		t.Fatalf("result = %+v", res)
	}

	got, _ := store.SpaBookings(context.Background(), "mario_rossi")
	if len(got) != 1 || got[0].Date != "2026-09-05" || got[0].Time != "14:30" {
		t.Fatalf("bookings = %+v", got)
	}
}

func TestModifySpaNewDateMustBeBookable(t *testing.T) {
	t.Parallel()

	e, store := newTestEngine(t)
	store.SeedSpaBooking(records.SpaBooking{
		UserID: "mario_rossi", Date: "2026-09-04", Time: "14:30", People: 2,
	})

	// Sunday stays fully booked even for a move.
	res := query(t, e, contractx.ValidationRequest{
		Intent: contractx.IntentModifyBookedSpa,
		Slots: map[string]string{
			"date_old": "2026-09-04",
			"date_new": "2026-09-06",
		},
		User: testUser,
	})

	if res.Keyword != contractx.KeywordConflict {
		t.Fatalf("result = %+v", res)
	}
}

func TestModifySpaPartialOldConfirmsMatch(t *testing.T) {
	t.Parallel()

	e, store := newTestEngine(t)
	store.SeedSpaBooking(records.SpaBooking{
		UserID: "mario_rossi", Date: "2026-09-04", Time: "14:30", People: 2,
	})

	res := query(t, e, contractx.ValidationRequest{
		Intent: contractx.IntentModifyBookedSpa,
		Slots:  map[string]string{"date_old": "2026-09-04"},
		User:   testUser,
	})

	if res.Keyword != contractx.KeywordConfirmOld {
		t.Fatalf("result = %+v", res)
	}
	if res.Matching["time"] != "14:30" || res.Matching["people_count"] != "2" {
		t.Fatalf("matching = %v", res.Matching)
	}
}
