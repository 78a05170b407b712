package records

import (
	"context"
	"errors"
	"testing"
)

func TestUserKey(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name, surname, want string
	}{
		{"Mario", "Rossi", "mario_rossi"},
		{"  Anna Maria ", "De Luca", "anna_maria_de_luca"},
		{"", "", ""},
		{"Mario", "", "mario_"},
	}
	for _, tc := range cases {
		if got := UserKey(tc.name, tc.surname); got != tc.want {
			t.Errorf("UserKey(%q, %q) = %q, want %q", tc.name, tc.surname, got, tc.want)
		}
	}
}

func TestMemoryStoreFiltersByUser(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	if err := store.AddCourseBooking(ctx, &CourseBooking{
		UserID: "mario_rossi", Activity: "aquagym", TargetAge: "adults", Level: "beginner", Day: "Monday",
	}); err != nil {
		t.Fatalf("AddCourseBooking: %v", err)
	}
	if err := store.AddCourseBooking(ctx, &CourseBooking{
		UserID: "anna_bianchi", Activity: "hydrobike", TargetAge: "adults", Level: "advanced", Day: "Tuesday",
	}); err != nil {
		t.Fatalf("AddCourseBooking: %v", err)
	}

	mine, err := store.CourseBookings(ctx, "mario_rossi")
	if err != nil {
		t.Fatalf("CourseBookings: %v", err)
	}
	if len(mine) != 1 || mine[0].Activity != "aquagym" {
		t.Fatalf("bookings for mario_rossi = %+v", mine)
	}
	if mine[0].ID == 0 {
		t.Fatal("Add did not assign an id")
	}
}

func TestMemoryStoreUpdate(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	b := &SpaBooking{UserID: "mario_rossi", Date: "2026-09-05", Time: "14:30", People: 2}
	if err := store.AddSpaBooking(ctx, b); err != nil {
		t.Fatalf("AddSpaBooking: %v", err)
	}

	b.Time = "19:30"
	if err := store.UpdateSpaBooking(ctx, b); err != nil {
		t.Fatalf("UpdateSpaBooking: %v", err)
	}

	got, err := store.SpaBookings(ctx, "mario_rossi")
	if err != nil {
		t.Fatalf("SpaBookings: %v", err)
	}
	if len(got) != 1 || got[0].Time != "19:30" {
		t.Fatalf("bookings after update = %+v", got)
	}

	missing := &SpaBooking{ID: 999, UserID: "mario_rossi"}
	if err := store.UpdateSpaBooking(ctx, missing); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("update of missing booking: err = %v", err)
	}
}

func TestMemoryStoreLostReports(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	ctx := context.Background()

	r := &LostReport{UserID: "mario_rossi", Item: "goggles", Color: "blue", Location: "locker room", Date: "2026-08-30"}
	if err := store.AddLostReport(ctx, r); err != nil {
		t.Fatalf("AddLostReport: %v", err)
	}

	got, err := store.LostReports(ctx, "mario_rossi")
	if err != nil {
		t.Fatalf("LostReports: %v", err)
	}
	if len(got) != 1 || got[0].Item != "goggles" {
		t.Fatalf("reports = %+v", got)
	}
}
