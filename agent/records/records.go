// Package records owns the persistent booking and report data the
// validation engine reads and writes: course bookings, spa bookings and
// lost-item reports, keyed per identified user.
package records

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"
)

var ErrRecordNotFound = errors.New("record not found")

// CourseBooking is one confirmed course enrollment.
type CourseBooking struct {
	bun.BaseModel `bun:"table:course_bookings" json:"-"`

	ID        int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID    string `bun:"user_id,notnull" json:"user_id"`
	Activity  string `bun:"activity,notnull" json:"activity"`
	TargetAge string `bun:"target_age,notnull" json:"target_age"`
	Level     string `bun:"level,notnull" json:"level"`
	Day       string `bun:"day,notnull" json:"day"`
}

// SpaBooking is one confirmed spa reservation.
type SpaBooking struct {
	bun.BaseModel `bun:"table:spa_bookings" json:"-"`

	ID     int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID string `bun:"user_id,notnull" json:"user_id"`
	Date   string `bun:"date,notnull" json:"date"`
	Time   string `bun:"time,notnull" json:"time"`
	People int    `bun:"people,notnull" json:"people"`
}

// LostReport is one filed lost-item report.
type LostReport struct {
	bun.BaseModel `bun:"table:lost_reports" json:"-"`

	ID       int64  `bun:"id,pk,autoincrement" json:"id"`
	UserID   string `bun:"user_id,notnull" json:"user_id"`
	Item     string `bun:"item,notnull" json:"item"`
	Color    string `bun:"color" json:"color"`
	Location string `bun:"location,notnull" json:"location"`
	Date     string `bun:"date,notnull" json:"date"`
}

// UserKey derives the stable per-user record key from an identity.
func UserKey(name, surname string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	s := strings.ToLower(strings.TrimSpace(surname))
	if n == "" && s == "" {
		return ""
	}
	return strings.ReplaceAll(n+"_"+s, " ", "_")
}

// Store is the persistence contract for user bookings and reports.
type Store interface {
	CourseBookings(ctx context.Context, userID string) ([]CourseBooking, error)
	AddCourseBooking(ctx context.Context, b *CourseBooking) error
	UpdateCourseBooking(ctx context.Context, b *CourseBooking) error

	SpaBookings(ctx context.Context, userID string) ([]SpaBooking, error)
	AddSpaBooking(ctx context.Context, b *SpaBooking) error
	UpdateSpaBooking(ctx context.Context, b *SpaBooking) error

	LostReports(ctx context.Context, userID string) ([]LostReport, error)
	AddLostReport(ctx context.Context, r *LostReport) error
}
