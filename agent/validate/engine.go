// Package validate implements the stateless domain oracle behind the
// decision engine: it normalizes slot values, checks them against the
// reference tables and the user's booked records, and reports the first
// actionable problem (or completeness) through a finite keyword
// vocabulary. On a commit pass it also performs the record write.
package validate

import (
	"context"
	"fmt"
	"time"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	"github.com/bluelane/frontdesk/agent/records"
)

// Engine answers validation queries against the reference tables and the
// records store. It holds no per-conversation state; everything it needs
// arrives in the request.
type Engine struct {
	records records.Store
	now     func() time.Time
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock overrides the wall clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New builds an Engine over a records store.
func New(store records.Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: records store is required", contractx.ErrValidation)
	}
	e := &Engine{records: store, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e, nil
}

// Query runs one validation round trip. The result is ephemeral: the
// caller reads it, acts on it and drops it.
func (e *Engine) Query(ctx context.Context, req contractx.ValidationRequest) (contractx.ValidationResult, error) {
	today := e.now().UTC()

	switch req.Intent {
	case contractx.IntentAskOpeningHours:
		return e.openingHours(req, today), nil
	case contractx.IntentAskPricing:
		return e.pricing(req), nil
	case contractx.IntentAskRules:
		return e.rules(req), nil
	case contractx.IntentBookCourse:
		return e.bookCourse(ctx, req)
	case contractx.IntentBookSpa:
		return e.bookSpa(ctx, req, today)
	case contractx.IntentModifyBookedCourse:
		return e.modifyCourse(ctx, req)
	case contractx.IntentModifyBookedSpa:
		return e.modifySpa(ctx, req, today)
	case contractx.IntentBuyEquipment:
		return e.buyEquipment(req), nil
	case contractx.IntentReportLostItem:
		return e.reportLostItem(ctx, req, today)
	default:
		return contractx.ValidationResult{}, fmt.Errorf("%w: %q", contractx.ErrUnknownIntent, req.Intent)
	}
}

// userKey resolves the record key for the requesting user, empty when the
// identity is unknown or incomplete.
func userKey(req contractx.ValidationRequest) string {
	if req.User == nil || !req.User.Complete() {
		return ""
	}
	return records.UserKey(req.User.Name, req.User.Surname)
}

// missing, booked_list and confirm_old are success-status results: the
// values seen so far are fine, the conversation just is not done yet.
// Error status is reserved for rejected or contradictory input.
func missingResult(slot string, options ...string) contractx.ValidationResult {
	return contractx.ValidationResult{
		Status:  contractx.StatusSuccess,
		Keyword: contractx.KeywordMissing,
		Slot:    slot,
		Options: options,
	}
}

func missingUserResult() contractx.ValidationResult {
	return contractx.ValidationResult{
		Status:  contractx.StatusSuccess,
		Keyword: contractx.KeywordMissing,
		Slot:    contractx.SlotUser,
		Info:    "user identity is required before booking",
	}
}

func notValidResult(slot, info string, options []string) contractx.ValidationResult {
	return contractx.ValidationResult{
		Status:  contractx.StatusError,
		Keyword: contractx.KeywordNotValid,
		Slot:    slot,
		Info:    info,
		Options: options,
	}
}

func notUnderstandResult(slot, info string) contractx.ValidationResult {
	return contractx.ValidationResult{
		Status:  contractx.StatusError,
		Keyword: contractx.KeywordNotUnderstand,
		Slot:    slot,
		Info:    info,
	}
}

func conflictResult(info string) contractx.ValidationResult {
	return contractx.ValidationResult{
		Status:  contractx.StatusError,
		Keyword: contractx.KeywordConflict,
		Info:    info,
	}
}

func notFoundResult(info string) contractx.ValidationResult {
	return contractx.ValidationResult{
		Status:  contractx.StatusError,
		Keyword: contractx.KeywordNotFound,
		Info:    info,
	}
}

func completeResult(info string, slots map[string]string, confirm bool) contractx.ValidationResult {
	return contractx.ValidationResult{
		Status:  contractx.StatusSuccess,
		Keyword: contractx.KeywordComplete,
		Info:    info,
		Slots:   slots,
		Confirm: confirm,
	}
}
