// Package state holds the per-conversation memory: the tracker-owned
// DialogueState and the decision-engine-owned ActiveTask and UserProfile,
// bundled into a SessionContext that is passed explicitly into every call.
// Nothing here is a process-wide singleton; a multi-session deployment
// keys contexts by session id and serializes turns per session.
package state

import (
	"errors"
	"fmt"
	"time"

	contractx "github.com/bluelane/frontdesk/agent/contract"
)

// TaskStatus tracks how far the active task has progressed.
type TaskStatus string

const (
	TaskIdle           TaskStatus = "idle"
	TaskFilling        TaskStatus = "filling"
	TaskReadyToConfirm TaskStatus = "ready_to_confirm"
	TaskConfirmed      TaskStatus = "confirmed"
)

// ActiveTask is the transaction being filled toward completion. It
// survives digressions into informational intents and identification
// turns; its intent changes only on an explicit switch to another
// transactional intent or a correlated carry-over.
type ActiveTask struct {
	Intent          contractx.Intent  `json:"intent,omitempty"`
	Slots           map[string]string `json:"slots,omitempty"`
	SlotsToValidate []string          `json:"slots_to_validate,omitempty"`
	Status          TaskStatus        `json:"status"`

	// PendingOld holds the matched record echoed back during a
	// confirm_old exchange, applied on the user's agreement.
	PendingOld map[string]string `json:"pending_old,omitempty"`
}

// Active reports whether a transactional task is in flight.
func (t *ActiveTask) Active() bool {
	return t != nil && t.Intent != "" && t.Status != TaskIdle
}

// SetSlot writes one slot value, allocating lazily.
func (t *ActiveTask) SetSlot(key, value string) {
	if t.Slots == nil {
		t.Slots = make(map[string]string, 8)
	}
	t.Slots[key] = value
}

// Merge folds the supplied slots into the accumulator, returning the keys
// actually written.
func (t *ActiveTask) Merge(slots map[string]string) []string {
	written := make([]string, 0, len(slots))
	for _, key := range contractx.SlotOrder(t.Intent) {
		if v, ok := slots[key]; ok && v != "" {
			t.SetSlot(key, v)
			written = append(written, key)
		}
	}
	return written
}

// Snapshot freezes the task for a validation request.
func (t *ActiveTask) Snapshot() contractx.TaskSnapshot {
	if t == nil {
		return contractx.TaskSnapshot{}
	}
	return contractx.TaskSnapshot{
		Intent: t.Intent,
		Slots:  cloneSlots(t.Slots),
		Status: string(t.Status),
	}
}

// Reset clears the task back to idle after completion or abandonment.
func (t *ActiveTask) Reset() {
	*t = ActiveTask{Status: TaskIdle}
}

// SessionContext is the canonical owner of all per-conversation mutable
// state. One instance per session; callers must not share it across
// concurrent turns.
type SessionContext struct {
	SessionID string `json:"session_id"`
	Version   int    `json:"version"`

	Dialogue DialogueState         `json:"dialogue"`
	Task     ActiveTask            `json:"task"`
	Profile  contractx.UserProfile `json:"profile"`

	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrNilSession     = errors.New("session context is nil")
	ErrInvalidSession = errors.New("session id is empty")
)

// NewSessionContext returns an empty session keyed by id.
func NewSessionContext(sessionID string, now time.Time) *SessionContext {
	return &SessionContext{
		SessionID: sessionID,
		Version:   1,
		Task:      ActiveTask{Status: TaskIdle},
		UpdatedAt: now.UTC(),
	}
}

// Touch bumps the modification timestamp.
func (s *SessionContext) Touch(now time.Time) {
	s.UpdatedAt = now.UTC()
}

// Validate checks internal consistency before persisting.
func (s *SessionContext) Validate() error {
	if s == nil {
		return ErrNilSession
	}
	if s.SessionID == "" {
		return ErrInvalidSession
	}
	switch s.Task.Status {
	case "", TaskIdle, TaskFilling, TaskReadyToConfirm, TaskConfirmed:
	default:
		return fmt.Errorf("invalid task status %q", s.Task.Status)
	}
	if s.Task.Status != TaskIdle && s.Task.Status != "" && s.Task.Intent == "" {
		return fmt.Errorf("task in status %q without an intent", s.Task.Status)
	}
	return nil
}

func cloneSlots(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
