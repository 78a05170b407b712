// Package dm is the decision engine: the only writer of the active task
// and the user profile, and the single place where a turn's evidence
// (tracker report, validation outcome) is mapped to exactly one action.
package dm

import (
	"strings"

	contractx "github.com/bluelane/frontdesk/agent/contract"
	"github.com/bluelane/frontdesk/agent/state"
)

// Engine decides what the assistant does next. It is stateless across
// turns; all per-conversation memory lives in the SessionContext it is
// handed.
type Engine struct{}

func New() *Engine {
	return &Engine{}
}

// QueryPlan is the outcome of reconciling a turn against the session:
// whether the validation engine must be consulted, and with what.
type QueryPlan struct {
	NeedsValidation bool
	Request         contractx.ValidationRequest
}

// PrepareQuery reconciles the understood turn into the session (task
// accumulator, profile, confirmation state) and plans the validation
// round trip. It is the mutation point; Decide afterwards only maps
// outcomes to an action plus the small post-decision status flips.
func (e *Engine) PrepareQuery(sess *state.SessionContext, nlu contractx.NLUResult, report contractx.TurnReport) QueryPlan {
	switch report.Details {
	case state.DetailOutOfScope, state.DetailConsecutiveOutOfScope:
		return QueryPlan{}
	case state.DetailUserIdentification:
		return e.reconcileIdentity(sess, nlu)
	case state.DetailConfirmationResponse:
		return e.reconcileConfirmation(sess, nlu)
	}

	if nlu.Intent.Informational() {
		return QueryPlan{
			NeedsValidation: true,
			Request: contractx.ValidationRequest{
				Intent:          nlu.Intent,
				Slots:           cloneSlots(sess.Dialogue.Slots),
				SlotsToValidate: report.NewValues,
				User:            &sess.Profile,
			},
		}
	}

	if nlu.Intent.Transactional() {
		e.reconcileTask(sess, nlu, report)
		return e.taskQuery(sess, report.NewValues)
	}

	return QueryPlan{}
}

// reconcileIdentity folds the supplied name parts into the profile. When
// a task is waiting on the identity, the turn flows straight back into
// its validation.
func (e *Engine) reconcileIdentity(sess *state.SessionContext, nlu contractx.NLUResult) QueryPlan {
	if v := strings.TrimSpace(nlu.Slots["name"]); v != "" {
		sess.Profile.Name = v
	}
	if v := strings.TrimSpace(nlu.Slots["surname"]); v != "" {
		sess.Profile.Surname = v
	}

	if sess.Task.Active() && sess.Profile.Complete() {
		return e.taskQuery(sess, nil)
	}
	return QueryPlan{}
}

// reconcileConfirmation applies an agree/deny to whatever was pending:
// a transaction summary or an echoed old-values match. Extra slots on
// the same turn count as corrections.
func (e *Engine) reconcileConfirmation(sess *state.SessionContext, nlu contractx.NLUResult) QueryPlan {
	if !sess.Task.Active() {
		return QueryPlan{}
	}

	extras := confirmationExtras(sess.Task.Intent, nlu.Slots)
	agreed := affirmative(nlu.Slots["response"])

	if agreed {
		for k, v := range extras {
			sess.Task.SetSlot(k, v)
		}
		if len(sess.Task.PendingOld) > 0 {
			for field, v := range sess.Task.PendingOld {
				sess.Task.SetSlot(field+"_old", v)
			}
			sess.Task.PendingOld = nil
		}
		if sess.Task.Status == state.TaskReadyToConfirm {
			sess.Task.Status = state.TaskConfirmed
			plan := e.taskQuery(sess, nil)
			plan.Request.Commit = true
			return plan
		}
		return e.taskQuery(sess, nil)
	}

	// Deny: drop the pending proposal; corrections, if any, re-enter
	// validation immediately.
	sess.Task.PendingOld = nil
	if sess.Task.Status == state.TaskReadyToConfirm {
		sess.Task.Status = state.TaskFilling
	}
	if len(extras) > 0 {
		for k, v := range extras {
			sess.Task.SetSlot(k, v)
		}
		return e.taskQuery(sess, nil)
	}
	return QueryPlan{}
}

// reconcileTask aligns the task accumulator with the tracker after a
// transactional turn.
func (e *Engine) reconcileTask(sess *state.SessionContext, nlu contractx.NLUResult, report contractx.TurnReport) {
	task := &sess.Task

	switch {
	case !task.Active():
		task.Intent = nlu.Intent
		task.Slots = cloneSlots(sess.Dialogue.Slots)
		task.Status = state.TaskFilling
	case task.Intent != nlu.Intent:
		// The tracker already decided whether the switch was correlated;
		// either way the accumulator restarts from its current state.
		task.Reset()
		task.Intent = nlu.Intent
		task.Slots = cloneSlots(sess.Dialogue.Slots)
		task.Status = state.TaskFilling
	default:
		task.Merge(sess.Dialogue.Slots)
		if task.Status == state.TaskReadyToConfirm && len(report.NewValues) > 0 {
			// New values reopen a pending confirmation.
			task.Status = state.TaskFilling
		}
	}
}

func (e *Engine) taskQuery(sess *state.SessionContext, newValues []string) QueryPlan {
	return QueryPlan{
		NeedsValidation: true,
		Request: contractx.ValidationRequest{
			Intent:          sess.Task.Intent,
			Slots:           cloneSlots(sess.Task.Slots),
			SlotsToValidate: newValues,
			Task:            sess.Task.Snapshot(),
			User:            &sess.Profile,
		},
	}
}

// confirmationExtras pulls correction slots off a confirmation turn. On
// modify tasks a bare field name targets the new value, never the match
// criteria.
func confirmationExtras(intent contractx.Intent, slots map[string]string) map[string]string {
	modify := intent == contractx.IntentModifyBookedCourse || intent == contractx.IntentModifyBookedSpa
	out := map[string]string{}
	for k, v := range slots {
		if k == "response" || strings.TrimSpace(v) == "" {
			continue
		}
		if modify && !strings.HasSuffix(k, "_old") && !strings.HasSuffix(k, "_new") {
			k += "_new"
		}
		out[k] = v
	}
	return out
}

// affirmative reads the confirmation response slot. Anything that is not
// clearly a yes counts as a no.
func affirmative(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "yes", "y", "yeah", "yep", "sure", "ok", "okay", "confirm", "correct", "right", "true":
		return true
	}
	return false
}

func cloneSlots(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
