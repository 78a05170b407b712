package dm

import (
	contractx "github.com/bluelane/frontdesk/agent/contract"
	"github.com/bluelane/frontdesk/agent/state"
)

// disambiguationTopics is what the assistant offers after repeated
// out-of-scope turns.
var disambiguationTopics = []string{
	"opening hours", "prices", "facility rules",
	"course booking", "spa booking", "shop purchases", "lost items",
}

// Decide maps the turn's evidence onto exactly one action. It also
// applies the small post-validation status flips: arming a confirmation,
// parking a matched booking, resetting a finished task.
func (e *Engine) Decide(sess *state.SessionContext, nlu contractx.NLUResult, report contractx.TurnReport, plan QueryPlan, vres *contractx.ValidationResult) contractx.UnifiedAction {
	if vres == nil {
		return e.decideWithoutValidation(sess, nlu, report)
	}

	// A failed commit pass reopens the task instead of leaving it stuck
	// in confirmed.
	if sess.Task.Status == state.TaskConfirmed && vres.Keyword != contractx.KeywordComplete {
		sess.Task.Status = state.TaskFilling
	}

	switch vres.Keyword {
	case contractx.KeywordNotFound, contractx.KeywordNotUnderstand:
		return contractx.UnifiedAction{
			Action:     contractx.ActionRequestRetry,
			TargetSlot: vres.Slot,
			Info:       vres.Info,
		}

	case contractx.KeywordNotValid:
		return contractx.UnifiedAction{
			Action:       contractx.ActionRejectValue,
			TargetSlot:   vres.Slot,
			Info:         vres.Info,
			Alternatives: vres.Options,
		}

	case contractx.KeywordConflict:
		return contractx.UnifiedAction{
			Action: contractx.ActionNotifyConflict,
			Info:   vres.Info,
		}

	case contractx.KeywordMissing:
		if vres.Slot == contractx.SlotUser {
			return contractx.UnifiedAction{
				Action: contractx.ActionRequestIdentity,
				Info:   vres.Info,
			}
		}
		return contractx.UnifiedAction{
			Action:       contractx.ActionRequestSlot,
			TargetSlot:   vres.Slot,
			Info:         vres.Info,
			Alternatives: vres.Options,
		}

	case contractx.KeywordBookedList:
		return contractx.UnifiedAction{
			Action:       contractx.ActionOfferChoice,
			Info:         vres.Info,
			Alternatives: vres.Options,
		}

	case contractx.KeywordConfirmOld:
		sess.Task.PendingOld = vres.Matching
		return contractx.UnifiedAction{
			Action: contractx.ActionConfirmOldValues,
			Info:   vres.Info,
		}

	case contractx.KeywordComplete:
		if vres.Confirm {
			sess.Task.Status = state.TaskReadyToConfirm
			sess.Task.Merge(vres.Slots)
			return contractx.UnifiedAction{
				Action: contractx.ActionConfirmTransaction,
				Info:   vres.Info,
			}
		}
		if plan.Request.Commit {
			sess.Task.Reset()
		}
		return contractx.UnifiedAction{
			Action: contractx.ActionInformAnswer,
			Info:   vres.Info,
		}
	}

	return contractx.FallbackAction()
}

// decideWithoutValidation handles the turns that never reach the
// validation engine: digressions, identification and empty denials.
func (e *Engine) decideWithoutValidation(sess *state.SessionContext, nlu contractx.NLUResult, report contractx.TurnReport) contractx.UnifiedAction {
	switch report.Details {
	case state.DetailConsecutiveOutOfScope:
		return contractx.UnifiedAction{
			Action:       contractx.ActionOfferDisambiguation,
			Info:         "here is what I can help with",
			Alternatives: disambiguationTopics,
		}

	case state.DetailOutOfScope:
		return contractx.UnifiedAction{
			Action: contractx.ActionReportConflict,
			Info:   "that is outside what the front desk can help with",
		}

	case state.DetailUserIdentification:
		if !sess.Profile.Complete() {
			return contractx.UnifiedAction{
				Action: contractx.ActionRequestIdentity,
				Info:   "both first name and surname are needed",
			}
		}
		return contractx.UnifiedAction{
			Action: contractx.ActionInformAnswer,
			Info:   "noted, " + sess.Profile.Name + " " + sess.Profile.Surname,
		}

	case state.DetailConfirmationResponse:
		if !sess.Task.Active() {
			return contractx.UnifiedAction{
				Action: contractx.ActionReportConflict,
				Info:   "there is nothing pending to confirm",
			}
		}
		// A plain deny with no correction attached.
		return contractx.UnifiedAction{
			Action:     contractx.ActionRequestSlot,
			TargetSlot: "new_values",
			Info:       "what should be different?",
		}
	}

	return contractx.FallbackAction()
}
