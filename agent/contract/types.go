package contract

// Intent is the closed set of conversational goals the core understands.
// Anything the upstream understanding step cannot map here degrades to
// IntentOutOfScope at the boundary, never inside the core.
type Intent string

const (
	IntentOutOfScope           Intent = "out_of_scope"
	IntentAskOpeningHours      Intent = "ask_opening_hours"
	IntentAskPricing           Intent = "ask_pricing"
	IntentAskRules             Intent = "ask_rules"
	IntentUserIdentification   Intent = "user_identification"
	IntentConfirmationResponse Intent = "confirmation_response"
	IntentBookCourse           Intent = "book_course"
	IntentBookSpa              Intent = "book_spa"
	IntentModifyBookedCourse   Intent = "modify_booked_course"
	IntentModifyBookedSpa      Intent = "modify_booked_spa"
	IntentBuyEquipment         Intent = "buy_equipment"
	IntentReportLostItem       Intent = "report_lost_item"
)

var knownIntents = map[Intent]struct{}{
	IntentOutOfScope:           {},
	IntentAskOpeningHours:      {},
	IntentAskPricing:           {},
	IntentAskRules:             {},
	IntentUserIdentification:   {},
	IntentConfirmationResponse: {},
	IntentBookCourse:           {},
	IntentBookSpa:              {},
	IntentModifyBookedCourse:   {},
	IntentModifyBookedSpa:      {},
	IntentBuyEquipment:         {},
	IntentReportLostItem:       {},
}

// ParseIntent maps a raw intent string onto the closed vocabulary.
func ParseIntent(raw string) (Intent, bool) {
	in := Intent(raw)
	_, ok := knownIntents[in]
	return in, ok
}

// Transactional reports whether the intent fills an ActiveTask toward a
// record write. Informational and special intents digress without
// touching the active task.
func (i Intent) Transactional() bool {
	switch i {
	case IntentBookCourse, IntentBookSpa,
		IntentModifyBookedCourse, IntentModifyBookedSpa,
		IntentBuyEquipment, IntentReportLostItem:
		return true
	}
	return false
}

// Informational reports whether the intent is a pure lookup.
func (i Intent) Informational() bool {
	switch i {
	case IntentAskOpeningHours, IntentAskPricing, IntentAskRules:
		return true
	}
	return false
}

// RequiresIdentity reports whether the intent needs a known user before
// the transaction can be confirmed.
func (i Intent) RequiresIdentity() bool {
	switch i {
	case IntentBookCourse, IntentBookSpa,
		IntentModifyBookedCourse, IntentModifyBookedSpa,
		IntentReportLostItem:
		return true
	}
	return false
}

// slotSchema fixes the full slot vocabulary per intent, in schema order.
// The order drives both "first missing slot" selection and the ordering
// of TurnReport.NewValues.
var slotSchema = map[Intent][]string{
	IntentAskOpeningHours:      {"facility_type", "date", "time"},
	IntentAskPricing:           {"facility_type", "subscription_type", "user_category"},
	IntentAskRules:             {"topic"},
	IntentUserIdentification:   {"name", "surname"},
	IntentConfirmationResponse: {"response"},
	IntentBookCourse:           {"course_activity", "target_age", "level", "day_preference"},
	IntentBookSpa:              {"date", "time", "people_count", "know_rules"},
	IntentModifyBookedCourse: {
		"course_activity_old", "course_activity_new",
		"target_age_old", "target_age_new",
		"level_old", "level_new",
		"day_preference_old", "day_preference_new",
	},
	IntentModifyBookedSpa: {
		"date_old", "date_new",
		"time_old", "time_new",
		"people_count_old", "people_count_new",
	},
	IntentBuyEquipment:   {"item", "color", "size", "brand"},
	IntentReportLostItem: {"item", "item_color", "location", "date_lost"},
}

// requiredSlots lists the slots that must be filled before the intent can
// move to confirmation. Modify flows are validation-driven (old values act
// as wildcards) so nothing is statically required; buy_equipment stages
// color/size/brand through the validation engine.
var requiredSlots = map[Intent][]string{
	IntentAskOpeningHours:    {"facility_type"},
	IntentAskPricing:         {"facility_type", "subscription_type"},
	IntentAskRules:           {"topic"},
	IntentUserIdentification: {"name", "surname"},
	IntentBookCourse:         {"course_activity", "target_age", "level", "day_preference"},
	IntentBookSpa:            {"date", "time", "people_count", "know_rules"},
	IntentBuyEquipment:       {"item"},
	IntentReportLostItem:     {"item", "item_color", "location", "date_lost"},
}

// SlotOrder returns the full slot schema for an intent, in schema order.
func SlotOrder(i Intent) []string {
	return slotSchema[i]
}

// RequiredSlots returns the statically required slots for an intent, in
// schema order.
func RequiredSlots(i Intent) []string {
	return requiredSlots[i]
}

// NLUResult is the structured output of the understanding collaborator.
// Slots carries only the values the user actually supplied this turn;
// null extractions are dropped at the boundary.
type NLUResult struct {
	Intent Intent            `json:"intent"`
	Slots  map[string]string `json:"slots"`
}

// OutOfScopeResult is the single fallback for malformed or unparseable
// understanding output.
func OutOfScopeResult() NLUResult {
	return NLUResult{Intent: IntentOutOfScope, Slots: map[string]string{}}
}

// EventType classifies what a turn did to the dialogue state.
type EventType string

const (
	EventNoChange               EventType = "no_change"
	EventIntentSwitch           EventType = "intent_switch"
	EventCorrelatedIntentSwitch EventType = "correlated_intent_switch"
	EventSlotUpdate             EventType = "slot_update"
)

// TurnReport is produced fresh by the state tracker every turn and
// consumed immediately by the decision engine. NewValues is always a
// subset of the slot names present in the turn's extraction.
type TurnReport struct {
	EventType EventType `json:"event_type"`
	Details   string    `json:"details"`
	NewValues []string  `json:"new_values"`
}

// UserProfile identifies the current speaker. Set only through the
// user_identification intent and never cleared implicitly.
type UserProfile struct {
	Name    string `json:"name,omitempty"`
	Surname string `json:"surname,omitempty"`
}

// Complete reports whether both identity fields are known.
func (p UserProfile) Complete() bool {
	return p.Name != "" && p.Surname != ""
}

// Empty reports whether no identity field is known.
func (p UserProfile) Empty() bool {
	return p.Name == "" && p.Surname == ""
}

// TaskSnapshot is the decision engine's view of the active task as
// bundled into a validation request.
type TaskSnapshot struct {
	Intent Intent            `json:"intent"`
	Slots  map[string]string `json:"slots"`
	Status string            `json:"status"`
}

// ValidationRequest bundles everything the validation engine needs for
// one round trip. Commit marks the pass that is allowed to write records
// (the user already confirmed the transaction).
type ValidationRequest struct {
	Intent          Intent            `json:"intent"`
	Slots           map[string]string `json:"slots"`
	SlotsToValidate []string          `json:"slots_to_validate"`
	Task            TaskSnapshot      `json:"task"`
	User            *UserProfile      `json:"user,omitempty"`
	Commit          bool              `json:"commit"`
}

// ValidationStatus is the coarse outcome of a validation round trip.
type ValidationStatus string

const (
	StatusSuccess ValidationStatus = "success"
	StatusError   ValidationStatus = "error"
)

// Keyword refines a ValidationStatus into the finite outcome vocabulary
// the decision engine maps to actions.
type Keyword string

const (
	KeywordMissing       Keyword = "missing"
	KeywordNotValid      Keyword = "not_valid"
	KeywordNotUnderstand Keyword = "not_understand"
	KeywordConflict      Keyword = "conflict"
	KeywordNotFound      Keyword = "not_found"
	KeywordComplete      Keyword = "complete"
	KeywordBookedList    Keyword = "booked_list"
	KeywordConfirmOld    Keyword = "confirm_old"
)

// SlotUser is the sentinel slot name for "the user identity is missing".
const SlotUser = "user"

// ValidationResult is the ephemeral outcome of one validation round trip.
// Slots is a normalized copy; the engine never mutates caller-supplied
// maps. Matching carries the matched record for modify flows awaiting an
// old-values confirmation. Confirm marks a complete result that still
// needs the user's go-ahead before the record write.
type ValidationResult struct {
	Status   ValidationStatus  `json:"status"`
	Keyword  Keyword           `json:"keyword"`
	Slot     string            `json:"slot,omitempty"`
	Info     string            `json:"info,omitempty"`
	Options  []string          `json:"options,omitempty"`
	Slots    map[string]string `json:"slots,omitempty"`
	Matching map[string]string `json:"matching_booking,omitempty"`
	Confirm  bool              `json:"confirm,omitempty"`
}

// ActionType is the fixed action vocabulary handed to the generation
// collaborator.
type ActionType string

const (
	ActionRequestSlot         ActionType = "request_slot"
	ActionRequestIdentity     ActionType = "request_identity"
	ActionRequestRetry        ActionType = "request_retry"
	ActionRejectValue         ActionType = "reject_value"
	ActionNotifyConflict      ActionType = "notify_conflict"
	ActionReportConflict      ActionType = "report_conflict"
	ActionOfferChoice         ActionType = "offer_choice"
	ActionOfferDisambiguation ActionType = "offer_disambiguation"
	ActionConfirmTransaction  ActionType = "confirm_transaction"
	ActionConfirmOldValues    ActionType = "confirm_old_values"
	ActionInformAnswer        ActionType = "inform_answer"
	ActionInternalError       ActionType = "internal_error"
)

// UnifiedAction is the single canonical artifact crossing into the
// generation collaborator. Exactly one is emitted per turn.
type UnifiedAction struct {
	Action       ActionType `json:"action"`
	TargetSlot   string     `json:"target_slot,omitempty"`
	Info         string     `json:"info,omitempty"`
	Alternatives []string   `json:"alternatives,omitempty"`
}

// FallbackAction is the one well-formed action substituted whenever the
// decision-phrasing boundary fails. Defined once so the fallback is not
// duplicated at call sites.
func FallbackAction() UnifiedAction {
	return UnifiedAction{
		Action: ActionInternalError,
		Info:   "something went wrong on our side, please try again",
	}
}

// FallbackReply is the canned sentence used when the generation
// collaborator itself fails or returns unusable output.
const FallbackReply = "Sorry, something went wrong on our side. Could you repeat that?"
