package pressroom

// WorkflowAction is a named workflow trigger. Each action unconditionally
// assigns its target status; the default mode enforces no transition graph,
// so any action may be applied from any status.
type WorkflowAction string

// Workflow action constants (typed).
const (
	ActionSubmit  WorkflowAction = "submit"
	ActionApprove WorkflowAction = "approve"
	ActionReject  WorkflowAction = "reject"
	ActionPublish WorkflowAction = "publish"
)

// actionTargets maps each action to the status it assigns.
var actionTargets = map[WorkflowAction]ContentStatus{
	ActionSubmit:  StatusInReview,
	ActionApprove: StatusApproved,
	ActionReject:  StatusDraft,
	ActionPublish: StatusPublished,
}

// ParseAction returns the typed action for a route suffix such as "submit".
func ParseAction(s string) (WorkflowAction, bool) {
	action := WorkflowAction(s)
	_, ok := actionTargets[action]
	return action, ok
}

// Target returns the status the action assigns.
func (a WorkflowAction) Target() (ContentStatus, bool) {
	target, ok := actionTargets[a]
	return target, ok
}

// strictTransitions is the guarded transition table used when strict
// workflow mode is enabled: submit moves a draft into review, approve and
// reject resolve a review, publish releases an approved item, and reject
// also pulls an approved or published item back to draft for re-editing.
var strictTransitions = map[ContentStatus][]WorkflowAction{
	StatusDraft:     {ActionSubmit},
	StatusInReview:  {ActionApprove, ActionReject},
	StatusApproved:  {ActionPublish, ActionReject},
	StatusPublished: {ActionReject},
}

// transitionAllowed checks the strict table for (current, action).
func transitionAllowed(current ContentStatus, action WorkflowAction) bool {
	for _, allowed := range strictTransitions[current] {
		if allowed == action {
			return true
		}
	}
	return false
}
