package services

import "fmt"

// InvalidTransitionError reports an action that is not legal from the
// submission's current status, or one attempted by the wrong role.
type InvalidTransitionError struct {
	Kind   SubmissionKind
	From   Status
	Action Action
	Reason string
}

func (e *InvalidTransitionError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("action %s not allowed on %s in status %s: %s", e.Action, e.Kind, e.From, e.Reason)
	}
	return fmt.Sprintf("action %s not allowed on %s in status %s", e.Action, e.Kind, e.From)
}

// MissingRequiredFieldError reports an absent seed or rejection note.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("required field %s is missing or empty", e.Field)
}

// MalformedNumberError reports a stored document number that does not match
// the institutional pattern. Callers recover by synthesizing a default
// number instead of surfacing this to the end user.
type MalformedNumberError struct {
	Value string
}

func (e *MalformedNumberError) Error() string {
	return fmt.Sprintf("malformed document number %q", e.Value)
}

// NumberConflictError names the exact (kind, field) slot already holding a
// colliding number, so the caller can report an actionable message.
type NumberConflictError struct {
	Kind   SubmissionKind
	Field  string
	Number string
}

func (e *NumberConflictError) Error() string {
	return fmt.Sprintf("number %s already used as %s of a %s", e.Number, e.Field, e.Kind)
}

// NotFoundError reports an unknown submission id for a kind.
type NotFoundError struct {
	Kind SubmissionKind
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}
