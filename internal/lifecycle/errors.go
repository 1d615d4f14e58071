package lifecycle

import (
	"fmt"
)

// TransitionError reports a transition whose guard rejected the current
// state. One error value per failed transition, carrying the status the
// entity held when the guard ran.
type TransitionError struct {
	Transition Transition
	Current    string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot be %s while %s", e.Transition, e.Current)
}

// Is matches two transition errors by transition name, so callers can test
// for a specific failed transition without caring about the status snapshot.
func (e *TransitionError) Is(target error) bool {
	other, ok := target.(*TransitionError)
	return ok && other.Transition == e.Transition
}

// NewTransitionError builds the guard-failure error for a transition.
// current is the String() form of either status enum.
func NewTransitionError(t Transition, current fmt.Stringer) *TransitionError {
	return &TransitionError{Transition: t, Current: current.String()}
}

// Sentinel values for errors.Is checks against a transition kind.
var (
	ErrCannotBeEmployed    = &TransitionError{Transition: TransitionEmploy}
	ErrCannotBeReleased    = &TransitionError{Transition: TransitionRelease}
	ErrCannotBeSuspended   = &TransitionError{Transition: TransitionSuspend}
	ErrCannotBeReinstated  = &TransitionError{Transition: TransitionReinstate}
	ErrCannotBeInjured     = &TransitionError{Transition: TransitionInjure}
	ErrCannotBeCleared     = &TransitionError{Transition: TransitionClearInjury}
	ErrCannotBeRetired     = &TransitionError{Transition: TransitionRetire}
	ErrCannotBeUnretired   = &TransitionError{Transition: TransitionUnretire}
	ErrCannotBeActivated   = &TransitionError{Transition: TransitionActivate}
	ErrCannotBeDeactivated = &TransitionError{Transition: TransitionDeactivate}
)
