package lifecycle

import "github.com/ringside/roster-service/internal/domain"

// Transition names a lifecycle mutation. Guard predicates and transition
// errors are keyed by it.
type Transition string

const (
	TransitionEmploy      Transition = "employed"
	TransitionRelease     Transition = "released"
	TransitionSuspend     Transition = "suspended"
	TransitionReinstate   Transition = "reinstated"
	TransitionInjure      Transition = "injured"
	TransitionClearInjury Transition = "cleared from injury"
	TransitionRetire      Transition = "retired"
	TransitionUnretire    Transition = "unretired"
	TransitionActivate    Transition = "activated"
	TransitionDeactivate  Transition = "deactivated"
)

// Guards are pure predicates over the current status. They never mutate
// state; the services consult them before opening or closing any span.

// CanBeEmployed reports whether an employment span may be opened. A retired
// member must unretire instead.
func CanBeEmployed(s domain.Status) bool {
	switch s {
	case domain.StatusUnemployed, domain.StatusFutureEmployment, domain.StatusReleased:
		return true
	default:
		return false
	}
}

// CanBeReleased reports whether the open employment span may be closed.
func CanBeReleased(s domain.Status) bool {
	return s.IsEmployed()
}

// CanBeSuspended requires an unrestricted employed member.
func CanBeSuspended(s domain.Status) bool {
	return s == domain.StatusBookable || s == domain.StatusUnbookable
}

// CanBeReinstated requires a current suspension.
func CanBeReinstated(s domain.Status) bool {
	return s == domain.StatusSuspended
}

// CanBeInjured requires an unrestricted employed member.
func CanBeInjured(s domain.Status) bool {
	return s == domain.StatusBookable
}

// CanHaveInjuryCleared requires a current injury.
func CanHaveInjuryCleared(s domain.Status) bool {
	return s == domain.StatusInjured
}

// CanBeRetired requires a current employment, restricted or not.
func CanBeRetired(s domain.Status) bool {
	return s.IsEmployed()
}

// CanBeUnretired requires a current retirement.
func CanBeUnretired(s domain.Status) bool {
	return s == domain.StatusRetired
}

// Activatable guards.

// CanBeActivated reports whether an activation span may be opened.
func CanBeActivated(s domain.ActivationStatus) bool {
	switch s {
	case domain.ActivationUndebuted, domain.ActivationFuture, domain.ActivationInactive:
		return true
	default:
		return false
	}
}

// CanBeDeactivated requires a current activation.
func CanBeDeactivated(s domain.ActivationStatus) bool {
	return s == domain.ActivationActive
}

// CanBeRetiredActivation reports whether an activatable may retire.
func CanBeRetiredActivation(s domain.ActivationStatus) bool {
	return s == domain.ActivationActive || s == domain.ActivationInactive
}

// CanBeUnretiredActivation requires a current retirement.
func CanBeUnretiredActivation(s domain.ActivationStatus) bool {
	return s == domain.ActivationRetired
}
