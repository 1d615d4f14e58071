package domain

// Status enumerates lifecycle states for roster members.
type Status string

const (
	StatusUnemployed       Status = "UNEMPLOYED"
	StatusFutureEmployment Status = "FUTURE_EMPLOYMENT"
	StatusBookable         Status = "BOOKABLE"
	StatusUnbookable       Status = "UNBOOKABLE"
	StatusInjured          Status = "INJURED"
	StatusSuspended        Status = "SUSPENDED"
	StatusReleased         Status = "RELEASED"
	StatusRetired          Status = "RETIRED"
)

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// IsEmployed reports whether the member currently has an open employment,
// regardless of restrictions layered on top of it.
func (s Status) IsEmployed() bool {
	switch s {
	case StatusBookable, StatusUnbookable, StatusInjured, StatusSuspended:
		return true
	default:
		return false
	}
}

// ActivationStatus enumerates lifecycle states for titles and stables.
type ActivationStatus string

const (
	ActivationUndebuted ActivationStatus = "UNDEBUTED"
	ActivationFuture    ActivationStatus = "FUTURE_ACTIVATION"
	ActivationActive    ActivationStatus = "ACTIVE"
	ActivationInactive  ActivationStatus = "INACTIVE"
	ActivationRetired   ActivationStatus = "RETIRED"
)

// String returns the string representation of the activation status.
func (s ActivationStatus) String() string {
	return string(s)
}
