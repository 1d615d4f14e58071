package lifecycle

import "time"

// Clock provides the current time. Transitions never read the wall clock
// directly so that derivation stays reproducible under test.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now().UTC()
}

// SystemClock returns a Clock backed by the wall clock in UTC.
func SystemClock() Clock {
	return realClock{}
}
