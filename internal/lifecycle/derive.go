package lifecycle

import (
	"time"

	"github.com/ringside/roster-service/internal/domain"
)

// DeriveStatus maps a roster member's span history and a reference instant
// onto exactly one status. Pure and deterministic: identical inputs always
// yield identical output.
//
// Spans are evaluated most-restrictive first. A retirement, injury or
// suspension span that is open and already started wins over the employment
// state underneath it.
func DeriveStatus(h History, now time.Time) domain.Status {
	if span := open(h.Retirements); span != nil && span.Started(now) {
		return domain.StatusRetired
	}
	if span := open(h.Injuries); span != nil && span.Started(now) {
		return domain.StatusInjured
	}
	if span := open(h.Suspensions); span != nil && span.Started(now) {
		return domain.StatusSuspended
	}

	employment := latest(h.Employments)
	switch {
	case employment == nil:
		return domain.StatusUnemployed
	case employment.StartedAt.After(now):
		return domain.StatusFutureEmployment
	case employment.Covers(now):
		return domain.StatusBookable
	default:
		return domain.StatusReleased
	}
}

// DeriveActivation is the activatable analogue of DeriveStatus for titles
// and stables.
func DeriveActivation(h History, now time.Time) domain.ActivationStatus {
	if span := open(h.Retirements); span != nil && span.Started(now) {
		return domain.ActivationRetired
	}

	activation := latest(h.Activations)
	switch {
	case activation == nil:
		return domain.ActivationUndebuted
	case activation.StartedAt.After(now):
		return domain.ActivationFuture
	case activation.Covers(now):
		return domain.ActivationActive
	default:
		return domain.ActivationInactive
	}
}

// StatusAt reports the member status at an arbitrary instant, treating spans
// closed before that instant as not in effect. Used by the reporting layer
// for historical queries; DeriveStatus is the special case where closed
// spans never cover now.
func StatusAt(h History, at time.Time) domain.Status {
	return DeriveStatus(trimTo(h, at), at)
}

// trimTo drops spans opened after the instant and reopens spans that were
// still open at it.
func trimTo(h History, at time.Time) History {
	trim := func(spans []domain.Span) []domain.Span {
		var out []domain.Span
		for _, span := range spans {
			if span.StartedAt.After(at) {
				continue
			}
			if span.EndedAt != nil && !span.EndedAt.After(at) {
				out = append(out, span)
				continue
			}
			span.EndedAt = nil
			out = append(out, span)
		}
		return out
	}
	return History{
		Employments: trim(h.Employments),
		Injuries:    trim(h.Injuries),
		Suspensions: trim(h.Suspensions),
		Retirements: trim(h.Retirements),
		Activations: trim(h.Activations),
	}
}
