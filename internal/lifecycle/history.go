package lifecycle

import (
	"github.com/ringside/roster-service/internal/domain"
)

// History groups an entity's full span history by kind, the shape the
// derivation functions consume.
type History struct {
	Employments []domain.Span
	Injuries    []domain.Span
	Suspensions []domain.Span
	Retirements []domain.Span
	Activations []domain.Span
}

// HistoryFromSpans buckets a flat span list by kind.
func HistoryFromSpans(spans []domain.Span) History {
	var h History
	for _, span := range spans {
		switch span.Kind {
		case domain.SpanEmployment:
			h.Employments = append(h.Employments, span)
		case domain.SpanInjury:
			h.Injuries = append(h.Injuries, span)
		case domain.SpanSuspension:
			h.Suspensions = append(h.Suspensions, span)
		case domain.SpanRetirement:
			h.Retirements = append(h.Retirements, span)
		case domain.SpanActivation:
			h.Activations = append(h.Activations, span)
		}
	}
	return h
}

// latest returns the span with the greatest StartedAt, or nil.
func latest(spans []domain.Span) *domain.Span {
	var out *domain.Span
	for i := range spans {
		if out == nil || spans[i].StartedAt.After(out.StartedAt) {
			out = &spans[i]
		}
	}
	return out
}

// open returns the single open span, or nil. The close-before-open rule
// guarantees at most one open span per kind.
func open(spans []domain.Span) *domain.Span {
	for i := range spans {
		if spans[i].Open() {
			return &spans[i]
		}
	}
	return nil
}
