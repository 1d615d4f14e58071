package lifecycle

import (
	"testing"
	"time"

	"github.com/ringside/roster-service/internal/domain"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func span(kind domain.SpanKind, start time.Time, end *time.Time) domain.Span {
	return domain.Span{Kind: kind, StartedAt: start, EndedAt: end}
}

func closedAt(t time.Time) *time.Time {
	return &t
}

func TestDeriveStatus(t *testing.T) {
	now := baseTime
	earlier := now.Add(-30 * 24 * time.Hour)
	later := now.Add(14 * 24 * time.Hour)

	tests := []struct {
		name  string
		spans []domain.Span
		want  domain.Status
	}{
		{
			name:  "no history",
			spans: nil,
			want:  domain.StatusUnemployed,
		},
		{
			name: "open employment",
			spans: []domain.Span{
				span(domain.SpanEmployment, earlier, nil),
			},
			want: domain.StatusBookable,
		},
		{
			name: "employment starts in the future",
			spans: []domain.Span{
				span(domain.SpanEmployment, later, nil),
			},
			want: domain.StatusFutureEmployment,
		},
		{
			name: "closed employment",
			spans: []domain.Span{
				span(domain.SpanEmployment, earlier, closedAt(now.Add(-24*time.Hour))),
			},
			want: domain.StatusReleased,
		},
		{
			name: "suspension overrides employment",
			spans: []domain.Span{
				span(domain.SpanEmployment, earlier, nil),
				span(domain.SpanSuspension, now.Add(-time.Hour), nil),
			},
			want: domain.StatusSuspended,
		},
		{
			name: "injury overrides suspension",
			spans: []domain.Span{
				span(domain.SpanEmployment, earlier, nil),
				span(domain.SpanSuspension, now.Add(-2*time.Hour), nil),
				span(domain.SpanInjury, now.Add(-time.Hour), nil),
			},
			want: domain.StatusInjured,
		},
		{
			name: "retirement overrides everything",
			spans: []domain.Span{
				span(domain.SpanEmployment, earlier, closedAt(now.Add(-time.Hour))),
				span(domain.SpanInjury, now.Add(-3*time.Hour), closedAt(now.Add(-time.Hour))),
				span(domain.SpanRetirement, now.Add(-time.Hour), nil),
			},
			want: domain.StatusRetired,
		},
		{
			name: "closed restriction does not restrict",
			spans: []domain.Span{
				span(domain.SpanEmployment, earlier, nil),
				span(domain.SpanSuspension, earlier.Add(time.Hour), closedAt(now.Add(-time.Hour))),
			},
			want: domain.StatusBookable,
		},
		{
			name: "open retirement not yet started is ignored",
			spans: []domain.Span{
				span(domain.SpanEmployment, earlier, nil),
				span(domain.SpanRetirement, later, nil),
			},
			want: domain.StatusBookable,
		},
		{
			name: "reemployment after release",
			spans: []domain.Span{
				span(domain.SpanEmployment, earlier, closedAt(earlier.Add(7*24*time.Hour))),
				span(domain.SpanEmployment, now.Add(-24*time.Hour), nil),
			},
			want: domain.StatusBookable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := HistoryFromSpans(tc.spans)
			got := DeriveStatus(h, now)
			if got != tc.want {
				t.Fatalf("DeriveStatus() = %s, want %s", got, tc.want)
			}
			// Derivation is pure; a second call must agree.
			if again := DeriveStatus(h, now); again != got {
				t.Fatalf("DeriveStatus() not deterministic: %s then %s", got, again)
			}
		})
	}
}

func TestDeriveActivation(t *testing.T) {
	now := baseTime
	earlier := now.Add(-10 * 24 * time.Hour)
	later := now.Add(10 * 24 * time.Hour)

	tests := []struct {
		name  string
		spans []domain.Span
		want  domain.ActivationStatus
	}{
		{"no history", nil, domain.ActivationUndebuted},
		{"open activation", []domain.Span{span(domain.SpanActivation, earlier, nil)}, domain.ActivationActive},
		{"future activation", []domain.Span{span(domain.SpanActivation, later, nil)}, domain.ActivationFuture},
		{"closed activation", []domain.Span{span(domain.SpanActivation, earlier, closedAt(now.Add(-time.Hour)))}, domain.ActivationInactive},
		{
			"retirement wins",
			[]domain.Span{
				span(domain.SpanActivation, earlier, closedAt(now.Add(-time.Hour))),
				span(domain.SpanRetirement, now.Add(-time.Hour), nil),
			},
			domain.ActivationRetired,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DeriveActivation(HistoryFromSpans(tc.spans), now)
			if got != tc.want {
				t.Fatalf("DeriveActivation() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestStatusAtHistoricalView(t *testing.T) {
	hired := baseTime
	released := baseTime.Add(60 * 24 * time.Hour)
	spans := []domain.Span{
		span(domain.SpanEmployment, hired, closedAt(released)),
	}
	h := HistoryFromSpans(spans)

	if got := StatusAt(h, hired.Add(-time.Hour)); got != domain.StatusUnemployed {
		t.Fatalf("before hire: got %s, want %s", got, domain.StatusUnemployed)
	}
	if got := StatusAt(h, hired.Add(24*time.Hour)); got != domain.StatusBookable {
		t.Fatalf("while employed: got %s, want %s", got, domain.StatusBookable)
	}
	if got := StatusAt(h, released.Add(time.Hour)); got != domain.StatusReleased {
		t.Fatalf("after release: got %s, want %s", got, domain.StatusReleased)
	}
}

func TestStatusAtIgnoresLaterSpans(t *testing.T) {
	hired := baseTime
	suspended := baseTime.Add(30 * 24 * time.Hour)
	spans := []domain.Span{
		span(domain.SpanEmployment, hired, nil),
		span(domain.SpanSuspension, suspended, nil),
	}
	h := HistoryFromSpans(spans)

	// A suspension opened later must not color the earlier instant.
	if got := StatusAt(h, hired.Add(24*time.Hour)); got != domain.StatusBookable {
		t.Fatalf("before suspension: got %s, want %s", got, domain.StatusBookable)
	}
	if got := StatusAt(h, suspended.Add(time.Hour)); got != domain.StatusSuspended {
		t.Fatalf("during suspension: got %s, want %s", got, domain.StatusSuspended)
	}
}
