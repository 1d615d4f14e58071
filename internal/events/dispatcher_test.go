package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []string
	d.Subscribe(EventStatusChanged, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.EntityID)
		return nil
	})
	d.Subscribe(EventStatusChanged, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.EntityID)
		return nil
	})
	d.Subscribe(EventActivationChanged, func(_ context.Context, _ Event) error {
		t.Error("handler for a different event type must not fire")
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventStatusChanged, EntityID: "w-1"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(got) != 2 || got[0] != "first:w-1" || got[1] != "second:w-1" {
		t.Fatalf("deliveries = %v", got)
	}
}

func TestDispatcherSurvivesHandlerErrors(t *testing.T) {
	d := NewInMemoryDispatcher()

	delivered := false
	d.Subscribe(EventMatchBooked, func(_ context.Context, _ Event) error {
		return errors.New("handler failure")
	})
	d.Subscribe(EventMatchBooked, func(_ context.Context, _ Event) error {
		delivered = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventMatchBooked}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if !delivered {
		t.Fatal("expected delivery to continue past a failing handler")
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	if err := d.Publish(context.Background(), Event{Type: EventMembershipOpened}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
}
