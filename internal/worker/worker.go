package worker

import (
	"github.com/ringside/roster-service/internal/events"
	"github.com/ringside/roster-service/internal/service"
)

// Subscriber registers event handlers on a dispatcher.
type Subscriber interface {
	RegisterHandlers(dispatcher events.Dispatcher)
}

// Register wires the post-commit subscribers (audit logging, cache
// invalidation) onto the dispatcher.
func Register(dispatcher events.Dispatcher, subscribers ...Subscriber) {
	for _, subscriber := range subscribers {
		if subscriber != nil {
			subscriber.RegisterHandlers(dispatcher)
		}
	}
}

var (
	_ Subscriber = (*service.AuditService)(nil)
	_ Subscriber = (*service.StatusCache)(nil)
)
