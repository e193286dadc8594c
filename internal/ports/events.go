package ports

import "context"

const (
	// EventStateChanged is emitted after the builder store accepts a command.
	EventStateChanged = "builder.state_changed"
	// EventCommandRejected is emitted when a command is refused as an invariant violation.
	EventCommandRejected = "builder.command_rejected"
	// EventSectionResolved is emitted when a section type finishes resolving.
	EventSectionResolved = "sections.resolved"
	// EventSectionResolutionFailed is emitted when a section type cannot be resolved.
	EventSectionResolutionFailed = "sections.resolution_failed"
	// EventSectionsInvalidated is emitted when memoized resolutions are dropped.
	EventSectionsInvalidated = "sections.invalidated"
)

// DomainEvent represents a significant occurrence within the domain or
// application layer. Events carry structured payloads that downstream
// subscribers can use for logging, UI updates, or integrations.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous: Publish blocks until all handlers run. Handlers may spawn
// goroutines if work should continue in the background. Implementations must
// be thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Handlers should avoid
// panicking; failures should be surfaced via returned errors so publishers can
// log diagnostics and continue delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events and release resources.
type Subscription interface {
	Unsubscribe()
}
