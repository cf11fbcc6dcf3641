package contact

import (
	"time"

	"github.com/google/uuid"

	"github.com/zeusync/collide/internal/core/systems/physics/sat"
)

// Dispatcher is a thread-safe, in-process fan-out of contact events.
//
// Key characteristics:
// - Kind-based routing: handlers subscribe to Begin, Persist or End, or to all three.
// - Synchronous delivery in subscription order, in the publisher's goroutine.
// - Error aggregation: handler errors are joined and returned from Publish.
// - Metrics are collected only while at least one observer is registered.
type Dispatcher interface {
	// Publish delivers each event, in order, to the handlers of its kind.
	Publish(events ...Event) error
	// PublishWithFilters drops the event silently if any filter rejects it.
	PublishWithFilters(event Event, filters ...Filter) error
	// PublishAsync publishes in a separate goroutine. The returned channel
	// receives the joined error (or nil) and is then closed.
	PublishAsync(events ...Event) <-chan error

	// Subscribe registers a handler for one kind of event.
	Subscribe(kind Kind, handler Handler) (Subscription, error)
	// SubscribeAll registers a handler for every kind.
	SubscribeAll(handler Handler) (Subscription, error)
	// Unsubscribe cancels sub. Nil is ignored.
	Unsubscribe(sub Subscription) error

	AddObserver(obs Observer)
	RemoveObserver(obs Observer)
	GetMetrics() Metrics
}

// Kind is the phase of a contact between two bodies.
type Kind uint8

const (
	// Begin is emitted on the first step two bodies overlap.
	Begin Kind = iota + 1
	// Persist is emitted on every later step they still overlap.
	Persist
	// End is emitted on the first step they no longer overlap, or when one
	// of them is removed.
	End
)

var kinds = [...]Kind{Begin, Persist, End}

func (k Kind) String() string {
	switch k {
	case Begin:
		return "begin"
	case Persist:
		return "persist"
	case End:
		return "end"
	default:
		return "unknown"
	}
}

// Contact describes two overlapping bodies. A is the body registered first.
// MTV.Axis points from B towards A, so pushing A along it by MTV.Overlap
// separates the pair. End events carry the last known MTV.
type Contact struct {
	A    uuid.UUID
	B    uuid.UUID
	MTV  sat.MTV
	Step uint64
}

// Event is an immutable contact notification.
type Event struct {
	Kind      Kind
	Contact   Contact
	Timestamp time.Time
}

func NewEvent(kind Kind, c Contact) Event {
	return Event{Kind: kind, Contact: c, Timestamp: time.Now()}
}

type (
	// Handler is invoked per delivered event. Returned errors are aggregated.
	Handler func(event Event) error
	// Filter decides whether an event is delivered at all.
	Filter func(event Event) bool
)

// Subscription is a registered handler. Cancel is safe to call repeatedly.
type Subscription interface {
	ID() string
	Kinds() []Kind
	IsActive() bool
	Cancel() error
}

// Observer is notified about deliveries. Observers should return quickly.
type Observer interface {
	OnPublish(event Event)
	OnDelivered(event Event, handlers int, err error, took time.Duration)
}

type Metrics struct {
	Published         uint64
	DeliveredHandlers uint64
	Errors            uint64
	DroppedByFilters  uint64
	SubscribersActive uint64
}
