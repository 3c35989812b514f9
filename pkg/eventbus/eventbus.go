// Package eventbus defines the contract for publishing and handling domain events.
package eventbus

import "context"

// Event is anything that names its own type.
type Event interface {
	Type() string
}

// HandlerFunc handles one event.
type HandlerFunc func(ctx context.Context, e Event) error

// Bus defines the contract for publishing and subscribing to domain events.
type Bus interface {
	Register(eventType string, handler HandlerFunc)
	Emit(ctx context.Context, e Event) error
}
