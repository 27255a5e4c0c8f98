package application

import (
	"context"

	"github.com/mateusmacedo/go-railbook/pkg/domain"
)

// EventHandler reacts to a published event.
type EventHandler[E domain.Event[D], D any] interface {
	Handle(ctx context.Context, event E) error
}

// EventBus fans events out to every handler registered for their name.
// Publishing an event nobody listens to is not an error.
type EventBus[E domain.Event[D], D any] interface {
	RegisterHandler(eventName string, handler EventHandler[E, D])
	Publish(ctx context.Context, event E) error
}
