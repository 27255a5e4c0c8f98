package infrastructure

import (
	"context"
	"fmt"
	"sync"

	"github.com/mateusmacedo/go-railbook/pkg/application"
	"github.com/mateusmacedo/go-railbook/pkg/domain"
)

type simpleEventBus[E domain.Event[D], D any] struct {
	handlers map[string][]application.EventHandler[E, D]
	mu       sync.RWMutex
	logger   application.AppLogger
}

// NewSimpleEventBus creates an in-process event bus that runs every handler
// concurrently and waits for all of them before returning.
func NewSimpleEventBus[E domain.Event[D], D any](logger application.AppLogger) application.EventBus[E, D] {
	return &simpleEventBus[E, D]{
		handlers: make(map[string][]application.EventHandler[E, D]),
		logger:   logger,
	}
}

func (bus *simpleEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[eventName] = append(bus.handlers[eventName], handler)
}

func (bus *simpleEventBus[E, D]) Publish(ctx context.Context, event E) error {
	bus.mu.RLock()
	handlers := bus.handlers[event.EventName()]
	bus.mu.RUnlock()

	if len(handlers) == 0 {
		bus.logger.Debug(ctx, "no handlers registered for event", map[string]interface{}{
			"event_name": event.EventName(),
		})
		return nil
	}

	var wg sync.WaitGroup
	errChan := make(chan error, len(handlers))

	for _, handler := range handlers {
		wg.Add(1)
		go func(h application.EventHandler[E, D]) {
			defer wg.Done()
			if err := h.Handle(ctx, event); err != nil {
				errChan <- err
			}
		}(handler)
	}

	wg.Wait()
	close(errChan)

	var errs []error
	for err := range errChan {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		application.LogError(ctx, bus.logger, "event handlers failed", nil, map[string]interface{}{
			"event_name": event.EventName(),
			"errors":     errs,
		})
		return fmt.Errorf("event %q: %v", event.EventName(), errs)
	}
	return nil
}
