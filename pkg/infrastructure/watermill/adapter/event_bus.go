package adapter

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/mateusmacedo/go-railbook/pkg/application"
	"github.com/mateusmacedo/go-railbook/pkg/domain"
)

// WatermillEventBus publishes events to a watermill publisher and delivers
// them to local handlers through the matching subscriber. It works with any
// transport pair (gochannel, kafka, redis streams); handlers only ever run on
// consumed messages, so a single publish is handled exactly once per
// subscriber group regardless of how many processes publish.
type WatermillEventBus[E domain.Event[D], D any] struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     application.AppLogger
}

func NewWatermillEventBus[E domain.Event[D], D any](publisher message.Publisher, subscriber message.Subscriber, logger application.AppLogger) *WatermillEventBus[E, D] {
	return &WatermillEventBus[E, D]{
		publisher:  publisher,
		subscriber: subscriber,
		logger:     logger,
	}
}

// RegisterHandler subscribes to the event's topic and pumps consumed
// messages through the handler until the subscriber is closed.
func (bus *WatermillEventBus[E, D]) RegisterHandler(eventName string, handler application.EventHandler[E, D]) {
	ctx := context.Background()

	messages, err := bus.subscriber.Subscribe(ctx, eventName)
	if err != nil {
		application.LogError(ctx, bus.logger, "error subscribing to event", err, map[string]interface{}{
			"event_name": eventName,
		})
		return
	}

	go func() {
		for msg := range messages {
			bus.handleMessage(ctx, eventName, handler, msg)
		}
	}()
}

func (bus *WatermillEventBus[E, D]) handleMessage(ctx context.Context, eventName string, handler application.EventHandler[E, D], msg *message.Message) {
	var payload D
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		application.LogError(ctx, bus.logger, "error unmarshalling event payload", err, map[string]interface{}{
			"event_name": eventName,
		})
		msg.Nack()
		return
	}

	event := &dynamicEvent[D]{eventName: eventName, payload: payload}

	typedEvent, ok := interface{}(event).(E)
	if !ok {
		bus.logger.Error(ctx, "error asserting event type", map[string]interface{}{
			"event_name": eventName,
		})
		msg.Nack()
		return
	}

	if err := handler.Handle(ctx, typedEvent); err != nil {
		application.LogError(ctx, bus.logger, "error handling event", err, map[string]interface{}{
			"event_name": eventName,
		})
		msg.Nack()
		return
	}

	msg.Ack()
}

func (bus *WatermillEventBus[E, D]) Publish(ctx context.Context, event E) error {
	payload, err := json.Marshal(event.Payload())
	if err != nil {
		application.LogError(ctx, bus.logger, "error marshalling event payload", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := bus.publisher.Publish(event.EventName(), msg); err != nil {
		application.LogError(ctx, bus.logger, "error publishing event", err, map[string]interface{}{
			"event_name": event.EventName(),
		})
		return err
	}

	bus.logger.Debug(ctx, "event published", map[string]interface{}{
		"event_name": event.EventName(),
	})
	return nil
}

// dynamicEvent reconstructs a typed event from a consumed message.
type dynamicEvent[D any] struct {
	eventName string
	payload   D
}

func (e *dynamicEvent[D]) EventName() string {
	return e.eventName
}

func (e *dynamicEvent[D]) Payload() D {
	return e.payload
}
