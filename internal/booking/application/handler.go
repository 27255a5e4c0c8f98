package application

import (
	"context"

	"github.com/mateusmacedo/go-railbook/internal/booking/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

type reserveBookingHandler struct {
	engine   *domain.Engine
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string]
	logger   pkgApp.AppLogger
}

func (h *reserveBookingHandler) Handle(ctx context.Context, command pkgDomain.Command[ReserveBookingData]) (domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return domain.Booking{}, err
	}

	data := command.Payload()
	booking, err := h.engine.Reserve(ctx, data.TrainID, data.Passengers)
	if err != nil {
		// Conflicts and validation failures are caller outcomes, not engine
		// faults; they are logged where they surface.
		return domain.Booking{}, err
	}

	if err := h.eventBus.Publish(ctx, NewBookingConfirmedEvent(booking.ID)); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to publish booking confirmation", err, map[string]interface{}{
			"booking_id": booking.ID,
		})
	}

	return booking, nil
}

func NewReserveBookingHandler(engine *domain.Engine, eventBus pkgApp.EventBus[pkgDomain.Event[string], string], logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[ReserveBookingData], ReserveBookingData, domain.Booking] {
	return &reserveBookingHandler{engine: engine, eventBus: eventBus, logger: logger}
}

type cancelBookingHandler struct {
	engine   *domain.Engine
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string]
	logger   pkgApp.AppLogger
}

func (h *cancelBookingHandler) Handle(ctx context.Context, command pkgDomain.Command[CancelBookingData]) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data := command.Payload()
	if err := h.engine.Cancel(ctx, data.BookingID); err != nil {
		return "", err
	}

	if err := h.eventBus.Publish(ctx, NewBookingCancelledEvent(data.BookingID)); err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to publish booking cancellation", err, map[string]interface{}{
			"booking_id": data.BookingID,
		})
	}

	return data.BookingID, nil
}

func NewCancelBookingHandler(engine *domain.Engine, eventBus pkgApp.EventBus[pkgDomain.Event[string], string], logger pkgApp.AppLogger) pkgApp.CommandHandler[pkgDomain.Command[CancelBookingData], CancelBookingData, string] {
	return &cancelBookingHandler{engine: engine, eventBus: eventBus, logger: logger}
}

type listBookingsHandler struct {
	ledger domain.BookingLedger
	logger pkgApp.AppLogger
}

func (h *listBookingsHandler) Handle(ctx context.Context, query pkgDomain.Query[ListBookingsData]) ([]domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bookings, err := h.ledger.FindAll(ctx)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to list bookings", err, nil)
		return nil, err
	}
	return bookings, nil
}

func NewListBookingsHandler(ledger domain.BookingLedger, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[ListBookingsData], ListBookingsData, []domain.Booking] {
	return &listBookingsHandler{ledger: ledger, logger: logger}
}

type findBookingHandler struct {
	ledger domain.BookingLedger
	logger pkgApp.AppLogger
}

func (h *findBookingHandler) Handle(ctx context.Context, query pkgDomain.Query[FindBookingData]) (domain.Booking, error) {
	if err := ctx.Err(); err != nil {
		return domain.Booking{}, err
	}

	return h.ledger.FindByID(ctx, query.Payload().BookingID)
}

func NewFindBookingHandler(ledger domain.BookingLedger, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[FindBookingData], FindBookingData, domain.Booking] {
	return &findBookingHandler{ledger: ledger, logger: logger}
}

type bookingEventLogger struct {
	logger pkgApp.AppLogger
}

func (h *bookingEventLogger) Handle(ctx context.Context, event pkgDomain.Event[string]) error {
	pkgApp.LogInfo(ctx, h.logger, "booking event received", map[string]interface{}{
		"event_name": event.EventName(),
		"booking_id": event.Payload(),
	})
	return nil
}

// NewBookingEventLogger records confirmations and cancellations as they flow
// through the event bus.
func NewBookingEventLogger(logger pkgApp.AppLogger) pkgApp.EventHandler[pkgDomain.Event[string], string] {
	return &bookingEventLogger{logger: logger}
}
