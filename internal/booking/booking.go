package booking

import (
	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbook/internal/booking/application"
	"github.com/mateusmacedo/go-railbook/internal/booking/domain"
	"github.com/mateusmacedo/go-railbook/internal/booking/infrastructure"
	traindomain "github.com/mateusmacedo/go-railbook/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

// BookingSlice wires the reservation engine, its command/query handlers and
// the HTTP surface together.
type BookingSlice struct {
	engine      *domain.Engine
	httpHandler *infrastructure.BookingHTTPHandler
}

func NewBookingSlice(
	reserveBus pkgApp.CommandBus[pkgDomain.Command[application.ReserveBookingData], application.ReserveBookingData, domain.Booking],
	cancelBus pkgApp.CommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData, string],
	listBus pkgApp.QueryBus[pkgDomain.Query[application.ListBookingsData], application.ListBookingsData, []domain.Booking],
	findBus pkgApp.QueryBus[pkgDomain.Query[application.FindBookingData], application.FindBookingData, domain.Booking],
	eventBus pkgApp.EventBus[pkgDomain.Event[string], string],
	trains traindomain.TrainRepository,
	inventory traindomain.SeatInventory,
	ledger domain.BookingLedger,
	idGenerator pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
) *BookingSlice {
	engine := domain.NewEngine(trains, inventory, ledger, idGenerator, logger)

	reserveBus.RegisterHandler("ReserveBooking", application.NewReserveBookingHandler(engine, eventBus, logger))
	cancelBus.RegisterHandler("CancelBooking", application.NewCancelBookingHandler(engine, eventBus, logger))
	listBus.RegisterHandler("ListBookings", application.NewListBookingsHandler(ledger, logger))
	findBus.RegisterHandler("FindBooking", application.NewFindBookingHandler(ledger, logger))

	eventLogger := application.NewBookingEventLogger(logger)
	eventBus.RegisterHandler("BookingConfirmed", eventLogger)
	eventBus.RegisterHandler("BookingCancelled", eventLogger)

	return &BookingSlice{
		engine:      engine,
		httpHandler: infrastructure.NewBookingHTTPHandler(reserveBus, cancelBus, listBus, findBus),
	}
}

// Engine exposes the reservation engine to callers outside the HTTP path
// (the draft selector demo, tests).
func (s *BookingSlice) Engine() *domain.Engine {
	return s.engine
}

func (s *BookingSlice) RegisterRoutes(router *chi.Mux) {
	s.httpHandler.RegisterRoutes(router)
}
