// End-to-end exercise of the booking flow over the in-process watermill
// transport: stage seats in a draft session, reserve, provoke a conflict,
// cancel, and verify the inventory returned to its initial state.
package main

import (
	"context"
	"time"

	"github.com/mateusmacedo/go-railbook/internal/booking"
	bookingapp "github.com/mateusmacedo/go-railbook/internal/booking/application"
	bookingdomain "github.com/mateusmacedo/go-railbook/internal/booking/domain"
	bookinginfra "github.com/mateusmacedo/go-railbook/internal/booking/infrastructure"
	"github.com/mateusmacedo/go-railbook/internal/draft"
	"github.com/mateusmacedo/go-railbook/internal/train"
	trainapp "github.com/mateusmacedo/go-railbook/internal/train/application"
	traindomain "github.com/mateusmacedo/go-railbook/internal/train/domain"
	traininfra "github.com/mateusmacedo/go-railbook/internal/train/infrastructure"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railbook/pkg/infrastructure"
	channelsAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/channels/adapter"
	watermillAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	watermillLogger := watermillAdapter.NewWatermillLoggerAdapter(appLogger)
	pubSub := channelsAdapter.NewGoChannelPubSub(watermillLogger)
	defer pubSub.Close()

	memStore := traininfra.NewInMemoryTrainStore(appLogger)
	ledger := bookinginfra.NewInMemoryBookingLedger(appLogger)
	if err := traininfra.Seed(ctx, memStore, traininfra.DefaultTrains()); err != nil {
		panic(err)
	}

	idGenerator := pkgDomain.IDGenerator[string](pkgInfra.NewUUIDGenerator())

	reserveBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[bookingapp.ReserveBookingData], bookingapp.ReserveBookingData, bookingdomain.Booking]()
	cancelBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[bookingapp.CancelBookingData], bookingapp.CancelBookingData, string]()
	listBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[bookingapp.ListBookingsData], bookingapp.ListBookingsData, []bookingdomain.Booking]()
	findBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[bookingapp.FindBookingData], bookingapp.FindBookingData, bookingdomain.Booking]()
	searchBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[trainapp.SearchTrainsData], trainapp.SearchTrainsData, []trainapp.TrainSearchResult]()
	seatMapBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[trainapp.SeatMapData], trainapp.SeatMapData, traindomain.Snapshot]()
	eventBus := watermillAdapter.NewWatermillEventBus[pkgDomain.Event[string], string](pubSub, pubSub, appLogger)

	train.NewTrainSlice(searchBus, seatMapBus, memStore, memStore, appLogger)
	booking.NewBookingSlice(reserveBus, cancelBus, listBus, findBus, eventBus, memStore, memStore, ledger, idGenerator, appLogger)

	// Stage two passengers on T001 through a draft session.
	snapshot, err := memStore.Snapshot(ctx, "T001")
	if err != nil {
		panic(err)
	}
	session := draft.NewSession(snapshot)
	_ = session.UpdatePassenger(0, "Ana Souza", 34, "Female")
	if err := session.SelectSeat("1A"); err != nil {
		panic(err)
	}
	session.AddPassenger()
	_ = session.UpdatePassenger(1, "Rui Souza", 36, "Male")
	if err := session.SelectSeat("1B"); err != nil {
		panic(err)
	}

	passengers, err := session.Passengers()
	if err != nil {
		panic(err)
	}

	committed, err := reserveBus.Dispatch(ctx, bookingapp.NewReserveBookingCommand(bookingapp.ReserveBookingData{
		TrainID:    session.TrainID(),
		Passengers: passengers,
	}))
	if err != nil {
		appLogger.Error(ctx, "reserve failed", map[string]interface{}{"error": err})
		return
	}
	appLogger.Info(ctx, "booking created", map[string]interface{}{
		"booking_id": committed.ID,
		"total_fare": committed.TotalFare,
	})

	// A second request for 1A must lose: first committer wins.
	_, err = reserveBus.Dispatch(ctx, bookingapp.NewReserveBookingCommand(bookingapp.ReserveBookingData{
		TrainID:    "T001",
		Passengers: []bookingdomain.Passenger{{Name: "Leo Costa", Age: 28, Gender: "Male", Seat: "1A"}},
	}))
	appLogger.Info(ctx, "conflicting reserve rejected", map[string]interface{}{"error": err})

	if _, err := cancelBus.Dispatch(ctx, bookingapp.NewCancelBookingCommand(bookingapp.CancelBookingData{
		BookingID: committed.ID,
	})); err != nil {
		appLogger.Error(ctx, "cancel failed", map[string]interface{}{"error": err})
		return
	}

	snapshot, err = memStore.Snapshot(ctx, "T001")
	if err != nil {
		panic(err)
	}
	appLogger.Info(ctx, "inventory after round trip", map[string]interface{}{
		"occupied":  snapshot.OccupiedSeats,
		"available": snapshot.AvailableCount,
	})

	// Let the event subscribers drain before the pubsub closes.
	time.Sleep(500 * time.Millisecond)
}
