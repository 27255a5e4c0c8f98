// Server variant backed by Redis: the seat inventory lives in Redis sets
// (atomic occupy via Lua) and booking events travel over Redis streams.
// The catalog and ledger stay in memory; Redis owns only the contended state.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbook/internal/booking"
	bookingapp "github.com/mateusmacedo/go-railbook/internal/booking/application"
	bookingdomain "github.com/mateusmacedo/go-railbook/internal/booking/domain"
	bookinginfra "github.com/mateusmacedo/go-railbook/internal/booking/infrastructure"
	"github.com/mateusmacedo/go-railbook/internal/train"
	trainapp "github.com/mateusmacedo/go-railbook/internal/train/application"
	traindomain "github.com/mateusmacedo/go-railbook/internal/train/domain"
	traininfra "github.com/mateusmacedo/go-railbook/internal/train/infrastructure"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railbook/pkg/infrastructure"
	redisAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/redis/adapter"
	watermillAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/watermill/adapter"
	zapAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	client := redisAdapter.NewRedisClient(envOr("RAILBOOK_REDIS_ADDR", "localhost:6379"))
	defer client.Close()

	watermillLogger := watermillAdapter.NewWatermillLoggerAdapter(appLogger)

	publisher, err := redisAdapter.NewRedisStreamPublisher(client, watermillLogger)
	if err != nil {
		panic(err)
	}
	defer publisher.Close()

	subscriber, err := redisAdapter.NewRedisStreamSubscriber(client, "railbook", watermillLogger)
	if err != nil {
		panic(err)
	}
	defer subscriber.Close()

	catalog := traininfra.NewInMemoryTrainStore(appLogger)
	inventory := traininfra.NewRedisSeatInventory(client, appLogger)
	ledger := bookinginfra.NewInMemoryBookingLedger(appLogger)

	for _, t := range traininfra.DefaultTrains() {
		if err := catalog.Save(ctx, t); err != nil {
			panic(err)
		}
		if err := inventory.SeedTrain(ctx, t); err != nil {
			appLogger.Error(ctx, "failed to seed redis inventory", map[string]interface{}{
				"train_id": t.ID,
				"error":    err,
			})
			panic(err)
		}
	}

	idGenerator := pkgDomain.IDGenerator[string](pkgInfra.NewUUIDGenerator())

	reserveBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[bookingapp.ReserveBookingData], bookingapp.ReserveBookingData, bookingdomain.Booking]()
	cancelBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[bookingapp.CancelBookingData], bookingapp.CancelBookingData, string]()
	listBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[bookingapp.ListBookingsData], bookingapp.ListBookingsData, []bookingdomain.Booking]()
	findBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[bookingapp.FindBookingData], bookingapp.FindBookingData, bookingdomain.Booking]()
	searchBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[trainapp.SearchTrainsData], trainapp.SearchTrainsData, []trainapp.TrainSearchResult]()
	seatMapBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[trainapp.SeatMapData], trainapp.SeatMapData, traindomain.Snapshot]()
	eventBus := watermillAdapter.NewWatermillEventBus[pkgDomain.Event[string], string](publisher, subscriber, appLogger)

	trainSlice := train.NewTrainSlice(searchBus, seatMapBus, catalog, inventory, appLogger)
	bookingSlice := booking.NewBookingSlice(reserveBus, cancelBus, listBus, findBus, eventBus, catalog, inventory, ledger, idGenerator, appLogger)

	router := chi.NewRouter()
	trainSlice.RegisterRoutes(router)
	bookingSlice.RegisterRoutes(router)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		cancel()
	}()

	serverAddress := envOr("RAILBOOK_ADDR", ":8080")
	server := &http.Server{Addr: serverAddress, Handler: router}

	go func() {
		appLogger.Info(ctx, "server starting on "+serverAddress, nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(ctx, "server failed", map[string]interface{}{"error": err})
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(context.Background(), "shutdown failed", map[string]interface{}{"error": err})
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
