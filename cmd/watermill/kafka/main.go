// Server variant publishing booking events to Kafka. Storage is the
// in-memory store; only the event transport differs from cmd/main.go.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
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
	kafkaAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/kafka/adapter"
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

	brokers := strings.Split(envOr("RAILBOOK_KAFKA_BROKERS", "localhost:9092"), ",")
	watermillLogger := watermillAdapter.NewWatermillLoggerAdapter(appLogger)

	publisher, err := kafkaAdapter.NewKafkaPublisher(brokers, watermillLogger)
	if err != nil {
		appLogger.Error(ctx, "failed to create kafka publisher", map[string]interface{}{"error": err})
		panic(err)
	}
	defer publisher.Close()

	subscriber, err := kafkaAdapter.NewKafkaSubscriber(brokers, "railbook", watermillLogger)
	if err != nil {
		appLogger.Error(ctx, "failed to create kafka subscriber", map[string]interface{}{"error": err})
		panic(err)
	}
	defer subscriber.Close()

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
	eventBus := watermillAdapter.NewWatermillEventBus[pkgDomain.Event[string], string](publisher, subscriber, appLogger)

	trainSlice := train.NewTrainSlice(searchBus, seatMapBus, memStore, memStore, appLogger)
	bookingSlice := booking.NewBookingSlice(reserveBus, cancelBus, listBus, findBus, eventBus, memStore, memStore, ledger, idGenerator, appLogger)

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
