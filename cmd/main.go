package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

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
	zapAdapter "github.com/mateusmacedo/go-railbook/pkg/infrastructure/zaplogger/adapter"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger, err := zapAdapter.NewZapAppLogger()
	if err != nil {
		panic(err)
	}

	idGenerator := pkgDomain.IDGenerator[string](pkgInfra.NewUUIDGenerator())

	var (
		trainRepo traindomain.TrainRepository
		inventory traindomain.SeatInventory
		ledger    bookingdomain.BookingLedger
	)

	// Postgres when a DSN is configured, the in-memory store otherwise.
	if dsn := os.Getenv("RAILBOOK_DSN"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			appLogger.Error(ctx, "failed to connect to postgres", map[string]interface{}{"error": err})
			panic(err)
		}

		trainStore, err := traininfra.NewGormTrainStore(db, appLogger)
		if err != nil {
			panic(err)
		}
		bookingLedger, err := bookinginfra.NewGormBookingLedger(db, appLogger)
		if err != nil {
			panic(err)
		}

		trainRepo, inventory, ledger = trainStore, trainStore, bookingLedger
	} else {
		memStore := traininfra.NewInMemoryTrainStore(appLogger)
		trainRepo, inventory = memStore, memStore
		ledger = bookinginfra.NewInMemoryBookingLedger(appLogger)
	}

	if err := traininfra.Seed(ctx, trainRepo, traininfra.DefaultTrains()); err != nil {
		appLogger.Error(ctx, "failed to seed trains", map[string]interface{}{"error": err})
		panic(err)
	}

	reserveBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[bookingapp.ReserveBookingData], bookingapp.ReserveBookingData, bookingdomain.Booking]()
	cancelBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[bookingapp.CancelBookingData], bookingapp.CancelBookingData, string]()
	listBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[bookingapp.ListBookingsData], bookingapp.ListBookingsData, []bookingdomain.Booking]()
	findBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[bookingapp.FindBookingData], bookingapp.FindBookingData, bookingdomain.Booking]()
	searchBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[trainapp.SearchTrainsData], trainapp.SearchTrainsData, []trainapp.TrainSearchResult]()
	seatMapBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[trainapp.SeatMapData], trainapp.SeatMapData, traindomain.Snapshot]()
	eventBus := pkgInfra.NewSimpleEventBus[pkgDomain.Event[string], string](appLogger)

	trainSlice := train.NewTrainSlice(searchBus, seatMapBus, trainRepo, inventory, appLogger)
	bookingSlice := booking.NewBookingSlice(reserveBus, cancelBus, listBus, findBus, eventBus, trainRepo, inventory, ledger, idGenerator, appLogger)

	router := chi.NewRouter()
	trainSlice.RegisterRoutes(router)
	bookingSlice.RegisterRoutes(router)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		appLogger.Info(ctx, "signal received", map[string]interface{}{"signal": sig.String()})
		cancel()
	}()

	serverAddress := envOr("RAILBOOK_ADDR", ":8080")
	server := &http.Server{
		Addr:    serverAddress,
		Handler: router,
	}

	go func() {
		appLogger.Info(ctx, "server starting on "+serverAddress, nil)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error(ctx, "server failed", map[string]interface{}{"error": err})
		}
	}()

	<-ctx.Done()
	appLogger.Info(ctx, "shutting down", nil)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error(context.Background(), "shutdown failed", map[string]interface{}{"error": err})
	}

	appLogger.Info(context.Background(), "server stopped", nil)
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
