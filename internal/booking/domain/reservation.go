package domain

import (
	"context"
	"time"

	traindomain "github.com/mateusmacedo/go-railbook/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

// Engine validates booking requests and applies them against the seat
// inventory. All seat assignment in the system routes through Reserve and
// Cancel; nothing else may mutate inventory or the ledger.
//
// The engine holds no locks of its own. The inventory's TryOccupy/Release
// pair is the mutual-exclusion boundary, so concurrent Reserve calls for
// overlapping seats resolve there: first committer wins, the loser gets a
// SeatConflictError.
type Engine struct {
	trains    traindomain.TrainRepository
	inventory traindomain.SeatInventory
	ledger    BookingLedger
	newID     pkgDomain.IDGenerator[string]
	logger    pkgApp.AppLogger
	now       func() time.Time
}

func NewEngine(
	trains traindomain.TrainRepository,
	inventory traindomain.SeatInventory,
	ledger BookingLedger,
	newID pkgDomain.IDGenerator[string],
	logger pkgApp.AppLogger,
) *Engine {
	return &Engine{
		trains:    trains,
		inventory: inventory,
		ledger:    ledger,
		newID:     newID,
		logger:    logger,
		now:       time.Now,
	}
}

// Reserve books every passenger's seat on the train, or nothing at all.
//
// Request validation (empty list, missing seat, in-request duplicate) runs
// before any shared state is read. The whole seat set then goes through one
// TryOccupy call; checking seats one by one would leave a window between
// validation and commit for another booking to slip into.
func (e *Engine) Reserve(ctx context.Context, trainID string, passengers []Passenger) (Booking, error) {
	if len(passengers) == 0 {
		return Booking{}, ErrNoPassengers
	}

	seats := make([]string, 0, len(passengers))
	seen := make(map[string]struct{}, len(passengers))
	for i, p := range passengers {
		if p.Seat == "" {
			return Booking{}, &MissingSeatError{Passenger: i}
		}
		if _, dup := seen[p.Seat]; dup {
			return Booking{}, &DuplicateSeatError{Seat: p.Seat}
		}
		seen[p.Seat] = struct{}{}
		seats = append(seats, p.Seat)
	}

	// Fare comes from the record fetched here, before the inventory's
	// exclusion point; no I/O happens while seats are being committed.
	train, err := e.trains.FindByID(ctx, trainID)
	if err != nil {
		return Booking{}, err
	}

	if err := e.inventory.TryOccupy(ctx, trainID, seats); err != nil {
		return Booking{}, err
	}

	booking := Booking{
		ID:         e.newID(),
		TrainID:    train.ID,
		Passengers: passengers,
		TotalFare:  train.Price * float64(len(passengers)),
		CreatedAt:  e.now().UTC(),
	}

	if err := e.ledger.Save(ctx, booking); err != nil {
		// Compensate so the occupied set never holds seats no booking owns.
		if relErr := e.inventory.Release(ctx, trainID, seats); relErr != nil {
			pkgApp.LogError(ctx, e.logger, "failed to release seats after ledger failure", relErr, map[string]interface{}{
				"train_id": trainID,
				"seats":    seats,
			})
		}
		return Booking{}, err
	}

	pkgApp.LogInfo(ctx, e.logger, "booking committed", map[string]interface{}{
		"booking_id": booking.ID,
		"train_id":   trainID,
		"seats":      seats,
	})
	return booking, nil
}

// Cancel removes the booking and returns its seats to the inventory.
//
// The ledger delete happens first: under a concurrent double-cancel exactly
// one caller wins the delete, so the idempotent release that follows runs
// at most once per successful cancel and seats freed here can be resold
// immediately.
func (e *Engine) Cancel(ctx context.Context, bookingID string) error {
	booking, err := e.ledger.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := e.ledger.Delete(ctx, bookingID); err != nil {
		return err
	}

	if err := e.inventory.Release(ctx, booking.TrainID, booking.Seats()); err != nil {
		pkgApp.LogError(ctx, e.logger, "failed to release seats on cancel", err, map[string]interface{}{
			"booking_id": bookingID,
			"train_id":   booking.TrainID,
		})
		return err
	}

	pkgApp.LogInfo(ctx, e.logger, "booking cancelled", map[string]interface{}{
		"booking_id": bookingID,
		"train_id":   booking.TrainID,
		"seats":      booking.Seats(),
	})
	return nil
}
