package domain

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"

	traindomain "github.com/mateusmacedo/go-railbook/internal/train/domain"
	traininfra "github.com/mateusmacedo/go-railbook/internal/train/infrastructure"
	"github.com/mateusmacedo/go-railbook/pkg/application"
)

// memoryLedger is a minimal in-package ledger double; the real in-memory
// implementation lives in the infrastructure package, which imports this one.
type memoryLedger struct {
	mu       sync.Mutex
	data     map[string]Booking
	failSave bool
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{data: make(map[string]Booking)}
}

func (l *memoryLedger) Save(ctx context.Context, booking Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failSave {
		return errors.New("ledger unavailable")
	}
	l.data[booking.ID] = booking
	return nil
}

func (l *memoryLedger) FindByID(ctx context.Context, id string) (Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	booking, ok := l.data[id]
	if !ok {
		return Booking{}, ErrBookingNotFound
	}
	return booking, nil
}

func (l *memoryLedger) FindAll(ctx context.Context) ([]Booking, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	bookings := make([]Booking, 0, len(l.data))
	for _, b := range l.data {
		bookings = append(bookings, b)
	}
	return bookings, nil
}

func (l *memoryLedger) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.data[id]; !ok {
		return ErrBookingNotFound
	}
	delete(l.data, id)
	return nil
}

func newTestEngine(t *testing.T, totalSeats int) (*Engine, *traininfra.InMemoryTrainStore, *memoryLedger) {
	t.Helper()

	store := traininfra.NewInMemoryTrainStore(application.NewNopLogger())
	err := store.Save(context.Background(), traindomain.Train{
		ID:             "T001",
		Name:           "Capital Express",
		Price:          2500,
		TotalSeats:     totalSeats,
		SeatsAvailable: totalSeats,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	ledger := newMemoryLedger()
	var counter int
	newID := func() string {
		counter++
		return fmt.Sprintf("B%03d", counter)
	}

	return NewEngine(store, store, ledger, newID, application.NewNopLogger()), store, ledger
}

func TestReserveCommitsAllSeats(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newTestEngine(t, 2)

	booking, err := engine.Reserve(ctx, "T001", []Passenger{
		{Name: "Ana", Age: 34, Gender: "Female", Seat: "1A"},
		{Name: "Rui", Age: 36, Gender: "Male", Seat: "1B"},
	})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}
	if booking.TotalFare != 5000 {
		t.Fatalf("expected fare 5000, got %v", booking.TotalFare)
	}
	if booking.CreatedAt.IsZero() {
		t.Fatalf("expected CreatedAt to be set")
	}

	snapshot, err := store.Snapshot(ctx, "T001")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if snapshot.AvailableCount != 0 {
		t.Fatalf("expected 0 available, got %d", snapshot.AvailableCount)
	}

	// The train is full now; any further request must lose.
	_, err = engine.Reserve(ctx, "T001", []Passenger{{Name: "Leo", Age: 28, Gender: "Male", Seat: "1A"}})
	var conflict *traindomain.SeatConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected SeatConflictError, got %v", err)
	}
	if !reflect.DeepEqual(conflict.Seats, []string{"1A"}) {
		t.Fatalf("expected conflict on 1A, got %v", conflict.Seats)
	}
}

func TestReserveRejectsDuplicateSeatInRequest(t *testing.T) {
	ctx := context.Background()
	engine, store, _ := newTestEngine(t, 12)

	_, err := engine.Reserve(ctx, "T001", []Passenger{
		{Name: "Ana", Age: 34, Gender: "Female", Seat: "2A"},
		{Name: "Rui", Age: 36, Gender: "Male", Seat: "2A"},
	})
	var dup *DuplicateSeatError
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateSeatError, got %v", err)
	}
	if dup.Seat != "2A" {
		t.Fatalf("expected duplicate seat 2A, got %q", dup.Seat)
	}

	// Inventory must be untouched by the rejected request.
	snapshot, err := store.Snapshot(ctx, "T001")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snapshot.OccupiedSeats) != 0 {
		t.Fatalf("inventory touched by invalid request: %v", snapshot.OccupiedSeats)
	}
}

func TestReserveValidationErrors(t *testing.T) {
	ctx := context.Background()
	engine, _, _ := newTestEngine(t, 12)

	if _, err := engine.Reserve(ctx, "T001", nil); !errors.Is(err, ErrNoPassengers) {
		t.Fatalf("expected ErrNoPassengers, got %v", err)
	}

	_, err := engine.Reserve(ctx, "T001", []Passenger{
		{Name: "Ana", Age: 34, Gender: "Female", Seat: "1A"},
		{Name: "Rui", Age: 36, Gender: "Male"},
	})
	var missing *MissingSeatError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingSeatError, got %v", err)
	}
	if missing.Passenger != 1 {
		t.Fatalf("expected passenger index 1, got %d", missing.Passenger)
	}

	if _, err := engine.Reserve(ctx, "T999", []Passenger{{Name: "Ana", Age: 34, Seat: "1A"}}); !errors.Is(err, traindomain.ErrTrainNotFound) {
		t.Fatalf("expected ErrTrainNotFound, got %v", err)
	}
}

func TestReserveThenCancelRestoresInventory(t *testing.T) {
	ctx := context.Background()
	engine, store, ledger := newTestEngine(t, 12)

	before, err := store.Snapshot(ctx, "T001")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}

	booking, err := engine.Reserve(ctx, "T001", []Passenger{
		{Name: "Ana", Age: 34, Gender: "Female", Seat: "1A"},
		{Name: "Rui", Age: 36, Gender: "Male", Seat: "1B"},
	})
	if err != nil {
		t.Fatalf("Reserve: %v", err)
	}

	if err := engine.Cancel(ctx, booking.ID); err != nil {
		t.Fatalf("Cancel: %v", err)
	}

	after, err := store.Snapshot(ctx, "T001")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !reflect.DeepEqual(before.OccupiedSeats, after.OccupiedSeats) || before.AvailableCount != after.AvailableCount {
		t.Fatalf("inventory not restored: before=%v after=%v", before, after)
	}

	if _, err := ledger.FindByID(ctx, booking.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected booking gone from ledger, got %v", err)
	}
	if err := engine.Cancel(ctx, booking.ID); !errors.Is(err, ErrBookingNotFound) {
		t.Fatalf("expected ErrBookingNotFound on second cancel, got %v", err)
	}
}

func TestReserveCompensatesWhenLedgerFails(t *testing.T) {
	ctx := context.Background()
	engine, store, ledger := newTestEngine(t, 12)
	ledger.failSave = true

	_, err := engine.Reserve(ctx, "T001", []Passenger{{Name: "Ana", Age: 34, Gender: "Female", Seat: "1A"}})
	if err == nil {
		t.Fatalf("expected ledger failure to propagate")
	}
	var conflict *traindomain.SeatConflictError
	if errors.As(err, &conflict) {
		t.Fatalf("storage failure must not be masked as a domain error, got %v", err)
	}

	// Seats occupied for the failed booking must have been released.
	snapshot, err := store.Snapshot(ctx, "T001")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snapshot.OccupiedSeats) != 0 {
		t.Fatalf("orphaned seats after ledger failure: %v", snapshot.OccupiedSeats)
	}
}

func TestConcurrentReservesSingleWinner(t *testing.T) {
	ctx := context.Background()
	engine, _, ledger := newTestEngine(t, 12)

	const writers = 32
	var wg sync.WaitGroup
	results := make(chan error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := engine.Reserve(ctx, "T001", []Passenger{
				{Name: fmt.Sprintf("P%d", i), Age: 30, Gender: "Other", Seat: "5C"},
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var won, lost int
	for err := range results {
		switch {
		case err == nil:
			won++
		default:
			var conflict *traindomain.SeatConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("loser got unexpected error: %v", err)
			}
			lost++
		}
	}
	if won != 1 || lost != writers-1 {
		t.Fatalf("expected 1 winner and %d losers, got %d/%d", writers-1, won, lost)
	}

	bookings, err := ledger.FindAll(ctx)
	if err != nil {
		t.Fatalf("FindAll: %v", err)
	}
	if len(bookings) != 1 {
		t.Fatalf("expected exactly one committed booking, got %d", len(bookings))
	}
}
