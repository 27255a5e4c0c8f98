package infrastructure

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/mateusmacedo/go-railbook/internal/train/domain"
	"github.com/mateusmacedo/go-railbook/pkg/application"
)

func newStoreWithTrain(t *testing.T, id string, totalSeats int) *InMemoryTrainStore {
	t.Helper()
	store := NewInMemoryTrainStore(application.NewNopLogger())
	err := store.Save(context.Background(), domain.Train{
		ID:             id,
		Name:           "Test Express",
		Price:          100,
		TotalSeats:     totalSeats,
		SeatsAvailable: totalSeats,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	return store
}

func TestTryOccupyAndSnapshot(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTrain(t, "T001", 12)

	if err := store.TryOccupy(ctx, "T001", []string{"1A", "1B"}); err != nil {
		t.Fatalf("TryOccupy: %v", err)
	}

	snapshot, err := store.Snapshot(ctx, "T001")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !reflect.DeepEqual(snapshot.OccupiedSeats, []string{"1A", "1B"}) {
		t.Fatalf("unexpected occupied seats: %v", snapshot.OccupiedSeats)
	}
	if snapshot.AvailableCount != 10 {
		t.Fatalf("expected 10 available, got %d", snapshot.AvailableCount)
	}
}

func TestTryOccupyIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTrain(t, "T001", 12)

	if err := store.TryOccupy(ctx, "T001", []string{"1B"}); err != nil {
		t.Fatalf("TryOccupy: %v", err)
	}

	err := store.TryOccupy(ctx, "T001", []string{"1A", "1B"})
	var conflict *domain.SeatConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected SeatConflictError, got %v", err)
	}
	if !reflect.DeepEqual(conflict.Seats, []string{"1B"}) {
		t.Fatalf("expected conflict on 1B, got %v", conflict.Seats)
	}

	// 1A must not have been committed by the failed request.
	snapshot, err := store.Snapshot(ctx, "T001")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !reflect.DeepEqual(snapshot.OccupiedSeats, []string{"1B"}) {
		t.Fatalf("partial occupation leaked: %v", snapshot.OccupiedSeats)
	}
}

func TestTryOccupyReportsEveryConflict(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTrain(t, "T001", 12)

	if err := store.TryOccupy(ctx, "T001", []string{"1A", "1C"}); err != nil {
		t.Fatalf("TryOccupy: %v", err)
	}

	err := store.TryOccupy(ctx, "T001", []string{"1A", "1B", "1C"})
	var conflict *domain.SeatConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("expected SeatConflictError, got %v", err)
	}
	if !reflect.DeepEqual(conflict.Seats, []string{"1A", "1C"}) {
		t.Fatalf("expected conflicts [1A 1C], got %v", conflict.Seats)
	}
}

func TestTryOccupyRejectsInvalidLabels(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTrain(t, "T001", 2)

	err := store.TryOccupy(ctx, "T001", []string{"1C"})
	var invalid *domain.InvalidSeatError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSeatError, got %v", err)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTrain(t, "T001", 12)

	if err := store.TryOccupy(ctx, "T001", []string{"2A", "2B"}); err != nil {
		t.Fatalf("TryOccupy: %v", err)
	}
	if err := store.Release(ctx, "T001", []string{"2A", "2B"}); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := store.Release(ctx, "T001", []string{"2A", "2B"}); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	snapshot, err := store.Snapshot(ctx, "T001")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snapshot.OccupiedSeats) != 0 || snapshot.AvailableCount != 12 {
		t.Fatalf("expected empty inventory, got %v (%d available)", snapshot.OccupiedSeats, snapshot.AvailableCount)
	}
}

func TestConservationUnderMixedOperations(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTrain(t, "T001", 12)

	steps := []struct {
		occupy bool
		seats  []string
	}{
		{true, []string{"1A", "1B"}},
		{true, []string{"2A"}},
		{false, []string{"1A"}},
		{true, []string{"1A", "3C"}},
		{false, []string{"2A", "1B"}},
	}
	for _, step := range steps {
		var err error
		if step.occupy {
			err = store.TryOccupy(ctx, "T001", step.seats)
		} else {
			err = store.Release(ctx, "T001", step.seats)
		}
		if err != nil {
			t.Fatalf("step %v: %v", step, err)
		}

		snapshot, err := store.Snapshot(ctx, "T001")
		if err != nil {
			t.Fatalf("Snapshot: %v", err)
		}
		if snapshot.AvailableCount != snapshot.TotalSeats-len(snapshot.OccupiedSeats) {
			t.Fatalf("conservation violated: total=%d occupied=%d available=%d",
				snapshot.TotalSeats, len(snapshot.OccupiedSeats), snapshot.AvailableCount)
		}
	}
}

func TestConcurrentOccupySameSeat(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTrain(t, "T001", 12)

	const writers = 64
	var wg sync.WaitGroup
	successes := make(chan struct{}, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := store.TryOccupy(ctx, "T001", []string{"4D"}); err == nil {
				successes <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(successes)

	won := 0
	for range successes {
		won++
	}
	if won != 1 {
		t.Fatalf("expected exactly one winner for seat 4D, got %d", won)
	}
}

func TestUnknownTrain(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryTrainStore(application.NewNopLogger())

	if err := store.TryOccupy(ctx, "T999", []string{"1A"}); !errors.Is(err, domain.ErrTrainNotFound) {
		t.Fatalf("expected ErrTrainNotFound, got %v", err)
	}
	if _, err := store.Snapshot(ctx, "T999"); !errors.Is(err, domain.ErrTrainNotFound) {
		t.Fatalf("expected ErrTrainNotFound, got %v", err)
	}
}

func TestSaveDoesNotClobberLiveInventory(t *testing.T) {
	ctx := context.Background()
	store := newStoreWithTrain(t, "T001", 12)

	if err := store.TryOccupy(ctx, "T001", []string{"1A"}); err != nil {
		t.Fatalf("TryOccupy: %v", err)
	}
	// Re-seeding the same train must keep the occupied set.
	if err := store.Save(ctx, domain.Train{ID: "T001", TotalSeats: 12}); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snapshot, err := store.Snapshot(ctx, "T001")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if !reflect.DeepEqual(snapshot.OccupiedSeats, []string{"1A"}) {
		t.Fatalf("re-seed clobbered inventory: %v", snapshot.OccupiedSeats)
	}
}
