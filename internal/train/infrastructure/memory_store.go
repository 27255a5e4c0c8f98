package infrastructure

import (
	"context"
	"sort"
	"sync"

	"github.com/mateusmacedo/go-railbook/internal/train/domain"
	"github.com/mateusmacedo/go-railbook/pkg/application"
)

// InMemoryTrainStore keeps the catalog and the live seat inventory in
// process memory. It is the default store and the test double.
//
// Locking is two-level: the outer RWMutex only guards the train map, each
// train carries its own mutex. Occupy/release on different trains never
// contend.
type InMemoryTrainStore struct {
	mu     sync.RWMutex
	trains map[string]*trainEntry
	logger application.AppLogger
}

type trainEntry struct {
	mu       sync.Mutex
	train    domain.Train
	occupied map[string]struct{}
}

func NewInMemoryTrainStore(logger application.AppLogger) *InMemoryTrainStore {
	return &InMemoryTrainStore{
		trains: make(map[string]*trainEntry),
		logger: logger,
	}
}

func (s *InMemoryTrainStore) Save(ctx context.Context, train domain.Train) error {
	occupied := make(map[string]struct{}, len(train.BookedSeats))
	for _, seat := range train.BookedSeats {
		occupied[seat] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.trains[train.ID]; exists {
		// Capacity is immutable and the occupied set is live state; a
		// repeated save (re-seed) must not clobber either.
		return nil
	}
	s.trains[train.ID] = &trainEntry{train: train, occupied: occupied}

	s.logger.Debug(ctx, "train saved", map[string]interface{}{"train_id": train.ID})
	return nil
}

func (s *InMemoryTrainStore) FindByID(ctx context.Context, id string) (domain.Train, error) {
	entry, err := s.entry(id)
	if err != nil {
		return domain.Train{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return entry.view(), nil
}

func (s *InMemoryTrainStore) FindAll(ctx context.Context) ([]domain.Train, error) {
	s.mu.RLock()
	entries := make([]*trainEntry, 0, len(s.trains))
	for _, entry := range s.trains {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	trains := make([]domain.Train, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		trains = append(trains, entry.view())
		entry.mu.Unlock()
	}
	sort.Slice(trains, func(i, j int) bool { return trains[i].ID < trains[j].ID })
	return trains, nil
}

func (s *InMemoryTrainStore) TryOccupy(ctx context.Context, trainID string, seats []string) error {
	entry, err := s.entry(trainID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	for _, seat := range seats {
		if !domain.IsValidSeatLabel(seat, entry.train.TotalSeats) {
			return &domain.InvalidSeatError{Seat: seat}
		}
	}

	var conflicts []string
	for _, seat := range seats {
		if _, taken := entry.occupied[seat]; taken {
			conflicts = append(conflicts, seat)
		}
	}
	if len(conflicts) > 0 {
		sort.Strings(conflicts)
		application.LogInfo(ctx, s.logger, "seat conflict", map[string]interface{}{
			"train_id": trainID,
			"seats":    conflicts,
		})
		return &domain.SeatConflictError{TrainID: trainID, Seats: conflicts}
	}

	for _, seat := range seats {
		entry.occupied[seat] = struct{}{}
	}

	s.logger.Debug(ctx, "seats occupied", map[string]interface{}{
		"train_id": trainID,
		"seats":    seats,
	})
	return nil
}

func (s *InMemoryTrainStore) Release(ctx context.Context, trainID string, seats []string) error {
	entry, err := s.entry(trainID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	for _, seat := range seats {
		delete(entry.occupied, seat)
	}

	s.logger.Debug(ctx, "seats released", map[string]interface{}{
		"train_id": trainID,
		"seats":    seats,
	})
	return nil
}

func (s *InMemoryTrainStore) Snapshot(ctx context.Context, trainID string) (domain.Snapshot, error) {
	entry, err := s.entry(trainID)
	if err != nil {
		return domain.Snapshot{}, err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	return domain.Snapshot{
		TrainID:        trainID,
		TotalSeats:     entry.train.TotalSeats,
		OccupiedSeats:  entry.occupiedSorted(),
		AvailableCount: entry.train.TotalSeats - len(entry.occupied),
	}, nil
}

func (s *InMemoryTrainStore) entry(trainID string) (*trainEntry, error) {
	s.mu.RLock()
	entry, found := s.trains[trainID]
	s.mu.RUnlock()
	if !found {
		return nil, domain.ErrTrainNotFound
	}
	return entry, nil
}

// view builds a consistent catalog copy; caller holds e.mu.
func (e *trainEntry) view() domain.Train {
	train := e.train
	train.BookedSeats = e.occupiedSorted()
	train.SeatsAvailable = train.TotalSeats - len(e.occupied)
	return train
}

func (e *trainEntry) occupiedSorted() domain.SeatList {
	seats := make(domain.SeatList, 0, len(e.occupied))
	for seat := range e.occupied {
		seats = append(seats, seat)
	}
	sort.Strings(seats)
	return seats
}
