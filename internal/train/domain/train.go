package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Train is the catalog record plus the authoritative seat inventory.
// TotalSeats is fixed at creation; BookedSeats and SeatsAvailable only ever
// change together, inside a single atomic occupy or release.
type Train struct {
	ID             string   `json:"id" gorm:"primaryKey"`
	Name           string   `json:"name"`
	Number         string   `json:"number" gorm:"index"`
	DepartureTime  string   `json:"departureTime"`
	ArrivalTime    string   `json:"arrivalTime"`
	Duration       string   `json:"duration"`
	Price          float64  `json:"price"`
	TotalSeats     int      `json:"totalSeats"`
	SeatsAvailable int      `json:"seatsAvailable"`
	BookedSeats    SeatList `json:"bookedSeats" gorm:"type:jsonb"`
}

// Snapshot is a single-point-in-time view of one train's inventory, used to
// render seat maps. It never straddles a concurrent occupy or release.
type Snapshot struct {
	TrainID        string   `json:"trainId"`
	TotalSeats     int      `json:"totalSeats"`
	OccupiedSeats  []string `json:"occupiedSeats"`
	AvailableCount int      `json:"availableCount"`
}

// SeatList is a seat-label set persisted as a jsonb column.
type SeatList []string

func (s SeatList) Value() (driver.Value, error) {
	if s == nil {
		s = SeatList{}
	}
	return json.Marshal(s)
}

func (s *SeatList) Scan(value interface{}) error {
	if value == nil {
		*s = SeatList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported seat list column type %T", value)
	}
}

var ErrTrainNotFound = errors.New("train not found")

// SeatConflictError reports every requested seat that was already occupied.
// It is a legitimate race outcome, not a bug; callers re-pick and retry.
type SeatConflictError struct {
	TrainID string
	Seats   []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats unavailable on train %s: %v", e.TrainID, e.Seats)
}

// InvalidSeatError reports a label outside the train's seat space.
type InvalidSeatError struct {
	Seat string
}

func (e *InvalidSeatError) Error() string {
	return fmt.Sprintf("invalid seat label %q", e.Seat)
}

// TrainRepository is the catalog surface. Inventory mutation does not go
// through Save; it goes through SeatInventory.
type TrainRepository interface {
	Save(ctx context.Context, train Train) error
	FindByID(ctx context.Context, id string) (Train, error)
	FindAll(ctx context.Context) ([]Train, error)
}

// SeatInventory is the single serialization point for seat assignment.
// Implementations must make TryOccupy and Release atomic per train: two
// concurrent occupies of overlapping seat sets can never both succeed.
type SeatInventory interface {
	// TryOccupy marks every seat in seats occupied, or none of them.
	// Failure returns *SeatConflictError naming all conflicting seats and
	// leaves the inventory untouched.
	TryOccupy(ctx context.Context, trainID string, seats []string) error

	// Release frees the given seats. Releasing an already-free seat is a
	// no-op, so a release can always be retried.
	Release(ctx context.Context, trainID string, seats []string) error

	// Snapshot returns a consistent view of the train's inventory.
	Snapshot(ctx context.Context, trainID string) (Snapshot, error)
}
