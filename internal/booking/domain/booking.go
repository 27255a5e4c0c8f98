package domain

import (
	"context"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Passenger is one traveller inside a booking, pinned to one seat.
type Passenger struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Seat   string `json:"seat"`
}

// PassengerList is persisted as a jsonb column.
type PassengerList []Passenger

func (p PassengerList) Value() (driver.Value, error) {
	if p == nil {
		p = PassengerList{}
	}
	return json.Marshal(p)
}

func (p *PassengerList) Scan(value interface{}) error {
	if value == nil {
		*p = PassengerList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	default:
		return fmt.Errorf("unsupported passenger list column type %T", value)
	}
}

// Booking is a committed reservation. Its seats are a subset of the train's
// occupied set for as long as the booking exists; deleting it releases
// exactly those seats.
type Booking struct {
	ID         string        `json:"id" gorm:"primaryKey"`
	TrainID    string        `json:"trainId" gorm:"index"`
	Passengers PassengerList `json:"passengers" gorm:"type:jsonb"`
	TotalFare  float64       `json:"totalFare"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Seats returns the seat labels held by this booking, in passenger order.
func (b Booking) Seats() []string {
	seats := make([]string, len(b.Passengers))
	for i, p := range b.Passengers {
		seats[i] = p.Seat
	}
	return seats
}

var (
	ErrBookingNotFound = errors.New("booking not found")
	ErrNoPassengers    = errors.New("booking request has no passengers")
)

// DuplicateSeatError reports two passengers of the same request naming one
// seat. It is detected before inventory is touched.
type DuplicateSeatError struct {
	Seat string
}

func (e *DuplicateSeatError) Error() string {
	return fmt.Sprintf("seat %s requested twice in one booking", e.Seat)
}

// MissingSeatError reports a passenger without a seat choice.
type MissingSeatError struct {
	Passenger int
}

func (e *MissingSeatError) Error() string {
	return fmt.Sprintf("passenger %d has no seat selected", e.Passenger+1)
}

// BookingLedger is the durable store of committed bookings. It enforces no
// seat logic; conflict detection lives entirely in the reservation engine
// and the seat inventory.
type BookingLedger interface {
	Save(ctx context.Context, booking Booking) error
	FindByID(ctx context.Context, id string) (Booking, error)
	// FindAll lists bookings most recent first.
	FindAll(ctx context.Context) ([]Booking, error)
	Delete(ctx context.Context, id string) error
}
