package application

import (
	"github.com/mateusmacedo/go-railbook/internal/booking/domain"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

// ReserveBookingData is the atomic booking request: one train, every
// passenger with a chosen seat.
type ReserveBookingData struct {
	TrainID    string             `json:"trainId"`
	Passengers []domain.Passenger `json:"passengers"`
}

type reserveBookingCommand struct {
	data ReserveBookingData
}

func (c reserveBookingCommand) CommandName() string {
	return "ReserveBooking"
}

func (c reserveBookingCommand) Payload() ReserveBookingData {
	return c.data
}

func NewReserveBookingCommand(data ReserveBookingData) pkgDomain.Command[ReserveBookingData] {
	return reserveBookingCommand{data: data}
}

// CancelBookingData identifies the booking to cancel.
type CancelBookingData struct {
	BookingID string `json:"bookingId"`
}

type cancelBookingCommand struct {
	data CancelBookingData
}

func (c cancelBookingCommand) CommandName() string {
	return "CancelBooking"
}

func (c cancelBookingCommand) Payload() CancelBookingData {
	return c.data
}

func NewCancelBookingCommand(data CancelBookingData) pkgDomain.Command[CancelBookingData] {
	return cancelBookingCommand{data: data}
}
