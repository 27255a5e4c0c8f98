package application

import (
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

type bookingConfirmedEvent struct {
	bookingID string
}

func (e bookingConfirmedEvent) EventName() string {
	return "BookingConfirmed"
}

func (e bookingConfirmedEvent) Payload() string {
	return e.bookingID
}

// NewBookingConfirmedEvent announces a committed booking by ID.
func NewBookingConfirmedEvent(bookingID string) pkgDomain.Event[string] {
	return bookingConfirmedEvent{bookingID: bookingID}
}

type bookingCancelledEvent struct {
	bookingID string
}

func (e bookingCancelledEvent) EventName() string {
	return "BookingCancelled"
}

func (e bookingCancelledEvent) Payload() string {
	return e.bookingID
}

// NewBookingCancelledEvent announces a cancelled booking by ID.
func NewBookingCancelledEvent(bookingID string) pkgDomain.Event[string] {
	return bookingCancelledEvent{bookingID: bookingID}
}
