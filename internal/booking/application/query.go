package application

import (
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

// ListBookingsData has no filter yet; the ledger has no owner scoping.
type ListBookingsData struct{}

type listBookingsQuery struct {
	data ListBookingsData
}

func (q listBookingsQuery) QueryName() string {
	return "ListBookings"
}

func (q listBookingsQuery) Payload() ListBookingsData {
	return q.data
}

func NewListBookingsQuery(data ListBookingsData) pkgDomain.Query[ListBookingsData] {
	return listBookingsQuery{data: data}
}

type FindBookingData struct {
	BookingID string
}

type findBookingQuery struct {
	data FindBookingData
}

func (q findBookingQuery) QueryName() string {
	return "FindBooking"
}

func (q findBookingQuery) Payload() FindBookingData {
	return q.data
}

func NewFindBookingQuery(data FindBookingData) pkgDomain.Query[FindBookingData] {
	return findBookingQuery{data: data}
}
