package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbook/internal/booking/application"
	"github.com/mateusmacedo/go-railbook/internal/booking/domain"
	traindomain "github.com/mateusmacedo/go-railbook/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

type BookingHTTPHandler struct {
	reserveBus pkgApp.CommandBus[pkgDomain.Command[application.ReserveBookingData], application.ReserveBookingData, domain.Booking]
	cancelBus  pkgApp.CommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData, string]
	listBus    pkgApp.QueryBus[pkgDomain.Query[application.ListBookingsData], application.ListBookingsData, []domain.Booking]
	findBus    pkgApp.QueryBus[pkgDomain.Query[application.FindBookingData], application.FindBookingData, domain.Booking]
}

func NewBookingHTTPHandler(
	reserveBus pkgApp.CommandBus[pkgDomain.Command[application.ReserveBookingData], application.ReserveBookingData, domain.Booking],
	cancelBus pkgApp.CommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData, string],
	listBus pkgApp.QueryBus[pkgDomain.Query[application.ListBookingsData], application.ListBookingsData, []domain.Booking],
	findBus pkgApp.QueryBus[pkgDomain.Query[application.FindBookingData], application.FindBookingData, domain.Booking],
) *BookingHTTPHandler {
	return &BookingHTTPHandler{
		reserveBus: reserveBus,
		cancelBus:  cancelBus,
		listBus:    listBus,
		findBus:    findBus,
	}
}

func (h *BookingHTTPHandler) HandleReserveBooking(w http.ResponseWriter, r *http.Request) {
	var data application.ReserveBookingData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		writeBookingJSON(w, http.StatusBadRequest, map[string]interface{}{"message": "invalid request body"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	booking, err := h.reserveBus.Dispatch(ctx, application.NewReserveBookingCommand(data))
	if err != nil {
		writeBookingError(w, err)
		return
	}

	writeBookingJSON(w, http.StatusCreated, booking)
}

func (h *BookingHTTPHandler) HandleListBookings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	bookings, err := h.listBus.Dispatch(ctx, application.NewListBookingsQuery(application.ListBookingsData{}))
	if err != nil {
		writeBookingError(w, err)
		return
	}

	writeBookingJSON(w, http.StatusOK, bookings)
}

func (h *BookingHTTPHandler) HandleFindBooking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	booking, err := h.findBus.Dispatch(ctx, application.NewFindBookingQuery(application.FindBookingData{
		BookingID: chi.URLParam(r, "bookingID"),
	}))
	if err != nil {
		writeBookingError(w, err)
		return
	}

	writeBookingJSON(w, http.StatusOK, booking)
}

func (h *BookingHTTPHandler) HandleCancelBooking(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	bookingID, err := h.cancelBus.Dispatch(ctx, application.NewCancelBookingCommand(application.CancelBookingData{
		BookingID: chi.URLParam(r, "bookingID"),
	}))
	if err != nil {
		writeBookingError(w, err)
		return
	}

	writeBookingJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Booking cancelled successfully",
		"bookingId": bookingID,
	})
}

func (h *BookingHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Post("/bookings", h.HandleReserveBooking)
	router.Get("/bookings", h.HandleListBookings)
	router.Get("/bookings/{bookingID}", h.HandleFindBooking)
	router.Delete("/bookings/{bookingID}", h.HandleCancelBooking)
}

// writeBookingError maps the domain error taxonomy onto HTTP statuses:
// validation 400, not found 404, seat conflict 409, anything else 500.
func writeBookingError(w http.ResponseWriter, err error) {
	var (
		conflictErr  *traindomain.SeatConflictError
		invalidErr   *traindomain.InvalidSeatError
		duplicateErr *domain.DuplicateSeatError
		missingErr   *domain.MissingSeatError
	)

	switch {
	case errors.As(err, &conflictErr):
		writeBookingJSON(w, http.StatusConflict, map[string]interface{}{
			"message": conflictErr.Error(),
			"seats":   conflictErr.Seats,
		})
	case errors.As(err, &duplicateErr), errors.As(err, &missingErr), errors.As(err, &invalidErr),
		errors.Is(err, domain.ErrNoPassengers):
		writeBookingJSON(w, http.StatusBadRequest, map[string]interface{}{"message": err.Error()})
	case errors.Is(err, domain.ErrBookingNotFound), errors.Is(err, traindomain.ErrTrainNotFound):
		writeBookingJSON(w, http.StatusNotFound, map[string]interface{}{"message": err.Error()})
	default:
		writeBookingJSON(w, http.StatusInternalServerError, map[string]interface{}{"message": err.Error()})
	}
}

func writeBookingJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
