package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbook/internal/booking/application"
	"github.com/mateusmacedo/go-railbook/internal/booking/domain"
	traindomain "github.com/mateusmacedo/go-railbook/internal/train/domain"
	traininfra "github.com/mateusmacedo/go-railbook/internal/train/infrastructure"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
	pkgInfra "github.com/mateusmacedo/go-railbook/pkg/infrastructure"
)

func newTestRouter(t *testing.T) (*chi.Mux, *traininfra.InMemoryTrainStore) {
	t.Helper()
	logger := pkgApp.NewNopLogger()

	store := traininfra.NewInMemoryTrainStore(logger)
	err := store.Save(context.Background(), traindomain.Train{
		ID:             "T001",
		Name:           "Capital Express",
		Price:          2500,
		TotalSeats:     12,
		SeatsAvailable: 12,
	})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	ledger := NewInMemoryBookingLedger(logger)
	engine := domain.NewEngine(store, store, ledger, pkgInfra.NewUUIDGenerator(), logger)
	eventBus := pkgInfra.NewSimpleEventBus[pkgDomain.Event[string], string](logger)

	reserveBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.ReserveBookingData], application.ReserveBookingData, domain.Booking]()
	cancelBus := pkgInfra.NewSimpleCommandBus[pkgDomain.Command[application.CancelBookingData], application.CancelBookingData, string]()
	listBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.ListBookingsData], application.ListBookingsData, []domain.Booking]()
	findBus := pkgInfra.NewSimpleQueryBus[pkgDomain.Query[application.FindBookingData], application.FindBookingData, domain.Booking]()

	reserveBus.RegisterHandler("ReserveBooking", application.NewReserveBookingHandler(engine, eventBus, logger))
	cancelBus.RegisterHandler("CancelBooking", application.NewCancelBookingHandler(engine, eventBus, logger))
	listBus.RegisterHandler("ListBookings", application.NewListBookingsHandler(ledger, logger))
	findBus.RegisterHandler("FindBooking", application.NewFindBookingHandler(ledger, logger))

	router := chi.NewRouter()
	NewBookingHTTPHandler(reserveBus, cancelBus, listBus, findBus).RegisterRoutes(router)
	return router, store
}

func postBooking(t *testing.T, router http.Handler, data application.ReserveBookingData) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestReserveBookingEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := postBooking(t, router, application.ReserveBookingData{
		TrainID: "T001",
		Passengers: []domain.Passenger{
			{Name: "Ana", Age: 34, Gender: "Female", Seat: "1A"},
			{Name: "Rui", Age: 36, Gender: "Male", Seat: "1B"},
		},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var booking domain.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &booking); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if booking.ID == "" || booking.TotalFare != 5000 || len(booking.Passengers) != 2 {
		t.Fatalf("unexpected booking: %+v", booking)
	}

	// The created booking must be retrievable and listed.
	req := httptest.NewRequest(http.MethodGet, "/bookings/"+booking.ID, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, req)
	if getRec.Code != http.StatusOK {
		t.Fatalf("expected 200 on find, got %d", getRec.Code)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/bookings", nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200 on list, got %d", listRec.Code)
	}
	var bookings []domain.Booking
	if err := json.Unmarshal(listRec.Body.Bytes(), &bookings); err != nil {
		t.Fatalf("Unmarshal list: %v", err)
	}
	if len(bookings) != 1 || bookings[0].ID != booking.ID {
		t.Fatalf("unexpected listing: %+v", bookings)
	}
}

func TestReserveBookingConflictReturns409(t *testing.T) {
	router, store := newTestRouter(t)

	if err := store.TryOccupy(context.Background(), "T001", []string{"1A"}); err != nil {
		t.Fatalf("TryOccupy: %v", err)
	}

	rec := postBooking(t, router, application.ReserveBookingData{
		TrainID:    "T001",
		Passengers: []domain.Passenger{{Name: "Leo", Age: 28, Gender: "Male", Seat: "1A"}},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Message string   `json:"message"`
		Seats   []string `json:"seats"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(body.Seats) != 1 || body.Seats[0] != "1A" {
		t.Fatalf("expected conflicting seat 1A in body, got %+v", body)
	}
}

func TestReserveBookingValidationReturns400(t *testing.T) {
	router, _ := newTestRouter(t)

	cases := []application.ReserveBookingData{
		{TrainID: "T001"},
		{TrainID: "T001", Passengers: []domain.Passenger{
			{Name: "Ana", Age: 34, Gender: "Female", Seat: "2A"},
			{Name: "Rui", Age: 36, Gender: "Male", Seat: "2A"},
		}},
		{TrainID: "T001", Passengers: []domain.Passenger{
			{Name: "Ana", Age: 34, Gender: "Female"},
		}},
		{TrainID: "T001", Passengers: []domain.Passenger{
			{Name: "Ana", Age: 34, Gender: "Female", Seat: "99Z"},
		}},
	}
	for i, data := range cases {
		rec := postBooking(t, router, data)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("case %d: expected 400, got %d: %s", i, rec.Code, rec.Body.String())
		}
	}
}

func TestCancelBookingEndpoint(t *testing.T) {
	router, store := newTestRouter(t)

	rec := postBooking(t, router, application.ReserveBookingData{
		TrainID:    "T001",
		Passengers: []domain.Passenger{{Name: "Ana", Age: 34, Gender: "Female", Seat: "3C"}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var booking domain.Booking
	if err := json.Unmarshal(rec.Body.Bytes(), &booking); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/bookings/"+booking.ID, nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, delReq)
	if delRec.Code != http.StatusOK {
		t.Fatalf("expected 200 on cancel, got %d: %s", delRec.Code, delRec.Body.String())
	}

	snapshot, err := store.Snapshot(context.Background(), "T001")
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(snapshot.OccupiedSeats) != 0 {
		t.Fatalf("seats not released after cancel: %v", snapshot.OccupiedSeats)
	}

	// Cancelling again must 404.
	again := httptest.NewRecorder()
	router.ServeHTTP(again, httptest.NewRequest(http.MethodDelete, "/bookings/"+booking.ID, nil))
	if again.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second cancel, got %d", again.Code)
	}
}

func TestFindBookingMissingReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bookings/B404", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestReserveBookingMalformedBodyReturns400(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/bookings", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
