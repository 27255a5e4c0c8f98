package infrastructure

import (
	"context"

	"github.com/mateusmacedo/go-railbook/internal/train/domain"
)

// DefaultTrains is the initial catalog.
func DefaultTrains() []domain.Train {
	return []domain.Train{
		{ID: "T001", Name: "Capital Express", Number: "12001", DepartureTime: "08:00", ArrivalTime: "20:00", Duration: "12h 0m", Price: 2500, TotalSeats: 72, SeatsAvailable: 72, BookedSeats: domain.SeatList{}},
		{ID: "T002", Name: "Coastal Voyager", Number: "22003", DepartureTime: "10:30", ArrivalTime: "23:00", Duration: "12h 30m", Price: 2200, TotalSeats: 60, SeatsAvailable: 60, BookedSeats: domain.SeatList{}},
		{ID: "T003", Name: "MetroLink Superfast", Number: "15005", DepartureTime: "14:00", ArrivalTime: "01:00", Duration: "11h 0m", Price: 2800, TotalSeats: 72, SeatsAvailable: 72, BookedSeats: domain.SeatList{}},
		{ID: "T004", Name: "Night Owl Flyer", Number: "18007", DepartureTime: "21:00", ArrivalTime: "08:00", Duration: "11h 0m", Price: 1900, TotalSeats: 72, SeatsAvailable: 72, BookedSeats: domain.SeatList{}},
		{ID: "T005", Name: "Green Valley Limited", Number: "11009", DepartureTime: "06:15", ArrivalTime: "18:45", Duration: "12h 30m", Price: 2350, TotalSeats: 60, SeatsAvailable: 60, BookedSeats: domain.SeatList{}},
	}
}

// Seed stores every train in the repository. Repositories treat an existing
// train as a no-op, so seeding is safe to repeat on startup.
func Seed(ctx context.Context, repo domain.TrainRepository, trains []domain.Train) error {
	for _, train := range trains {
		if err := repo.Save(ctx, train); err != nil {
			return err
		}
	}
	return nil
}
