package infrastructure

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/mateusmacedo/go-railbook/internal/booking/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
)

// InMemoryBookingLedger is the in-process ledger implementation.
type InMemoryBookingLedger struct {
	mu     sync.RWMutex
	data   map[string]domain.Booking
	logger pkgApp.AppLogger
}

func NewInMemoryBookingLedger(logger pkgApp.AppLogger) *InMemoryBookingLedger {
	return &InMemoryBookingLedger{
		data:   make(map[string]domain.Booking),
		logger: logger,
	}
}

func (l *InMemoryBookingLedger) Save(ctx context.Context, booking domain.Booking) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.data[booking.ID]; exists {
		return errors.New("booking already exists")
	}
	l.data[booking.ID] = booking

	l.logger.Debug(ctx, "booking saved", map[string]interface{}{"booking_id": booking.ID})
	return nil
}

func (l *InMemoryBookingLedger) FindByID(ctx context.Context, id string) (domain.Booking, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	booking, exists := l.data[id]
	if !exists {
		return domain.Booking{}, domain.ErrBookingNotFound
	}
	return booking, nil
}

func (l *InMemoryBookingLedger) FindAll(ctx context.Context) ([]domain.Booking, error) {
	l.mu.RLock()
	bookings := make([]domain.Booking, 0, len(l.data))
	for _, booking := range l.data {
		bookings = append(bookings, booking)
	}
	l.mu.RUnlock()

	sort.Slice(bookings, func(i, j int) bool {
		if !bookings[i].CreatedAt.Equal(bookings[j].CreatedAt) {
			return bookings[i].CreatedAt.After(bookings[j].CreatedAt)
		}
		return bookings[i].ID < bookings[j].ID
	})
	return bookings, nil
}

func (l *InMemoryBookingLedger) Delete(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.data[id]; !exists {
		return domain.ErrBookingNotFound
	}
	delete(l.data, id)

	l.logger.Debug(ctx, "booking deleted", map[string]interface{}{"booking_id": id})
	return nil
}
