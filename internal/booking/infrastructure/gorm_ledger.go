package infrastructure

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mateusmacedo/go-railbook/internal/booking/domain"
	"github.com/mateusmacedo/go-railbook/pkg/application"
)

// GormBookingLedger persists bookings in a bookings table, passengers as a
// jsonb column.
type GormBookingLedger struct {
	db     *gorm.DB
	logger application.AppLogger
}

func NewGormBookingLedger(db *gorm.DB, logger application.AppLogger) (*GormBookingLedger, error) {
	if err := db.AutoMigrate(&domain.Booking{}); err != nil {
		return nil, err
	}
	return &GormBookingLedger{db: db, logger: logger}, nil
}

func (l *GormBookingLedger) Save(ctx context.Context, booking domain.Booking) error {
	if err := l.db.WithContext(ctx).Create(&booking).Error; err != nil {
		application.LogError(ctx, l.logger, "failed to save booking", err, map[string]interface{}{
			"booking_id": booking.ID,
		})
		return err
	}
	return nil
}

func (l *GormBookingLedger) FindByID(ctx context.Context, id string) (domain.Booking, error) {
	var booking domain.Booking
	if err := l.db.WithContext(ctx).First(&booking, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Booking{}, domain.ErrBookingNotFound
		}
		return domain.Booking{}, err
	}
	return booking, nil
}

func (l *GormBookingLedger) FindAll(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	if err := l.db.WithContext(ctx).Order("created_at desc").Find(&bookings).Error; err != nil {
		application.LogError(ctx, l.logger, "failed to list bookings", err, nil)
		return nil, err
	}
	return bookings, nil
}

func (l *GormBookingLedger) Delete(ctx context.Context, id string) error {
	result := l.db.WithContext(ctx).Delete(&domain.Booking{}, "id = ?", id)
	if result.Error != nil {
		application.LogError(ctx, l.logger, "failed to delete booking", result.Error, map[string]interface{}{
			"booking_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrBookingNotFound
	}
	return nil
}
