package infrastructure

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mateusmacedo/go-railbook/internal/train/domain"
	"github.com/mateusmacedo/go-railbook/pkg/application"
)

// GormTrainStore persists the catalog and inventory in a trains table.
// Occupy/release run inside a transaction holding a SELECT ... FOR UPDATE
// row lock, so concurrent writers on the same train serialize at the
// database while different trains proceed independently.
type GormTrainStore struct {
	db     *gorm.DB
	logger application.AppLogger
}

func NewGormTrainStore(db *gorm.DB, logger application.AppLogger) (*GormTrainStore, error) {
	if err := db.AutoMigrate(&domain.Train{}); err != nil {
		return nil, err
	}
	return &GormTrainStore{db: db, logger: logger}, nil
}

func (s *GormTrainStore) Save(ctx context.Context, train domain.Train) error {
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&train).Error
	if err != nil {
		application.LogError(ctx, s.logger, "failed to save train", err, map[string]interface{}{
			"train_id": train.ID,
		})
		return err
	}
	return nil
}

func (s *GormTrainStore) FindByID(ctx context.Context, id string) (domain.Train, error) {
	var train domain.Train
	if err := s.db.WithContext(ctx).First(&train, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Train{}, domain.ErrTrainNotFound
		}
		return domain.Train{}, err
	}
	return train, nil
}

func (s *GormTrainStore) FindAll(ctx context.Context) ([]domain.Train, error) {
	var trains []domain.Train
	if err := s.db.WithContext(ctx).Order("id").Find(&trains).Error; err != nil {
		application.LogError(ctx, s.logger, "failed to list trains", err, nil)
		return nil, err
	}
	return trains, nil
}

func (s *GormTrainStore) TryOccupy(ctx context.Context, trainID string, seats []string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		train, err := lockTrain(tx, trainID)
		if err != nil {
			return err
		}

		for _, seat := range seats {
			if !domain.IsValidSeatLabel(seat, train.TotalSeats) {
				return &domain.InvalidSeatError{Seat: seat}
			}
		}

		occupied := make(map[string]struct{}, len(train.BookedSeats))
		for _, seat := range train.BookedSeats {
			occupied[seat] = struct{}{}
		}

		var conflicts []string
		for _, seat := range seats {
			if _, taken := occupied[seat]; taken {
				conflicts = append(conflicts, seat)
			}
		}
		if len(conflicts) > 0 {
			sort.Strings(conflicts)
			return &domain.SeatConflictError{TrainID: trainID, Seats: conflicts}
		}

		booked := append(domain.SeatList{}, train.BookedSeats...)
		booked = append(booked, seats...)
		sort.Strings(booked)

		return tx.Model(&domain.Train{}).Where("id = ?", trainID).Updates(map[string]interface{}{
			"booked_seats":    booked,
			"seats_available": train.TotalSeats - len(booked),
		}).Error
	})
}

func (s *GormTrainStore) Release(ctx context.Context, trainID string, seats []string) error {
	releasing := make(map[string]struct{}, len(seats))
	for _, seat := range seats {
		releasing[seat] = struct{}{}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		train, err := lockTrain(tx, trainID)
		if err != nil {
			return err
		}

		booked := make(domain.SeatList, 0, len(train.BookedSeats))
		for _, seat := range train.BookedSeats {
			if _, drop := releasing[seat]; !drop {
				booked = append(booked, seat)
			}
		}

		return tx.Model(&domain.Train{}).Where("id = ?", trainID).Updates(map[string]interface{}{
			"booked_seats":    booked,
			"seats_available": train.TotalSeats - len(booked),
		}).Error
	})
}

func (s *GormTrainStore) Snapshot(ctx context.Context, trainID string) (domain.Snapshot, error) {
	// A single-row read is already a consistent point in time.
	train, err := s.FindByID(ctx, trainID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{
		TrainID:        train.ID,
		TotalSeats:     train.TotalSeats,
		OccupiedSeats:  train.BookedSeats,
		AvailableCount: train.TotalSeats - len(train.BookedSeats),
	}, nil
}

func lockTrain(tx *gorm.DB, trainID string) (domain.Train, error) {
	var train domain.Train
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&train, "id = ?", trainID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Train{}, domain.ErrTrainNotFound
		}
		return domain.Train{}, err
	}
	return train, nil
}
