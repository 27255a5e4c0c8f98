package infrastructure

import (
	"context"
	"errors"
	"sort"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/mateusmacedo/go-railbook/internal/train/domain"
	"github.com/mateusmacedo/go-railbook/pkg/application"
)

// occupyScript adds every requested seat to the occupied set only if none
// of them is already a member. Redis runs scripts atomically, which makes
// this the per-train exclusion point: it returns the full list of
// conflicting seats, or an empty table after committing all of them.
var occupyScript = redis.NewScript(`
local conflicts = {}
for i = 1, #ARGV do
  if redis.call("SISMEMBER", KEYS[1], ARGV[i]) == 1 then
    conflicts[#conflicts + 1] = ARGV[i]
  end
end
if #conflicts > 0 then
  return conflicts
end
if #ARGV > 0 then
  redis.call("SADD", KEYS[1], unpack(ARGV))
end
return {}
`)

// RedisSeatInventory keeps each train's occupied-seat set in redis:
// a set at railbook:train:<id>:occupied and a meta hash holding the fixed
// capacity. It implements domain.SeatInventory only; the catalog stays in
// whichever TrainRepository is wired next to it.
type RedisSeatInventory struct {
	client redis.UniversalClient
	logger application.AppLogger
}

func NewRedisSeatInventory(client redis.UniversalClient, logger application.AppLogger) *RedisSeatInventory {
	return &RedisSeatInventory{client: client, logger: logger}
}

// SeedTrain registers the train's capacity and initial occupied set.
func (s *RedisSeatInventory) SeedTrain(ctx context.Context, train domain.Train) error {
	if err := s.client.HSet(ctx, metaKey(train.ID), "total", train.TotalSeats).Err(); err != nil {
		return err
	}
	if len(train.BookedSeats) == 0 {
		return nil
	}
	seats := make([]interface{}, len(train.BookedSeats))
	for i, seat := range train.BookedSeats {
		seats[i] = seat
	}
	return s.client.SAdd(ctx, occupiedKey(train.ID), seats...).Err()
}

func (s *RedisSeatInventory) TryOccupy(ctx context.Context, trainID string, seats []string) error {
	total, err := s.totalSeats(ctx, trainID)
	if err != nil {
		return err
	}
	for _, seat := range seats {
		if !domain.IsValidSeatLabel(seat, total) {
			return &domain.InvalidSeatError{Seat: seat}
		}
	}

	args := make([]interface{}, len(seats))
	for i, seat := range seats {
		args[i] = seat
	}

	res, err := occupyScript.Run(ctx, s.client, []string{occupiedKey(trainID)}, args...).Slice()
	if err != nil {
		application.LogError(ctx, s.logger, "occupy script failed", err, map[string]interface{}{
			"train_id": trainID,
		})
		return err
	}
	if len(res) > 0 {
		conflicts := make([]string, 0, len(res))
		for _, seat := range res {
			conflicts = append(conflicts, seat.(string))
		}
		sort.Strings(conflicts)
		return &domain.SeatConflictError{TrainID: trainID, Seats: conflicts}
	}
	return nil
}

func (s *RedisSeatInventory) Release(ctx context.Context, trainID string, seats []string) error {
	if _, err := s.totalSeats(ctx, trainID); err != nil {
		return err
	}
	if len(seats) == 0 {
		return nil
	}
	args := make([]interface{}, len(seats))
	for i, seat := range seats {
		args[i] = seat
	}
	// SREM of an absent member is a no-op, which gives idempotent release.
	return s.client.SRem(ctx, occupiedKey(trainID), args...).Err()
}

func (s *RedisSeatInventory) Snapshot(ctx context.Context, trainID string) (domain.Snapshot, error) {
	var (
		totalCmd   *redis.StringCmd
		membersCmd *redis.StringSliceCmd
	)
	// MULTI/EXEC so the capacity and the member set come from one point in time.
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		totalCmd = pipe.HGet(ctx, metaKey(trainID), "total")
		membersCmd = pipe.SMembers(ctx, occupiedKey(trainID))
		return nil
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Snapshot{}, domain.ErrTrainNotFound
		}
		return domain.Snapshot{}, err
	}

	total, err := strconv.Atoi(totalCmd.Val())
	if err != nil {
		return domain.Snapshot{}, err
	}
	occupied := membersCmd.Val()
	sort.Strings(occupied)

	return domain.Snapshot{
		TrainID:        trainID,
		TotalSeats:     total,
		OccupiedSeats:  occupied,
		AvailableCount: total - len(occupied),
	}, nil
}

func (s *RedisSeatInventory) totalSeats(ctx context.Context, trainID string) (int, error) {
	val, err := s.client.HGet(ctx, metaKey(trainID), "total").Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, domain.ErrTrainNotFound
		}
		return 0, err
	}
	return strconv.Atoi(val)
}

func occupiedKey(trainID string) string { return "railbook:train:" + trainID + ":occupied" }
func metaKey(trainID string) string     { return "railbook:train:" + trainID + ":meta" }
