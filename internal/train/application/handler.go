package application

import (
	"context"

	"github.com/mateusmacedo/go-railbook/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

type searchTrainsHandler struct {
	repository domain.TrainRepository
	logger     pkgApp.AppLogger
}

func (h *searchTrainsHandler) Handle(ctx context.Context, query pkgDomain.Query[SearchTrainsData]) ([]TrainSearchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data := query.Payload()
	trains, err := h.repository.FindAll(ctx)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to search trains", err, map[string]interface{}{
			"from": data.From,
			"to":   data.To,
		})
		return nil, err
	}

	results := make([]TrainSearchResult, len(trains))
	for i, train := range trains {
		results[i] = TrainSearchResult{Train: train, From: data.From, To: data.To}
	}
	return results, nil
}

func NewSearchTrainsHandler(repo domain.TrainRepository, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[SearchTrainsData], SearchTrainsData, []TrainSearchResult] {
	return &searchTrainsHandler{repository: repo, logger: logger}
}

type seatMapHandler struct {
	inventory domain.SeatInventory
	logger    pkgApp.AppLogger
}

func (h *seatMapHandler) Handle(ctx context.Context, query pkgDomain.Query[SeatMapData]) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}

	data := query.Payload()
	snapshot, err := h.inventory.Snapshot(ctx, data.TrainID)
	if err != nil {
		pkgApp.LogError(ctx, h.logger, "failed to snapshot inventory", err, map[string]interface{}{
			"train_id": data.TrainID,
		})
		return domain.Snapshot{}, err
	}
	return snapshot, nil
}

func NewSeatMapHandler(inventory domain.SeatInventory, logger pkgApp.AppLogger) pkgApp.QueryHandler[pkgDomain.Query[SeatMapData], SeatMapData, domain.Snapshot] {
	return &seatMapHandler{inventory: inventory, logger: logger}
}
