package train

import (
	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbook/internal/train/application"
	"github.com/mateusmacedo/go-railbook/internal/train/domain"
	"github.com/mateusmacedo/go-railbook/internal/train/infrastructure"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

// TrainSlice wires the catalog/seat-map read side onto the query buses.
type TrainSlice struct {
	httpHandler *infrastructure.TrainHTTPHandler
}

func NewTrainSlice(
	searchBus pkgApp.QueryBus[pkgDomain.Query[application.SearchTrainsData], application.SearchTrainsData, []application.TrainSearchResult],
	seatMapBus pkgApp.QueryBus[pkgDomain.Query[application.SeatMapData], application.SeatMapData, domain.Snapshot],
	repository domain.TrainRepository,
	inventory domain.SeatInventory,
	logger pkgApp.AppLogger,
) *TrainSlice {
	searchBus.RegisterHandler("SearchTrains", application.NewSearchTrainsHandler(repository, logger))
	seatMapBus.RegisterHandler("GetSeatMap", application.NewSeatMapHandler(inventory, logger))

	return &TrainSlice{
		httpHandler: infrastructure.NewTrainHTTPHandler(searchBus, seatMapBus),
	}
}

func (s *TrainSlice) RegisterRoutes(router *chi.Mux) {
	s.httpHandler.RegisterRoutes(router)
}
