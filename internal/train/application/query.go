package application

import (
	"github.com/mateusmacedo/go-railbook/internal/train/domain"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

// SearchTrainsData carries the route filter. The catalog is an external
// collaborator stub: it returns every train annotated with the requested
// route rather than filtering by it.
type SearchTrainsData struct {
	From string
	To   string
	Date string
}

// TrainSearchResult is a catalog train annotated with the searched route.
type TrainSearchResult struct {
	domain.Train
	From string `json:"from"`
	To   string `json:"to"`
}

type searchTrainsQuery struct {
	data SearchTrainsData
}

func (q searchTrainsQuery) QueryName() string {
	return "SearchTrains"
}

func (q searchTrainsQuery) Payload() SearchTrainsData {
	return q.data
}

func NewSearchTrainsQuery(data SearchTrainsData) pkgDomain.Query[SearchTrainsData] {
	return searchTrainsQuery{data: data}
}

// SeatMapData identifies the train whose seat map should be rendered.
type SeatMapData struct {
	TrainID string
}

type seatMapQuery struct {
	data SeatMapData
}

func (q seatMapQuery) QueryName() string {
	return "GetSeatMap"
}

func (q seatMapQuery) Payload() SeatMapData {
	return q.data
}

func NewSeatMapQuery(data SeatMapData) pkgDomain.Query[SeatMapData] {
	return seatMapQuery{data: data}
}
