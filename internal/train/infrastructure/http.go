package infrastructure

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mateusmacedo/go-railbook/internal/train/application"
	"github.com/mateusmacedo/go-railbook/internal/train/domain"
	pkgApp "github.com/mateusmacedo/go-railbook/pkg/application"
	pkgDomain "github.com/mateusmacedo/go-railbook/pkg/domain"
)

type TrainHTTPHandler struct {
	searchBus  pkgApp.QueryBus[pkgDomain.Query[application.SearchTrainsData], application.SearchTrainsData, []application.TrainSearchResult]
	seatMapBus pkgApp.QueryBus[pkgDomain.Query[application.SeatMapData], application.SeatMapData, domain.Snapshot]
}

func NewTrainHTTPHandler(
	searchBus pkgApp.QueryBus[pkgDomain.Query[application.SearchTrainsData], application.SearchTrainsData, []application.TrainSearchResult],
	seatMapBus pkgApp.QueryBus[pkgDomain.Query[application.SeatMapData], application.SeatMapData, domain.Snapshot],
) *TrainHTTPHandler {
	return &TrainHTTPHandler{
		searchBus:  searchBus,
		seatMapBus: seatMapBus,
	}
}

func (h *TrainHTTPHandler) HandleSearchTrains(w http.ResponseWriter, r *http.Request) {
	query := application.NewSearchTrainsQuery(application.SearchTrainsData{
		From: r.URL.Query().Get("from"),
		To:   r.URL.Query().Get("to"),
		Date: r.URL.Query().Get("date"),
	})

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	results, err := h.searchBus.Dispatch(ctx, query)
	if err != nil {
		writeTrainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

func (h *TrainHTTPHandler) HandleSeatMap(w http.ResponseWriter, r *http.Request) {
	query := application.NewSeatMapQuery(application.SeatMapData{
		TrainID: chi.URLParam(r, "trainID"),
	})

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	snapshot, err := h.seatMapBus.Dispatch(ctx, query)
	if err != nil {
		writeTrainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, snapshot)
}

func (h *TrainHTTPHandler) RegisterRoutes(router chi.Router) {
	router.Get("/trains", h.HandleSearchTrains)
	router.Get("/trains/{trainID}/seats", h.HandleSeatMap)
}

func writeTrainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, domain.ErrTrainNotFound) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]interface{}{"message": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
