package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tmcgann/stockdeck/internal/logger"
	"github.com/tmcgann/stockdeck/internal/query"
)

type SetFilterRequest struct {
	Search      string `json:"search" validate:"max=100"`
	WarehouseID string `json:"warehouseId" validate:"max=64"`
}

type SetPageRequest struct {
	Page int `json:"page" validate:"gte=1"`
}

// HandleSetFilter replaces the active filter; the page resets to 1.
func HandleSetFilter(view *query.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SetFilterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode set filter request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid set filter request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]any{"errors": FormatValidationError(err)})
			return
		}

		view.SetFilter(query.Filter{Search: req.Search, WarehouseID: req.WarehouseID})
		respondJSON(w, http.StatusOK, DataResponse{Data: view.Snapshot()})
	}
}

// HandleSetPage navigates the view; out-of-range pages clamp.
func HandleSetPage(view *query.View) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SetPageRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode set page request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid set page request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]any{"errors": FormatValidationError(err)})
			return
		}

		view.SetPage(req.Page)
		respondJSON(w, http.StatusOK, DataResponse{Data: view.Snapshot()})
	}
}
