package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmcgann/stockdeck/internal/domain"
	"github.com/tmcgann/stockdeck/internal/logger"
	"github.com/tmcgann/stockdeck/internal/store"
)

type WarehouseRequest struct {
	Name            string `json:"name" validate:"required,max=100,excludesall=\x00\n\r\t"`
	Location        string `json:"location" validate:"max=200"`
	MaximumCapacity *int   `json:"maximumCapacity" validate:"omitempty,gte=0"`
}

func (req WarehouseRequest) toDomain() domain.Warehouse {
	w := domain.Warehouse{Name: req.Name, Location: req.Location}
	if req.MaximumCapacity != nil {
		w.MaximumCapacity = domain.IntPtr(*req.MaximumCapacity)
	}
	return w
}

// HandleListWarehouses returns the warehouse collection with utilization.
func HandleListWarehouses(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: warehouseViews(st.Warehouses())})
	}
}

// HandleCreateWarehouse applies the optimistic create and returns the
// provisional row immediately.
func HandleCreateWarehouse(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req WarehouseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode create warehouse request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid create warehouse request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]any{"errors": FormatValidationError(err)})
			return
		}

		created := st.CreateWarehouse(r.Context(), req.toDomain())
		log.Info("Warehouse created", "id", created.ID, "name", created.Name)
		respondJSON(w, http.StatusAccepted, DataResponse{Data: created})
	}
}

// HandleUpdateWarehouse merges the patch optimistically.
func HandleUpdateWarehouse(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		id := chi.URLParam(r, "id")

		var req WarehouseRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode update warehouse request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid update warehouse request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]any{"errors": FormatValidationError(err)})
			return
		}

		merged, err := st.UpdateWarehouse(r.Context(), id, req.toDomain())
		if err != nil {
			log.Warn("Failed to update warehouse", "error", err, "id", id)
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusAccepted, DataResponse{Data: merged})
	}
}

// HandleDeleteWarehouse removes a warehouse after remote confirmation. The
// confirmed query parameter gates the call; without it nothing happens.
func HandleDeleteWarehouse(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		id := chi.URLParam(r, "id")
		confirmed := r.URL.Query().Get("confirmed") == "true"

		if err := st.DeleteWarehouse(r.Context(), id, confirmed); err != nil {
			log.Warn("Failed to delete warehouse", "error", err, "id", id)
			respondServiceError(w, err)
			return
		}

		log.Info("Warehouse deleted", "id", id)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Warehouse deleted"})
	}
}
