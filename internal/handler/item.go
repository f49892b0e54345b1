package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmcgann/stockdeck/internal/domain"
	"github.com/tmcgann/stockdeck/internal/logger"
	"github.com/tmcgann/stockdeck/internal/store"
)

type ItemRequest struct {
	Name            string `json:"name" validate:"required,max=100,excludesall=\x00\n\r\t"`
	SKU             string `json:"sku" validate:"required,max=64,sku"`
	Description     string `json:"description" validate:"max=500"`
	Quantity        int    `json:"quantity" validate:"gte=0"`
	StorageLocation string `json:"storageLocation" validate:"max=100"`
	WarehouseID     string `json:"warehouseId" validate:"required"`
}

func (req ItemRequest) toDomain() domain.InventoryItem {
	return domain.InventoryItem{
		Name:            req.Name,
		SKU:             req.SKU,
		Description:     req.Description,
		Quantity:        req.Quantity,
		StorageLocation: req.StorageLocation,
		WarehouseID:     req.WarehouseID,
	}
}

// HandleListItems returns the raw item collection.
func HandleListItems(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: st.Items()})
	}
}

// HandleCreateItem applies the optimistic insert and returns the provisional
// row immediately; the server id lands on reconciliation.
func HandleCreateItem(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req ItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode create item request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid create item request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]any{"errors": FormatValidationError(err)})
			return
		}

		created := st.CreateItem(r.Context(), req.toDomain())
		log.Info("Item created", "id", created.ID, "name", created.Name, "warehouse_id", created.WarehouseID)
		respondJSON(w, http.StatusAccepted, DataResponse{Data: created})
	}
}

// HandleUpdateItem merges the patch optimistically.
func HandleUpdateItem(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		id := chi.URLParam(r, "id")

		var req ItemRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode update item request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid update item request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]any{"errors": FormatValidationError(err)})
			return
		}

		merged, err := st.UpdateItem(r.Context(), id, req.toDomain())
		if err != nil {
			log.Warn("Failed to update item", "error", err, "id", id)
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusAccepted, DataResponse{Data: merged})
	}
}

// HandleDeleteItem removes an item after remote confirmation.
func HandleDeleteItem(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())
		id := chi.URLParam(r, "id")
		confirmed := r.URL.Query().Get("confirmed") == "true"

		if err := st.DeleteItem(r.Context(), id, confirmed); err != nil {
			log.Warn("Failed to delete item", "error", err, "id", id)
			respondServiceError(w, err)
			return
		}

		log.Info("Item deleted", "id", id)
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Item deleted"})
	}
}
