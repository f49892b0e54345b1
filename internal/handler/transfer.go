package handler

import (
	"encoding/json"
	"net/http"

	"github.com/tmcgann/stockdeck/internal/logger"
	"github.com/tmcgann/stockdeck/internal/store"
	"github.com/tmcgann/stockdeck/internal/transfer"
)

type OpenTransferRequest struct {
	InventoryID string `json:"inventoryId" validate:"required"`
	// Detail selects the larger seed cap used by the item detail view.
	Detail bool `json:"detail"`
}

type SubmitTransferRequest struct {
	InventoryID            string `json:"inventoryId" validate:"required"`
	SourceWarehouseID      string `json:"sourceWarehouseId" validate:"required"`
	DestinationWarehouseID string `json:"destinationWarehouseId"`
	Quantity               int    `json:"quantity"`
	StorageLocation        string `json:"storageLocation" validate:"max=100"`
}

type TransferStatusResponse struct {
	State       transfer.State `json:"state"`
	LastOutcome transfer.State `json:"lastOutcome,omitempty"`
	Draft       transfer.Draft `json:"draft"`
	Reason      string         `json:"reason,omitempty"`
}

// HandleOpenTransfer seeds a draft for the given item and returns it.
func HandleOpenTransfer(st *store.Store, eng *transfer.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req OpenTransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode open transfer request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid open transfer request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]any{"errors": FormatValidationError(err)})
			return
		}

		item, ok := st.ItemByID(req.InventoryID)
		if !ok {
			respondError(w, http.StatusNotFound, ErrMsgRecordNotFound)
			return
		}

		seedCap := transfer.ListSeedCap
		if req.Detail {
			seedCap = transfer.DetailSeedCap
		}

		draft, err := eng.Open(r.Context(), item, seedCap)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: draft})
	}
}

// HandleSubmitTransfer validates and executes the transfer. Validation
// failures come back as 422 with the reason; an accepted transfer has already
// been applied locally when the response is written.
func HandleSubmitTransfer(eng *transfer.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		var req SubmitTransferRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Failed to decode submit transfer request", "error", err)
			respondError(w, http.StatusBadRequest, ErrMsgInvalidRequestError)
			return
		}

		if err := GetValidator().ValidateStruct(req); err != nil {
			log.Warn("Invalid submit transfer request", "error", err)
			respondJSON(w, http.StatusBadRequest, map[string]any{"errors": FormatValidationError(err)})
			return
		}

		draft := transfer.Draft{
			InventoryID:            req.InventoryID,
			SourceWarehouseID:      req.SourceWarehouseID,
			DestinationWarehouseID: req.DestinationWarehouseID,
			Quantity:               req.Quantity,
			StorageLocation:        req.StorageLocation,
		}
		if err := eng.Submit(r.Context(), draft); err != nil {
			log.Warn("Transfer not submitted", "error", err, "inventory_id", req.InventoryID)
			respondServiceError(w, err)
			return
		}

		respondJSON(w, http.StatusAccepted, SuccessResponse{Message: "Transfer submitted"})
	}
}

// HandleTransferStatus reports the engine state for polling callers.
func HandleTransferStatus(eng *transfer.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := TransferStatusResponse{
			State:       eng.State(),
			LastOutcome: eng.LastOutcome(),
			Draft:       eng.CurrentDraft(),
		}
		if reason := eng.RejectionReason(); reason != nil {
			resp.Reason = reason.Error()
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
