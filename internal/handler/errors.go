package handler

import (
	"errors"
	"net/http"

	"github.com/tmcgann/stockdeck/internal/domain"
)

// User-facing error messages
const (
	ErrMsgGenericServerError  = "Something went wrong"
	ErrMsgInvalidRequestError = "Invalid request. Please check your inputs."

	ErrMsgRecordNotFound       = "Record not found. It may have been removed; try refreshing."
	ErrMsgConfirmationRequired = "Deletion requires confirmation"
	ErrMsgRemoteUnavailable    = "The warehouse service is unavailable. Please try again."

	ErrMsgInvalidDestination = "Choose a destination warehouse different from the source"
	ErrMsgInvalidQuantity    = "Transfer quantity must be positive"
	ErrMsgCapacityExceeded   = "The destination warehouse does not have room for that quantity"

	ErrMsgDeleteFailed   = "Delete failed; the record was kept"
	ErrMsgRefreshFailed  = "Refresh failed; showing the last known state"
	ErrMsgTransferFailed = "Transfer could not be submitted"
)

// respondServiceError maps domain errors to HTTP status codes and
// user-facing messages.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotConfirmed):
		respondError(w, http.StatusConflict, ErrMsgConfirmationRequired)
	case errors.Is(err, domain.ErrStaleReference):
		respondError(w, http.StatusNotFound, ErrMsgRecordNotFound)
	case errors.Is(err, domain.ErrInvalidDestination):
		respondError(w, http.StatusUnprocessableEntity, ErrMsgInvalidDestination)
	case errors.Is(err, domain.ErrInvalidQuantity):
		respondError(w, http.StatusUnprocessableEntity, ErrMsgInvalidQuantity)
	case errors.Is(err, domain.ErrCapacityExceeded):
		respondError(w, http.StatusUnprocessableEntity, ErrMsgCapacityExceeded)
	case errors.Is(err, domain.ErrFetch):
		respondError(w, http.StatusBadGateway, ErrMsgRemoteUnavailable)
	default:
		respondError(w, http.StatusInternalServerError, ErrMsgGenericServerError)
	}
}
