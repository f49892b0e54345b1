package handler

import (
	"net/http"

	"github.com/tmcgann/stockdeck/internal/logger"
	"github.com/tmcgann/stockdeck/internal/store"
)

// HandleRefresh replaces both collections with the server's current state.
// On failure the previous collections stay in place and the caller gets a
// gateway error; optimistic local rows are lost on success by design of a
// full refresh.
func HandleRefresh(st *store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContext(r.Context())

		if err := st.Refresh(r.Context()); err != nil {
			log.Warn("Manual refresh failed", "error", err)
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Refreshed"})
	}
}
