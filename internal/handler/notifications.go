package handler

import (
	"net/http"

	"github.com/tmcgann/stockdeck/internal/notify"
)

// HandleListNotifications returns the retained notification history, newest
// first.
func HandleListNotifications(center *notify.Center) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, DataResponse{Data: center.Notifications()})
	}
}

// HandleClearNotifications drops the history.
func HandleClearNotifications(center *notify.Center) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		center.Clear()
		respondJSON(w, http.StatusOK, SuccessResponse{Message: "Notifications cleared"})
	}
}
