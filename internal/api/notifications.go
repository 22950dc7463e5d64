package api

import (
	"net/http"

	"github.com/campusfeed/campusfeed/internal/domain"
)

func (h *handlers) listNotifications(w http.ResponseWriter, r *http.Request) {
	unread, err := h.Notifications.ListUnread(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	if unread == nil {
		unread = []*domain.Notification{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": unread})
}

func (h *handlers) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Notifications.MarkRead(r.Context(), id, currentUserID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
