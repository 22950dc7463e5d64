package api

import (
	"net/http"

	"github.com/campusfeed/campusfeed/internal/domain"
)

func (h *handlers) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	profile, err := h.Users.Profile(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user": profile.User,
		"stats": map[string]int64{
			"posts":    profile.Posts,
			"comments": profile.Comments,
		},
	})
}

func (h *handlers) searchUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.Search(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		writeError(w, err)
		return
	}
	if users == nil {
		users = []*domain.User{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}
