package api

import (
	"net/http"

	"github.com/campusfeed/campusfeed/internal/domain"
)

type addCommentRequest struct {
	Content  string `json:"content"`
	ParentID *uint  `json:"parent_id,omitempty"`
}

func (h *handlers) addComment(w http.ResponseWriter, r *http.Request) {
	postID, err := uintParam(r, "postID")
	if err != nil {
		writeError(w, err)
		return
	}
	var req addCommentRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.Comments.AddComment(r.Context(), postID, currentUserID(r), req.Content, req.ParentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"comment": comment})
}

func (h *handlers) listComments(w http.ResponseWriter, r *http.Request) {
	postID, err := uintParam(r, "postID")
	if err != nil {
		writeError(w, err)
		return
	}
	comments, err := h.Comments.ListForPost(r.Context(), postID)
	if err != nil {
		writeError(w, err)
		return
	}
	if comments == nil {
		comments = []*domain.Comment{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"comments": comments})
}
