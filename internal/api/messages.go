package api

import (
	"net/http"
	"strconv"

	"github.com/campusfeed/campusfeed/internal/domain"
)

func (h *handlers) listThreads(w http.ResponseWriter, r *http.Request) {
	threads, err := h.Messages.ListThreads(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"threads": threads})
}

func (h *handlers) getConversation(w http.ResponseWriter, r *http.Request) {
	otherID, err := uintParam(r, "otherID")
	if err != nil {
		writeError(w, err)
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	msgs, err := h.Messages.Conversation(r.Context(), currentUserID(r), otherID, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	if msgs == nil {
		msgs = []*domain.Message{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

type sendMessageRequest struct {
	RecipientID uint   `json:"recipient_id"`
	Content     string `json:"content"`
}

func (h *handlers) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	msg, notif, err := h.Messages.Send(r.Context(), currentUserID(r), req.RecipientID, req.Content)
	if err != nil {
		writeError(w, err)
		return
	}

	body := map[string]any{"message": msg}
	if notif != nil {
		body["notification_id"] = notif.ID
	}
	writeJSON(w, http.StatusCreated, body)
}

func (h *handlers) markMessageRead(w http.ResponseWriter, r *http.Request) {
	id, err := uintParam(r, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.Messages.MarkRead(r.Context(), id, currentUserID(r)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *handlers) unreadCount(w http.ResponseWriter, r *http.Request) {
	n, err := h.Messages.UnreadCount(r.Context(), currentUserID(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": n})
}
