// Package api wires the HTTP surface: routing, identity extraction and the
// translation between service errors and status codes.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/campusfeed/campusfeed/internal/auth"
	"github.com/campusfeed/campusfeed/internal/metrics"
	"github.com/campusfeed/campusfeed/internal/service"
	"github.com/campusfeed/campusfeed/internal/ws"
)

// Deps carries everything the router needs. All fields are required.
type Deps struct {
	Messages      *service.MessageService
	Notifications *service.NotificationService
	Comments      *service.CommentService
	Users         *service.UserService
	Hub           *ws.Hub
	Authn         auth.Authenticator
}

type handlers struct {
	Deps
}

// NewRouter builds the chi router with the full route table.
func NewRouter(deps Deps) http.Handler {
	h := &handlers{Deps: deps}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(deps.Hub, deps.Authn, w, req)
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(requireAuth(deps.Authn))

		r.Route("/messages", func(r chi.Router) {
			r.Get("/threads", h.listThreads)
			r.Get("/conversation/{otherID}", h.getConversation)
			r.Post("/", h.sendMessage)
			r.Post("/{id}/read", h.markMessageRead)
			r.Get("/unread-count", h.unreadCount)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", h.listNotifications)
			r.Post("/{id}/read", h.markNotificationRead)
		})

		r.Route("/posts/{postID}/comments", func(r chi.Router) {
			r.Get("/", h.listComments)
			r.Post("/", h.addComment)
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", h.searchUsers)
			r.Get("/{id}", h.getUser)
		})
	})

	return r
}
