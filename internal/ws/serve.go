package ws

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/campusfeed/campusfeed/internal/auth"
	"github.com/campusfeed/campusfeed/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin checks belong to the reverse proxy in this deployment.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeWS authenticates the request, upgrades it and registers the resulting
// client in the user's room. Unauthenticated connections are terminated
// before registration.
func ServeWS(hub *Hub, authn auth.Authenticator, w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		http.Error(w, "missing credentials", http.StatusUnauthorized)
		return
	}
	identity, err := authn.Authenticate(token)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		id:     uuid.NewString(),
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
		userID: identity.UserID,
		room:   RoomForUser(identity.UserID),
	}

	hub.register(client)
	go client.writePump()
	go client.readPump()
}

// bearerToken pulls the token from the Authorization header, falling back to
// the "token" query parameter for browser WebSocket clients that cannot set
// headers.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
			return parts[1]
		}
		return ""
	}
	return r.URL.Query().Get("token")
}
