package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/campusfeed/campusfeed/internal/auth"
	"github.com/campusfeed/campusfeed/internal/logging"
)

type contextKey int

const identityKey contextKey = iota

// requireAuth resolves the bearer token and stores the identity in the
// request context. Requests without a valid token never reach a handler.
func requireAuth(authn auth.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing credentials", Kind: "unauthorized"})
				return
			}
			identity, err := authn.Authenticate(parts[1])
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid credentials", Kind: "unauthorized"})
				return
			}
			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// currentUserID returns the authenticated user id; requireAuth guarantees it
// is present on /api routes.
func currentUserID(r *http.Request) uint {
	identity, _ := r.Context().Value(identityKey).(*auth.Identity)
	if identity == nil {
		return 0
	}
	return identity.UserID
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(wrapped, r)

		logging.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapped.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
