package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/campusfeed/campusfeed/internal/domain"
	"github.com/campusfeed/campusfeed/internal/logging"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("failed to encode response")
	}
}

// writeError maps the domain error taxonomy onto status codes. Untyped
// errors become an opaque 500; their details go to the log, not the client.
func writeError(w http.ResponseWriter, err error) {
	switch domain.KindOf(err) {
	case domain.KindValidation:
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error(), Kind: string(domain.KindValidation)})
	case domain.KindNotFound:
		writeJSON(w, http.StatusNotFound, errorBody{Error: err.Error(), Kind: string(domain.KindNotFound)})
	case domain.KindUnauthorized:
		writeJSON(w, http.StatusForbidden, errorBody{Error: err.Error(), Kind: string(domain.KindUnauthorized)})
	default:
		logging.Error().Err(err).Msg("internal error")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error", Kind: "internal"})
	}
}

// uintParam parses a numeric chi URL parameter.
func uintParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, domain.Validationf("invalid %s %q", name, raw)
	}
	return uint(v), nil
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Validationf("malformed request body")
	}
	return nil
}
