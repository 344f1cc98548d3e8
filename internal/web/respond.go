package web

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/errors"
	"github.com/TeamInfinixdevcom/EXTRACTORSIM/internal/ops"
)

// renderJSON writes a JSON response.
func renderJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// renderError writes the {ok:false, error, code} shape with the status the error carries.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if appErr := errors.As(err); appErr != nil {
		status = appErr.Status
	}
	if status >= http.StatusInternalServerError {
		hlog.FromRequest(r).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	renderJSON(w, status, ops.Failure(err))
}

// respond renders an operation's (output, error) pair.
func respond[T any](w http.ResponseWriter, r *http.Request, out T, err error) {
	if err != nil {
		renderError(w, r, err)
		return
	}
	renderJSON(w, http.StatusOK, out)
}

// decodeBody reads a JSON body into T, bounded by maxBodyBytes.
func decodeBody[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		renderError(w, r, errors.NewValidation("invalid JSON body: "+err.Error()))
		return v, false
	}
	return v, true
}
