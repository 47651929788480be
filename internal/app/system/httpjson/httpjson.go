// Package httpjson renders JSON responses and maps the apperr taxonomy onto
// HTTP status codes. All error bodies have the shape {"error": message}.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/memberhub/memberhub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// MaxBodySize caps request bodies to prevent memory exhaustion from
// oversized submissions.
const MaxBodySize = 1 << 20 // 1 MB

// Respond writes v as JSON with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("response encode failed", zap.Error(err))
	}
}

// Decode reads a JSON request body into dst, enforcing MaxBodySize and
// rejecting empty or malformed payloads as Validation failures.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.Validation, "request body is required")
		}
		return apperr.Wrap(apperr.Validation, "malformed request body", err)
	}
	return nil
}

// StatusFor maps a taxonomy kind to its HTTP status code.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Unauthenticated:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

type errorBody struct {
	Error string `json:"error"`
}

// Error renders err per the taxonomy. Internal causes are logged, not
// leaked; the body carries only the user-facing message.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal && log != nil {
		log.Error("request failed", zap.Error(err))
	}
	Respond(w, StatusFor(kind), errorBody{Error: apperr.Message(err)})
}

// Unauthorized writes the generic 401 body.
func Unauthorized(w http.ResponseWriter) {
	Respond(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
}

// Forbidden writes the generic 403 body. The message is identical for every
// deny so callers cannot probe for record existence.
func Forbidden(w http.ResponseWriter) {
	Respond(w, http.StatusForbidden, errorBody{Error: "forbidden"})
}
