// internal/app/system/httpjson/httpjson.go
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/shelfshare/shelfshare/internal/app/system/apperr"
	"github.com/shelfshare/shelfshare/internal/app/system/limits"
	"go.uber.org/zap"
)

// Respond writes v as a JSON body with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Msg writes the API's standard success envelope: {"msg": ...}.
func Msg(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]any{"msg": msg})
}

// MsgWith writes {"msg": ..., <key>: <entity>}.
func MsgWith(w http.ResponseWriter, status int, msg, key string, entity any) {
	Respond(w, status, map[string]any{"msg": msg, key: entity})
}

// Error writes the API's error envelope: {"error": ...}.
func Error(w http.ResponseWriter, status int, msg string) {
	Respond(w, status, map[string]any{"error": msg})
}

// FromError maps err to a status via apperr and writes the error envelope.
// Untagged errors are logged and surfaced as a generic 500 so internal
// details never leak to clients.
func FromError(w http.ResponseWriter, log *zap.Logger, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		if log != nil {
			log.Error("request failed", zap.Error(err))
		}
		Error(w, status, "internal error")
		return
	}
	Error(w, status, err.Error())
}

// Decode reads a JSON request body into dst, bounded by MaxJSONBodySize.
// A failed decode is a Validation error.
func Decode(r *http.Request, dst any) error {
	body := io.LimitReader(r.Body, limits.MaxJSONBodySize)
	dec := json.NewDecoder(body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.Validation, "request body is empty")
		}
		return apperr.Newf(apperr.Validation, "malformed JSON body: %v", err)
	}
	return nil
}
