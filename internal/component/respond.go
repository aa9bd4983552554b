// internal/component/respond.go
//
// JSON helpers shared by component handlers.
//
// Notes
// -----
// • Field-level problems (*form.ValidationError) are 422 with the field
//   list.  Everything else a handler cannot explain is 500 with a generic
//   message; the cause goes to the log, never to the client.

package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/form"
	"github.com/yanizio/storefront/internal/logger"
)

// maxBody caps JSON request bodies.
const maxBody = 1 << 20

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error  string            `json:"error"`
	Fields []form.ErrorField `json:"errors,omitempty"`
}

// WriteJSON encodes v with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write json", zap.Error(err))
	}
}

// DecodeJSON reads r's body into v.  Unknown fields are rejected.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &form.ValidationError{Fields: []form.ErrorField{{
			Message: fmt.Sprintf("Malformed request body: %v", err),
		}}}
	}
	return nil
}

// WriteError maps err onto a response.  msg is the user-facing text for
// unexpected failures.
func WriteError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		WriteJSON(w, http.StatusUnprocessableEntity, ErrorBody{
			Error:  "Please correct the highlighted fields.",
			Fields: ve.Fields,
		})
		return
	}
	logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
	WriteJSON(w, http.StatusInternalServerError, ErrorBody{Error: msg})
}
