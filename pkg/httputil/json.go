package httputil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	terrors "github.com/matzehuels/termmap/pkg/errors"
)

// MaxBodyBytes bounds request bodies accepted by [DecodeJSON].
const MaxBodyBytes = 1 << 20

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes v as JSON with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err in the error envelope. Codes without a client
// meaning are reported as INTERNAL_ERROR.
func WriteError(w http.ResponseWriter, err error) {
	status := terrors.HTTPStatus(err)
	code := terrors.GetCode(err)
	msg := terrors.UserMessage(err)
	if status == http.StatusInternalServerError {
		code, msg = terrors.ErrCodeInternal, "internal error"
	}
	WriteJSON(w, status, ErrorBody{Error: ErrorDetail{Code: string(code), Message: msg}})
}

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return terrors.New(terrors.ErrCodeInvalidInput, "request body is empty")
		}
		return terrors.Wrap(terrors.ErrCodeInvalidInput, err, "invalid request body: %v", err)
	}
	return nil
}
