package httpx

import (
	"errors"
	"net/http"

	"booksbackend/internal/response"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteJSON encodes v with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteEnvelope writes an operation result as returned by a service.
func WriteEnvelope[T any](w http.ResponseWriter, env *response.Envelope[T], statusCode int) {
	WriteJSON(w, statusCode, env)
}

// WriteFailure writes a failure envelope with an empty payload keyed by key.
func WriteFailure(w http.ResponseWriter, statusCode int, key, detail string) {
	WriteJSON(w, statusCode, response.New[struct{}](key).Fail(detail))
}

// DecodeJSON decodes the request body into dst, rejecting unknown fields.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// WriteDecodeFailure reports a body DecodeJSON rejected: 413 when the request
// size limit cut the body off, 400 for anything else.
func WriteDecodeFailure(w http.ResponseWriter, key string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteFailure(w, http.StatusRequestEntityTooLarge, key, "Request body too large")
		return
	}
	WriteFailure(w, http.StatusBadRequest, key, "Invalid request body")
}
