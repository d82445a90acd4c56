package httpx

import (
	"errors"
	"net/http"
	"strconv"
)

// ErrInvalidID is returned by PathID for a malformed or non-positive id.
var ErrInvalidID = errors.New("invalid id")

// PathID parses the named path value as a positive integer id.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
