package httpx

import (
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// RecoveryMiddleware turns a handler panic into a 500 failure envelope.
func RecoveryMiddleware(log logrus.FieldLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw, ok := w.(*responseWriter)
			if !ok {
				rw = &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			}
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(logrus.Fields{
						"request_id": RequestIDFrom(r),
						"panic":      err,
						"stack":      string(debug.Stack()),
					}).Error("panic recovered")

					if !rw.wroteHeader() {
						WriteFailure(rw, http.StatusInternalServerError, "errors", "An internal error occurred")
					}
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
