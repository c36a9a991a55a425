package request

import (
	"net/http"
)

// DefaultBodyLimit fits a full citizen profile with room to spare.
const DefaultBodyLimit int64 = 64 << 10

// BodyLimit caps request bodies with http.MaxBytesReader. Reads past the limit
// fail with *http.MaxBytesError, which httputil.DecodeJSON answers with 413.
// Mount it before any handler that parses JSON.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
