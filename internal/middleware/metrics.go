package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/exercise-tracker/internal/metrics"
)

// Metrics records request counts and latency per route pattern.
//
// The pattern is read after the handler runs, once chi has finished routing.
// Requests that matched no route are grouped under "unmatched".
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrap(w)

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}

		metrics.RecordHTTPRequest(route, r.Method, wrapped.statusCode, time.Since(start))
	})
}
