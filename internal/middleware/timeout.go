package middleware

import (
	"context"
	"net/http"
	"time"
)

// Deadline bounds each request's context to d.
//
// It works like chi's middleware.Timeout but never writes a response of its
// own: a handler whose store call runs out of time already answers with its
// 500, and a second WriteHeader would only be dropped by net/http.
func Deadline(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
