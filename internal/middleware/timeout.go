package middleware

import (
	"context"
	"net/http"
	"time"
)

// Timeout cancels the request context after d. Handlers that respect
// ctx.Done() stop doing work for abandoned requests.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
