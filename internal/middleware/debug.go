package middleware

import (
	"context"
	"net/http"
)

const debugKey contextKey = "debug"

// Debug marks the request as a debug view when the ?debug=true query
// parameter is present. Debug is a presentation flag only: templates show
// extra diagnostics (timestamps, IDs, visibility state) but no access
// rule changes at all.
func Debug(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("debug") == "true" {
			ctx := context.WithValue(r.Context(), debugKey, true)
			r = r.WithContext(ctx)
		}
		next.ServeHTTP(w, r)
	})
}

// DebugFromCtx reports whether the request asked for the debug view.
func DebugFromCtx(ctx context.Context) bool {
	d, _ := ctx.Value(debugKey).(bool)
	return d
}
