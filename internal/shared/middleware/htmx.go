package middleware

import (
	"context"
	"net/http"
)

type fragmentKey struct{}

// HTMX marks requests that should be answered with a page fragment.
// Boosted navigation swaps the whole body, so it still gets the full layout.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "HX-Request")

		fragment := r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Boosted") != "true"
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), fragmentKey{}, fragment)))
	})
}

// IsHTMX reports whether HTMX marked r as a fragment request.
func IsHTMX(r *http.Request) bool {
	fragment, _ := r.Context().Value(fragmentKey{}).(bool)
	return fragment
}
