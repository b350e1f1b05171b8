package handlers

import (
	"context"
	"net/http"
)

type stateKey struct{}

// MiddlewareRequireSession sends visitors without a live API session to the
// login page. The resolved state rides on the request context so the
// handler does not ask the API a second time.
func (h *Handler) MiddlewareRequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st := h.state(r)
		if !st.session.LoggedIn {
			redirect(w, r, "/login")
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), stateKey{}, st)))
	})
}
