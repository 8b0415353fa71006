// Package middleware provides HTTP middleware for session identity and
// rate limiting.
package middleware

import (
	"context"
	"net/http"

	"softfocus/internal/domain"
)

// SessionCookie is the cookie carrying the browser's workspace identity.
const SessionCookie = "sf_session"

type ownerIDKey struct{}

// Session returns an HTTP middleware that establishes a per-browser owner
// identity. A request without the session cookie gets a fresh ID, set both on
// the response and in the request context, so every later request from the
// same browser resolves to the same workspace.
func Session(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ownerID string
		if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
			ownerID = c.Value
		} else {
			ownerID = domain.NewID()
			http.SetCookie(w, &http.Cookie{
				Name:     SessionCookie,
				Value:    ownerID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}
		ctx := context.WithValue(r.Context(), ownerIDKey{}, ownerID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerFromContext extracts the owner ID established by Session.
// Returns an empty string if no session middleware ran.
func OwnerFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ownerIDKey{}).(string)
	return id
}
