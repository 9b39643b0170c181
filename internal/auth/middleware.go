package auth

import (
	"context"
	"net/http"
	"net/url"
)

// contextKey is an unexported type for context keys in this package.
// Using a package-private type (instead of a plain string) means no other
// package can read or shadow the userID value in the request context.
type contextKey string

const userIDKey contextKey = "userID"

// LoginPath is where unauthenticated users are sent when they hit a
// protected route. The original URL rides along as ?next= so login can
// bounce them back.
const LoginPath = "/auth/login/"

// RequireAuth enforces authentication on protected routes (creating a
// post, commenting, following, the personal feed).
//
// This is an HTML site, not an API: a guest gets a redirect to the login
// page, never a 401 body. The protected operation itself is never reached,
// which is the whole of the "Unauthenticated" error handling — there is no
// per-handler check to forget.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := extractUserID(r, tokens)
			if err != nil {
				http.Redirect(w, r, LoginPath+"?next="+url.QueryEscape(r.URL.Path), http.StatusSeeOther)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the identity when a valid session cookie is
// present but never blocks the request. Public pages use it: a profile
// renders for everyone, but only an authenticated viewer sees their
// follow/unfollow state.
func OptionalAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if userID, err := extractUserID(r, tokens); err == nil && userID != "" {
				ctx := context.WithValue(r.Context(), userIDKey, userID)
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// UserIDFromContext retrieves the authenticated user's ID.
// Returns ("", false) for an anonymous request.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// WithUserID returns a context carrying the given user ID. Handler tests
// use it to simulate an authenticated request without minting a token.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func extractUserID(r *http.Request, tokens *TokenService) (string, error) {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return "", err
	}
	return tokens.Validate(cookie.Value)
}
