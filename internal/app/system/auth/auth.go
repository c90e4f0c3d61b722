// Package auth loads the authenticated account from a bearer token and
// exposes it to handlers via the request context.
//
// The API is token-based: clients send "Authorization: Bearer <jwt>"
// issued by the login endpoint. Handlers never verify credentials
// themselves; they read the already-authenticated identity with
// CurrentUser and make authorization decisions from role/ownership.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// AuthUser is the authenticated identity injected into r.Context().
type AuthUser struct {
	ID    string
	Name  string
	Email string
	Role  string // student | club | admin
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the authenticated user and a found flag.
func CurrentUser(r *http.Request) (*AuthUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*AuthUser)
	return u, ok
}

func withUser(r *http.Request, u *AuthUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// WithTestUser injects a user into the request context, bypassing token
// verification. For handler tests only.
func WithTestUser(r *http.Request, u *AuthUser) *http.Request {
	return withUser(r, u)
}

// LoadTokenUser is middleware that parses the Authorization header and,
// when it carries a valid token, puts the AuthUser in context. Requests
// without a token (or with an invalid one) pass through anonymously;
// RequireSignedIn / RequireRole decide whether that matters.
func (v *Verifier) LoadTokenUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u, err := v.UserFromRequest(r); err == nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromRequest extracts and verifies the bearer token on r.
func (v *Verifier) UserFromRequest(r *http.Request) (*AuthUser, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, ErrNoToken
	}
	return v.Verify(strings.TrimPrefix(header, "Bearer "))
}

// RequireSignedIn ensures there is a user in context (set by
// LoadTokenUser). Otherwise it responds 401 with a JSON body.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		writeDenied(w, http.StatusUnauthorized, "unauthorized")
	})
}

// RequireRole ensures the user in context holds one of the allowed roles.
// Missing user responds 401; wrong role responds 403.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				writeDenied(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				writeDenied(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeDenied(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"success": false, "message": msg})
}
