// internal/app/system/auth/token.go
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrNoToken is returned when a request carries no bearer token.
	ErrNoToken = errors.New("no bearer token")
	// ErrInvalidToken is returned when a token fails verification.
	ErrInvalidToken = errors.New("invalid token")
)

// Claims are the JWT claims CampusHub issues at login.
type Claims struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs tokens at login and Verifier checks them on each request.
// Both are constructed once at startup from the configured signing key.
type Issuer struct {
	key []byte
	ttl time.Duration
}

// NewIssuer creates a token issuer. ttl bounds how long issued tokens
// remain valid.
func NewIssuer(key string, ttl time.Duration) (*Issuer, error) {
	if len(key) < 32 {
		return nil, errors.New("token signing key must be at least 32 bytes")
	}
	return &Issuer{key: []byte(key), ttl: ttl}, nil
}

// Issue signs a token for the given account identity.
func (i *Issuer) Issue(u *AuthUser, now time.Time) (string, error) {
	claims := Claims{
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
}

// Verifier checks bearer tokens.
type Verifier struct {
	key []byte
}

// NewVerifier creates a token verifier for the same signing key the
// issuer uses.
func NewVerifier(key string) (*Verifier, error) {
	if len(key) < 32 {
		return nil, errors.New("token signing key must be at least 32 bytes")
	}
	return &Verifier{key: []byte(key)}, nil
}

// Verify parses and validates a signed token, returning the identity it
// carries.
func (v *Verifier) Verify(token string) (*AuthUser, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.key, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return &AuthUser{
		ID:    claims.Subject,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}, nil
}
