package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testKey = "0123456789abcdef0123456789abcdef"

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewIssuer(testKey, time.Hour)
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	verifier, err := NewVerifier(testKey)
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	in := &AuthUser{ID: "abc123", Name: "Ada", Email: "ada@example.com", Role: "student"}
	token, err := issuer.Issue(in, time.Now())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	out, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if out.ID != in.ID || out.Name != in.Name || out.Email != in.Email || out.Role != in.Role {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer, _ := NewIssuer(testKey, time.Minute)
	verifier, _ := NewVerifier(testKey)

	token, err := issuer.Issue(&AuthUser{ID: "abc", Role: "student"}, time.Now().Add(-time.Hour))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestVerify_WrongKey(t *testing.T) {
	issuer, _ := NewIssuer(testKey, time.Hour)
	verifier, _ := NewVerifier("ffffffffffffffffffffffffffffffff")

	token, _ := issuer.Issue(&AuthUser{ID: "abc", Role: "student"}, time.Now())
	if _, err := verifier.Verify(token); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken for wrong key, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	verifier, _ := NewVerifier(testKey)
	if _, err := verifier.Verify("not-a-token"); err != ErrInvalidToken {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestNewIssuer_WeakKey(t *testing.T) {
	if _, err := NewIssuer("short", time.Hour); err == nil {
		t.Error("expected error for weak signing key")
	}
}

func TestLoadTokenUser(t *testing.T) {
	issuer, _ := NewIssuer(testKey, time.Hour)
	verifier, _ := NewVerifier(testKey)

	token, _ := issuer.Issue(&AuthUser{ID: "abc", Name: "Ada", Role: "club"}, time.Now())

	var got *AuthUser
	handler := verifier.LoadTokenUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = CurrentUser(r)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != "abc" || got.Role != "club" {
		t.Errorf("expected user in context, got %+v", got)
	}
}

func TestLoadTokenUser_NoToken(t *testing.T) {
	verifier, _ := NewVerifier(testKey)

	var found bool
	handler := verifier.LoadTokenUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = CurrentUser(r)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if found {
		t.Error("anonymous request should have no user in context")
	}
}

func TestRequireSignedIn(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	// Without user: 401.
	rec := httptest.NewRecorder()
	RequireSignedIn(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}

	// With user: passes through.
	rec = httptest.NewRecorder()
	req := WithTestUser(httptest.NewRequest(http.MethodGet, "/", nil), &AuthUser{ID: "abc", Role: "student"})
	RequireSignedIn(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("signed in: got %d, want 204", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mw := RequireRole("club")

	// Wrong role: 403.
	rec := httptest.NewRecorder()
	req := WithTestUser(httptest.NewRequest(http.MethodPost, "/", nil), &AuthUser{ID: "abc", Role: "student"})
	mw(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("wrong role: got %d, want 403", rec.Code)
	}

	// Allowed role, case-insensitive.
	rec = httptest.NewRecorder()
	req = WithTestUser(httptest.NewRequest(http.MethodPost, "/", nil), &AuthUser{ID: "abc", Role: "Club"})
	mw(next).ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("allowed role: got %d, want 204", rec.Code)
	}

	// No user: 401.
	rec = httptest.NewRecorder()
	mw(next).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}
}
