package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const testSecret = "test-secret"

func TestIssueAndVerify(t *testing.T) {
	issuer, err := NewIssuer(testSecret, "verbalist")
	if err != nil {
		t.Fatalf("NewIssuer failed: %v", err)
	}
	verifier, err := NewVerifier(testSecret, "verbalist")
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	token, err := issuer.Issue("user-1", "sam@example.com", time.Hour)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	id, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if id.UID != "user-1" || id.Email != "sam@example.com" {
		t.Errorf("identity = %+v", id)
	}
}

func TestVerifyRejects(t *testing.T) {
	verifier, err := NewVerifier(testSecret, "verbalist")
	if err != nil {
		t.Fatalf("NewVerifier failed: %v", err)
	}

	good, _ := NewIssuer(testSecret, "verbalist")
	otherSecret, _ := NewIssuer("other-secret", "verbalist")
	otherIssuer, _ := NewIssuer(testSecret, "someone-else")

	expired := func() string {
		tok, _ := good.Issue("user-1", "", -time.Minute)
		return tok
	}
	issue := func(i *Issuer, uid string) string {
		tok, _ := i.Issue(uid, "", time.Hour)
		return tok
	}

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "wrong secret", token: issue(otherSecret, "user-1")},
		{name: "wrong issuer", token: issue(otherIssuer, "user-1")},
		{name: "expired", token: expired()},
		{name: "empty subject", token: issue(good, "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := verifier.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify error = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestMissingSecret(t *testing.T) {
	if _, err := NewVerifier("", "x"); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("NewVerifier error = %v", err)
	}
	if _, err := NewIssuer("", "x"); !errors.Is(err, ErrMissingSecret) {
		t.Errorf("NewIssuer error = %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	verifier, _ := NewVerifier(testSecret, "verbalist")
	issuer, _ := NewIssuer(testSecret, "verbalist")
	token, _ := issuer.Issue("user-1", "", time.Hour)

	var gotID Identity
	var gotOK bool
	handler := Middleware(verifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name    string
		header  string
		wantOK  bool
		wantUID string
	}{
		{name: "no header", header: "", wantOK: false},
		{name: "valid token", header: "Bearer " + token, wantOK: true, wantUID: "user-1"},
		{name: "lowercase scheme", header: "bearer " + token, wantOK: true, wantUID: "user-1"},
		{name: "invalid token", header: "Bearer junk", wantOK: false},
		{name: "basic auth", header: "Basic dXNlcjpwYXNz", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID, gotOK = Identity{}, false
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != http.StatusNoContent {
				t.Errorf("status = %d, middleware must not reject", rec.Code)
			}
			if gotOK != tt.wantOK || gotID.UID != tt.wantUID {
				t.Errorf("FromContext = %+v, %v; want uid %q, %v", gotID, gotOK, tt.wantUID, tt.wantOK)
			}
		})
	}
}

func TestFromContextEmpty(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("FromContext on bare context reported an identity")
	}
	if _, ok := FromContext(WithIdentity(context.Background(), Identity{})); ok {
		t.Error("FromContext accepted an identity without uid")
	}
}
