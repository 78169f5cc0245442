package identity

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	testKey    = "validator-secret"
	testIssuer = "did:mui:issuer"
)

func mintToken(t *testing.T, key, issuer, did string, expiresAt time.Time) string {
	t.Helper()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	claims.Data.DID = did
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

func testGate() *Gate {
	return NewGate([]string{testKey, "secondary-secret"}, []string{testIssuer}, nil)
}

func TestValidateAcceptsTrustedToken(t *testing.T) {
	g := testGate()
	token := mintToken(t, testKey, testIssuer, "did:mui:alice", time.Now().Add(time.Hour))

	ident := g.Validate(token)
	if !ident.Authenticated || ident.DID != "did:mui:alice" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
}

func TestValidateAcceptsAnyConfiguredKey(t *testing.T) {
	g := testGate()
	token := mintToken(t, "secondary-secret", testIssuer, "did:mui:bob", time.Now().Add(time.Hour))

	ident := g.Validate(token)
	if !ident.Authenticated || ident.DID != "did:mui:bob" {
		t.Fatalf("unexpected identity: %+v", ident)
	}
}

func TestValidateDegradesToAnonymous(t *testing.T) {
	g := testGate()

	cases := map[string]string{
		"unknown key":      mintToken(t, "stranger-secret", testIssuer, "did:mui:alice", time.Now().Add(time.Hour)),
		"untrusted issuer": mintToken(t, testKey, "did:mui:stranger", "did:mui:alice", time.Now().Add(time.Hour)),
		"expired":          mintToken(t, testKey, testIssuer, "did:mui:alice", time.Now().Add(-time.Hour)),
		"missing did":      mintToken(t, testKey, testIssuer, "", time.Now().Add(time.Hour)),
		"garbage":          "not.a.token",
		"empty":            "",
	}
	for name, token := range cases {
		if ident := g.Validate(token); ident != Anonymous {
			t.Fatalf("%s: expected anonymous, got %+v", name, ident)
		}
	}
}

func TestValidateWithoutKeysIsAnonymous(t *testing.T) {
	g := NewGate(nil, []string{testIssuer}, nil)
	token := mintToken(t, testKey, testIssuer, "did:mui:alice", time.Now().Add(time.Hour))
	if ident := g.Validate(token); ident != Anonymous {
		t.Fatalf("expected anonymous, got %+v", ident)
	}
}

func TestFromRequest(t *testing.T) {
	g := testGate()
	token := mintToken(t, testKey, testIssuer, "did:mui:alice", time.Now().Add(time.Hour))

	r := httptest.NewRequest("GET", "/balances/transfers", nil)
	if ident := g.FromRequest(r); ident != Anonymous {
		t.Fatalf("no header must yield anonymous, got %+v", ident)
	}

	r.Header.Set("Authorization", "Bearer "+token)
	if ident := g.FromRequest(r); ident.DID != "did:mui:alice" {
		t.Fatalf("bearer token not resolved: %+v", ident)
	}

	// The issuer sends the raw token without a scheme.
	r.Header.Set("Authorization", token)
	if ident := g.FromRequest(r); ident.DID != "did:mui:alice" {
		t.Fatalf("bare token not resolved: %+v", ident)
	}
}

func TestContextRoundTrip(t *testing.T) {
	ident := Identity{DID: "did:mui:alice", Authenticated: true}
	ctx := ContextWithIdentity(httptest.NewRequest("GET", "/", nil).Context(), ident)
	if got := FromContext(ctx); got != ident {
		t.Fatalf("context round trip: %+v", got)
	}
	if got := FromContext(httptest.NewRequest("GET", "/", nil).Context()); got != Anonymous {
		t.Fatalf("missing identity must default to anonymous: %+v", got)
	}
}
