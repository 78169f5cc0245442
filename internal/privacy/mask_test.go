package privacy

import (
	"strings"
	"testing"

	"github.com/metamui-network/metascan-api/internal/identity"
)

func TestMaskKeepsPrefixAndWidth(t *testing.T) {
	policy := NewPolicy(4, 12, '*')

	got := policy.Mask("did:mui:alice")
	if got != "did:********" {
		t.Fatalf("unexpected mask: %q", got)
	}
	if len([]rune(got)) != 12 {
		t.Fatalf("masked value not at display width: %q", got)
	}
}

func TestMaskPadsShortValues(t *testing.T) {
	policy := NewPolicy(4, 12, '*')

	got := policy.Mask("ab")
	if got != "ab**********" {
		t.Fatalf("unexpected mask of short value: %q", got)
	}
}

func TestMaskIsIdempotent(t *testing.T) {
	policy := NewPolicy(4, 12, '*')

	once := policy.Mask("did:mui:alice")
	twice := policy.Mask(once)
	if once != twice {
		t.Fatalf("re-masking changed the value: %q -> %q", once, twice)
	}
}

func TestNewPolicyRaisesWidthToPrefix(t *testing.T) {
	policy := NewPolicy(8, 4, '*')
	if policy.Width != 8 {
		t.Fatalf("expected width raised to prefix length, got %d", policy.Width)
	}
}

func TestRevealRequiresAuthenticatedParticipant(t *testing.T) {
	policy := NewPolicy(4, 12, '*')
	participants := []string{"did:mui:alice", "did:mui:bob"}

	if policy.Reveal(identity.Anonymous, participants) {
		t.Fatal("anonymous caller must not reveal")
	}
	if policy.Reveal(identity.Identity{DID: "did:mui:carol", Authenticated: true}, participants) {
		t.Fatal("non-participant must not reveal")
	}
	if !policy.Reveal(identity.Identity{DID: "did:mui:bob", Authenticated: true}, participants) {
		t.Fatal("participant must reveal")
	}
	if policy.Reveal(identity.Identity{Authenticated: true}, []string{""}) {
		t.Fatal("empty participant must never match")
	}
}

func TestMaskFieldsAllOrNothing(t *testing.T) {
	policy := NewPolicy(4, 12, '*')
	fields := []Field{
		{Role: "sender", Value: "did:mui:alice"},
		{Role: "receiver", Value: "did:mui:bob"},
	}

	masked := policy.MaskFields(fields, identity.Anonymous)
	for _, f := range masked {
		if !strings.HasSuffix(f.Value, "*") {
			t.Fatalf("field %s not masked: %q", f.Role, f.Value)
		}
	}

	revealed := policy.MaskFields(fields, identity.Identity{DID: "did:mui:alice", Authenticated: true})
	if revealed[0].Value != "did:mui:alice" || revealed[1].Value != "did:mui:bob" {
		t.Fatalf("participant should see every field unmasked, got %+v", revealed)
	}
}
