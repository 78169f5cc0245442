package privacy

import (
	"strings"
	"testing"
)

func TestEncodeDecodeDIDRoundTrip(t *testing.T) {
	encoded := EncodeDID("did:mui:alice")
	if !strings.HasPrefix(encoded, "0x") {
		t.Fatalf("expected 0x prefix: %q", encoded)
	}
	if len(encoded) != 66 {
		t.Fatalf("expected fixed 32-byte hex width, got %d chars", len(encoded))
	}

	decoded, err := DecodeDID(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != "did:mui:alice" {
		t.Fatalf("round trip mismatch: %q", decoded)
	}
}

func TestDecodeDIDWithoutPrefix(t *testing.T) {
	decoded, err := DecodeDID(StripHexPrefix(EncodeDID("did:mui:bob")))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded != "did:mui:bob" {
		t.Fatalf("unexpected value: %q", decoded)
	}
}

func TestDecodeDIDRejectsBadHex(t *testing.T) {
	if _, err := DecodeDID("0xzz"); err == nil {
		t.Fatal("expected error for invalid hex")
	}
}
