// Package privacy implements DID decoding and the per-record masking
// policy applied before identifiers leave the API.
package privacy

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// didHexWidth is the fixed on-chain width of a DID in hex characters:
// 32 bytes, right-padded.
const didHexWidth = 64

// DecodeDID converts the persisted hex encoding (with or without a 0x
// prefix) into the readable identifier, stripping the fixed-width padding.
func DecodeDID(encoded string) (string, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(encoded, "0x"))
	if err != nil {
		return "", fmt.Errorf("decode did hex: %w", err)
	}
	return strings.TrimRight(string(raw), " \t\r\n\x00"), nil
}

// EncodeDID converts a readable identifier into the padded 0x-prefixed hex
// form stored on chain, truncated to the fixed 32-byte width.
func EncodeDID(did string) string {
	encoded := hex.EncodeToString([]byte(did))
	if len(encoded) < didHexWidth {
		encoded += strings.Repeat("0", didHexWidth-len(encoded))
	}
	encoded = "0x" + encoded
	if len(encoded) > didHexWidth+2 {
		encoded = encoded[:didHexWidth+2]
	}
	return encoded
}

// StripHexPrefix removes a leading 0x, if present.
func StripHexPrefix(s string) string {
	return strings.TrimPrefix(s, "0x")
}
