package privacy

import (
	"strings"

	"github.com/metamui-network/metascan-api/internal/identity"
)

// Field is one DID-valued field of a record, tagged with its role (sender,
// receiver, memo, ...).
type Field struct {
	Role  string
	Value string
}

// Policy decides whether a caller may see unmasked identifiers and applies
// the deterministic redaction transform. It is a pure function of its
// inputs: no store access, no side effects.
type Policy struct {
	PrefixLen int
	Width     int
	MaskRune  rune
}

// NewPolicy builds a masking policy. Width must be at least PrefixLen.
func NewPolicy(prefixLen, width int, maskRune rune) Policy {
	if maskRune == 0 {
		maskRune = '*'
	}
	if width < prefixLen {
		width = prefixLen
	}
	return Policy{PrefixLen: prefixLen, Width: width, MaskRune: maskRune}
}

// Mask redacts a single identifier: the configured prefix is kept and the
// remainder is replaced with the mask rune, padded and truncated to the
// display width. Masking an already-masked value is a no-op.
func (p Policy) Mask(did string) string {
	runes := []rune(did)
	if len(runes) > p.PrefixLen {
		runes = runes[:p.PrefixLen]
	}
	out := string(runes)
	if pad := p.Width - len([]rune(out)); pad > 0 {
		out += strings.Repeat(string(p.MaskRune), pad)
	}
	outRunes := []rune(out)
	if len(outRunes) > p.Width {
		outRunes = outRunes[:p.Width]
	}
	return string(outRunes)
}

// Reveal reports whether the caller may see the record unmasked: the caller
// must be authenticated and its DID must be among the participants. The
// decision is per record, not per field.
func (p Policy) Reveal(ident identity.Identity, participants []string) bool {
	if !ident.Authenticated {
		return false
	}
	for _, participant := range participants {
		if participant != "" && participant == ident.DID {
			return true
		}
	}
	return false
}

// MaskFields applies the all-or-nothing record rule: when the caller is one
// of the participants every field is returned as-is; otherwise every field
// is masked.
func (p Policy) MaskFields(fields []Field, ident identity.Identity) []Field {
	participants := make([]string, 0, len(fields))
	for _, f := range fields {
		participants = append(participants, f.Value)
	}
	if p.Reveal(ident, participants) {
		return fields
	}
	masked := make([]Field, len(fields))
	for i, f := range fields {
		masked[i] = Field{Role: f.Role, Value: p.Mask(f.Value)}
	}
	return masked
}
