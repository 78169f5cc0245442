package api

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx/types"
	"github.com/tidwall/gjson"
	"golang.org/x/crypto/blake2b"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/identity"
	"github.com/metamui-network/metascan-api/internal/privacy"
)

// oversizedValueLen is the hex-character threshold above which a parameter
// value is replaced by its content hash. Clients fetch the payload itself
// through a dedicated download path keyed by that hash.
const oversizedValueLen = 200000

// downloadableBytesType retags scrubbed parameters so clients know the
// value is a hash reference, not the bytes.
const downloadableBytesType = "DownloadableBytesHash"

type callParam struct {
	Name  string          `json:"name"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// scrubParams replaces oversized parameter values with "{id}/{hash}" where
// hash is the blake2b-256 digest of the value. Parameters that fail to
// parse are passed through untouched.
func scrubParams(id string, raw types.JSONText) types.JSONText {
	if len(raw) == 0 {
		return raw
	}
	var params []callParam
	if err := json.Unmarshal(raw, &params); err != nil {
		return raw
	}
	changed := false
	for i, param := range params {
		value := gjson.ParseBytes(param.Value)
		if value.Type != gjson.String || len(value.Str) <= oversizedValueLen {
			continue
		}
		digest := blake2b.Sum256([]byte(value.Str))
		replacement, _ := json.Marshal(fmt.Sprintf("%s/%x", id, digest))
		params[i].Value = replacement
		params[i].Type = downloadableBytesType
		changed = true
	}
	if !changed {
		return raw
	}
	scrubbed, err := json.Marshal(params)
	if err != nil {
		return raw
	}
	return scrubbed
}

// formattedParam is one human-readable call parameter of a transfer
// extrinsic.
type formattedParam struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}

// formatTransferParams renders the parameters of a balances transfer call
// with DID-bearing values decoded to readable form. The reveal decision is
// per record: the caller sees either every DID or none.
func formatTransferParams(raw types.JSONText, policy privacy.Policy, ident identity.Identity) []formattedParam {
	var params []callParam
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil
	}

	decoded := make([]string, len(params))
	var participants []string
	for i, param := range params {
		value := gjson.ParseBytes(param.Value).String()
		if param.Type != domain.AttributeTypeDID && param.Name != "memo" {
			decoded[i] = value
			continue
		}
		did, err := privacy.DecodeDID(value)
		if err != nil {
			decoded[i] = value
			continue
		}
		decoded[i] = did
		participants = append(participants, did)
	}

	reveal := policy.Reveal(ident, participants)
	formatted := make([]formattedParam, len(params))
	for i, param := range params {
		value := decoded[i]
		if !reveal && (param.Type == domain.AttributeTypeDID || param.Name == "memo") {
			value = policy.Mask(value)
		}
		formatted[i] = formattedParam{Name: param.Name, Type: param.Type, Value: value}
	}
	return formatted
}

// maskEventAttributes decodes every DID attribute of an event to readable
// form, masking all of them unless the caller is one of the participants.
func maskEventAttributes(attrs domain.AttributeList, policy privacy.Policy, ident identity.Identity) domain.AttributeList {
	decoded := make([]string, len(attrs))
	var participants []string
	for i, attr := range attrs {
		if attr.Type != domain.AttributeTypeDID {
			continue
		}
		did, err := privacy.DecodeDID(attr.StringValue())
		if err != nil {
			continue
		}
		decoded[i] = did
		participants = append(participants, did)
	}

	reveal := policy.Reveal(ident, participants)
	out := make(domain.AttributeList, len(attrs))
	copy(out, attrs)
	for i := range out {
		if out[i].Type != domain.AttributeTypeDID || decoded[i] == "" {
			continue
		}
		value := decoded[i]
		if !reveal {
			value = policy.Mask(value)
		}
		out[i].SetStringValue(value)
	}
	return out
}
