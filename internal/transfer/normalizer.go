// Package transfer collapses the heterogeneous on-chain event shapes into
// the canonical balance-transfer output schema.
package transfer

import (
	"encoding/json"
	"fmt"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/identity"
	"github.com/metamui-network/metascan-api/internal/privacy"
)

// Kind is the closed set of event shapes the normalizer understands.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransfer
	KindClaimed
	KindDeposit
	KindReward
)

// Classify maps a (module_id, event_id) pair onto a transfer kind.
func Classify(moduleID, eventID string) Kind {
	switch {
	case moduleID == "balances" && eventID == "Transfer":
		return KindTransfer
	case moduleID == "claims" && eventID == "Claimed":
		return KindClaimed
	case moduleID == "balances" && eventID == "Deposit":
		return KindDeposit
	case moduleID == "staking" && eventID == "Reward":
		return KindReward
	default:
		return KindUnknown
	}
}

// AccountDescriptor describes a transfer party backed by an on-chain
// account. ID keeps the raw hex encoding; Address carries the readable,
// possibly masked, DID.
type AccountDescriptor struct {
	Type       string `json:"type"`
	ID         string `json:"id"`
	Attributes struct {
		ID      string `json:"id"`
		Address string `json:"address"`
	} `json:"attributes"`
}

// NamedDescriptor describes a transfer party that is not an account, such
// as a minted staking reward.
type NamedDescriptor struct {
	Name       string `json:"name"`
	EthAddress string `json:"eth_address,omitempty"`
}

// CanonicalTransfer is the normalized output shape. Value is always
// present (JSON null for unknown kinds); Fee defaults to 0 on networks
// whose transfer events carry no fee attribute.
type CanonicalTransfer struct {
	BlockID     int64           `json:"block_id"`
	EventID     string          `json:"event_id"`
	EventIdx    string          `json:"event_idx"`
	Sender      any             `json:"sender"`
	Destination any             `json:"destination"`
	Value       json.RawMessage `json:"value"`
	Fee         json.RawMessage `json:"fee"`
}

var (
	zeroFee   = json.RawMessage("0")
	nullValue = json.RawMessage("null")
	emptyPart = map[string]any{}
)

// Normalizer builds canonical transfers, masking account parties according
// to the privacy policy and the caller identity.
type Normalizer struct {
	policy privacy.Policy
}

// New creates a normalizer with the given masking policy.
func New(policy privacy.Policy) *Normalizer {
	return &Normalizer{policy: policy}
}

// Normalize maps one raw event onto the canonical transfer shape. The
// caller identity decides whether account parties are revealed: a
// participant sees every DID in the record, anyone else sees them masked.
func (n *Normalizer) Normalize(event domain.Event, ident identity.Identity) CanonicalTransfer {
	out := CanonicalTransfer{
		BlockID:     event.BlockID,
		EventID:     event.EventID,
		EventIdx:    fmt.Sprintf("%d-%d", event.BlockID, event.ExtrinsicIdx),
		Sender:      emptyPart,
		Destination: emptyPart,
		Value:       nullValue,
		Fee:         zeroFee,
	}
	attrs := event.Attributes

	switch Classify(event.ModuleID, event.EventID) {
	case KindTransfer:
		if len(attrs) < 3 {
			return out
		}
		sender, receiver := attrs[0].StringValue(), attrs[1].StringValue()
		senderDID, _ := privacy.DecodeDID(sender)
		receiverDID, _ := privacy.DecodeDID(receiver)
		reveal := n.policy.Reveal(ident, []string{senderDID, receiverDID})
		out.Sender = n.accountDescriptor(sender, senderDID, reveal)
		out.Destination = n.accountDescriptor(receiver, receiverDID, reveal)
		out.Value = attrs[2].Value
		// Networks without transaction fees emit 3-attribute events.
		if len(attrs) == 4 {
			out.Fee = attrs[3].Value
		}

	case KindClaimed:
		if len(attrs) < 3 {
			return out
		}
		out.Sender = NamedDescriptor{Name: "Claim", EthAddress: attrs[1].StringValue()}
		out.Value = attrs[2].Value

	case KindDeposit:
		if len(attrs) < 2 {
			return out
		}
		out.Sender = NamedDescriptor{Name: "Deposit"}
		out.Value = attrs[1].Value

	case KindReward:
		if len(attrs) < 2 {
			return out
		}
		out.Sender = NamedDescriptor{Name: "Staking reward"}
		out.Value = attrs[1].Value
	}

	return out
}

// Participants returns the decoded DIDs of every account party of the
// event, for membership checks outside the normalizer.
func Participants(event domain.Event) []string {
	if Classify(event.ModuleID, event.EventID) != KindTransfer || len(event.Attributes) < 2 {
		return nil
	}
	sender, _ := privacy.DecodeDID(event.Attributes[0].StringValue())
	receiver, _ := privacy.DecodeDID(event.Attributes[1].StringValue())
	return []string{sender, receiver}
}

func (n *Normalizer) accountDescriptor(rawHex, did string, reveal bool) AccountDescriptor {
	address := did
	if !reveal {
		address = n.policy.Mask(did)
	}
	desc := AccountDescriptor{Type: "account", ID: privacy.StripHexPrefix(rawHex)}
	desc.Attributes.ID = desc.ID
	desc.Attributes.Address = address
	return desc
}
