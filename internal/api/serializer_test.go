package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx/types"
	"golang.org/x/crypto/blake2b"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/identity"
	"github.com/metamui-network/metascan-api/internal/privacy"
)

func paramsJSON(t *testing.T, params []callParam) types.JSONText {
	t.Helper()
	raw, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	return types.JSONText(raw)
}

func TestScrubParamsReplacesOversizedValues(t *testing.T) {
	payload := strings.Repeat("ab", oversizedValueLen) // twice the threshold
	raw := paramsJSON(t, []callParam{
		{Name: "dest", Type: "Did", Value: json.RawMessage(`"0x6469"`)},
		{Name: "data", Type: "Bytes", Value: json.RawMessage(fmt.Sprintf("%q", payload))},
	})

	scrubbed := scrubParams("1000-2", raw)

	var params []callParam
	if err := json.Unmarshal(scrubbed, &params); err != nil {
		t.Fatalf("unmarshal scrubbed: %v", err)
	}
	if params[0].Type != "Did" || string(params[0].Value) != `"0x6469"` {
		t.Fatalf("small param must be untouched: %+v", params[0])
	}
	if params[1].Type != downloadableBytesType {
		t.Fatalf("oversized param not retagged: %q", params[1].Type)
	}
	digest := blake2b.Sum256([]byte(payload))
	want := fmt.Sprintf(`"1000-2/%x"`, digest)
	if string(params[1].Value) != want {
		t.Fatalf("hash reference mismatch:\n got %s\nwant %s", params[1].Value, want)
	}
}

func TestScrubParamsKeepsSmallValues(t *testing.T) {
	raw := paramsJSON(t, []callParam{
		{Name: "dest", Type: "Did", Value: json.RawMessage(`"0x6469"`)},
		{Name: "value", Type: "Balance", Value: json.RawMessage("500")},
	})
	if got := scrubParams("1-0", raw); string(got) != string(raw) {
		t.Fatalf("unchanged params must pass through verbatim:\n got %s\nwant %s", got, raw)
	}
}

func TestScrubParamsPassesThroughUnparseable(t *testing.T) {
	raw := types.JSONText(`{"not":"a list"}`)
	if got := scrubParams("1-0", raw); string(got) != string(raw) {
		t.Fatalf("unparseable params must pass through: %s", got)
	}
	if got := scrubParams("1-0", nil); got != nil {
		t.Fatalf("empty params must stay empty: %s", got)
	}
}

func transferParams(t *testing.T) types.JSONText {
	return paramsJSON(t, []callParam{
		{Name: "dest", Type: "Did", Value: json.RawMessage(fmt.Sprintf("%q", privacy.EncodeDID(bobDID)))},
		{Name: "value", Type: "Balance", Value: json.RawMessage("500")},
	})
}

func TestFormatTransferParamsMasksForStrangers(t *testing.T) {
	policy := privacy.NewPolicy(4, 12, '*')

	got := formatTransferParams(transferParams(t), policy, identity.Anonymous)
	if len(got) != 2 {
		t.Fatalf("expected two params, got %d", len(got))
	}
	if !strings.HasSuffix(got[0].Value, "*") {
		t.Fatalf("dest must be masked: %q", got[0].Value)
	}
	if got[1].Value != "500" {
		t.Fatalf("non-DID param must keep its value: %q", got[1].Value)
	}
}

func TestFormatTransferParamsRevealsParticipant(t *testing.T) {
	policy := privacy.NewPolicy(4, 12, '*')

	got := formatTransferParams(transferParams(t), policy, identity.Identity{DID: bobDID, Authenticated: true})
	if got[0].Value != bobDID {
		t.Fatalf("participant must see the decoded DID: %q", got[0].Value)
	}
}

func TestMaskEventAttributes(t *testing.T) {
	policy := privacy.NewPolicy(4, 12, '*')
	attrs := domain.AttributeList{attr(aliceDID), attr(bobDID), balance("500")}

	masked := maskEventAttributes(attrs, policy, identity.Anonymous)
	if got := masked[0].StringValue(); !strings.HasSuffix(got, "*") {
		t.Fatalf("DID attribute must be masked: %q", got)
	}
	if got := masked[2].StringValue(); got != "500" {
		t.Fatalf("non-DID attribute must be untouched: %q", got)
	}
	// The input list must not be mutated.
	if got := attrs[0].StringValue(); !strings.HasPrefix(got, "0x") {
		t.Fatalf("input attributes mutated: %q", got)
	}

	revealed := maskEventAttributes(attrs, policy, identity.Identity{DID: aliceDID, Authenticated: true})
	if got := revealed[1].StringValue(); got != bobDID {
		t.Fatalf("participant must see all DIDs decoded: %q", got)
	}
}
