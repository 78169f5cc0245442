package domain

import (
	"fmt"

	"github.com/jmoiron/sqlx/types"
)

// Extrinsic is one signed or inherent transaction-like record of a block.
// The composite primary key is (block_id, extrinsic_idx).
type Extrinsic struct {
	BlockID       int64          `db:"block_id" json:"block_id"`
	ExtrinsicIdx  int            `db:"extrinsic_idx" json:"extrinsic_idx"`
	ExtrinsicHash string         `db:"extrinsic_hash" json:"extrinsic_hash,omitempty"`
	Signed        int            `db:"signed" json:"signed"`
	Address       string         `db:"address" json:"address,omitempty"`
	ModuleID      string         `db:"module_id" json:"module_id"`
	CallID        string         `db:"call_id" json:"call_id"`
	Params        types.JSONText `db:"params" json:"params,omitempty"`
	Success       int            `db:"success" json:"success"`
	Error         int            `db:"error" json:"error"`
	SpecVersionID int            `db:"spec_version_id" json:"spec_version_id"`
}

// Key returns the dash-joined natural key used by detail endpoints.
func (e Extrinsic) Key() string {
	return fmt.Sprintf("%d-%d", e.BlockID, e.ExtrinsicIdx)
}

// Event is one decoded runtime event of a block. The composite primary key
// is (block_id, event_idx); extrinsic_idx links the event to its extrinsic.
type Event struct {
	BlockID       int64         `db:"block_id" json:"block_id"`
	EventIdx      int           `db:"event_idx" json:"event_idx"`
	ExtrinsicIdx  int           `db:"extrinsic_idx" json:"extrinsic_idx"`
	Phase         int           `db:"phase" json:"phase"`
	ModuleID      string        `db:"module_id" json:"module_id"`
	EventID       string        `db:"event_id" json:"event_id"`
	System        int           `db:"system" json:"system"`
	Module        int           `db:"module" json:"module"`
	Attributes    AttributeList `db:"attributes" json:"attributes"`
	CodecError    int           `db:"codec_error" json:"codec_error"`
	SpecVersionID int           `db:"spec_version_id" json:"spec_version_id"`
}

// Key returns the dash-joined natural key used by detail endpoints.
func (e Event) Key() string {
	return fmt.Sprintf("%d-%d", e.BlockID, e.EventIdx)
}
