// Package domain holds the decoded chain records served by the API. The
// store owns this data; the query layer never mutates it.
package domain

import "time"

// Block is one finalized block as decoded by the indexer.
type Block struct {
	ID              int64     `db:"id" json:"id"`
	ParentID        int64     `db:"parent_id" json:"parent_id"`
	Hash            string    `db:"hash" json:"hash"`
	ParentHash      string    `db:"parent_hash" json:"parent_hash"`
	StateRoot       string    `db:"state_root" json:"state_root"`
	ExtrinsicsRoot  string    `db:"extrinsics_root" json:"extrinsics_root"`
	CountExtrinsics int       `db:"count_extrinsics" json:"count_extrinsics"`
	CountEvents     int       `db:"count_events" json:"count_events"`
	CountLogs       int       `db:"count_log" json:"count_log"`
	SpecVersionID   int       `db:"spec_version_id" json:"spec_version_id"`
	SessionID       int64     `db:"session_id" json:"session_id"`
	Datetime        time.Time `db:"datetime" json:"datetime"`
}

// Log is one digest log entry of a block.
type Log struct {
	BlockID int64  `db:"block_id" json:"block_id"`
	LogIdx  int    `db:"log_idx" json:"log_idx"`
	TypeID  int    `db:"type_id" json:"type_id"`
	Type    string `db:"type" json:"type"`
	Data    string `db:"data" json:"data"`
}
