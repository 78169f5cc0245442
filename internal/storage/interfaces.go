// Package storage defines the read-only store interfaces the query layer
// runs against, plus the declarative list-query model the resolvers build.
package storage

import (
	"context"
	"database/sql"

	"github.com/metamui-network/metascan-api/internal/domain"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = sql.ErrNoRows

// Filter is one predicate on a whitelisted column. Op defaults to
// equality; ">" and "<" cover threshold filters such as identity
// judgement counts.
type Filter struct {
	Column string
	Op     string
	Value  any
}

// SetExclusion is one NOT-IN predicate on a whitelisted column.
type SetExclusion struct {
	Column string
	Values []string
}

// ListQuery is a composed, declarative list query. When Keys is non-nil the
// query is restricted to exactly that key set and the result preserves the
// key order, overriding OrderBy.
type ListQuery struct {
	Filters    []Filter
	Exclusions []SetExclusion
	OrderBy    string
	Desc       bool
	Keys       []domain.RecordKey
	Limit      int
	Offset     int
}

// IndexTarget selects which sub-record index a search-index entry expands
// to.
type IndexTarget int

const (
	// TargetExtrinsic expands entries to (block_id, extrinsic_idx).
	TargetExtrinsic IndexTarget = iota
	// TargetEvent expands entries to (block_id, event_idx).
	TargetEvent
)

// BlockStore reads blocks.
type BlockStore interface {
	ListBlocks(ctx context.Context, q ListQuery) ([]domain.Block, int, error)
	GetBlock(ctx context.Context, id int64) (domain.Block, error)
	GetBlockByHash(ctx context.Context, hash string) (domain.Block, error)
}

// ExtrinsicStore reads extrinsics.
type ExtrinsicStore interface {
	ListExtrinsics(ctx context.Context, q ListQuery) ([]domain.Extrinsic, int, error)
	GetExtrinsic(ctx context.Context, key domain.RecordKey) (domain.Extrinsic, error)
	GetExtrinsicByHash(ctx context.Context, hash string) (domain.Extrinsic, error)
}

// EventStore reads events.
type EventStore interface {
	ListEvents(ctx context.Context, q ListQuery) ([]domain.Event, int, error)
	GetEvent(ctx context.Context, key domain.RecordKey) (domain.Event, error)
}

// LogStore reads block digest logs.
type LogStore interface {
	ListLogs(ctx context.Context, q ListQuery) ([]domain.Log, int, error)
	GetLog(ctx context.Context, key domain.RecordKey) (domain.Log, error)
}

// SearchIndexStore expands an (account, categories) pair into the ordered
// primary-record key set, most recent first. An account with no indexed
// activity yields an empty set, not an error.
type SearchIndexStore interface {
	ExpandKeys(ctx context.Context, categories []int, accountID string, target IndexTarget) ([]domain.RecordKey, error)
}

// AccountStore reads accounts and their balance snapshots.
type AccountStore interface {
	ListAccounts(ctx context.Context, q ListQuery) ([]domain.Account, int, error)
	GetAccountByAddress(ctx context.Context, address string) (domain.Account, error)
	ListBalanceHistory(ctx context.Context, accountID string, limit int) ([]domain.AccountInfoSnapshot, error)
	ListAccountIndices(ctx context.Context, accountID string) ([]domain.AccountIndex, error)
	GetAccountIndex(ctx context.Context, shortAddress string) (domain.AccountIndex, error)
}

// SessionStore reads validator sessions.
type SessionStore interface {
	ListSessions(ctx context.Context, q ListQuery) ([]domain.Session, int, error)
	GetSession(ctx context.Context, id int64) (domain.Session, error)
	LatestSession(ctx context.Context) (domain.Session, error)
	ListSessionValidators(ctx context.Context, q ListQuery) ([]domain.SessionValidator, int, error)
	GetSessionValidator(ctx context.Context, sessionID int64, rank int) (domain.SessionValidator, error)
	ListSessionNominators(ctx context.Context, q ListQuery) ([]domain.SessionNominator, int, error)
}

// RuntimeStore reads runtime metadata.
type RuntimeStore interface {
	ListRuntimes(ctx context.Context, q ListQuery) ([]domain.Runtime, int, error)
	GetRuntime(ctx context.Context, specVersion int) (domain.Runtime, error)
	LatestRuntime(ctx context.Context) (domain.Runtime, error)

	ListRuntimeModules(ctx context.Context, q ListQuery) ([]domain.RuntimeModule, int, error)
	GetRuntimeModule(ctx context.Context, specVersion int, moduleID string) (domain.RuntimeModule, error)

	ListRuntimeCalls(ctx context.Context, q ListQuery) ([]domain.RuntimeCall, int, error)
	GetRuntimeCall(ctx context.Context, specVersion int, moduleID, callID string) (domain.RuntimeCall, error)
	ListRuntimeCallParams(ctx context.Context, runtimeCallID int64) ([]domain.RuntimeCallParam, error)

	ListRuntimeEvents(ctx context.Context, q ListQuery) ([]domain.RuntimeEvent, int, error)
	GetRuntimeEvent(ctx context.Context, specVersion int, moduleID, eventID string) (domain.RuntimeEvent, error)
	ListRuntimeEventAttributes(ctx context.Context, runtimeEventID int64) ([]domain.RuntimeEventAttribute, error)

	ListRuntimeTypes(ctx context.Context, q ListQuery) ([]domain.RuntimeType, int, error)

	ListRuntimeStorage(ctx context.Context, q ListQuery) ([]domain.RuntimeStorage, int, error)
	GetRuntimeStorage(ctx context.Context, specVersion int, moduleID, name string) (domain.RuntimeStorage, error)
	LatestRuntimeStorage(ctx context.Context, moduleID, name string) (domain.RuntimeStorage, error)

	ListRuntimeConstants(ctx context.Context, q ListQuery) ([]domain.RuntimeConstant, int, error)
	GetRuntimeConstant(ctx context.Context, specVersion int, moduleID, name string) (domain.RuntimeConstant, error)

	ListRuntimeErrors(ctx context.Context, specVersion int, moduleID string) ([]domain.RuntimeErrorMessage, error)
	GetRuntimeErrorMessage(ctx context.Context, moduleIndex, errorIndex, specVersion int) (domain.RuntimeErrorMessage, error)
}

// StatsStore reads denormalized currency statistics.
type StatsStore interface {
	GetStats(ctx context.Context, currencyID string) (domain.Stats, error)
}

// HolderRow is one typed result row of the top-holders report.
type HolderRow struct {
	BlockID         int64   `db:"block_id"`
	AccountID       string  `db:"account_id"`
	BalanceTotal    float64 `db:"balance_total"`
	BalanceFree     float64 `db:"balance_free"`
	BalanceReserved float64 `db:"balance_reserved"`
}

// ReportStore runs the specialized report queries that bypass the
// declarative filter path. Parameters and rows are typed; implementations
// never build SQL from user input by interpolation.
type ReportStore interface {
	// TransfersByParticipant returns balance transfer events where any
	// attribute value equals the padded hex account id, newest first.
	TransfersByParticipant(ctx context.Context, accountID string) ([]domain.Event, error)
	// TopHolders returns the latest balance snapshot per account for
	// accounts whose id carries the given prefix, richest first.
	TopHolders(ctx context.Context, accountIDPrefix string, limit int) ([]HolderRow, error)
}

// Store aggregates every read interface the API consumes.
type Store interface {
	BlockStore
	ExtrinsicStore
	EventStore
	LogStore
	SearchIndexStore
	AccountStore
	SessionStore
	RuntimeStore
	StatsStore
	ReportStore
}
