package domain

// Search index categories. The indexer writes one SearchIndexEntry per
// (category, account, event) so cross-entity "activity by account" queries
// never scan the primary tables.
const (
	IndexBalanceTransfer = 2
	IndexClaimsClaimed   = 3
	IndexBalancesDeposit = 4
	IndexStakingReward   = 5
	IndexExtrinsicSigned = 6
)

// TransferIndexCategories are the categories expanded when filtering
// balance transfers by account.
var TransferIndexCategories = []int{
	IndexBalanceTransfer,
	IndexClaimsClaimed,
	IndexBalancesDeposit,
	IndexStakingReward,
}

// SearchIndexEntry is one immutable secondary-index row written by the
// indexer. For a given (index_type_id, account_id) the entries are totally
// ordered by sorting_value, descending meaning most recent first.
type SearchIndexEntry struct {
	ID           int64  `db:"id" json:"id"`
	IndexTypeID  int    `db:"index_type_id" json:"index_type_id"`
	AccountID    string `db:"account_id" json:"account_id"`
	BlockID      int64  `db:"block_id" json:"block_id"`
	ExtrinsicIdx int    `db:"extrinsic_idx" json:"extrinsic_idx"`
	EventIdx     int    `db:"event_idx" json:"event_idx"`
	SortingValue int64  `db:"sorting_value" json:"sorting_value"`
}

// RecordKey is the composite key of a block sub-record.
type RecordKey struct {
	BlockID int64
	Idx     int
}
