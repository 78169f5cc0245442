package domain

// Session is one validator session.
type Session struct {
	ID              int64 `db:"id" json:"id"`
	StartAtBlock    int64 `db:"start_at_block" json:"start_at_block"`
	Era             int64 `db:"era" json:"era"`
	CountBlocks     int   `db:"count_blocks" json:"count_blocks"`
	CountValidators int   `db:"count_validators" json:"count_validators"`
	CountNominators int   `db:"count_nominators" json:"count_nominators"`
}

// SessionValidator is one validator slot within a session. The composite
// primary key is (session_id, rank_validator).
type SessionValidator struct {
	SessionID           int64   `db:"session_id" json:"session_id"`
	RankValidator       int     `db:"rank_validator" json:"rank_validator"`
	ValidatorStash      string  `db:"validator_stash" json:"validator_stash"`
	ValidatorController string  `db:"validator_controller" json:"validator_controller"`
	BondedTotal         float64 `db:"bonded_total" json:"bonded_total"`
	BondedActive        float64 `db:"bonded_active" json:"bonded_active"`
	BondedOwn           float64 `db:"bonded_own" json:"bonded_own"`
	BondedNominators    float64 `db:"bonded_nominators" json:"bonded_nominators"`
	CountNominators     int     `db:"count_nominators" json:"count_nominators"`
	Commission          float64 `db:"commission" json:"commission"`
}

// SessionNominator is one nominator backing a validator slot.
type SessionNominator struct {
	SessionID      int64   `db:"session_id" json:"session_id"`
	RankValidator  int     `db:"rank_validator" json:"rank_validator"`
	RankNominator  int     `db:"rank_nominator" json:"rank_nominator"`
	NominatorStash string  `db:"nominator_stash" json:"nominator_stash"`
	Bonded         float64 `db:"bonded" json:"bonded"`
}

// Stats is the denormalized currency statistics row maintained by the
// indexer.
type Stats struct {
	ID                 string  `db:"id" json:"id"`
	TokenName          string  `db:"token_name" json:"token_name"`
	Symbol             string  `db:"symbol" json:"symbol"`
	Site               string  `db:"site" json:"site"`
	Decimals           int     `db:"decimals" json:"decimals"`
	CurrentCirculation float64 `db:"current_circulation" json:"current_circulation"`
	TotalSupply        float64 `db:"total_supply" json:"total_supply"`
}
