package domain

import "time"

// Account is one on-chain account. ID is the padded hex encoding of the
// account DID; Address is the human-readable form.
type Account struct {
	ID                    string    `db:"id" json:"id"`
	Address               string    `db:"address" json:"address"`
	IndexAddress          string    `db:"index_address" json:"index_address,omitempty"`
	BalanceTotal          float64   `db:"balance_total" json:"balance_total"`
	BalanceFree           float64   `db:"balance_free" json:"balance_free"`
	BalanceReserved       float64   `db:"balance_reserved" json:"balance_reserved"`
	Nonce                 int64     `db:"nonce" json:"nonce"`
	IsValidator           bool      `db:"is_validator" json:"is_validator"`
	IsNominator           bool      `db:"is_nominator" json:"is_nominator"`
	IsCouncilMember       bool      `db:"is_council_member" json:"is_council_member"`
	IsRegistrar           bool      `db:"is_registrar" json:"is_registrar"`
	IsSudo                bool      `db:"is_sudo" json:"is_sudo"`
	IsTechCommMember      bool      `db:"is_tech_comm_member" json:"is_tech_comm_member"`
	IsTreasury            bool      `db:"is_treasury" json:"is_treasury"`
	WasValidator          bool      `db:"was_validator" json:"was_validator"`
	WasNominator          bool      `db:"was_nominator" json:"was_nominator"`
	WasCouncilMember      bool      `db:"was_council_member" json:"was_council_member"`
	WasRegistrar          bool      `db:"was_registrar" json:"was_registrar"`
	WasSudo               bool      `db:"was_sudo" json:"was_sudo"`
	WasTechCommMember     bool      `db:"was_tech_comm_member" json:"was_tech_comm_member"`
	HasIdentity           bool      `db:"has_identity" json:"has_identity"`
	HasSubIdentity        bool      `db:"has_subidentity" json:"has_subidentity"`
	IdentityJudgementGood int       `db:"identity_judgement_good" json:"identity_judgement_good"`
	IdentityJudgementBad  int       `db:"identity_judgement_bad" json:"identity_judgement_bad"`
	CreatedAtBlock        int64     `db:"created_at_block" json:"created_at_block"`
	UpdatedAtBlock        int64     `db:"updated_at_block" json:"updated_at_block"`
	UpdatedAt             time.Time `db:"updated_at" json:"updated_at"`
}

// AccountInfoSnapshot is one balance snapshot taken at a block height.
type AccountInfoSnapshot struct {
	AccountID       string  `db:"account_id" json:"account_id"`
	BlockID         int64   `db:"block_id" json:"block_id"`
	BalanceTotal    float64 `db:"balance_total" json:"balance_total"`
	BalanceFree     float64 `db:"balance_free" json:"balance_free"`
	BalanceReserved float64 `db:"balance_reserved" json:"balance_reserved"`
	Nonce           int64   `db:"nonce" json:"nonce"`
}

// AccountIndex is one short-address index claimed by an account.
type AccountIndex struct {
	ID             int64  `db:"id" json:"id"`
	ShortAddress   string `db:"short_address" json:"short_address"`
	AccountID      string `db:"account_id" json:"account_id"`
	IsReclaimable  bool   `db:"is_reclaimable" json:"is_reclaimable"`
	UpdatedAtBlock int64  `db:"updated_at_block" json:"updated_at_block"`
}
