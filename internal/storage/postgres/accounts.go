package postgres

import (
	"context"
	"fmt"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage"
)

const accountColumns = "id, address, index_address, balance_total, balance_free, balance_reserved, " +
	"nonce, is_validator, is_nominator, is_council_member, is_registrar, is_sudo, " +
	"is_tech_comm_member, is_treasury, was_validator, was_nominator, was_council_member, " +
	"was_registrar, was_sudo, was_tech_comm_member, has_identity, has_subidentity, " +
	"identity_judgement_good, identity_judgement_bad, created_at_block, updated_at_block, updated_at"

var accountFilterColumns = map[string]bool{
	"id":                      true,
	"address":                 true,
	"balance_total":           true,
	"is_validator":            true,
	"is_nominator":            true,
	"is_council_member":       true,
	"is_registrar":            true,
	"is_sudo":                 true,
	"is_tech_comm_member":     true,
	"is_treasury":             true,
	"was_validator":           true,
	"was_nominator":           true,
	"was_council_member":      true,
	"was_registrar":           true,
	"was_sudo":                true,
	"was_tech_comm_member":    true,
	"has_identity":            true,
	"has_subidentity":         true,
	"identity_judgement_good": true,
	"identity_judgement_bad":  true,
}

// ListAccounts implements storage.AccountStore.
func (s *Store) ListAccounts(ctx context.Context, q storage.ListQuery) ([]domain.Account, int, error) {
	spec := listSpec[domain.Account]{
		table:   "data_account",
		columns: accountColumns,
		allowed: accountFilterColumns,
	}
	return listRecords(ctx, s, spec, q)
}

// GetAccountByAddress implements storage.AccountStore.
func (s *Store) GetAccountByAddress(ctx context.Context, address string) (domain.Account, error) {
	var account domain.Account
	query := fmt.Sprintf("SELECT %s FROM data_account WHERE address = $1", accountColumns)
	if err := s.db.GetContext(ctx, &account, query, address); err != nil {
		return domain.Account{}, err
	}
	return account, nil
}

// ListBalanceHistory implements storage.AccountStore. Snapshots come back
// newest first.
func (s *Store) ListBalanceHistory(ctx context.Context, accountID string, limit int) ([]domain.AccountInfoSnapshot, error) {
	snapshots := []domain.AccountInfoSnapshot{}
	query := "SELECT account_id, block_id, balance_total, balance_free, balance_reserved, nonce " +
		"FROM data_account_info_snapshot WHERE account_id = $1 ORDER BY block_id DESC LIMIT $2"
	if err := s.db.SelectContext(ctx, &snapshots, query, accountID, limit); err != nil {
		return nil, fmt.Errorf("list balance history: %w", err)
	}
	return snapshots, nil
}

const accountIndexColumns = "id, short_address, account_id, is_reclaimable, updated_at_block"

// ListAccountIndices implements storage.AccountStore.
func (s *Store) ListAccountIndices(ctx context.Context, accountID string) ([]domain.AccountIndex, error) {
	indices := []domain.AccountIndex{}
	query := fmt.Sprintf("SELECT %s FROM data_account_index WHERE account_id = $1 ORDER BY id", accountIndexColumns)
	if err := s.db.SelectContext(ctx, &indices, query, accountID); err != nil {
		return nil, fmt.Errorf("list account indices: %w", err)
	}
	return indices, nil
}

// GetAccountIndex implements storage.AccountStore.
func (s *Store) GetAccountIndex(ctx context.Context, shortAddress string) (domain.AccountIndex, error) {
	var index domain.AccountIndex
	query := fmt.Sprintf("SELECT %s FROM data_account_index WHERE short_address = $1", accountIndexColumns)
	if err := s.db.GetContext(ctx, &index, query, shortAddress); err != nil {
		return domain.AccountIndex{}, err
	}
	return index, nil
}
