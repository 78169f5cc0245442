package postgres

import (
	"context"
	"fmt"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage"
)

// GetStats implements storage.StatsStore.
func (s *Store) GetStats(ctx context.Context, currencyID string) (domain.Stats, error) {
	var stats domain.Stats
	query := "SELECT id, token_name, symbol, site, decimals, current_circulation, total_supply " +
		"FROM data_stats WHERE id = $1"
	if err := s.db.GetContext(ctx, &stats, query, currencyID); err != nil {
		return domain.Stats{}, err
	}
	return stats, nil
}

// transfersByParticipantLimit bounds the participant report; the endpoint
// serves a recent-activity view, not a full export.
const transfersByParticipantLimit = 100

// TransfersByParticipant implements storage.ReportStore. The attribute
// scan runs over the event payload in the database, so a participant on
// either side of the transfer matches.
func (s *Store) TransfersByParticipant(ctx context.Context, accountID string) ([]domain.Event, error) {
	events := []domain.Event{}
	query := fmt.Sprintf(`SELECT %s FROM data_event
		WHERE module_id = 'balances' AND event_id = 'Transfer'
		AND EXISTS (
			SELECT 1 FROM jsonb_array_elements(attributes) attr
			WHERE attr->>'value' = $1
		)
		ORDER BY block_id DESC, event_idx DESC
		LIMIT $2`, eventColumns)
	if err := s.db.SelectContext(ctx, &events, query, accountID, transfersByParticipantLimit); err != nil {
		return nil, fmt.Errorf("transfers by participant: %w", err)
	}
	return events, nil
}

// TopHolders implements storage.ReportStore. Only the latest snapshot per
// account counts; stale snapshots of churned accounts must not rank.
func (s *Store) TopHolders(ctx context.Context, accountIDPrefix string, limit int) ([]storage.HolderRow, error) {
	holders := []storage.HolderRow{}
	query := `SELECT s.block_id, s.account_id, s.balance_total, s.balance_free, s.balance_reserved
		FROM data_account_info_snapshot s
		JOIN (
			SELECT account_id, max(block_id) AS block_id
			FROM data_account_info_snapshot
			GROUP BY account_id
		) latest ON latest.account_id = s.account_id AND latest.block_id = s.block_id
		WHERE s.account_id LIKE $1 || '%'
		ORDER BY s.balance_total DESC
		LIMIT $2`
	if err := s.db.SelectContext(ctx, &holders, query, accountIDPrefix, limit); err != nil {
		return nil, fmt.Errorf("top holders: %w", err)
	}
	return holders, nil
}
