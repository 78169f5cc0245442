package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage"
)

// ExpandKeys implements storage.SearchIndexStore. The sorting_value order
// written by the indexer is authoritative: callers rely on the returned
// key order, newest activity first.
func (s *Store) ExpandKeys(ctx context.Context, categories []int, accountID string, target storage.IndexTarget) ([]domain.RecordKey, error) {
	if len(categories) == 0 {
		return []domain.RecordKey{}, nil
	}

	idxColumn := "extrinsic_idx"
	if target == storage.TargetEvent {
		idxColumn = "event_idx"
	}

	var args []any
	placeholders := make([]string, 0, len(categories))
	for _, category := range categories {
		args = append(args, category)
		placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)))
	}
	query := fmt.Sprintf("SELECT block_id, %s AS idx FROM data_account_search_index WHERE index_type_id IN (%s)",
		idxColumn, strings.Join(placeholders, ", "))
	if accountID != "" {
		args = append(args, accountID)
		query += fmt.Sprintf(" AND account_id = $%d", len(args))
	}
	query += " ORDER BY sorting_value DESC"

	rows := []struct {
		BlockID int64 `db:"block_id"`
		Idx     int   `db:"idx"`
	}{}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("expand search index: %w", err)
	}

	keys := make([]domain.RecordKey, len(rows))
	for i, row := range rows {
		keys[i] = domain.RecordKey{BlockID: row.BlockID, Idx: row.Idx}
	}
	return keys, nil
}
