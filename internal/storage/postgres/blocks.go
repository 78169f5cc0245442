package postgres

import (
	"context"
	"fmt"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage"
)

const blockColumns = "id, parent_id, hash, parent_hash, state_root, extrinsics_root, " +
	"count_extrinsics, count_events, count_log, spec_version_id, session_id, datetime"

var blockFilterColumns = map[string]bool{
	"id":              true,
	"hash":            true,
	"spec_version_id": true,
	"session_id":      true,
}

func blockSpec() listSpec[domain.Block] {
	return listSpec[domain.Block]{
		table:   "data_block",
		columns: blockColumns,
		allowed: blockFilterColumns,
	}
}

// ListBlocks implements storage.BlockStore.
func (s *Store) ListBlocks(ctx context.Context, q storage.ListQuery) ([]domain.Block, int, error) {
	return listRecords(ctx, s, blockSpec(), q)
}

// GetBlock implements storage.BlockStore.
func (s *Store) GetBlock(ctx context.Context, id int64) (domain.Block, error) {
	var block domain.Block
	query := fmt.Sprintf("SELECT %s FROM data_block WHERE id = $1", blockColumns)
	if err := s.db.GetContext(ctx, &block, query, id); err != nil {
		return domain.Block{}, err
	}
	return block, nil
}

// GetBlockByHash implements storage.BlockStore.
func (s *Store) GetBlockByHash(ctx context.Context, hash string) (domain.Block, error) {
	var block domain.Block
	query := fmt.Sprintf("SELECT %s FROM data_block WHERE hash = $1", blockColumns)
	if err := s.db.GetContext(ctx, &block, query, hash); err != nil {
		return domain.Block{}, err
	}
	return block, nil
}

const logColumns = "block_id, log_idx, type_id, type, data"

var logFilterColumns = map[string]bool{
	"block_id": true,
	"log_idx":  true,
	"type_id":  true,
}

// ListLogs implements storage.LogStore.
func (s *Store) ListLogs(ctx context.Context, q storage.ListQuery) ([]domain.Log, int, error) {
	spec := listSpec[domain.Log]{
		table:   "data_log",
		columns: logColumns,
		allowed: logFilterColumns,
	}
	return listRecords(ctx, s, spec, q)
}

// GetLog implements storage.LogStore.
func (s *Store) GetLog(ctx context.Context, key domain.RecordKey) (domain.Log, error) {
	var log domain.Log
	query := fmt.Sprintf("SELECT %s FROM data_log WHERE block_id = $1 AND log_idx = $2", logColumns)
	if err := s.db.GetContext(ctx, &log, query, key.BlockID, key.Idx); err != nil {
		return domain.Log{}, err
	}
	return log, nil
}
