package postgres

import (
	"context"
	"fmt"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage"
)

const extrinsicColumns = "block_id, extrinsic_idx, extrinsic_hash, signed, address, " +
	"module_id, call_id, params, success, error, spec_version_id"

var extrinsicFilterColumns = map[string]bool{
	"block_id":      true,
	"extrinsic_idx": true,
	"address":       true,
	"module_id":     true,
	"call_id":       true,
	"signed":        true,
	"success":       true,
	"error":         true,
}

func extrinsicSpec() listSpec[domain.Extrinsic] {
	return listSpec[domain.Extrinsic]{
		table:   "data_extrinsic",
		columns: extrinsicColumns,
		allowed: extrinsicFilterColumns,
		keyCols: [2]string{"block_id", "extrinsic_idx"},
		keyOf: func(e domain.Extrinsic) domain.RecordKey {
			return domain.RecordKey{BlockID: e.BlockID, Idx: e.ExtrinsicIdx}
		},
	}
}

// ListExtrinsics implements storage.ExtrinsicStore.
func (s *Store) ListExtrinsics(ctx context.Context, q storage.ListQuery) ([]domain.Extrinsic, int, error) {
	return listRecords(ctx, s, extrinsicSpec(), q)
}

// GetExtrinsic implements storage.ExtrinsicStore.
func (s *Store) GetExtrinsic(ctx context.Context, key domain.RecordKey) (domain.Extrinsic, error) {
	var extrinsic domain.Extrinsic
	query := fmt.Sprintf("SELECT %s FROM data_extrinsic WHERE block_id = $1 AND extrinsic_idx = $2", extrinsicColumns)
	if err := s.db.GetContext(ctx, &extrinsic, query, key.BlockID, key.Idx); err != nil {
		return domain.Extrinsic{}, err
	}
	return extrinsic, nil
}

// GetExtrinsicByHash implements storage.ExtrinsicStore.
func (s *Store) GetExtrinsicByHash(ctx context.Context, hash string) (domain.Extrinsic, error) {
	var extrinsic domain.Extrinsic
	query := fmt.Sprintf("SELECT %s FROM data_extrinsic WHERE extrinsic_hash = $1", extrinsicColumns)
	if err := s.db.GetContext(ctx, &extrinsic, query, hash); err != nil {
		return domain.Extrinsic{}, err
	}
	return extrinsic, nil
}

const eventColumns = "block_id, event_idx, extrinsic_idx, phase, module_id, event_id, " +
	"system, module, attributes, codec_error, spec_version_id"

var eventFilterColumns = map[string]bool{
	"block_id":      true,
	"event_idx":     true,
	"extrinsic_idx": true,
	"module_id":     true,
	"event_id":      true,
	"system":        true,
	"module":        true,
}

func eventSpec() listSpec[domain.Event] {
	return listSpec[domain.Event]{
		table:   "data_event",
		columns: eventColumns,
		allowed: eventFilterColumns,
		keyCols: [2]string{"block_id", "event_idx"},
		keyOf: func(e domain.Event) domain.RecordKey {
			return domain.RecordKey{BlockID: e.BlockID, Idx: e.EventIdx}
		},
	}
}

// ListEvents implements storage.EventStore.
func (s *Store) ListEvents(ctx context.Context, q storage.ListQuery) ([]domain.Event, int, error) {
	return listRecords(ctx, s, eventSpec(), q)
}

// GetEvent implements storage.EventStore.
func (s *Store) GetEvent(ctx context.Context, key domain.RecordKey) (domain.Event, error) {
	var event domain.Event
	query := fmt.Sprintf("SELECT %s FROM data_event WHERE block_id = $1 AND event_idx = $2", eventColumns)
	if err := s.db.GetContext(ctx, &event, query, key.BlockID, key.Idx); err != nil {
		return domain.Event{}, err
	}
	return event, nil
}
