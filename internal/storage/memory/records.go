package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage"
)

func blockField(b domain.Block, column string) (any, bool) {
	switch column {
	case "id":
		return b.ID, true
	case "hash":
		return b.Hash, true
	case "spec_version_id":
		return b.SpecVersionID, true
	case "session_id":
		return b.SessionID, true
	default:
		return nil, false
	}
}

// ListBlocks implements storage.BlockStore.
func (s *Store) ListBlocks(_ context.Context, q storage.ListQuery) ([]domain.Block, int, error) {
	return listSlice(s.Blocks, q, blockField, nil)
}

// GetBlock implements storage.BlockStore.
func (s *Store) GetBlock(_ context.Context, id int64) (domain.Block, error) {
	for _, b := range s.Blocks {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Block{}, storage.ErrNotFound
}

// GetBlockByHash implements storage.BlockStore.
func (s *Store) GetBlockByHash(_ context.Context, hash string) (domain.Block, error) {
	for _, b := range s.Blocks {
		if b.Hash == hash {
			return b, nil
		}
	}
	return domain.Block{}, storage.ErrNotFound
}

func extrinsicField(e domain.Extrinsic, column string) (any, bool) {
	switch column {
	case "block_id":
		return e.BlockID, true
	case "extrinsic_idx":
		return e.ExtrinsicIdx, true
	case "address":
		return e.Address, true
	case "module_id":
		return e.ModuleID, true
	case "call_id":
		return e.CallID, true
	case "signed":
		return e.Signed, true
	case "success":
		return e.Success, true
	case "error":
		return e.Error, true
	default:
		return nil, false
	}
}

// ListExtrinsics implements storage.ExtrinsicStore.
func (s *Store) ListExtrinsics(_ context.Context, q storage.ListQuery) ([]domain.Extrinsic, int, error) {
	return listSlice(s.Extrinsics, q, extrinsicField, func(e domain.Extrinsic) domain.RecordKey {
		return domain.RecordKey{BlockID: e.BlockID, Idx: e.ExtrinsicIdx}
	})
}

// GetExtrinsic implements storage.ExtrinsicStore.
func (s *Store) GetExtrinsic(_ context.Context, key domain.RecordKey) (domain.Extrinsic, error) {
	for _, e := range s.Extrinsics {
		if e.BlockID == key.BlockID && e.ExtrinsicIdx == key.Idx {
			return e, nil
		}
	}
	return domain.Extrinsic{}, storage.ErrNotFound
}

// GetExtrinsicByHash implements storage.ExtrinsicStore.
func (s *Store) GetExtrinsicByHash(_ context.Context, hash string) (domain.Extrinsic, error) {
	for _, e := range s.Extrinsics {
		if e.ExtrinsicHash == hash {
			return e, nil
		}
	}
	return domain.Extrinsic{}, storage.ErrNotFound
}

func eventField(e domain.Event, column string) (any, bool) {
	switch column {
	case "block_id":
		return e.BlockID, true
	case "event_idx":
		return e.EventIdx, true
	case "extrinsic_idx":
		return e.ExtrinsicIdx, true
	case "module_id":
		return e.ModuleID, true
	case "event_id":
		return e.EventID, true
	case "system":
		return e.System, true
	case "module":
		return e.Module, true
	default:
		return nil, false
	}
}

// ListEvents implements storage.EventStore.
func (s *Store) ListEvents(_ context.Context, q storage.ListQuery) ([]domain.Event, int, error) {
	return listSlice(s.Events, q, eventField, func(e domain.Event) domain.RecordKey {
		return domain.RecordKey{BlockID: e.BlockID, Idx: e.EventIdx}
	})
}

// GetEvent implements storage.EventStore.
func (s *Store) GetEvent(_ context.Context, key domain.RecordKey) (domain.Event, error) {
	for _, e := range s.Events {
		if e.BlockID == key.BlockID && e.EventIdx == key.Idx {
			return e, nil
		}
	}
	return domain.Event{}, storage.ErrNotFound
}

func logField(l domain.Log, column string) (any, bool) {
	switch column {
	case "block_id":
		return l.BlockID, true
	case "log_idx":
		return l.LogIdx, true
	case "type_id":
		return l.TypeID, true
	default:
		return nil, false
	}
}

// ListLogs implements storage.LogStore.
func (s *Store) ListLogs(_ context.Context, q storage.ListQuery) ([]domain.Log, int, error) {
	return listSlice(s.Logs, q, logField, nil)
}

// GetLog implements storage.LogStore.
func (s *Store) GetLog(_ context.Context, key domain.RecordKey) (domain.Log, error) {
	for _, l := range s.Logs {
		if l.BlockID == key.BlockID && l.LogIdx == key.Idx {
			return l, nil
		}
	}
	return domain.Log{}, storage.ErrNotFound
}

// ExpandKeys implements storage.SearchIndexStore.
func (s *Store) ExpandKeys(_ context.Context, categories []int, accountID string, target storage.IndexTarget) ([]domain.RecordKey, error) {
	allowed := make(map[int]bool, len(categories))
	for _, c := range categories {
		allowed[c] = true
	}
	entries := make([]domain.SearchIndexEntry, 0, len(s.Index))
	for _, entry := range s.Index {
		if !allowed[entry.IndexTypeID] {
			continue
		}
		if accountID != "" && entry.AccountID != accountID {
			continue
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].SortingValue > entries[j].SortingValue
	})
	keys := make([]domain.RecordKey, len(entries))
	for i, entry := range entries {
		idx := entry.ExtrinsicIdx
		if target == storage.TargetEvent {
			idx = entry.EventIdx
		}
		keys[i] = domain.RecordKey{BlockID: entry.BlockID, Idx: idx}
	}
	return keys, nil
}

func accountField(a domain.Account, column string) (any, bool) {
	switch column {
	case "id":
		return a.ID, true
	case "address":
		return a.Address, true
	case "balance_total":
		return a.BalanceTotal, true
	case "is_validator":
		return a.IsValidator, true
	case "is_nominator":
		return a.IsNominator, true
	case "is_council_member":
		return a.IsCouncilMember, true
	case "is_registrar":
		return a.IsRegistrar, true
	case "is_sudo":
		return a.IsSudo, true
	case "is_tech_comm_member":
		return a.IsTechCommMember, true
	case "is_treasury":
		return a.IsTreasury, true
	case "was_validator":
		return a.WasValidator, true
	case "was_nominator":
		return a.WasNominator, true
	case "was_council_member":
		return a.WasCouncilMember, true
	case "was_registrar":
		return a.WasRegistrar, true
	case "was_sudo":
		return a.WasSudo, true
	case "was_tech_comm_member":
		return a.WasTechCommMember, true
	case "has_identity":
		return a.HasIdentity, true
	case "has_subidentity":
		return a.HasSubIdentity, true
	case "identity_judgement_good":
		return a.IdentityJudgementGood, true
	case "identity_judgement_bad":
		return a.IdentityJudgementBad, true
	default:
		return nil, false
	}
}

// ListAccounts implements storage.AccountStore.
func (s *Store) ListAccounts(_ context.Context, q storage.ListQuery) ([]domain.Account, int, error) {
	return listSlice(s.Accounts, q, accountField, nil)
}

// GetAccountByAddress implements storage.AccountStore.
func (s *Store) GetAccountByAddress(_ context.Context, address string) (domain.Account, error) {
	for _, a := range s.Accounts {
		if a.Address == address {
			return a, nil
		}
	}
	return domain.Account{}, storage.ErrNotFound
}

// ListBalanceHistory implements storage.AccountStore.
func (s *Store) ListBalanceHistory(_ context.Context, accountID string, limit int) ([]domain.AccountInfoSnapshot, error) {
	snapshots := make([]domain.AccountInfoSnapshot, 0)
	for _, snapshot := range s.Snapshots {
		if snapshot.AccountID == accountID {
			snapshots = append(snapshots, snapshot)
		}
	}
	sort.SliceStable(snapshots, func(i, j int) bool {
		return snapshots[i].BlockID > snapshots[j].BlockID
	})
	if limit > 0 && limit < len(snapshots) {
		snapshots = snapshots[:limit]
	}
	return snapshots, nil
}

// ListAccountIndices implements storage.AccountStore.
func (s *Store) ListAccountIndices(_ context.Context, accountID string) ([]domain.AccountIndex, error) {
	indices := make([]domain.AccountIndex, 0)
	for _, index := range s.AccountIndices {
		if index.AccountID == accountID {
			indices = append(indices, index)
		}
	}
	return indices, nil
}

// GetAccountIndex implements storage.AccountStore.
func (s *Store) GetAccountIndex(_ context.Context, shortAddress string) (domain.AccountIndex, error) {
	for _, index := range s.AccountIndices {
		if index.ShortAddress == shortAddress {
			return index, nil
		}
	}
	return domain.AccountIndex{}, storage.ErrNotFound
}

// TransfersByParticipant implements storage.ReportStore.
func (s *Store) TransfersByParticipant(_ context.Context, accountID string) ([]domain.Event, error) {
	events := make([]domain.Event, 0)
	for _, event := range s.Events {
		if event.ModuleID != "balances" || event.EventID != "Transfer" {
			continue
		}
		for _, attr := range event.Attributes {
			if strings.EqualFold(attr.StringValue(), accountID) {
				events = append(events, event)
				break
			}
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].BlockID != events[j].BlockID {
			return events[i].BlockID > events[j].BlockID
		}
		return events[i].EventIdx > events[j].EventIdx
	})
	return events, nil
}

// TopHolders implements storage.ReportStore.
func (s *Store) TopHolders(_ context.Context, accountIDPrefix string, limit int) ([]storage.HolderRow, error) {
	latest := make(map[string]domain.AccountInfoSnapshot)
	for _, snapshot := range s.Snapshots {
		if !strings.HasPrefix(snapshot.AccountID, accountIDPrefix) {
			continue
		}
		if current, ok := latest[snapshot.AccountID]; !ok || snapshot.BlockID > current.BlockID {
			latest[snapshot.AccountID] = snapshot
		}
	}
	holders := make([]storage.HolderRow, 0, len(latest))
	for _, snapshot := range latest {
		holders = append(holders, storage.HolderRow{
			BlockID:         snapshot.BlockID,
			AccountID:       snapshot.AccountID,
			BalanceTotal:    snapshot.BalanceTotal,
			BalanceFree:     snapshot.BalanceFree,
			BalanceReserved: snapshot.BalanceReserved,
		})
	}
	sort.SliceStable(holders, func(i, j int) bool {
		return holders[i].BalanceTotal > holders[j].BalanceTotal
	})
	if limit > 0 && limit < len(holders) {
		holders = holders[:limit]
	}
	return holders, nil
}

// GetStats implements storage.StatsStore.
func (s *Store) GetStats(_ context.Context, currencyID string) (domain.Stats, error) {
	for _, stats := range s.StatsRows {
		if stats.ID == currencyID {
			return stats, nil
		}
	}
	return domain.Stats{}, storage.ErrNotFound
}
