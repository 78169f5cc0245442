package postgres

import (
	"context"
	"fmt"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage"
)

const sessionColumns = "id, start_at_block, era, count_blocks, count_validators, count_nominators"

var sessionFilterColumns = map[string]bool{
	"id":  true,
	"era": true,
}

// ListSessions implements storage.SessionStore.
func (s *Store) ListSessions(ctx context.Context, q storage.ListQuery) ([]domain.Session, int, error) {
	spec := listSpec[domain.Session]{
		table:   "data_session",
		columns: sessionColumns,
		allowed: sessionFilterColumns,
	}
	return listRecords(ctx, s, spec, q)
}

// GetSession implements storage.SessionStore.
func (s *Store) GetSession(ctx context.Context, id int64) (domain.Session, error) {
	var session domain.Session
	query := fmt.Sprintf("SELECT %s FROM data_session WHERE id = $1", sessionColumns)
	if err := s.db.GetContext(ctx, &session, query, id); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

// LatestSession implements storage.SessionStore.
func (s *Store) LatestSession(ctx context.Context) (domain.Session, error) {
	var session domain.Session
	query := fmt.Sprintf("SELECT %s FROM data_session ORDER BY id DESC LIMIT 1", sessionColumns)
	if err := s.db.GetContext(ctx, &session, query); err != nil {
		return domain.Session{}, err
	}
	return session, nil
}

const sessionValidatorColumns = "session_id, rank_validator, validator_stash, validator_controller, " +
	"bonded_total, bonded_active, bonded_own, bonded_nominators, count_nominators, commission"

var sessionValidatorFilterColumns = map[string]bool{
	"session_id":      true,
	"rank_validator":  true,
	"validator_stash": true,
}

// ListSessionValidators implements storage.SessionStore.
func (s *Store) ListSessionValidators(ctx context.Context, q storage.ListQuery) ([]domain.SessionValidator, int, error) {
	spec := listSpec[domain.SessionValidator]{
		table:   "data_session_validator",
		columns: sessionValidatorColumns,
		allowed: sessionValidatorFilterColumns,
	}
	return listRecords(ctx, s, spec, q)
}

// GetSessionValidator implements storage.SessionStore.
func (s *Store) GetSessionValidator(ctx context.Context, sessionID int64, rank int) (domain.SessionValidator, error) {
	var validator domain.SessionValidator
	query := fmt.Sprintf("SELECT %s FROM data_session_validator WHERE session_id = $1 AND rank_validator = $2",
		sessionValidatorColumns)
	if err := s.db.GetContext(ctx, &validator, query, sessionID, rank); err != nil {
		return domain.SessionValidator{}, err
	}
	return validator, nil
}

const sessionNominatorColumns = "session_id, rank_validator, rank_nominator, nominator_stash, bonded"

var sessionNominatorFilterColumns = map[string]bool{
	"session_id":      true,
	"rank_validator":  true,
	"rank_nominator":  true,
	"nominator_stash": true,
}

// ListSessionNominators implements storage.SessionStore.
func (s *Store) ListSessionNominators(ctx context.Context, q storage.ListQuery) ([]domain.SessionNominator, int, error) {
	spec := listSpec[domain.SessionNominator]{
		table:   "data_session_nominator",
		columns: sessionNominatorColumns,
		allowed: sessionNominatorFilterColumns,
	}
	return listRecords(ctx, s, spec, q)
}
