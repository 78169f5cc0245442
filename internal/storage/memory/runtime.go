package memory

import (
	"context"
	"sort"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage"
)

func sessionField(s domain.Session, column string) (any, bool) {
	switch column {
	case "id":
		return s.ID, true
	case "era":
		return s.Era, true
	default:
		return nil, false
	}
}

// ListSessions implements storage.SessionStore.
func (s *Store) ListSessions(_ context.Context, q storage.ListQuery) ([]domain.Session, int, error) {
	return listSlice(s.Sessions, q, sessionField, nil)
}

// GetSession implements storage.SessionStore.
func (s *Store) GetSession(_ context.Context, id int64) (domain.Session, error) {
	for _, session := range s.Sessions {
		if session.ID == id {
			return session, nil
		}
	}
	return domain.Session{}, storage.ErrNotFound
}

// LatestSession implements storage.SessionStore.
func (s *Store) LatestSession(_ context.Context) (domain.Session, error) {
	if len(s.Sessions) == 0 {
		return domain.Session{}, storage.ErrNotFound
	}
	latest := s.Sessions[0]
	for _, session := range s.Sessions[1:] {
		if session.ID > latest.ID {
			latest = session
		}
	}
	return latest, nil
}

func sessionValidatorField(v domain.SessionValidator, column string) (any, bool) {
	switch column {
	case "session_id":
		return v.SessionID, true
	case "rank_validator":
		return v.RankValidator, true
	case "validator_stash":
		return v.ValidatorStash, true
	default:
		return nil, false
	}
}

// ListSessionValidators implements storage.SessionStore.
func (s *Store) ListSessionValidators(_ context.Context, q storage.ListQuery) ([]domain.SessionValidator, int, error) {
	return listSlice(s.SessionValidators, q, sessionValidatorField, nil)
}

// GetSessionValidator implements storage.SessionStore.
func (s *Store) GetSessionValidator(_ context.Context, sessionID int64, rank int) (domain.SessionValidator, error) {
	for _, validator := range s.SessionValidators {
		if validator.SessionID == sessionID && validator.RankValidator == rank {
			return validator, nil
		}
	}
	return domain.SessionValidator{}, storage.ErrNotFound
}

func sessionNominatorField(n domain.SessionNominator, column string) (any, bool) {
	switch column {
	case "session_id":
		return n.SessionID, true
	case "rank_validator":
		return n.RankValidator, true
	case "rank_nominator":
		return n.RankNominator, true
	case "nominator_stash":
		return n.NominatorStash, true
	default:
		return nil, false
	}
}

// ListSessionNominators implements storage.SessionStore.
func (s *Store) ListSessionNominators(_ context.Context, q storage.ListQuery) ([]domain.SessionNominator, int, error) {
	return listSlice(s.SessionNominators, q, sessionNominatorField, nil)
}

func runtimeField(r domain.Runtime, column string) (any, bool) {
	switch column {
	case "spec_version":
		return r.SpecVersion, true
	case "spec_name":
		return r.SpecName, true
	default:
		return nil, false
	}
}

// ListRuntimes implements storage.RuntimeStore.
func (s *Store) ListRuntimes(_ context.Context, q storage.ListQuery) ([]domain.Runtime, int, error) {
	return listSlice(s.Runtimes, q, runtimeField, nil)
}

// GetRuntime implements storage.RuntimeStore.
func (s *Store) GetRuntime(_ context.Context, specVersion int) (domain.Runtime, error) {
	for _, runtime := range s.Runtimes {
		if runtime.SpecVersion == specVersion {
			return runtime, nil
		}
	}
	return domain.Runtime{}, storage.ErrNotFound
}

// LatestRuntime implements storage.RuntimeStore.
func (s *Store) LatestRuntime(_ context.Context) (domain.Runtime, error) {
	if len(s.Runtimes) == 0 {
		return domain.Runtime{}, storage.ErrNotFound
	}
	latest := s.Runtimes[0]
	for _, runtime := range s.Runtimes[1:] {
		if runtime.SpecVersion > latest.SpecVersion {
			latest = runtime
		}
	}
	return latest, nil
}

func runtimeModuleField(m domain.RuntimeModule, column string) (any, bool) {
	switch column {
	case "spec_version":
		return m.SpecVersion, true
	case "module_id":
		return m.ModuleID, true
	case "name":
		return m.Name, true
	default:
		return nil, false
	}
}

// ListRuntimeModules implements storage.RuntimeStore.
func (s *Store) ListRuntimeModules(_ context.Context, q storage.ListQuery) ([]domain.RuntimeModule, int, error) {
	return listSlice(s.RuntimeModules, q, runtimeModuleField, nil)
}

// GetRuntimeModule implements storage.RuntimeStore.
func (s *Store) GetRuntimeModule(_ context.Context, specVersion int, moduleID string) (domain.RuntimeModule, error) {
	for _, module := range s.RuntimeModules {
		if module.SpecVersion == specVersion && module.ModuleID == moduleID {
			return module, nil
		}
	}
	return domain.RuntimeModule{}, storage.ErrNotFound
}

func runtimeCallField(c domain.RuntimeCall, column string) (any, bool) {
	switch column {
	case "spec_version":
		return c.SpecVersion, true
	case "module_id":
		return c.ModuleID, true
	case "call_id":
		return c.CallID, true
	case "name":
		return c.Name, true
	default:
		return nil, false
	}
}

// ListRuntimeCalls implements storage.RuntimeStore.
func (s *Store) ListRuntimeCalls(_ context.Context, q storage.ListQuery) ([]domain.RuntimeCall, int, error) {
	return listSlice(s.RuntimeCalls, q, runtimeCallField, nil)
}

// GetRuntimeCall implements storage.RuntimeStore.
func (s *Store) GetRuntimeCall(_ context.Context, specVersion int, moduleID, callID string) (domain.RuntimeCall, error) {
	for _, call := range s.RuntimeCalls {
		if call.SpecVersion == specVersion && call.ModuleID == moduleID && call.CallID == callID {
			return call, nil
		}
	}
	return domain.RuntimeCall{}, storage.ErrNotFound
}

// ListRuntimeCallParams implements storage.RuntimeStore.
func (s *Store) ListRuntimeCallParams(_ context.Context, runtimeCallID int64) ([]domain.RuntimeCallParam, error) {
	params := make([]domain.RuntimeCallParam, 0)
	for _, param := range s.RuntimeCallParams {
		if param.RuntimeCallID == runtimeCallID {
			params = append(params, param)
		}
	}
	sort.SliceStable(params, func(i, j int) bool { return params[i].ID < params[j].ID })
	return params, nil
}

func runtimeEventField(e domain.RuntimeEvent, column string) (any, bool) {
	switch column {
	case "spec_version":
		return e.SpecVersion, true
	case "module_id":
		return e.ModuleID, true
	case "event_id":
		return e.EventID, true
	case "name":
		return e.Name, true
	default:
		return nil, false
	}
}

// ListRuntimeEvents implements storage.RuntimeStore.
func (s *Store) ListRuntimeEvents(_ context.Context, q storage.ListQuery) ([]domain.RuntimeEvent, int, error) {
	return listSlice(s.RuntimeEvents, q, runtimeEventField, nil)
}

// GetRuntimeEvent implements storage.RuntimeStore.
func (s *Store) GetRuntimeEvent(_ context.Context, specVersion int, moduleID, eventID string) (domain.RuntimeEvent, error) {
	for _, event := range s.RuntimeEvents {
		if event.SpecVersion == specVersion && event.ModuleID == moduleID && event.EventID == eventID {
			return event, nil
		}
	}
	return domain.RuntimeEvent{}, storage.ErrNotFound
}

// ListRuntimeEventAttributes implements storage.RuntimeStore.
func (s *Store) ListRuntimeEventAttributes(_ context.Context, runtimeEventID int64) ([]domain.RuntimeEventAttribute, error) {
	attributes := make([]domain.RuntimeEventAttribute, 0)
	for _, attribute := range s.RuntimeEventAttributes {
		if attribute.RuntimeEventID == runtimeEventID {
			attributes = append(attributes, attribute)
		}
	}
	sort.SliceStable(attributes, func(i, j int) bool { return attributes[i].Index < attributes[j].Index })
	return attributes, nil
}

func runtimeTypeField(t domain.RuntimeType, column string) (any, bool) {
	switch column {
	case "spec_version":
		return t.SpecVersion, true
	case "type_string":
		return t.TypeString, true
	case "is_primitive_runtime":
		return t.IsPrimitive, true
	default:
		return nil, false
	}
}

// ListRuntimeTypes implements storage.RuntimeStore.
func (s *Store) ListRuntimeTypes(_ context.Context, q storage.ListQuery) ([]domain.RuntimeType, int, error) {
	return listSlice(s.RuntimeTypes, q, runtimeTypeField, nil)
}

func runtimeStorageField(r domain.RuntimeStorage, column string) (any, bool) {
	switch column {
	case "spec_version":
		return r.SpecVersion, true
	case "module_id":
		return r.ModuleID, true
	case "name":
		return r.Name, true
	default:
		return nil, false
	}
}

// ListRuntimeStorage implements storage.RuntimeStore.
func (s *Store) ListRuntimeStorage(_ context.Context, q storage.ListQuery) ([]domain.RuntimeStorage, int, error) {
	return listSlice(s.RuntimeStorageItems, q, runtimeStorageField, nil)
}

// GetRuntimeStorage implements storage.RuntimeStore.
func (s *Store) GetRuntimeStorage(_ context.Context, specVersion int, moduleID, name string) (domain.RuntimeStorage, error) {
	for _, item := range s.RuntimeStorageItems {
		if item.SpecVersion == specVersion && item.ModuleID == moduleID && item.Name == name {
			return item, nil
		}
	}
	return domain.RuntimeStorage{}, storage.ErrNotFound
}

// LatestRuntimeStorage implements storage.RuntimeStore.
func (s *Store) LatestRuntimeStorage(_ context.Context, moduleID, name string) (domain.RuntimeStorage, error) {
	found := false
	var latest domain.RuntimeStorage
	for _, item := range s.RuntimeStorageItems {
		if item.ModuleID != moduleID || item.Name != name {
			continue
		}
		if !found || item.SpecVersion > latest.SpecVersion {
			latest = item
			found = true
		}
	}
	if !found {
		return domain.RuntimeStorage{}, storage.ErrNotFound
	}
	return latest, nil
}

func runtimeConstantField(c domain.RuntimeConstant, column string) (any, bool) {
	switch column {
	case "spec_version":
		return c.SpecVersion, true
	case "module_id":
		return c.ModuleID, true
	case "name":
		return c.Name, true
	default:
		return nil, false
	}
}

// ListRuntimeConstants implements storage.RuntimeStore.
func (s *Store) ListRuntimeConstants(_ context.Context, q storage.ListQuery) ([]domain.RuntimeConstant, int, error) {
	return listSlice(s.RuntimeConstants, q, runtimeConstantField, nil)
}

// GetRuntimeConstant implements storage.RuntimeStore.
func (s *Store) GetRuntimeConstant(_ context.Context, specVersion int, moduleID, name string) (domain.RuntimeConstant, error) {
	for _, constant := range s.RuntimeConstants {
		if constant.SpecVersion == specVersion && constant.ModuleID == moduleID && constant.Name == name {
			return constant, nil
		}
	}
	return domain.RuntimeConstant{}, storage.ErrNotFound
}

// ListRuntimeErrors implements storage.RuntimeStore.
func (s *Store) ListRuntimeErrors(_ context.Context, specVersion int, moduleID string) ([]domain.RuntimeErrorMessage, error) {
	messages := make([]domain.RuntimeErrorMessage, 0)
	for _, message := range s.RuntimeErrors {
		if message.SpecVersion == specVersion && message.ModuleID == moduleID {
			messages = append(messages, message)
		}
	}
	sort.SliceStable(messages, func(i, j int) bool { return messages[i].Index < messages[j].Index })
	return messages, nil
}

// GetRuntimeErrorMessage implements storage.RuntimeStore.
func (s *Store) GetRuntimeErrorMessage(_ context.Context, moduleIndex, errorIndex, specVersion int) (domain.RuntimeErrorMessage, error) {
	for _, message := range s.RuntimeErrors {
		if message.ModuleIndex == moduleIndex && message.Index == errorIndex && message.SpecVersion == specVersion {
			return message, nil
		}
	}
	return domain.RuntimeErrorMessage{}, storage.ErrNotFound
}
