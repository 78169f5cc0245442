package postgres

import (
	"context"
	"fmt"

	"github.com/metamui-network/metascan-api/internal/domain"
	"github.com/metamui-network/metascan-api/internal/storage"
)

const runtimeColumns = "id, impl_name, impl_version, spec_name, spec_version, count_modules, " +
	"count_call_functions, count_events, count_storage_functions, count_constants"

var runtimeFilterColumns = map[string]bool{
	"spec_version": true,
	"spec_name":    true,
}

// ListRuntimes implements storage.RuntimeStore.
func (s *Store) ListRuntimes(ctx context.Context, q storage.ListQuery) ([]domain.Runtime, int, error) {
	spec := listSpec[domain.Runtime]{
		table:   "runtime",
		columns: runtimeColumns,
		allowed: runtimeFilterColumns,
	}
	return listRecords(ctx, s, spec, q)
}

// GetRuntime implements storage.RuntimeStore.
func (s *Store) GetRuntime(ctx context.Context, specVersion int) (domain.Runtime, error) {
	var runtime domain.Runtime
	query := fmt.Sprintf("SELECT %s FROM runtime WHERE spec_version = $1", runtimeColumns)
	if err := s.db.GetContext(ctx, &runtime, query, specVersion); err != nil {
		return domain.Runtime{}, err
	}
	return runtime, nil
}

// LatestRuntime implements storage.RuntimeStore.
func (s *Store) LatestRuntime(ctx context.Context) (domain.Runtime, error) {
	var runtime domain.Runtime
	query := fmt.Sprintf("SELECT %s FROM runtime ORDER BY spec_version DESC LIMIT 1", runtimeColumns)
	if err := s.db.GetContext(ctx, &runtime, query); err != nil {
		return domain.Runtime{}, err
	}
	return runtime, nil
}

const runtimeModuleColumns = "id, spec_version, module_id, name, lookup, prefix"

var runtimeScopedFilterColumns = map[string]bool{
	"spec_version": true,
	"module_id":    true,
	"call_id":      true,
	"event_id":     true,
	"name":         true,
}

// ListRuntimeModules implements storage.RuntimeStore.
func (s *Store) ListRuntimeModules(ctx context.Context, q storage.ListQuery) ([]domain.RuntimeModule, int, error) {
	spec := listSpec[domain.RuntimeModule]{
		table:   "runtime_module",
		columns: runtimeModuleColumns,
		allowed: runtimeScopedFilterColumns,
	}
	return listRecords(ctx, s, spec, q)
}

// GetRuntimeModule implements storage.RuntimeStore.
func (s *Store) GetRuntimeModule(ctx context.Context, specVersion int, moduleID string) (domain.RuntimeModule, error) {
	var module domain.RuntimeModule
	query := fmt.Sprintf("SELECT %s FROM runtime_module WHERE spec_version = $1 AND module_id = $2",
		runtimeModuleColumns)
	if err := s.db.GetContext(ctx, &module, query, specVersion, moduleID); err != nil {
		return domain.RuntimeModule{}, err
	}
	return module, nil
}

const runtimeCallColumns = "id, spec_version, module_id, call_id, name, lookup, documentation, count_params"

// ListRuntimeCalls implements storage.RuntimeStore.
func (s *Store) ListRuntimeCalls(ctx context.Context, q storage.ListQuery) ([]domain.RuntimeCall, int, error) {
	spec := listSpec[domain.RuntimeCall]{
		table:   "runtime_call",
		columns: runtimeCallColumns,
		allowed: runtimeScopedFilterColumns,
	}
	return listRecords(ctx, s, spec, q)
}

// GetRuntimeCall implements storage.RuntimeStore.
func (s *Store) GetRuntimeCall(ctx context.Context, specVersion int, moduleID, callID string) (domain.RuntimeCall, error) {
	var call domain.RuntimeCall
	query := fmt.Sprintf("SELECT %s FROM runtime_call WHERE spec_version = $1 AND module_id = $2 AND call_id = $3",
		runtimeCallColumns)
	if err := s.db.GetContext(ctx, &call, query, specVersion, moduleID, callID); err != nil {
		return domain.RuntimeCall{}, err
	}
	return call, nil
}

// ListRuntimeCallParams implements storage.RuntimeStore.
func (s *Store) ListRuntimeCallParams(ctx context.Context, runtimeCallID int64) ([]domain.RuntimeCallParam, error) {
	params := []domain.RuntimeCallParam{}
	query := "SELECT id, runtime_call_id, name, type FROM runtime_call_param WHERE runtime_call_id = $1 ORDER BY id"
	if err := s.db.SelectContext(ctx, &params, query, runtimeCallID); err != nil {
		return nil, fmt.Errorf("list runtime call params: %w", err)
	}
	return params, nil
}

const runtimeEventColumns = "id, spec_version, module_id, event_id, name, lookup, documentation, count_attributes"

// ListRuntimeEvents implements storage.RuntimeStore.
func (s *Store) ListRuntimeEvents(ctx context.Context, q storage.ListQuery) ([]domain.RuntimeEvent, int, error) {
	spec := listSpec[domain.RuntimeEvent]{
		table:   "runtime_event",
		columns: runtimeEventColumns,
		allowed: runtimeScopedFilterColumns,
	}
	return listRecords(ctx, s, spec, q)
}

// GetRuntimeEvent implements storage.RuntimeStore.
func (s *Store) GetRuntimeEvent(ctx context.Context, specVersion int, moduleID, eventID string) (domain.RuntimeEvent, error) {
	var event domain.RuntimeEvent
	query := fmt.Sprintf("SELECT %s FROM runtime_event WHERE spec_version = $1 AND module_id = $2 AND event_id = $3",
		runtimeEventColumns)
	if err := s.db.GetContext(ctx, &event, query, specVersion, moduleID, eventID); err != nil {
		return domain.RuntimeEvent{}, err
	}
	return event, nil
}

// ListRuntimeEventAttributes implements storage.RuntimeStore.
func (s *Store) ListRuntimeEventAttributes(ctx context.Context, runtimeEventID int64) ([]domain.RuntimeEventAttribute, error) {
	attributes := []domain.RuntimeEventAttribute{}
	query := `SELECT id, runtime_event_id, "index", type FROM runtime_event_attribute WHERE runtime_event_id = $1 ORDER BY "index"`
	if err := s.db.SelectContext(ctx, &attributes, query, runtimeEventID); err != nil {
		return nil, fmt.Errorf("list runtime event attributes: %w", err)
	}
	return attributes, nil
}

// ListRuntimeTypes implements storage.RuntimeStore.
func (s *Store) ListRuntimeTypes(ctx context.Context, q storage.ListQuery) ([]domain.RuntimeType, int, error) {
	spec := listSpec[domain.RuntimeType]{
		table:   "runtime_type",
		columns: "id, spec_version, type_string, decoder_class, is_primitive_runtime",
		allowed: map[string]bool{"spec_version": true, "type_string": true, "is_primitive_runtime": true},
	}
	return listRecords(ctx, s, spec, q)
}

const runtimeStorageColumns = "id, spec_version, module_id, name, type_value, type_hasher"

// ListRuntimeStorage implements storage.RuntimeStore.
func (s *Store) ListRuntimeStorage(ctx context.Context, q storage.ListQuery) ([]domain.RuntimeStorage, int, error) {
	spec := listSpec[domain.RuntimeStorage]{
		table:   "runtime_storage",
		columns: runtimeStorageColumns,
		allowed: runtimeScopedFilterColumns,
	}
	return listRecords(ctx, s, spec, q)
}

// GetRuntimeStorage implements storage.RuntimeStore.
func (s *Store) GetRuntimeStorage(ctx context.Context, specVersion int, moduleID, name string) (domain.RuntimeStorage, error) {
	var item domain.RuntimeStorage
	query := fmt.Sprintf("SELECT %s FROM runtime_storage WHERE spec_version = $1 AND module_id = $2 AND name = $3",
		runtimeStorageColumns)
	if err := s.db.GetContext(ctx, &item, query, specVersion, moduleID, name); err != nil {
		return domain.RuntimeStorage{}, err
	}
	return item, nil
}

// LatestRuntimeStorage implements storage.RuntimeStore.
func (s *Store) LatestRuntimeStorage(ctx context.Context, moduleID, name string) (domain.RuntimeStorage, error) {
	var item domain.RuntimeStorage
	query := fmt.Sprintf("SELECT %s FROM runtime_storage WHERE module_id = $1 AND name = $2 ORDER BY spec_version DESC LIMIT 1",
		runtimeStorageColumns)
	if err := s.db.GetContext(ctx, &item, query, moduleID, name); err != nil {
		return domain.RuntimeStorage{}, err
	}
	return item, nil
}

const runtimeConstantColumns = "id, spec_version, module_id, name, type, value"

// ListRuntimeConstants implements storage.RuntimeStore.
func (s *Store) ListRuntimeConstants(ctx context.Context, q storage.ListQuery) ([]domain.RuntimeConstant, int, error) {
	spec := listSpec[domain.RuntimeConstant]{
		table:   "runtime_constant",
		columns: runtimeConstantColumns,
		allowed: runtimeScopedFilterColumns,
	}
	return listRecords(ctx, s, spec, q)
}

// GetRuntimeConstant implements storage.RuntimeStore.
func (s *Store) GetRuntimeConstant(ctx context.Context, specVersion int, moduleID, name string) (domain.RuntimeConstant, error) {
	var constant domain.RuntimeConstant
	query := fmt.Sprintf("SELECT %s FROM runtime_constant WHERE spec_version = $1 AND module_id = $2 AND name = $3",
		runtimeConstantColumns)
	if err := s.db.GetContext(ctx, &constant, query, specVersion, moduleID, name); err != nil {
		return domain.RuntimeConstant{}, err
	}
	return constant, nil
}

// ListRuntimeErrors implements storage.RuntimeStore.
func (s *Store) ListRuntimeErrors(ctx context.Context, specVersion int, moduleID string) ([]domain.RuntimeErrorMessage, error) {
	messages := make([]domain.RuntimeErrorMessage, 0)
	query := `SELECT id, spec_version, module_id, module_index, "index", name, documentation ` +
		`FROM runtime_error_message WHERE spec_version = $1 AND module_id = $2 ORDER BY "index"`
	if err := s.db.SelectContext(ctx, &messages, query, specVersion, moduleID); err != nil {
		return nil, err
	}
	return messages, nil
}

// GetRuntimeErrorMessage implements storage.RuntimeStore.
func (s *Store) GetRuntimeErrorMessage(ctx context.Context, moduleIndex, errorIndex, specVersion int) (domain.RuntimeErrorMessage, error) {
	var message domain.RuntimeErrorMessage
	query := `SELECT id, spec_version, module_id, module_index, "index", name, documentation ` +
		`FROM runtime_error_message WHERE module_index = $1 AND "index" = $2 AND spec_version = $3`
	if err := s.db.GetContext(ctx, &message, query, moduleIndex, errorIndex, specVersion); err != nil {
		return domain.RuntimeErrorMessage{}, err
	}
	return message, nil
}
