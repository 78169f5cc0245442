// Package migrations bootstraps the read-model schema. The indexer owns
// the data; this schema exists so a fresh environment can serve the API
// before the indexer's first write.
package migrations

import (
	"context"
	"database/sql"
	"fmt"
)

// Statements is the ordered schema bootstrap. Every statement is
// idempotent so Apply can run on every start.
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS data_block (
		id BIGINT PRIMARY KEY,
		parent_id BIGINT NOT NULL,
		hash VARCHAR(66) NOT NULL UNIQUE,
		parent_hash VARCHAR(66) NOT NULL,
		state_root VARCHAR(66) NOT NULL,
		extrinsics_root VARCHAR(66) NOT NULL,
		count_extrinsics INT NOT NULL DEFAULT 0,
		count_events INT NOT NULL DEFAULT 0,
		count_log INT NOT NULL DEFAULT 0,
		spec_version_id INT NOT NULL,
		session_id BIGINT NOT NULL DEFAULT 0,
		datetime TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS data_extrinsic (
		block_id BIGINT NOT NULL,
		extrinsic_idx INT NOT NULL,
		extrinsic_hash VARCHAR(66),
		signed SMALLINT NOT NULL DEFAULT 0,
		address VARCHAR(64),
		module_id VARCHAR(64) NOT NULL,
		call_id VARCHAR(64) NOT NULL,
		params JSONB,
		success SMALLINT NOT NULL DEFAULT 0,
		error SMALLINT NOT NULL DEFAULT 0,
		spec_version_id INT NOT NULL,
		PRIMARY KEY (block_id, extrinsic_idx)
	);
	CREATE INDEX IF NOT EXISTS idx_extrinsic_hash ON data_extrinsic (extrinsic_hash);
	CREATE INDEX IF NOT EXISTS idx_extrinsic_address ON data_extrinsic (address);
	CREATE INDEX IF NOT EXISTS idx_extrinsic_call ON data_extrinsic (module_id, call_id)`,

	`CREATE TABLE IF NOT EXISTS data_event (
		block_id BIGINT NOT NULL,
		event_idx INT NOT NULL,
		extrinsic_idx INT NOT NULL DEFAULT 0,
		phase SMALLINT NOT NULL DEFAULT 0,
		module_id VARCHAR(64) NOT NULL,
		event_id VARCHAR(64) NOT NULL,
		system SMALLINT NOT NULL DEFAULT 0,
		module SMALLINT NOT NULL DEFAULT 0,
		attributes JSONB,
		codec_error SMALLINT NOT NULL DEFAULT 0,
		spec_version_id INT NOT NULL,
		PRIMARY KEY (block_id, event_idx)
	);
	CREATE INDEX IF NOT EXISTS idx_event_kind ON data_event (module_id, event_id);
	CREATE INDEX IF NOT EXISTS idx_event_extrinsic ON data_event (block_id, extrinsic_idx)`,

	`CREATE TABLE IF NOT EXISTS data_log (
		block_id BIGINT NOT NULL,
		log_idx INT NOT NULL,
		type_id INT NOT NULL DEFAULT 0,
		type VARCHAR(64) NOT NULL,
		data TEXT,
		PRIMARY KEY (block_id, log_idx)
	)`,

	`CREATE TABLE IF NOT EXISTS data_account (
		id VARCHAR(64) PRIMARY KEY,
		address VARCHAR(128) NOT NULL,
		index_address VARCHAR(24),
		balance_total NUMERIC(65) NOT NULL DEFAULT 0,
		balance_free NUMERIC(65) NOT NULL DEFAULT 0,
		balance_reserved NUMERIC(65) NOT NULL DEFAULT 0,
		nonce BIGINT NOT NULL DEFAULT 0,
		is_validator BOOLEAN NOT NULL DEFAULT FALSE,
		is_nominator BOOLEAN NOT NULL DEFAULT FALSE,
		is_council_member BOOLEAN NOT NULL DEFAULT FALSE,
		is_registrar BOOLEAN NOT NULL DEFAULT FALSE,
		is_sudo BOOLEAN NOT NULL DEFAULT FALSE,
		is_tech_comm_member BOOLEAN NOT NULL DEFAULT FALSE,
		is_treasury BOOLEAN NOT NULL DEFAULT FALSE,
		was_validator BOOLEAN NOT NULL DEFAULT FALSE,
		was_nominator BOOLEAN NOT NULL DEFAULT FALSE,
		was_council_member BOOLEAN NOT NULL DEFAULT FALSE,
		was_registrar BOOLEAN NOT NULL DEFAULT FALSE,
		was_sudo BOOLEAN NOT NULL DEFAULT FALSE,
		was_tech_comm_member BOOLEAN NOT NULL DEFAULT FALSE,
		has_identity BOOLEAN NOT NULL DEFAULT FALSE,
		has_subidentity BOOLEAN NOT NULL DEFAULT FALSE,
		identity_judgement_good INT NOT NULL DEFAULT 0,
		identity_judgement_bad INT NOT NULL DEFAULT 0,
		created_at_block BIGINT NOT NULL DEFAULT 0,
		updated_at_block BIGINT NOT NULL DEFAULT 0,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS idx_account_address ON data_account (address)`,

	`CREATE TABLE IF NOT EXISTS data_account_info_snapshot (
		account_id VARCHAR(64) NOT NULL,
		block_id BIGINT NOT NULL,
		balance_total NUMERIC(65) NOT NULL DEFAULT 0,
		balance_free NUMERIC(65) NOT NULL DEFAULT 0,
		balance_reserved NUMERIC(65) NOT NULL DEFAULT 0,
		nonce BIGINT NOT NULL DEFAULT 0,
		PRIMARY KEY (account_id, block_id)
	)`,

	`CREATE TABLE IF NOT EXISTS data_account_index (
		id BIGSERIAL PRIMARY KEY,
		short_address VARCHAR(24) NOT NULL UNIQUE,
		account_id VARCHAR(64) NOT NULL,
		is_reclaimable BOOLEAN NOT NULL DEFAULT FALSE,
		updated_at_block BIGINT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS data_account_search_index (
		id BIGSERIAL PRIMARY KEY,
		index_type_id INT NOT NULL,
		account_id VARCHAR(64),
		block_id BIGINT NOT NULL,
		extrinsic_idx INT NOT NULL DEFAULT 0,
		event_idx INT NOT NULL DEFAULT 0,
		sorting_value BIGINT NOT NULL DEFAULT 0
	);
	CREATE INDEX IF NOT EXISTS idx_search_account ON data_account_search_index (index_type_id, account_id, sorting_value DESC)`,

	`CREATE TABLE IF NOT EXISTS data_session (
		id BIGINT PRIMARY KEY,
		start_at_block BIGINT NOT NULL DEFAULT 0,
		era BIGINT NOT NULL DEFAULT 0,
		count_blocks INT NOT NULL DEFAULT 0,
		count_validators INT NOT NULL DEFAULT 0,
		count_nominators INT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS data_session_validator (
		session_id BIGINT NOT NULL,
		rank_validator INT NOT NULL,
		validator_stash VARCHAR(64),
		validator_controller VARCHAR(64),
		bonded_total NUMERIC(65) NOT NULL DEFAULT 0,
		bonded_active NUMERIC(65) NOT NULL DEFAULT 0,
		bonded_own NUMERIC(65) NOT NULL DEFAULT 0,
		bonded_nominators NUMERIC(65) NOT NULL DEFAULT 0,
		count_nominators INT NOT NULL DEFAULT 0,
		commission NUMERIC(65) NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, rank_validator)
	)`,

	`CREATE TABLE IF NOT EXISTS data_session_nominator (
		session_id BIGINT NOT NULL,
		rank_validator INT NOT NULL,
		rank_nominator INT NOT NULL,
		nominator_stash VARCHAR(64),
		bonded NUMERIC(65) NOT NULL DEFAULT 0,
		PRIMARY KEY (session_id, rank_validator, rank_nominator)
	)`,

	`CREATE TABLE IF NOT EXISTS data_stats (
		id VARCHAR(32) PRIMARY KEY,
		token_name VARCHAR(64) NOT NULL,
		symbol VARCHAR(16) NOT NULL,
		site VARCHAR(256),
		decimals INT NOT NULL DEFAULT 0,
		current_circulation NUMERIC(65) NOT NULL DEFAULT 0,
		total_supply NUMERIC(65) NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS runtime (
		id BIGSERIAL PRIMARY KEY,
		impl_name VARCHAR(255) NOT NULL,
		impl_version INT NOT NULL,
		spec_name VARCHAR(255) NOT NULL,
		spec_version INT NOT NULL UNIQUE,
		count_modules INT NOT NULL DEFAULT 0,
		count_call_functions INT NOT NULL DEFAULT 0,
		count_events INT NOT NULL DEFAULT 0,
		count_storage_functions INT NOT NULL DEFAULT 0,
		count_constants INT NOT NULL DEFAULT 0
	)`,

	`CREATE TABLE IF NOT EXISTS runtime_module (
		id BIGSERIAL PRIMARY KEY,
		spec_version INT NOT NULL,
		module_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		lookup VARCHAR(4),
		prefix VARCHAR(255),
		UNIQUE (spec_version, module_id)
	)`,

	`CREATE TABLE IF NOT EXISTS runtime_call (
		id BIGSERIAL PRIMARY KEY,
		spec_version INT NOT NULL,
		module_id VARCHAR(64) NOT NULL,
		call_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		lookup VARCHAR(4),
		documentation TEXT,
		count_params INT NOT NULL DEFAULT 0,
		UNIQUE (spec_version, module_id, call_id)
	)`,

	`CREATE TABLE IF NOT EXISTS runtime_call_param (
		id BIGSERIAL PRIMARY KEY,
		runtime_call_id BIGINT NOT NULL,
		name VARCHAR(255),
		type VARCHAR(255)
	)`,

	`CREATE TABLE IF NOT EXISTS runtime_event (
		id BIGSERIAL PRIMARY KEY,
		spec_version INT NOT NULL,
		module_id VARCHAR(64) NOT NULL,
		event_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		lookup VARCHAR(4),
		documentation TEXT,
		count_attributes INT NOT NULL DEFAULT 0,
		UNIQUE (spec_version, module_id, event_id)
	)`,

	`CREATE TABLE IF NOT EXISTS runtime_event_attribute (
		id BIGSERIAL PRIMARY KEY,
		runtime_event_id BIGINT NOT NULL,
		"index" INT NOT NULL DEFAULT 0,
		type VARCHAR(255)
	)`,

	`CREATE TABLE IF NOT EXISTS runtime_type (
		id BIGSERIAL PRIMARY KEY,
		spec_version INT NOT NULL,
		type_string VARCHAR(255) NOT NULL,
		decoder_class VARCHAR(255),
		is_primitive_runtime BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE (spec_version, type_string)
	)`,

	`CREATE TABLE IF NOT EXISTS runtime_storage (
		id BIGSERIAL PRIMARY KEY,
		spec_version INT NOT NULL,
		module_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		type_value VARCHAR(255),
		type_hasher VARCHAR(255),
		UNIQUE (spec_version, module_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS runtime_constant (
		id BIGSERIAL PRIMARY KEY,
		spec_version INT NOT NULL,
		module_id VARCHAR(64) NOT NULL,
		name VARCHAR(255) NOT NULL,
		type VARCHAR(255),
		value TEXT,
		UNIQUE (spec_version, module_id, name)
	)`,

	`CREATE TABLE IF NOT EXISTS runtime_error_message (
		id BIGSERIAL PRIMARY KEY,
		spec_version INT NOT NULL,
		module_id VARCHAR(64) NOT NULL,
		module_index INT NOT NULL,
		"index" INT NOT NULL,
		name VARCHAR(255),
		documentation TEXT,
		UNIQUE (spec_version, module_index, "index")
	)`,
}

// Apply runs every bootstrap statement in order.
func Apply(ctx context.Context, db *sql.DB) error {
	for i, statement := range Statements {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i, err)
		}
	}
	return nil
}
