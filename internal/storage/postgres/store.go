// Package postgres implements the read store on PostgreSQL via sqlx. All
// predicates are parameterized; column names come from compile-time
// whitelists, never from request input.
package postgres

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/metamui-network/metascan-api/internal/config"
	"github.com/metamui-network/metascan-api/internal/logging"
)

// Store implements storage.Store against a Postgres database populated by
// the indexer.
type Store struct {
	db  *sqlx.DB
	log *logging.Logger
}

// New wraps an open database handle.
func New(db *sqlx.DB, log *logging.Logger) *Store {
	if log == nil {
		log = logging.NewDefault("postgres")
	}
	return &Store{db: db, log: log}
}

// Connect opens and pings the database described by cfg.
func Connect(cfg config.DatabaseConfig) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}
