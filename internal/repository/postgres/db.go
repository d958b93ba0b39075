package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Yahiahu/SCM-sub000/internal/config"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
)

type DB struct {
	*sqlx.DB
	sem *semaphore.Weighted
}

// NewDB creates a new database connection pool
func NewDB(cfg *config.DatabaseConfig) (*DB, error) {
	db, err := sqlx.Connect("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	maxConns := cfg.MaxConns
	if maxConns <= 0 {
		maxConns = 10
	}

	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns / 2)
	db.SetConnMaxLifetime(5 * time.Minute)

	return Wrap(db, int64(maxConns)), nil
}

// Wrap adapts an existing sqlx handle; writers are limited to maxTx
// concurrent transactions.
func Wrap(db *sqlx.DB, maxTx int64) *DB {
	if maxTx <= 0 {
		maxTx = 1
	}
	return &DB{
		DB:  db,
		sem: semaphore.NewWeighted(maxTx),
	}
}

// WithTx executes a function within a transaction
func (db *DB) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	if err := db.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("could not acquire semaphore: %w", err)
	}
	defer db.sem.Release(1)

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	if err := fn(tx.Tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Msg("could not rollback transaction")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// Schema creates the backend tables read by POSource when they are missing.
const Schema = `
CREATE TABLE IF NOT EXISTS supplier (
	id            BIGSERIAL PRIMARY KEY,
	name          TEXT NOT NULL,
	contact_email TEXT NOT NULL DEFAULT '',
	rating        DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS users (
	id       BIGSERIAL PRIMARY KEY,
	username TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS component (
	id          BIGSERIAL PRIMARY KEY,
	description TEXT
);

CREATE TABLE IF NOT EXISTS purchaseorder (
	id            BIGSERIAL PRIMARY KEY,
	supplier_id   BIGINT NOT NULL,
	date_created  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	date_expected TIMESTAMPTZ,
	created_by_id BIGINT NOT NULL,
	status        TEXT NOT NULL DEFAULT 'Draft',
	notes         TEXT
);

CREATE TABLE IF NOT EXISTS poitem (
	id           BIGSERIAL PRIMARY KEY,
	po_id        BIGINT NOT NULL REFERENCES purchaseorder(id) ON DELETE CASCADE,
	component_id BIGINT REFERENCES component(id),
	ordered_qty  BIGINT NOT NULL DEFAULT 0 CHECK (ordered_qty >= 0),
	unit_cost    NUMERIC(14,4) NOT NULL DEFAULT 0 CHECK (unit_cost >= 0)
);

CREATE INDEX IF NOT EXISTS idx_poitem_po_id ON poitem(po_id);
`
