package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/feeleurope/luxeagent/internal/profile"
	"github.com/feeleurope/luxeagent/store"
)

// Each product is kept as its JSON document so catalog columns can change
// without a migration. The reference is copied out for lookups.
const schema = `
CREATE TABLE IF NOT EXISTS product (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	produit TEXT NOT NULL DEFAULT '',
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_product_produit ON product (produit);
`

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens the SQLite catalog database and creates the schema if needed.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	// Ensure a DSN is set before attempting to open the database.
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	// When using the `modernc.org/sqlite` driver, each pragma must be prefixed with `_pragma=`.
	// WAL lets the reload read while an import is writing.
	sqliteDB, err := sql.Open("sqlite", profile.DSN+"?_pragma=foreign_keys(0)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open db with dsn: %s", profile.DSN)
	}

	sqliteDB.SetMaxOpenConns(1) // SQLite: single connection is optimal with WAL
	sqliteDB.SetMaxIdleConns(1)
	sqliteDB.SetConnMaxLifetime(0)
	sqliteDB.SetConnMaxIdleTime(0)

	if _, err := sqliteDB.Exec(schema); err != nil {
		sqliteDB.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}

	return &DB{db: sqliteDB, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Source() string {
	return "sqlite:" + d.profile.DSN
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) LoadProducts(ctx context.Context) ([]store.Record, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT payload FROM product ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query products")
	}
	defer rows.Close()

	records := []store.Record{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.Wrap(err, "failed to scan product")
		}
		var rec store.Record
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			return nil, errors.Wrap(err, "failed to decode product payload")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to iterate products")
	}
	return records, nil
}

// ImportProducts replaces the whole catalog in one transaction.
func (d *DB) ImportProducts(ctx context.Context, records []store.Record) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product`); err != nil {
		return 0, errors.Wrap(err, "failed to clear products")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO product (produit, payload) VALUES (?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prepare statement")
	}
	defer stmt.Close()

	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to encode product %s", rec.Reference())
		}
		if _, err := stmt.ExecContext(ctx, rec.Reference(), string(payload)); err != nil {
			return 0, errors.Wrapf(err, "failed to insert product %s", rec.Reference())
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit transaction")
	}
	return len(records), nil
}
