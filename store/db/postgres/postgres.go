package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/feeleurope/luxeagent/internal/profile"
	"github.com/feeleurope/luxeagent/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS product (
	id BIGSERIAL PRIMARY KEY,
	produit TEXT NOT NULL DEFAULT '',
	payload JSONB NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_product_produit ON product (lower(produit));
`

type DB struct {
	db      *sql.DB
	profile *profile.Profile
}

// NewDB opens a PostgreSQL catalog database and creates the schema if needed.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.DSN == "" {
		return nil, errors.New("dsn required")
	}

	db, err := sql.Open("postgres", profile.DSN)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open db connection")
	}

	// The catalog is read in bulk on reload only.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to ping db")
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create schema")
	}

	return &DB{db: db, profile: profile}, nil
}

func (d *DB) GetDB() *sql.DB {
	return d.db
}

func (d *DB) Source() string {
	return "postgres"
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) LoadProducts(ctx context.Context) ([]store.Record, error) {
	rows, err := d.db.QueryContext(ctx, `SELECT payload FROM product ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	records := []store.Record{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		var rec store.Record
		if err := json.Unmarshal(payload, &rec); err != nil {
			return nil, fmt.Errorf("failed to decode product payload: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}
	return records, nil
}

// ImportProducts replaces the catalog using COPY inside one transaction.
func (d *DB) ImportProducts(ctx context.Context, records []store.Record) (int, error) {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `TRUNCATE product RESTART IDENTITY`); err != nil {
		return 0, fmt.Errorf("failed to truncate products: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("product", "produit", "payload"))
	if err != nil {
		return 0, fmt.Errorf("failed to prepare copy: %w", err)
	}

	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			stmt.Close()
			return 0, fmt.Errorf("failed to encode product %s: %w", rec.Reference(), err)
		}
		if _, err := stmt.ExecContext(ctx, rec.Reference(), string(payload)); err != nil {
			stmt.Close()
			return 0, fmt.Errorf("failed to copy product %s: %w", rec.Reference(), err)
		}
	}
	// flush the COPY buffer
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return 0, fmt.Errorf("failed to flush copy: %w", err)
	}
	if err := stmt.Close(); err != nil {
		return 0, fmt.Errorf("failed to close copy: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return len(records), nil
}
