package store

import (
	"context"
)

// Driver is an interface for catalog sources.
//
// A driver only reads raw records. Normalization and indexing happen in Store.
type Driver interface {
	// LoadProducts returns every catalog record in catalog order.
	LoadProducts(ctx context.Context) ([]Record, error)

	// Source describes where the records come from, for logs and health output.
	Source() string

	Close() error
}

// Importer is implemented by drivers that can be seeded with records,
// typically from a JSON export.
type Importer interface {
	// ImportProducts replaces the stored catalog with records and returns the
	// number of rows written.
	ImportProducts(ctx context.Context, records []Record) (int, error)
}
