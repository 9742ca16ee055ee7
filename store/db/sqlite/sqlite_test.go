package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feeleurope/luxeagent/internal/profile"
	"github.com/feeleurope/luxeagent/store"
)

func TestNewDB_RequiresDSN(t *testing.T) {
	_, err := NewDB(&profile.Profile{})
	assert.Error(t, err)
}

func TestImportAndLoad(t *testing.T) {
	ctx := context.Background()
	driver, err := NewDB(&profile.Profile{DSN: filepath.Join(t.TempDir(), "catalog.db")})
	require.NoError(t, err)
	defer driver.Close()

	db := driver.(*DB)
	records, err := db.LoadProducts(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	n, err := db.ImportProducts(ctx, []store.Record{
		{"produit": "REF002", "designation": "Saddle", "Prix_Vente": float64(3500)},
		{"produit": "REF001", "designation": "Lady Dior Medium", "Marque": "Dior"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err = db.LoadProducts(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	// insertion order, not reference order
	assert.Equal(t, "REF002", records[0].Reference())
	assert.Equal(t, float64(3500), records[0].Price())
	assert.Equal(t, "Dior", records[1].Brand())

	// a second import replaces the catalog
	_, err = db.ImportProducts(ctx, []store.Record{{"produit": "ONLY"}})
	require.NoError(t, err)
	records, err = db.LoadProducts(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "ONLY", records[0].Reference())
}
