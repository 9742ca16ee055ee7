package store

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, time.October, 19, 0, 0, 0, 0, time.UTC)

func TestRecord_Fallbacks(t *testing.T) {
	tests := []struct {
		name  string
		rec   Record
		label string
		price any
		photo string
	}{
		{
			name:  "primary fields",
			rec:   Record{"designation": "Lady Dior", "descriptif": "Sac", "Prix_Vente": float64(4900), "prix_achat": float64(3000), "Perso_Lien_Photo": "p.jpg", "image_url": "i.jpg"},
			label: "Lady Dior",
			price: float64(4900),
			photo: "p.jpg",
		},
		{
			name:  "fallback fields",
			rec:   Record{"designation": "", "descriptif": "Sac", "Prix_Vente": float64(0), "prix_achat": float64(3000), "image_url": "i.jpg"},
			label: "Sac",
			price: float64(3000),
			photo: "i.jpg",
		},
		{
			name: "nothing set",
			rec:  Record{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.label, tt.rec.Name())
			assert.Equal(t, tt.price, tt.rec.Price())
			assert.Equal(t, tt.photo, tt.rec.Photo())
		})
	}
}

func TestRecord_Text(t *testing.T) {
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(`{"produit": 12345, "Prix_Vente": 1290.5, "Marque": "Dior", "tags": ["a"]}`), &rec))

	assert.Equal(t, "12345", rec.Reference())
	assert.Equal(t, "1290.5", rec.Text(FieldPrice))
	assert.Equal(t, "Dior", rec.Brand())
	assert.Equal(t, `["a"]`, rec.Text("tags"))
	assert.Equal(t, "", rec.Link())
}

func TestRecord_Slim(t *testing.T) {
	rec := Record{"produit": "A", "Marque": "Dior", "internal_note": "x", "Couleur": "Noir"}
	slim := rec.Slim()

	assert.Equal(t, Record{"produit": "A", "Marque": "Dior", "Couleur": "Noir"}, slim)
	assert.Contains(t, rec, "internal_note")
}

func TestSnapshot_FirstReferenceWins(t *testing.T) {
	snap := NewSnapshot([]Record{
		{"produit": "DUP", "designation": "first"},
		{"produit": "dup", "designation": "second"},
	}, "test", testTime)

	rec, ok := snap.FindByReference("Dup")
	require.True(t, ok)
	assert.Equal(t, "first", rec.Name())

	_, ok = snap.FindByReference("missing")
	assert.False(t, ok)
	assert.Equal(t, testTime, snap.LoadedAt)
}
