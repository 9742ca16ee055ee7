package store

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/feeleurope/luxeagent/ai/lexicon"
	"github.com/feeleurope/luxeagent/internal/profile"
)

// Provider hands out the current catalog snapshot.
type Provider interface {
	Snapshot() *Snapshot
}

// LoadStats summarizes one catalog load.
type LoadStats struct {
	Records          int
	UniqueReferences int
	UnmappedFamilies int
	Duration         time.Duration
	Source           string
}

// Store holds the immutable catalog snapshot and swaps it on reload.
// Readers never block: a snapshot taken before a reload stays valid.
type Store struct {
	profile *profile.Profile
	driver  Driver
	lexicon *lexicon.Lexicon

	snapshot atomic.Pointer[Snapshot]
	// serializes reloads, readers do not take it
	reloadMu sync.Mutex
}

// New creates a new instance of Store with an empty snapshot.
func New(driver Driver, profile *profile.Profile, lex *lexicon.Lexicon) *Store {
	if lex == nil {
		lex = lexicon.Default()
	}
	s := &Store{
		driver:  driver,
		profile: profile,
		lexicon: lex,
	}
	s.snapshot.Store(NewSnapshot(nil, driver.Source(), time.Time{}))
	return s
}

// Snapshot returns the current catalog. It is never nil.
func (s *Store) Snapshot() *Snapshot {
	return s.snapshot.Load()
}

// Reload reads the catalog from the driver, normalizes every Famille value
// and publishes the result. On failure the previous snapshot stays in place.
func (s *Store) Reload(ctx context.Context) (LoadStats, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	raw, err := s.driver.LoadProducts(ctx)
	if err != nil {
		return LoadStats{Source: s.driver.Source()}, errors.Wrapf(err, "failed to load catalog from %s", s.driver.Source())
	}

	records, unmapped := s.normalize(raw)
	snap := NewSnapshot(records, s.driver.Source(), time.Now())
	s.snapshot.Store(snap)

	stats := LoadStats{
		Records:          len(records),
		UniqueReferences: len(snap.byRef),
		UnmappedFamilies: unmapped,
		Duration:         time.Since(start),
		Source:           snap.Source,
	}
	slog.Info("catalog loaded",
		slog.Int("records", stats.Records),
		slog.Int("unique_refs", stats.UniqueReferences),
		slog.Int("unmapped_families", stats.UnmappedFamilies),
		slog.Duration("duration", stats.Duration),
		slog.String("source", stats.Source),
	)
	return stats, nil
}

// normalize returns copies of the records with a canonical Famille. Records
// from the driver are never modified in place.
func (s *Store) normalize(raw []Record) ([]Record, int) {
	out := make([]Record, 0, len(raw))
	unmapped := 0
	for _, r := range raw {
		if r == nil {
			continue
		}
		res := s.lexicon.ResolveFamily(r.Text(FieldFamily))
		if res.Source == lexicon.FamilyUnmapped {
			unmapped++
		}
		out = append(out, r.with(FieldFamily, res.Value))
	}
	return out, unmapped
}

func (s *Store) Close() error {
	return s.driver.Close()
}
