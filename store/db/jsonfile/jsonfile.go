// Package jsonfile serves the catalog from a JSON array on disk, downloading
// it from a remote URL on first start when the file is missing.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/feeleurope/luxeagent/internal/profile"
	"github.com/feeleurope/luxeagent/store"
)

const downloadTimeout = 60 * time.Second

type DB struct {
	path   string
	url    string
	bearer string
	client *http.Client
}

// NewDB creates a JSON file driver from the profile catalog settings.
func NewDB(profile *profile.Profile) (store.Driver, error) {
	if profile.CatalogPath == "" {
		return nil, errors.New("catalog path required")
	}
	return &DB{
		path:   profile.CatalogPath,
		url:    profile.CatalogURL,
		bearer: profile.CatalogBearer,
		client: &http.Client{Timeout: downloadTimeout},
	}, nil
}

func (d *DB) Source() string {
	return "json:" + d.path
}

func (d *DB) Close() error {
	return nil
}

// LoadProducts reads the catalog file. A missing file with no remote URL
// configured yields an empty catalog.
func (d *DB) LoadProducts(ctx context.Context) ([]store.Record, error) {
	if err := d.ensureFile(ctx); err != nil {
		// Serve an empty catalog rather than refuse to start.
		slog.Error("failed to download catalog", slog.String("url", d.url), slog.String("error", err.Error()))
	}

	data, err := os.ReadFile(d.path)
	if err != nil {
		if os.IsNotExist(err) {
			slog.Warn("catalog file not found", slog.String("path", d.path))
			return []store.Record{}, nil
		}
		return nil, errors.Wrapf(err, "failed to read catalog %s", d.path)
	}
	return decode(data)
}

func decode(data []byte) ([]store.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return []store.Record{}, nil
	}
	if trimmed[0] != '[' {
		return nil, errors.New("catalog is not a JSON array")
	}
	var records []store.Record
	if err := json.Unmarshal(trimmed, &records); err != nil {
		return nil, errors.Wrap(err, "failed to decode catalog")
	}
	return records, nil
}

// ensureFile downloads the catalog when the local file does not exist.
func (d *DB) ensureFile(ctx context.Context) error {
	if _, err := os.Stat(d.path); err == nil {
		return nil
	}
	if d.url == "" {
		return nil
	}

	slog.Info("downloading catalog", slog.String("url", d.url), slog.String("path", d.path))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.url, nil)
	if err != nil {
		return errors.Wrap(err, "failed to create request")
	}
	if d.bearer != "" {
		req.Header.Set("Authorization", "Bearer "+d.bearer)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "failed to read response")
	}
	return d.writeFile(body)
}

// writeFile replaces the catalog file atomically.
func (d *DB) writeFile(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return errors.Wrap(err, "failed to create catalog directory")
	}
	tmp, err := os.CreateTemp(filepath.Dir(d.path), ".products-*.json")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(err, "failed to write temp file")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), d.path), "failed to replace catalog file")
}

// ImportProducts writes records as the new catalog file.
func (d *DB) ImportProducts(_ context.Context, records []store.Record) (int, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return 0, errors.Wrap(err, "failed to encode catalog")
	}
	if err := d.writeFile(data); err != nil {
		return 0, err
	}
	return len(records), nil
}
