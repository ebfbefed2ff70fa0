// Package cache provides a content-addressed decode cache so
// `ogzdump dump` does not re-decode an unchanged OGZ file, plus the
// content hash and Summary type shared with cmd/ogzwatch. The cache is
// backed by modernc.org/sqlite, a pure-Go, CGO-free SQL driver.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Summary is the small, JSON-serializable decode summary cached per map
// file: enough to answer "what's in this map" without re-decoding it.
type Summary struct {
	Path        string    `json:"path"`
	Hash        string    `json:"hash"`
	Version     uint32    `json:"version"`
	WorldSize   uint32    `json:"worldSize"`
	NumEntities int       `json:"numEntities"`
	NumVSlots   int       `json:"numVSlots"`
	NumVars     int       `json:"numVars"`
	GameIdent   string    `json:"gameIdent"`
	DecodedAt   time.Time `json:"decodedAt"`
}

// Cache wraps a SQLite-backed store of zstd-compressed Summary blobs
// keyed by content hash.
type Cache struct {
	db *sql.DB
}

// Open opens (creating if necessary) a cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS map_cache (
	hash       TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	summary    BLOB NOT NULL,
	decoded_at INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached Summary for hash, or ok=false if absent.
func (c *Cache) Get(hash string) (Summary, bool, error) {
	var blob []byte
	err := c.db.QueryRow(`SELECT summary FROM map_cache WHERE hash = ?`, hash).Scan(&blob)
	if err == sql.ErrNoRows {
		return Summary{}, false, nil
	}
	if err != nil {
		return Summary{}, false, fmt.Errorf("query cache entry %s: %w", hash, err)
	}

	raw, err := decompressSummary(blob)
	if err != nil {
		return Summary{}, false, fmt.Errorf("decompress cache entry %s: %w", hash, err)
	}

	var s Summary
	if err := json.Unmarshal(raw, &s); err != nil {
		return Summary{}, false, fmt.Errorf("unmarshal cache entry %s: %w", hash, err)
	}
	return s, true, nil
}

// Put stores (or replaces) the Summary for hash.
func (c *Cache) Put(hash string, s Summary) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	blob, err := compressSummary(raw)
	if err != nil {
		return fmt.Errorf("compress summary: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT INTO map_cache (hash, path, summary, decoded_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(hash) DO UPDATE SET path = excluded.path, summary = excluded.summary, decoded_at = excluded.decoded_at`,
		hash, s.Path, blob, s.DecodedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("store cache entry %s: %w", hash, err)
	}
	return nil
}
