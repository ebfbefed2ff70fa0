package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"golang.org/x/exp/maps"
)

// Index is a JSON sidecar listing known decoded maps: a flat,
// directly-loadable alternative to querying SQLite, used by
// `ogzdump list` for a fast directory overview.
type Index struct {
	Maps map[string]MapEntry `json:"maps"` // content hash -> entry
}

// MapEntry is one decoded map's listing-relevant metadata.
type MapEntry struct {
	Path      string `json:"path"`
	Version   uint32 `json:"version"`
	WorldSize uint32 `json:"worldSize"`
	GameIdent string `json:"gameIdent"`
}

// LoadIndex loads an Index from a JSON file. A missing file yields an
// empty Index rather than an error, so first-run tooling doesn't need a
// separate "does it exist" check.
func LoadIndex(path string) (*Index, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Index{Maps: make(map[string]MapEntry)}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read index %s: %w", path, err)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("parse index %s: %w", path, err)
	}
	if idx.Maps == nil {
		idx.Maps = make(map[string]MapEntry)
	}
	return &idx, nil
}

// Save writes the Index to a JSON file.
func (idx *Index) Save(path string) error {
	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write index %s: %w", path, err)
	}
	return nil
}

// Put adds or replaces an entry keyed by content hash.
func (idx *Index) Put(hash string, entry MapEntry) {
	idx.Maps[hash] = entry
}

// SortedHashes returns the index's hash keys in deterministic sorted
// order, for stable CLI listing output.
func (idx *Index) SortedHashes() []string {
	hashes := maps.Keys(idx.Maps)
	sort.Strings(hashes)
	return hashes
}
