package bundle

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ernie/ogzdecode/internal/cache"
)

func TestBuildAndReadMapBundleRoundTrip(t *testing.T) {
	dir := t.TempDir()

	ogzPath := filepath.Join(dir, "dm1.ogz")
	mapBytes := []byte("not a real ogz, just bundle payload")
	if err := os.WriteFile(ogzPath, mapBytes, 0644); err != nil {
		t.Fatalf("write fixture map: %v", err)
	}

	summary := cache.Summary{
		Path:        ogzPath,
		Hash:        "deadbeef",
		Version:     33,
		WorldSize:   1024,
		NumEntities: 12,
		NumVSlots:   4,
		NumVars:     2,
		GameIdent:   "fps",
		DecodedAt:   time.Unix(1700000000, 0).UTC(),
	}
	entry := cache.MapEntry{
		Path:      ogzPath,
		Version:   33,
		WorldSize: 1024,
		GameIdent: "fps",
	}

	bundlePath := filepath.Join(dir, "dm1.ogzb")
	if err := BuildMapBundle(ogzPath, summary, entry, bundlePath); err != nil {
		t.Fatalf("BuildMapBundle: %v", err)
	}

	gotMap, gotSummary, gotEntry, err := ReadMapBundle(bundlePath)
	if err != nil {
		t.Fatalf("ReadMapBundle: %v", err)
	}

	if string(gotMap) != string(mapBytes) {
		t.Errorf("map bytes = %q, want %q", gotMap, mapBytes)
	}
	if gotSummary != summary {
		t.Errorf("summary = %+v, want %+v", gotSummary, summary)
	}
	if gotEntry != entry {
		t.Errorf("entry = %+v, want %+v", gotEntry, entry)
	}
}

func TestBuildMapBundleMissingSourceFile(t *testing.T) {
	dir := t.TempDir()
	err := BuildMapBundle(filepath.Join(dir, "missing.ogz"), cache.Summary{}, cache.MapEntry{}, filepath.Join(dir, "out.ogzb"))
	if err == nil {
		t.Fatal("expected error for missing source file, got nil")
	}
}

func TestReadMapBundleMissingMapEntry(t *testing.T) {
	dir := t.TempDir()
	bundlePath := filepath.Join(dir, "empty.ogzb")

	f, err := os.Create(bundlePath)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := writeZip(f, map[string][]byte{"other.txt": []byte("x")}); err != nil {
		t.Fatalf("writeZip: %v", err)
	}
	f.Close()

	if _, _, _, err := ReadMapBundle(bundlePath); err == nil {
		t.Fatal("expected error for bundle missing map.ogz, got nil")
	}
}
