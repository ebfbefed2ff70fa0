package cache

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCacheMissReturnsNotOK(t *testing.T) {
	c := openTestCache(t)
	_, ok, err := c.Get("does-not-exist")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("ok = true for a key never stored")
	}
}

func TestCachePutThenGetRoundTrip(t *testing.T) {
	c := openTestCache(t)

	want := Summary{
		Path:        "dm1.ogz",
		Hash:        "abc123",
		Version:     33,
		WorldSize:   1024,
		NumEntities: 7,
		NumVSlots:   3,
		NumVars:     1,
		GameIdent:   "fps",
		DecodedAt:   time.Unix(1700000000, 0).UTC(),
	}

	if err := c.Put(want.Hash, want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := c.Get(want.Hash)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("ok = false, want true after Put")
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestCachePutOverwritesExistingEntry(t *testing.T) {
	c := openTestCache(t)

	first := Summary{Hash: "h1", Path: "a.ogz", Version: 29}
	second := Summary{Hash: "h1", Path: "b.ogz", Version: 30}

	if err := c.Put(first.Hash, first); err != nil {
		t.Fatalf("Put first: %v", err)
	}
	if err := c.Put(second.Hash, second); err != nil {
		t.Fatalf("Put second: %v", err)
	}

	got, ok, err := c.Get("h1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("ok = false, want true")
	}
	if got.Path != "b.ogz" || got.Version != 30 {
		t.Errorf("Get = %+v, want overwritten entry %+v", got, second)
	}
}
