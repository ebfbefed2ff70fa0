package cache

import "testing"

func TestContentHashIsStableAndDistinct(t *testing.T) {
	a := ContentHash([]byte("hello"))
	b := ContentHash([]byte("hello"))
	if a != b {
		t.Errorf("ContentHash not stable: %q != %q", a, b)
	}

	c := ContentHash([]byte("world"))
	if a == c {
		t.Error("ContentHash collided for distinct inputs")
	}

	if len(a) != 64 {
		t.Errorf("len(hash) = %d, want 64 (hex-encoded 32 bytes)", len(a))
	}
}
