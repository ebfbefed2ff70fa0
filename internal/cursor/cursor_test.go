package cursor

import (
	"errors"
	"math"
	"testing"
)

func TestReadPrimitives(t *testing.T) {
	data := []byte{
		0x2A,                   // u8
		0x34, 0x12,             // u16 = 0x1234
		0x78, 0x56, 0x34, 0x12, // u32 = 0x12345678
	}
	c := New(data)

	u8, err := c.ReadU8()
	if err != nil || u8 != 0x2A {
		t.Fatalf("ReadU8 = %d, %v; want 0x2A, nil", u8, err)
	}
	u16, err := c.ReadU16LE()
	if err != nil || u16 != 0x1234 {
		t.Fatalf("ReadU16LE = %#x, %v; want 0x1234, nil", u16, err)
	}
	u32, err := c.ReadU32LE()
	if err != nil || u32 != 0x12345678 {
		t.Fatalf("ReadU32LE = %#x, %v; want 0x12345678, nil", u32, err)
	}
	if c.Position() != len(data) {
		t.Fatalf("Position = %d, want %d", c.Position(), len(data))
	}
}

func TestReadF32LE(t *testing.T) {
	bits := math.Float32bits(3.5)
	data := []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
	c := New(data)
	f, err := c.ReadF32LE()
	if err != nil {
		t.Fatal(err)
	}
	if f != 3.5 {
		t.Errorf("ReadF32LE = %v, want 3.5", f)
	}
}

func TestReadStringPreservesBytes(t *testing.T) {
	data := []byte{0xFF, 0x00, 0x41}
	c := New(data)
	s, err := c.ReadString(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(s) != 3 || s[0] != 0xFF || s[1] != 0x00 || s[2] != 0x41 {
		t.Fatalf("ReadString preserved bytes incorrectly: %q", s)
	}
}

func TestEndOfInput(t *testing.T) {
	c := New([]byte{0x01})
	if _, err := c.ReadU32LE(); !errors.Is(err, ErrEndOfInput) {
		t.Fatalf("ReadU32LE err = %v, want ErrEndOfInput", err)
	}
	// Position must not have advanced on a failed read.
	if c.Position() != 0 {
		t.Fatalf("Position after failed read = %d, want 0", c.Position())
	}
}

func TestSkipAndSkipPastEnd(t *testing.T) {
	c := New([]byte{1, 2, 3, 4})
	if err := c.Skip(2); err != nil {
		t.Fatal(err)
	}
	if c.Position() != 2 {
		t.Fatalf("Position = %d, want 2", c.Position())
	}
	if err := c.Skip(100); !errors.Is(err, ErrEndOfInput) {
		t.Fatalf("Skip past end err = %v, want ErrEndOfInput", err)
	}
}

func TestRemaining(t *testing.T) {
	c := New([]byte{1, 2, 3})
	if c.Remaining() != 3 {
		t.Fatalf("Remaining = %d, want 3", c.Remaining())
	}
	c.ReadU8()
	if c.Remaining() != 2 {
		t.Fatalf("Remaining = %d, want 2", c.Remaining())
	}
}
