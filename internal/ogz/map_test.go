package ogz

import (
	"testing"

	"github.com/ernie/ogzdecode/internal/cursor"
)

func TestDecodeMinimalEmptyMap(t *testing.T) {
	var b bufBuilder
	b.minimalHeader(1024, 0, 0, 0, 0, 0, 0)
	b.gameIdentBlock("fps00")
	b.u16(0) // texture MRU count
	for i := 0; i < 8; i++ {
		b.buf.Write(solidCubeBytes())
	}

	m, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if m.Header.WorldSize != 1024 {
		t.Errorf("WorldSize = %d, want 1024", m.Header.WorldSize)
	}
	if len(m.Vars) != 0 || len(m.Entities) != 0 || len(m.VSlots) != 0 {
		t.Errorf("expected empty vars/entities/vslots, got %d/%d/%d",
			len(m.Vars), len(m.Entities), len(m.VSlots))
	}
	want := [3]uint32{0x80808080, 0x80808080, 0x80808080}
	for i, root := range m.OctreeRoots {
		if root.EdgeFace.Face != want {
			t.Errorf("root %d Face = %v, want %v", i, root.EdgeFace.Face, want)
		}
	}
}

func TestDecodeMapWithOneIntVariable(t *testing.T) {
	var b bufBuilder
	b.minimalHeader(1024, 0, 0, 0, 0, 1, 0)
	// One Int variable "gravity" = 200.
	b.u8(0)
	b.u16(uint16(len("gravity")))
	b.str("gravity")
	b.u32(200)

	b.gameIdentBlock("fps00")
	b.u16(0)
	for i := 0; i < 8; i++ {
		b.buf.Write(solidCubeBytes())
	}

	m, err := Decode(b.bytes())
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(m.Vars) != 1 {
		t.Fatalf("len(Vars) = %d, want 1", len(m.Vars))
	}
	v := m.Vars[0]
	if v.Kind != VariableInt || v.Name != "gravity" || v.IntValue != 200 {
		t.Errorf("Vars[0] = %+v, want Int(200) named gravity", v)
	}
}

func TestDecodeConsumesExactlyTheBuffer(t *testing.T) {
	var b bufBuilder
	b.minimalHeader(1024, 0, 0, 0, 0, 0, 0)
	b.gameIdentBlock("fps00")
	b.u16(0)
	for i := 0; i < 8; i++ {
		b.buf.Write(solidCubeBytes())
	}
	data := b.bytes()

	if _, err := Decode(data); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	// Re-run the same sequence of section decoders directly against a
	// cursor to confirm the final position equals len(data): decoding
	// should consume exactly the bytes present, no more and no less.
	c := cursor.New(data)
	header, err := decodeHeader(c, DefaultMinVersion, DefaultMaxVersion)
	if err != nil {
		t.Fatalf("decodeHeader: %v", err)
	}
	for i := uint32(0); i < header.NumVars; i++ {
		if _, err := decodeVariable(c); err != nil {
			t.Fatalf("decodeVariable: %v", err)
		}
	}
	if _, err := decodeGameIdent(c); err != nil {
		t.Fatalf("decodeGameIdent: %v", err)
	}
	if _, err := decodeTextureMRU(c); err != nil {
		t.Fatalf("decodeTextureMRU: %v", err)
	}
	for i := uint32(0); i < header.NumEnts; i++ {
		if _, err := decodeEntity(c); err != nil {
			t.Fatalf("decodeEntity: %v", err)
		}
	}
	if _, err := decodeVSlots(c, header.NumVSlots); err != nil {
		t.Fatalf("decodeVSlots: %v", err)
	}
	if _, err := decodeChildren(c, [3]int{0, 0, 0}, int(header.WorldSize)>>1); err != nil {
		t.Fatalf("decodeChildren: %v", err)
	}
	if c.Remaining() != 0 {
		t.Errorf("Remaining() = %d, want 0 (exact consumption)", c.Remaining())
	}
}

func TestDecodeVersionRangeRejectsOutsideRange(t *testing.T) {
	var b bufBuilder
	b.minimalHeader(1024, 0, 0, 0, 0, 0, 0) // version 33
	b.gameIdentBlock("fps00")
	b.u16(0)
	for i := 0; i < 8; i++ {
		b.buf.Write(solidCubeBytes())
	}
	data := b.bytes()

	if _, err := DecodeVersionRange(data, 29, 32); err == nil {
		t.Fatal("expected error when version 33 falls outside [29, 32]")
	}
	if _, err := DecodeVersionRange(data, 33, 34); err != nil {
		t.Fatalf("DecodeVersionRange with version in range: %v", err)
	}
}

func TestDecodeTruncatedInputIsError(t *testing.T) {
	var b bufBuilder
	b.minimalHeader(1024, 1, 0, 0, 0, 0, 0) // claims 1 entity but provides none
	b.gameIdentBlock("fps00")
	b.u16(0)

	if _, err := Decode(b.bytes()); err == nil {
		t.Fatal("Decode succeeded on truncated input, want error")
	}
}
