package ogz

import (
	"bytes"
	"encoding/binary"
	"math"
)

// bufBuilder is a tiny little-endian byte-buffer builder used only by
// tests to construct synthetic OGZ fixtures.
type bufBuilder struct {
	buf bytes.Buffer
}

func (b *bufBuilder) u8(v uint8) *bufBuilder {
	b.buf.WriteByte(v)
	return b
}

func (b *bufBuilder) u16(v uint16) *bufBuilder {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *bufBuilder) u32(v uint32) *bufBuilder {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	b.buf.Write(tmp[:])
	return b
}

func (b *bufBuilder) i32(v int32) *bufBuilder {
	return b.u32(uint32(v))
}

func (b *bufBuilder) f32(v float32) *bufBuilder {
	return b.u32(math.Float32bits(v))
}

func (b *bufBuilder) str(s string) *bufBuilder {
	b.buf.WriteString(s)
	return b
}

func (b *bufBuilder) bytes() []byte {
	return b.buf.Bytes()
}

// minimalHeader writes a header with the given counts and a default
// version/headerSize/worldSize suitable for tests.
func (b *bufBuilder) minimalHeader(worldSize, numEnts, numPVS, numLightmaps, blendMap, numVars, numVSlots uint32) *bufBuilder {
	b.str(headerMagic)
	b.u32(33) // version
	b.u32(36) // headerSize
	b.u32(worldSize)
	b.u32(numEnts)
	b.u32(numPVS)
	b.u32(numLightmaps)
	b.u32(blendMap)
	b.u32(numVars)
	b.u32(numVSlots)
	return b
}

// gameIdentBlock writes an 8-bit-length-prefixed ident, its trailing
// byte, and the 4 reserved bytes.
func (b *bufBuilder) gameIdentBlock(ident string) *bufBuilder {
	b.u8(uint8(len(ident)))
	b.str(ident)
	b.u8(0) // trailing byte
	b.u32(0) // 4 reserved bytes
	return b
}

// solidCubeBytes returns the bytes for one Solid leaf cube (octsav=2,
// no material/merged/surface flags, 6 zeroed texture slots).
func solidCubeBytes() []byte {
	var b bufBuilder
	b.u8(2)
	for i := 0; i < 6; i++ {
		b.u16(0)
	}
	return b.bytes()
}
