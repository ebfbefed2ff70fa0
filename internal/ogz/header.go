package ogz

import (
	"fmt"

	"github.com/ernie/ogzdecode/internal/cursor"
)

const headerMagic = "OCTA"

// Header is the fixed-size map header at the start of an OGZ stream.
type Header struct {
	Version      uint32
	HeaderSize   uint32
	WorldSize    uint32
	NumEnts      uint32
	NumPVS       uint32
	NumLightmaps uint32
	BlendMap     uint32
	NumVars      uint32
	NumVSlots    uint32
}

func decodeHeader(c *cursor.Cursor, minVersion, maxVersion uint32) (Header, error) {
	magic, err := c.ReadString(4)
	if err != nil {
		return Header{}, fmt.Errorf("read magic: %w", err)
	}
	if magic != headerMagic {
		return Header{}, fmt.Errorf("%w: got %q", ErrBadMagic, magic)
	}

	var h Header
	fields := []*uint32{
		&h.Version, &h.HeaderSize, &h.WorldSize, &h.NumEnts, &h.NumPVS,
		&h.NumLightmaps, &h.BlendMap, &h.NumVars, &h.NumVSlots,
	}
	for _, f := range fields {
		v, err := c.ReadU32LE()
		if err != nil {
			return Header{}, fmt.Errorf("read header field: %w", err)
		}
		*f = v
	}

	if h.Version < minVersion || h.Version > maxVersion {
		return Header{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	return h, nil
}
