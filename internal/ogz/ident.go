package ogz

import (
	"fmt"

	"github.com/ernie/ogzdecode/internal/cursor"
)

// decodeGameIdent reads the 8-bit-length-prefixed game identifier string,
// its trailing discarded byte, and the 4 reserved bytes that follow it.
// Those 4 bytes are consumed and discarded; their semantics are opaque to
// this decoder, but skipping them is required to keep the cursor aligned
// with whatever section follows.
func decodeGameIdent(c *cursor.Cursor) (string, error) {
	strLen, err := c.ReadU8()
	if err != nil {
		return "", fmt.Errorf("read game ident length: %w", err)
	}
	ident, err := c.ReadString(int(strLen))
	if err != nil {
		return "", fmt.Errorf("read game ident: %w", err)
	}
	if _, err := c.ReadU8(); err != nil {
		return "", fmt.Errorf("read game ident trailing byte: %w", err)
	}
	if err := c.Skip(4); err != nil {
		return "", fmt.Errorf("skip reserved bytes after game ident: %w", err)
	}
	return ident, nil
}

// decodeTextureMRU reads the 16-bit count followed by that many 16-bit
// texture slot indices.
func decodeTextureMRU(c *cursor.Cursor) ([]uint16, error) {
	count, err := c.ReadU16LE()
	if err != nil {
		return nil, fmt.Errorf("read texture MRU count: %w", err)
	}
	mru := make([]uint16, 0, count)
	for i := uint16(0); i < count; i++ {
		idx, err := c.ReadU16LE()
		if err != nil {
			return nil, fmt.Errorf("read texture MRU entry %d: %w", i, err)
		}
		mru = append(mru, idx)
	}
	return mru, nil
}
