package ogz

import (
	"fmt"

	"github.com/ernie/ogzdecode/internal/cursor"
)

const lightmapSize = 512 * 512

// skipLightmaps consumes numLightmaps records without interpreting their
// pixel data: each record's type byte signals whether an unlit-coordinate
// pair follows and whether its pixels are 3 or 4 bytes per pixel.
func skipLightmaps(c *cursor.Cursor, numLightmaps uint32) error {
	for i := uint32(0); i < numLightmaps; i++ {
		kindByte, err := c.ReadU8()
		if err != nil {
			return fmt.Errorf("read lightmap %d type: %w", i, err)
		}

		if kindByte&0x80 != 0 {
			if err := c.Skip(4); err != nil { // 2×u16 unlit coordinates
				return fmt.Errorf("skip lightmap %d unlit coords: %w", i, err)
			}
		}

		kind := kindByte & 0x7F
		bpp := 3
		if kind&16 != 0 && kind&15 != 2 {
			bpp = 4
		}

		if err := c.Skip(bpp * lightmapSize); err != nil {
			return fmt.Errorf("skip lightmap %d pixels: %w", i, err)
		}
	}
	return nil
}

// skipPVS consumes numPvs potentially-visible-set records without
// interpreting them, including the optional water-plane height table
// signalled by the high bit of the first record's totalLen.
func skipPVS(c *cursor.Cursor, numPVS uint32) error {
	if numPVS == 0 {
		return nil
	}

	totalLen, err := c.ReadU32LE()
	if err != nil {
		return fmt.Errorf("read PVS total length: %w", err)
	}
	if totalLen&0x80000000 != 0 {
		numWaterPlanes, err := c.ReadU32LE()
		if err != nil {
			return fmt.Errorf("read PVS water plane count: %w", err)
		}
		if err := c.Skip(4 * int(numWaterPlanes)); err != nil {
			return fmt.Errorf("skip PVS water plane heights: %w", err)
		}
	}

	for i := uint32(0); i < numPVS; i++ {
		if _, err := c.ReadU16LE(); err != nil {
			return fmt.Errorf("read PVS cluster %d length: %w", i, err)
		}
	}
	return nil
}
