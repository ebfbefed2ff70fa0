package ogz

import (
	"fmt"

	"github.com/ernie/ogzdecode/internal/cursor"
)

// SurfaceLayer summarizes one face's surface/vertex data. Decoding a
// surface block must advance the cursor by exactly the right number of
// bytes regardless of what's kept; only a lightweight summary is
// retained here, not the raw vertex payload itself.
type SurfaceLayer struct {
	LMID0, LMID1 uint8
	NumVerts     uint8
	LayerVerts   uint8
	HasXYZ       bool
	HasUV        bool
	HasNorm      bool
	Dup          bool
}

// decodeSurfaceBlock reads the surface mask, total vert count, and each
// flagged face's surface/vertex section, returning per-face summaries
// (nil where the face's surfaceMask bit was unset).
func decodeSurfaceBlock(c *cursor.Cursor) ([6]*SurfaceLayer, error) {
	var faces [6]*SurfaceLayer

	surfaceMask, err := c.ReadU8()
	if err != nil {
		return faces, fmt.Errorf("%w: read surface mask: %v", ErrTruncatedSurface, err)
	}
	if _, err := c.ReadU8(); err != nil { // totalVerts, already unsigned (clamp is a no-op)
		return faces, fmt.Errorf("%w: read total verts: %v", ErrTruncatedSurface, err)
	}

	for i := 0; i < 6; i++ {
		if surfaceMask&(1<<uint(i)) == 0 {
			continue
		}

		layer, err := decodeOneSurface(c)
		if err != nil {
			return faces, fmt.Errorf("%w: face %d: %v", ErrTruncatedSurface, i, err)
		}
		faces[i] = layer
	}

	return faces, nil
}

func decodeOneSurface(c *cursor.Cursor) (*SurfaceLayer, error) {
	lmid0, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	lmid1, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	vertMask, err := c.ReadU8()
	if err != nil {
		return nil, err
	}
	surfNumVerts, err := c.ReadU8()
	if err != nil {
		return nil, err
	}

	dup := surfNumVerts&(1<<7) != 0
	var numVerts uint8
	if dup {
		numVerts = (surfNumVerts & 15) * 2
	} else {
		numVerts = surfNumVerts & 15
	}

	layer := &SurfaceLayer{LMID0: lmid0, LMID1: lmid1, NumVerts: numVerts, Dup: dup}

	if numVerts == 0 {
		return layer, nil
	}

	layerVerts := surfNumVerts & 15
	layer.LayerVerts = layerVerts

	hasXYZ := vertMask&0x04 != 0
	hasUV := vertMask&0x40 != 0
	hasNorm := vertMask&0x80 != 0
	layer.HasXYZ, layer.HasUV, layer.HasNorm = hasXYZ, hasUV, hasNorm

	if layerVerts == 4 {
		if hasXYZ && vertMask&0x01 != 0 {
			if err := skipU16s(c, 4); err != nil {
				return nil, err
			}
			hasXYZ = false
		}
		if hasUV && vertMask&0x02 != 0 {
			if err := skipU16s(c, 4); err != nil {
				return nil, err
			}
			if dup {
				if err := skipU16s(c, 4); err != nil {
					return nil, err
				}
			}
			hasUV = false
		}
	}

	if hasNorm && vertMask&0x08 != 0 {
		if err := skipU16s(c, 1); err != nil {
			return nil, err
		}
		hasNorm = false
	}

	if hasXYZ || hasUV || hasNorm {
		for k := uint8(0); k < layerVerts; k++ {
			if hasXYZ {
				if err := skipU16s(c, 2); err != nil {
					return nil, err
				}
			}
			if hasUV {
				if err := skipU16s(c, 2); err != nil {
					return nil, err
				}
			}
			if hasNorm {
				if err := skipU16s(c, 1); err != nil {
					return nil, err
				}
			}
		}
	}

	if dup {
		if err := c.Skip(int(layerVerts) * 2); err != nil {
			return nil, err
		}
	}

	return layer, nil
}

func skipU16s(c *cursor.Cursor, n int) error {
	return c.Skip(2 * n)
}
