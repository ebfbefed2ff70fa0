package ogz

import (
	"fmt"

	"github.com/ernie/ogzdecode/internal/cursor"
)

// Changed-mask bit positions for VSlot sections.
const (
	vslotShParam  = 1 << 0
	vslotScale    = 1 << 1
	vslotRotation = 1 << 2
	vslotOffset   = 1 << 3
	vslotScroll   = 1 << 4
	vslotLayer    = 1 << 5
	vslotAlpha    = 1 << 6
	vslotColor    = 1 << 7
)

// ShaderParam is one named float4 shader parameter override.
type ShaderParam struct {
	Name string
	Loc  int32
	Vals [4]float32
}

// VSlot is a "virtual slot": a texturing configuration layered as a delta
// over a base texture slot.
type VSlot struct {
	Index      int
	Changed    int32
	Params     []ShaderParam
	Scale      float32
	Rotation   int32
	OffsetX    int32
	OffsetY    int32
	ScrollX    float32
	ScrollY    float32
	Layer      int32
	AlphaFront float32
	AlphaBack  float32
	ColorR     float32
	ColorG     float32
	ColorB     float32

	// Next is a non-owning index edge into the same slice this VSlot
	// lives in, filled by the post-pass in decodeVSlots. Absent is
	// represented as -1; it is never a pointer that implies lifetime.
	Next int32
}

// nameInterner keeps shader param names unique for the lifetime of a
// decode, so identical parameter names across vslots share one string.
type nameInterner struct {
	names map[string]string
}

func newNameInterner() *nameInterner {
	return &nameInterner{names: make(map[string]string)}
}

func (n *nameInterner) intern(s string) string {
	if existing, ok := n.names[s]; ok {
		return existing
	}
	n.names[s] = s
	return s
}

// decodeVSlots reads `total` vslots worth of delta records: runs of
// default vslots (negative `changed`) interspersed with real vslot
// bodies conditioned on a changed-mask, followed by a next-link
// post-pass over the prev[] side table.
func decodeVSlots(c *cursor.Cursor, total uint32) ([]VSlot, error) {
	vslots := make([]VSlot, 0, total)
	prev := make([]int32, 0, total)
	interner := newNameInterner()

	remaining := int64(total)
	for remaining > 0 {
		changed, err := c.ReadI32LE()
		if err != nil {
			return nil, fmt.Errorf("read vslot changed mask: %w", err)
		}

		if changed < 0 {
			run := int64(-changed)
			for i := int64(0); i < run; i++ {
				vslots = append(vslots, VSlot{Index: len(vslots), Next: -1})
				prev = append(prev, -1)
			}
			remaining += int64(changed) // changed is negative: shrinks remaining
			continue
		}

		prevIndex, err := c.ReadI32LE()
		if err != nil {
			return nil, fmt.Errorf("read vslot prev index: %w", err)
		}

		slot, err := decodeVSlotBody(c, interner, changed)
		if err != nil {
			return nil, fmt.Errorf("decode vslot body: %w", err)
		}
		slot.Index = len(vslots)
		slot.Changed = changed
		slot.Next = -1

		vslots = append(vslots, slot)
		prev = append(prev, prevIndex)
		remaining--
	}

	for i, p := range prev {
		if p >= 0 && int(p) < len(vslots) {
			vslots[i].Next = p
		}
	}

	return vslots, nil
}

func decodeVSlotBody(c *cursor.Cursor, interner *nameInterner, changed int32) (VSlot, error) {
	var slot VSlot

	if changed&vslotShParam != 0 {
		numParams, err := c.ReadU16LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read shader param count: %w", err)
		}
		slot.Params = make([]ShaderParam, 0, numParams)
		for i := uint16(0); i < numParams; i++ {
			nameLen, err := c.ReadU16LE()
			if err != nil {
				return VSlot{}, fmt.Errorf("read shader param %d name length: %w", i, err)
			}
			name, err := c.ReadString(int(nameLen))
			if err != nil {
				return VSlot{}, fmt.Errorf("read shader param %d name: %w", i, err)
			}
			param := ShaderParam{Name: interner.intern(name), Loc: -1}
			for j := 0; j < 4; j++ {
				v, err := c.ReadF32LE()
				if err != nil {
					return VSlot{}, fmt.Errorf("read shader param %d value %d: %w", i, j, err)
				}
				param.Vals[j] = v
			}
			slot.Params = append(slot.Params, param)
		}
	}

	if changed&vslotScale != 0 {
		v, err := c.ReadF32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read scale: %w", err)
		}
		slot.Scale = v
	}

	if changed&vslotRotation != 0 {
		v, err := c.ReadI32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read rotation: %w", err)
		}
		slot.Rotation = clampRotation(v)
	}

	if changed&vslotOffset != 0 {
		x, err := c.ReadI32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read offset x: %w", err)
		}
		y, err := c.ReadI32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read offset y: %w", err)
		}
		slot.OffsetX, slot.OffsetY = x, y
	}

	if changed&vslotScroll != 0 {
		x, err := c.ReadF32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read scroll x: %w", err)
		}
		y, err := c.ReadF32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read scroll y: %w", err)
		}
		slot.ScrollX, slot.ScrollY = x, y
	}

	if changed&vslotLayer != 0 {
		v, err := c.ReadI32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read layer: %w", err)
		}
		slot.Layer = v
	}

	if changed&vslotAlpha != 0 {
		front, err := c.ReadF32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read alpha front: %w", err)
		}
		back, err := c.ReadF32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read alpha back: %w", err)
		}
		slot.AlphaFront, slot.AlphaBack = front, back
	}

	if changed&vslotColor != 0 {
		r, err := c.ReadF32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read color r: %w", err)
		}
		g, err := c.ReadF32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read color g: %w", err)
		}
		b, err := c.ReadF32LE()
		if err != nil {
			return VSlot{}, fmt.Errorf("read color b: %w", err)
		}
		slot.ColorR, slot.ColorG, slot.ColorB = r, g, b
	}

	return slot, nil
}

func clampRotation(r int32) int32 {
	if r < 0 {
		return 0
	}
	if r > 7 {
		return 7
	}
	return r
}
