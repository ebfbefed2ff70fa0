package ogz

import (
	"fmt"
	"log"

	"github.com/ernie/ogzdecode/internal/cursor"
)

// EdgeShape tags which geometry encoding a leaf Cube carries.
type EdgeShape uint8

const (
	ShapeFace EdgeShape = iota
	ShapeEdge
)

// EdgeFace is the mutually-exclusive edge/face geometry encoding of a
// leaf cube: 12 per-edge nibble-pair bytes, or 3 packed per-dimension
// face words.
type EdgeFace struct {
	Shape EdgeShape
	Edge  [12]byte
	Face  [3]uint32
}

// EscapedVisible mirrors the original format's escaped/visible union.
// Nothing in the decoded byte layout (this version range) ever sets it
// away from its default; it is carried for data-model completeness.
type EscapedVisible struct {
	Escaped bool
	Value   uint8
}

// Cube is one octree node: either an interior node with 8 non-nil
// children, or a leaf carrying geometry/texture/surface data. LODCube is
// the one case with both a leaf body and children.
type Cube struct {
	Children       *[8]Cube
	EdgeFace       EdgeFace
	Textures       [6]uint16
	Material       uint16
	Merged         uint8
	EscapedVisible EscapedVisible
	Surfaces       [6]*SurfaceLayer
}

const (
	octSavChildren = 0
	octSavEmpty    = 1
	octSavSolid    = 2
	octSavNormal   = 3
	octSavLODCube  = 4
)

// decodeChildren decodes 8 children of a parent region, in −Z−Y−X ..
// +Z+Y+X order (index bits, X fastest, Z slowest).
func decodeChildren(c *cursor.Cursor, origin [3]int, size int) ([8]Cube, error) {
	var children [8]Cube
	for i := 0; i < 8; i++ {
		childOrig := childOrigin(origin, i, size)
		cube, err := decodeCube(c, childOrig, size)
		if err != nil {
			return children, fmt.Errorf("decode child %d: %w", i, err)
		}
		children[i] = cube
	}
	return children, nil
}

// decodeCube decodes one cube at the given origin/size. InvalidCubeKind
// is a soft failure: it is logged and the partially-decoded cube is
// returned with its children left nil, rather than aborting the whole
// decode.
func decodeCube(c *cursor.Cursor, origin [3]int, size int) (Cube, error) {
	var cube Cube

	octSave, err := c.ReadU8()
	if err != nil {
		return cube, fmt.Errorf("read octsav byte: %w", err)
	}

	hasChildren := false
	switch octSave & 0x7 {
	case octSavChildren:
		children, err := decodeChildren(c, origin, size>>1)
		if err != nil {
			return cube, err
		}
		cube.Children = &children
		cube.EscapedVisible = EscapedVisible{Value: 0}
		return cube, nil
	case octSavEmpty:
		cube.EdgeFace = EdgeFace{Shape: ShapeFace, Face: [3]uint32{0x00000000, 0x00000000, 0x00000000}}
	case octSavSolid:
		cube.EdgeFace = EdgeFace{Shape: ShapeFace, Face: [3]uint32{0x80808080, 0x80808080, 0x80808080}}
	case octSavNormal:
		edge, err := c.ReadBytes(12)
		if err != nil {
			return cube, fmt.Errorf("read normal cube edges: %w", err)
		}
		var fixed [12]byte
		copy(fixed[:], edge)
		cube.EdgeFace = EdgeFace{Shape: ShapeEdge, Edge: fixed}
	case octSavLODCube:
		hasChildren = true
	default:
		log.Printf("ogz: %v (octsav=%#x), soft-failing subtree", ErrInvalidCubeKind, octSave)
		return cube, nil
	}

	for i := 0; i < 6; i++ {
		tex, err := c.ReadU16LE()
		if err != nil {
			return cube, fmt.Errorf("read texture %d: %w", i, err)
		}
		cube.Textures[i] = tex
	}

	if octSave&0x40 != 0 {
		mat, err := c.ReadU16LE()
		if err != nil {
			return cube, fmt.Errorf("read material: %w", err)
		}
		cube.Material = mat
	}

	if octSave&0x80 != 0 {
		merged, err := c.ReadU8()
		if err != nil {
			return cube, fmt.Errorf("read merged mask: %w", err)
		}
		cube.Merged = merged
	}

	if octSave&0x20 != 0 {
		faces, err := decodeSurfaceBlock(c)
		if err != nil {
			return cube, err
		}
		cube.Surfaces = faces
	}

	if hasChildren {
		children, err := decodeChildren(c, origin, size>>1)
		if err != nil {
			return cube, err
		}
		cube.Children = &children
	}

	cube.EscapedVisible = EscapedVisible{Value: 0}
	return cube, nil
}

// childOrigin computes the origin of child index i within a parent whose
// origin is `origin` and whose child size is `size`: the three low bits
// of i select (x,y,z) signs, Z varying slowest, X fastest.
func childOrigin(origin [3]int, i, size int) [3]int {
	out := origin
	if i&1 != 0 {
		out[0] += size
	}
	if i&2 != 0 {
		out[1] += size
	}
	if i&4 != 0 {
		out[2] += size
	}
	return out
}
