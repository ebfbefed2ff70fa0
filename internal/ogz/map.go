// Package ogz decodes the OGZ octree map format used by Cube 2 /
// Sauerbraten-derived games: a gzip-decompressed byte slice in, a fully
// structured Map out.
package ogz

import (
	"fmt"
	"log"

	"github.com/ernie/ogzdecode/internal/cursor"
)

// Map is the root decoded output: header, variable overrides, game
// identifier, texture MRU list, entities, vslots, and the 8 octree
// roots.
type Map struct {
	Header      Header
	Vars        []Variable
	GameIdent   string
	TextureMRU  []uint16
	Entities    []Entity
	VSlots      []VSlot
	OctreeRoots [8]Cube
}

// Decode parses a decompressed OGZ byte slice into a Map, accepting map
// versions in [DefaultMinVersion, DefaultMaxVersion]. The caller is
// responsible for gzip decompression; this function never reads a
// compressed stream. Errors outside the octree walk abort the whole
// decode with no partial Map; an InvalidCubeKind inside the octree is a
// soft failure that only truncates the affected subtree.
func Decode(data []byte) (*Map, error) {
	return DecodeVersionRange(data, DefaultMinVersion, DefaultMaxVersion)
}

// DecodeVersionRange behaves like Decode but accepts the map version
// range to treat as supported, for callers that load a narrower or
// wider range from their own configuration.
func DecodeVersionRange(data []byte, minVersion, maxVersion uint32) (*Map, error) {
	c := cursor.New(data)

	header, err := decodeHeader(c, minVersion, maxVersion)
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}

	vars := make([]Variable, 0, header.NumVars)
	for i := uint32(0); i < header.NumVars; i++ {
		v, err := decodeVariable(c)
		if err != nil {
			return nil, fmt.Errorf("decode variable %d: %w", i, err)
		}
		vars = append(vars, v)
	}

	gameIdent, err := decodeGameIdent(c)
	if err != nil {
		return nil, fmt.Errorf("decode game identifier: %w", err)
	}

	mru, err := decodeTextureMRU(c)
	if err != nil {
		return nil, fmt.Errorf("decode texture MRU: %w", err)
	}

	entities := make([]Entity, 0, header.NumEnts)
	for i := uint32(0); i < header.NumEnts; i++ {
		e, err := decodeEntity(c)
		if err != nil {
			return nil, fmt.Errorf("decode entity %d: %w", i, err)
		}
		entities = append(entities, e)
	}

	vslots, err := decodeVSlots(c, header.NumVSlots)
	if err != nil {
		return nil, fmt.Errorf("decode vslots: %w", err)
	}

	rootSize := int(header.WorldSize) >> 1
	roots, err := decodeChildren(c, [3]int{0, 0, 0}, rootSize)
	if err != nil {
		return nil, fmt.Errorf("decode octree: %w", err)
	}

	if err := skipLightmaps(c, header.NumLightmaps); err != nil {
		return nil, fmt.Errorf("skip lightmaps: %w", err)
	}

	if err := skipPVS(c, header.NumPVS); err != nil {
		return nil, fmt.Errorf("skip PVS: %w", err)
	}

	if header.BlendMap != 0 {
		// The blendmap trailer's byte layout isn't interpreted here: it is
		// the last section in the stream and nothing downstream depends on
		// consuming it, so it's left unread rather than guessed at.
		log.Printf("ogz: map declares a blendmap (flag=%d); not read", header.BlendMap)
	}

	return &Map{
		Header:      header,
		Vars:        vars,
		GameIdent:   gameIdent,
		TextureMRU:  mru,
		Entities:    entities,
		VSlots:      vslots,
		OctreeRoots: roots,
	}, nil
}
