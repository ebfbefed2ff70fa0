package ogz

import (
	"fmt"

	"github.com/ernie/ogzdecode/internal/cursor"
)

// EntityKind is the closed 32-variant enumeration of map entity kinds.
type EntityKind uint8

const (
	EntityEmpty EntityKind = iota
	EntityLight
	EntityMapModel
	EntityPlayerStart
	EntityEnvMap
	EntityParticles
	EntitySound
	EntitySpotlight
	EntityIHealth
	EntityIAmmo
	EntityRaceStart
	EntityRaceFinish
	EntityRaceCheckpoint
	EntityPH4
	EntityPH5
	EntityPH6
	EntityPH7
	EntityPH8
	EntityPH9
	EntityTeleport
	EntityTeleDest
	EntityPH10
	EntityPH11
	EntityJumpPad
	EntityBase
	EntityPH12
	EntityPH13
	EntityPH14
	EntityPH15
	EntityPH16
	EntityFlag
	EntityMaxEntTypes
)

var entityKindNames = [...]string{
	"Empty", "Light", "MapModel", "PlayerStart", "EnvMap", "Particles",
	"Sound", "Spotlight", "IHealth", "IAmmo", "RaceStart", "RaceFinish",
	"RaceCheckpoint", "PH4", "PH5", "PH6", "PH7", "PH8", "PH9", "Teleport",
	"TeleDest", "PH10", "PH11", "JumpPad", "Base", "PH12", "PH13", "PH14",
	"PH15", "PH16", "Flag", "MaxEntTypes",
}

func (k EntityKind) String() string {
	if int(k) < len(entityKindNames) {
		return entityKindNames[k]
	}
	return fmt.Sprintf("EntityKind(%d)", uint8(k))
}

// Entity is a fixed-size map entity record: position, five attribute
// words, and a closed-enumeration kind.
type Entity struct {
	X, Y, Z                           float32
	Attr1, Attr2, Attr3, Attr4, Attr5 uint16
	Kind                              EntityKind
}

func decodeEntity(c *cursor.Cursor) (Entity, error) {
	var e Entity
	var err error

	if e.X, err = c.ReadF32LE(); err != nil {
		return Entity{}, fmt.Errorf("read entity x: %w", err)
	}
	if e.Y, err = c.ReadF32LE(); err != nil {
		return Entity{}, fmt.Errorf("read entity y: %w", err)
	}
	if e.Z, err = c.ReadF32LE(); err != nil {
		return Entity{}, fmt.Errorf("read entity z: %w", err)
	}

	attrs := []*uint16{&e.Attr1, &e.Attr2, &e.Attr3, &e.Attr4, &e.Attr5}
	for i, a := range attrs {
		v, err := c.ReadU16LE()
		if err != nil {
			return Entity{}, fmt.Errorf("read entity attr%d: %w", i+1, err)
		}
		*a = v
	}

	kindByte, err := c.ReadU8()
	if err != nil {
		return Entity{}, fmt.Errorf("read entity kind: %w", err)
	}
	if kindByte > uint8(EntityMaxEntTypes) {
		return Entity{}, fmt.Errorf("%w: %d", ErrUnknownEntityKind, kindByte)
	}
	e.Kind = EntityKind(kindByte)

	// Trailing reserved byte, consumed and discarded.
	if _, err := c.ReadU8(); err != nil {
		return Entity{}, fmt.Errorf("read entity reserved byte: %w", err)
	}

	return e, nil
}
