package ogz

import "errors"

// Decode error taxonomy, per the OGZ wire format contract.
var (
	ErrBadMagic            = errors.New("ogz: bad magic, expected \"OCTA\"")
	ErrUnsupportedVersion  = errors.New("ogz: unsupported map version")
	ErrUnknownVariableType = errors.New("ogz: unknown variable type")
	ErrUnknownEntityKind   = errors.New("ogz: unknown entity kind")
	ErrInvalidCubeKind     = errors.New("ogz: invalid octree cube kind")
	ErrTruncatedSurface    = errors.New("ogz: surface block truncated")
)

// DefaultMinVersion and DefaultMaxVersion bound the map versions this
// decoder understands by default. Versions in this range use the
// 10-field header and the 0x20-gated surface-block cube layout; callers
// that need a different range (e.g. a config-driven override) can call
// DecodeVersionRange directly instead of Decode.
const (
	DefaultMinVersion = 29
	DefaultMaxVersion = 34
)
