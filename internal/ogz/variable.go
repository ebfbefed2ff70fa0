package ogz

import (
	"fmt"

	"github.com/ernie/ogzdecode/internal/cursor"
)

// VariableKind tags the payload of a Variable.
type VariableKind uint8

const (
	VariableInt VariableKind = iota
	VariableFloat
	VariableString
)

// Variable is a type-tagged game-variable override record.
type Variable struct {
	Name      string
	Kind      VariableKind
	IntValue  uint32
	FloatVal  float32
	StrLen    uint16
	StringVal string
}

func decodeVariable(c *cursor.Cursor) (Variable, error) {
	tag, err := c.ReadU8()
	if err != nil {
		return Variable{}, fmt.Errorf("read variable type: %w", err)
	}

	nameLen, err := c.ReadU16LE()
	if err != nil {
		return Variable{}, fmt.Errorf("read variable name length: %w", err)
	}
	name, err := c.ReadString(int(nameLen))
	if err != nil {
		return Variable{}, fmt.Errorf("read variable name: %w", err)
	}

	v := Variable{Name: name}

	switch tag {
	case 0:
		v.Kind = VariableInt
		val, err := c.ReadU32LE()
		if err != nil {
			return Variable{}, fmt.Errorf("read int variable %q: %w", name, err)
		}
		v.IntValue = val
	case 1:
		v.Kind = VariableFloat
		val, err := c.ReadF32LE()
		if err != nil {
			return Variable{}, fmt.Errorf("read float variable %q: %w", name, err)
		}
		v.FloatVal = val
	case 2:
		v.Kind = VariableString
		strLen, err := c.ReadU16LE()
		if err != nil {
			return Variable{}, fmt.Errorf("read string variable %q length: %w", name, err)
		}
		text, err := c.ReadString(int(strLen))
		if err != nil {
			return Variable{}, fmt.Errorf("read string variable %q: %w", name, err)
		}
		v.StrLen = strLen
		v.StringVal = text
	default:
		return Variable{}, fmt.Errorf("%w: %d (name %q)", ErrUnknownVariableType, tag, name)
	}

	return v, nil
}
