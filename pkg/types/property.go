package types

import (
	"fmt"
	"time"
)

// Property value types determine what values a property slot accepts.
const (
	ValueTypeText      = "text"
	ValueTypeInteger   = "integer"
	ValueTypeTimestamp = "timestamp"
	ValueTypeBinary    = "binary"
	ValueTypeList      = "list"
)

// validValueTypes is the set of recognized property value types.
var validValueTypes = map[string]bool{
	ValueTypeText:      true,
	ValueTypeInteger:   true,
	ValueTypeTimestamp: true,
	ValueTypeBinary:    true,
	ValueTypeList:      true,
}

// Property tag namespaces.
const (
	// NamespaceMAPI holds the fixed property ids below 0x8000.
	NamespaceMAPI = "MAPI"
	// NamespaceAddress holds the named contact properties (PSETID_Address).
	NamespaceAddress = "PSETID_Address"
)

var validNamespaces = map[string]bool{
	NamespaceMAPI:    true,
	NamespaceAddress: true,
}

// PropTag addresses one typed slot on an Item.
type PropTag struct {
	Namespace string // One of the Namespace constants.
	ID        uint16 // Property id within the namespace.
	ValueType string // One of the ValueType constants.
}

// Key identifies the slot regardless of its declared type. Two tags with the
// same namespace and id address the same slot.
type Key struct {
	Namespace string
	ID        uint16
}

// Key returns the slot key for the tag.
func (t PropTag) Key() Key {
	return Key{Namespace: t.Namespace, ID: t.ID}
}

// String renders the tag as "<type>:<namespace>:0x<id>".
func (t PropTag) String() string {
	return fmt.Sprintf("%s:%s:0x%04X", t.ValueType, t.Namespace, t.ID)
}

// Validate checks that the tag has a known namespace and value type. Named
// properties must live in the 0x8000 range and fixed ones below it.
func (t PropTag) Validate() error {
	if !validNamespaces[t.Namespace] {
		return fmt.Errorf("%w: namespace %q", ErrInvalidTag, t.Namespace)
	}
	if !validValueTypes[t.ValueType] {
		return fmt.Errorf("%w: %s", ErrInvalidValueType, t)
	}
	named := t.ID >= 0x8000
	if named != (t.Namespace != NamespaceMAPI) {
		return fmt.Errorf("%w: id 0x%04X out of range for %s", ErrInvalidTag, t.ID, t.Namespace)
	}
	return nil
}

// Tag builds a PropTag and panics if it is invalid. Tags are declared once at
// package initialization, so a bad declaration fails at startup.
func Tag(namespace string, id uint16, valueType string) PropTag {
	t := PropTag{Namespace: namespace, ID: id, ValueType: valueType}
	if err := t.Validate(); err != nil {
		panic(err)
	}
	return t
}

// IsValidValueType reports whether the given string is a recognized value type.
func IsValidValueType(vt string) bool {
	return validValueTypes[vt]
}

// CheckValue reports whether v is an acceptable Go value for the tag's
// declared type. Text is string, integer is int64, timestamp is time.Time,
// binary is []byte, and list is []string. A nil value is always accepted and
// means "remove the property".
func CheckValue(tag PropTag, v any) error {
	if v == nil {
		return nil
	}
	ok := false
	switch tag.ValueType {
	case ValueTypeText:
		_, ok = v.(string)
	case ValueTypeInteger:
		_, ok = v.(int64)
	case ValueTypeTimestamp:
		_, ok = v.(time.Time)
	case ValueTypeBinary:
		_, ok = v.([]byte)
	case ValueTypeList:
		_, ok = v.([]string)
	default:
		return ErrInvalidValueType
	}
	if !ok {
		return fmt.Errorf("%w: %T for %s", ErrTypeMismatch, v, tag)
	}
	return nil
}
